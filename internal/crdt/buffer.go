// Package crdt implements the source-of-truth text buffer from spec.md
// §3.9/§6.7: a single sequence of Unicode code units supporting insert,
// delete, edit_range, and sticky indices that survive intervening edits.
//
// No example repo in the corpus ships a text CRDT or an operational-
// transform buffer (see DESIGN.md), so this is grounded on the contract in
// spec.md §6.7 directly rather than on teacher code: an append-only log of
// (start, oldLen, newLen) edits lets a sticky index encoded at version N
// resolve against the current buffer by replaying every edit since N and
// transforming its offset through each one. This is a single-writer
// simplification of a full CRDT (no concurrent-replica merge), adequate
// for the one-document-at-a-time mutation engine in internal/mutation.
package crdt

import "unicode/utf8"

// Assoc is the attachment side of a sticky index (spec.md §3.9): Before
// sticks to the character preceding the offset, After to the one
// following it.
type Assoc int

const (
	Before Assoc = iota
	After
)

// edit records one replacement of buf[start:start+oldLen] with newLen
// runes of new content.
type edit struct {
	start, oldLen, newLen int
}

// Buffer is the mutable source-of-truth text (spec.md §3.9).
type Buffer struct {
	runes []rune
	log   []edit
}

// NewBuffer creates a Buffer seeded with text.
func NewBuffer(text string) *Buffer {
	return &Buffer{runes: []rune(text)}
}

// String returns the buffer's current contents.
func (b *Buffer) String() string { return string(b.runes) }

// Len returns the current length in runes.
func (b *Buffer) Len() int { return len(b.runes) }

// Version returns the number of edits applied so far; sticky indices
// encode the version at which they were captured.
func (b *Buffer) Version() int { return len(b.log) }

func (b *Buffer) apply(start, oldLen int, replacement string) {
	newRunes := []rune(replacement)
	tail := make([]rune, len(b.runes)-start-oldLen)
	copy(tail, b.runes[start+oldLen:])

	out := make([]rune, 0, start+len(newRunes)+len(tail))
	out = append(out, b.runes[:start]...)
	out = append(out, newRunes...)
	out = append(out, tail...)
	b.runes = out

	b.log = append(b.log, edit{start: start, oldLen: oldLen, newLen: len(newRunes)})
}

// Insert inserts text at pos (spec.md §3.9).
func (b *Buffer) Insert(pos int, text string) {
	b.apply(pos, 0, text)
}

// Delete removes length runes starting at pos (spec.md §3.9).
func (b *Buffer) Delete(pos, length int) {
	b.apply(pos, length, "")
}

// EditRange replaces buf[start:end] with replacement (spec.md §3.9).
func (b *Buffer) EditRange(start, end int, replacement string) {
	b.apply(start, end-start, replacement)
}

// StickyIndex is an opaque encoded position (spec.md §3.9, §6.7): the
// version at which it was captured, the raw offset at that version, and
// its attachment side.
type StickyIndex struct {
	version int
	offset  int
	assoc   Assoc
}

// EncodeSticky captures a sticky index at the buffer's current version
// (spec.md §6.7 encode_sticky).
func (b *Buffer) EncodeSticky(position int, assoc Assoc) StickyIndex {
	return StickyIndex{version: b.Version(), offset: position, assoc: assoc}
}

// ResolveSticky resolves s against the buffer's current state by
// transforming its offset through every edit recorded since s.version
// (spec.md §6.7 resolve_sticky). Returns false if the buffer predates s's
// version (cannot happen for a single append-only log, kept for interface
// parity with a possible future multi-replica resolve).
func (b *Buffer) ResolveSticky(s StickyIndex) (int, bool) {
	if s.version > len(b.log) {
		return 0, false
	}
	pos := s.offset
	for _, e := range b.log[s.version:] {
		pos = transformPos(pos, e, s.assoc)
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(b.runes) {
		pos = len(b.runes)
	}
	return pos, true
}

// transformPos moves pos across one edit according to assoc.
func transformPos(pos int, e edit, assoc Assoc) int {
	end := e.start + e.oldLen
	delta := e.newLen - e.oldLen

	switch {
	case pos < e.start:
		return pos
	case pos > end:
		return pos + delta
	case pos == e.start && e.oldLen == 0 && assoc == Before:
		// Pure insertion exactly at this Before-attached index: the
		// index stays put, to the left of the new text.
		return pos
	case pos == e.start:
		// After-attached at the edit's start, or inside/at the edited
		// range: follow the replacement.
		if assoc == After {
			return e.start + e.newLen
		}
		return e.start
	default:
		// Strictly inside the replaced span: clamp to the boundary
		// matching this index's attachment side.
		if assoc == Before {
			return e.start
		}
		return e.start + e.newLen
	}
}

// RuneOffsetToByteOffset converts a rune offset into a UTF-8 byte offset
// within the buffer's current contents (callers outside this package deal
// in byte spans, per internal/ast.Span).
func (b *Buffer) RuneOffsetToByteOffset(runeOffset int) int {
	if runeOffset <= 0 {
		return 0
	}
	if runeOffset >= len(b.runes) {
		return len(string(b.runes))
	}
	n := 0
	for i := 0; i < runeOffset; i++ {
		n += utf8.RuneLen(b.runes[i])
	}
	return n
}
