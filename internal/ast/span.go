// Package ast defines the Paperclip abstract syntax tree: documents, tokens,
// design tokens, styles, components and the render-tree element variants
// described in spec.md §3.
package ast

// Span is a byte range within a single source document, tagged with a
// deterministic per-document node id (spec.md §3.1).
//
// Two distinct nodes in the same Document never share an ID; reparsing the
// same source with the same logical path reproduces the same IDs in the
// same order, since the ID generator (internal/idgen) is seeded from a
// CRC32 hash of the path and handed out sequentially during the parse walk.
type Span struct {
	Start int
	End   int
	ID    string
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Zero reports whether the span was never assigned a real range.
func (s Span) Zero() bool { return s.Start == 0 && s.End == 0 && s.ID == "" }
