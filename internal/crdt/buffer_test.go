package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertDeleteEditRange(t *testing.T) {
	b := NewBuffer("hello world")
	b.Insert(5, ",")
	assert.Equal(t, "hello, world", b.String())

	b.Delete(0, 6)
	assert.Equal(t, " world", b.String())

	b.EditRange(1, 6, "earth")
	assert.Equal(t, " earth", b.String())
}

func TestStickyIndexSurvivesConcurrentInsertBefore(t *testing.T) {
	b := NewBuffer("abcdef")
	sticky := b.EncodeSticky(3, After) // attached just before 'd'

	b.Insert(0, "XXX")
	pos, ok := b.ResolveSticky(sticky)
	assert.True(t, ok)
	assert.Equal(t, 6, pos)
	assert.Equal(t, byte('d'), b.String()[pos])
}

func TestStickyIndexBeforeAssocDoesNotMoveOnInsertAtSamePoint(t *testing.T) {
	b := NewBuffer("abcdef")
	sticky := b.EncodeSticky(3, Before)

	b.Insert(3, "XYZ")
	pos, ok := b.ResolveSticky(sticky)
	assert.True(t, ok)
	assert.Equal(t, 3, pos)
}

func TestStickyIndexAfterAssocMovesOnInsertAtSamePoint(t *testing.T) {
	b := NewBuffer("abcdef")
	sticky := b.EncodeSticky(3, After)

	b.Insert(3, "XYZ")
	pos, ok := b.ResolveSticky(sticky)
	assert.True(t, ok)
	assert.Equal(t, 6, pos)
}

func TestStickyIndexClampsWhenAttachedRegionDeleted(t *testing.T) {
	b := NewBuffer("abcdefgh")
	sticky := b.EncodeSticky(4, After)

	b.Delete(2, 4) // removes "cdef"
	pos, ok := b.ResolveSticky(sticky)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, pos, 0)
	assert.LessOrEqual(t, pos, b.Len())
}
