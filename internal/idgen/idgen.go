// Package idgen produces deterministic, per-document node identifiers
// (spec.md §3.1). The generator is seeded from a CRC32 hash of the
// document's canonical logical path so that reparsing the same source
// under the same path yields the same ids in the same order, while two
// different files never collide on id prefix.
package idgen

import (
	"hash/crc32"
	"strconv"
)

// Generator hands out sequential node ids of the form "{seed}-{n}", where
// seed is the lowercase hex CRC32 of the document path.
type Generator struct {
	seed string
	next int
}

// New creates a Generator for the given canonical document path.
func New(path string) *Generator {
	sum := crc32.ChecksumIEEE([]byte(path))
	return &Generator{seed: strconv.FormatUint(uint64(sum), 16)}
}

// Seed returns the hex CRC32 seed used by this generator (also the
// document id referenced elsewhere as doc_id, spec.md §6.2).
func (g *Generator) Seed() string { return g.seed }

// Next returns the next id in sequence, starting at "{seed}-0".
func (g *Generator) Next() string {
	id := g.seed + "-" + strconv.Itoa(g.next)
	g.next++
	return id
}

// Count reports how many ids have been handed out so far.
func (g *Generator) Count() int { return g.next }
