// Package semantic implements SemanticID, the stable refactor-surviving
// address for a VNode (spec.md §3.7, §4.7). It is grounded directly on
// original_source/packages/evaluator/src/semantic_identity.rs, translated
// into an immutable value type plus a canonical Display-style formatter.
package semantic

import "strings"

// SlotVariant distinguishes a slot's default content from content
// supplied by the component's caller (spec.md §3.7).
type SlotVariant int

const (
	SlotDefault SlotVariant = iota
	SlotInserted
)

func (v SlotVariant) String() string {
	if v == SlotInserted {
		return "inserted"
	}
	return "default"
}

// Branch distinguishes a Conditional's two arms.
type Branch int

const (
	BranchThen Branch = iota
	BranchElse
)

func (b Branch) String() string {
	if b == BranchElse {
		return "else"
	}
	return "then"
}

// SegmentKind discriminates the Segment variants (spec.md §3.7).
type SegmentKind int

const (
	SegComponent SegmentKind = iota
	SegSlot
	SegElement
	SegRepeatItem
	SegConditionalBranch
)

// Segment is one link in a SemanticID's path (spec.md §3.7).
type Segment struct {
	Kind SegmentKind

	// Component
	Name string
	Key  *string

	// Slot
	SlotName string
	Variant  SlotVariant

	// Element
	Tag    string
	Role   *string
	AstID  string

	// RepeatItem
	RepeatID string
	ItemKey  string

	// ConditionalBranch
	ConditionID string
	Branch      Branch
}

// ComponentSegment builds a Component segment.
func ComponentSegment(name string, key *string) Segment {
	return Segment{Kind: SegComponent, Name: name, Key: key}
}

// SlotSegment builds a Slot segment.
func SlotSegment(name string, variant SlotVariant) Segment {
	return Segment{Kind: SegSlot, SlotName: name, Variant: variant}
}

// ElementSegment builds an Element segment.
func ElementSegment(tag string, role *string, astID string) Segment {
	return Segment{Kind: SegElement, Tag: tag, Role: role, AstID: astID}
}

// RepeatItemSegment builds a RepeatItem segment.
func RepeatItemSegment(repeatID, key string) Segment {
	return Segment{Kind: SegRepeatItem, RepeatID: repeatID, ItemKey: key}
}

// ConditionalBranchSegment builds a ConditionalBranch segment.
func ConditionalBranchSegment(conditionID string, branch Branch) Segment {
	return Segment{Kind: SegConditionalBranch, ConditionID: conditionID, Branch: branch}
}

// String renders one segment in the canonical selector grammar (spec.md
// §3.7): `Component{"key"}`, `Slot[variant]`, `Element.role[ast-id]` or
// `Element[ast-id]`, `repeat[repeat-id]{"key"}`, `if[cond-id].then`.
func (s Segment) String() string {
	switch s.Kind {
	case SegComponent:
		if s.Key != nil {
			return s.Name + `{"` + *s.Key + `"}`
		}
		return s.Name
	case SegSlot:
		return s.SlotName + "[" + s.Variant.String() + "]"
	case SegElement:
		if s.Role != nil {
			return s.Tag + "." + *s.Role + "[" + s.AstID + "]"
		}
		return s.Tag + "[" + s.AstID + "]"
	case SegRepeatItem:
		return "repeat[" + s.RepeatID + `]{"` + s.ItemKey + `"}`
	case SegConditionalBranch:
		return "if[" + s.ConditionID + "]." + s.Branch.String()
	default:
		return ""
	}
}

// Equal reports whether two segments are identical (spec.md §3.7: "Two
// SemanticIDs are equal iff their segment sequences are equal").
func (s Segment) Equal(o Segment) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case SegComponent:
		return s.Name == o.Name && optStrEqual(s.Key, o.Key)
	case SegSlot:
		return s.SlotName == o.SlotName && s.Variant == o.Variant
	case SegElement:
		return s.Tag == o.Tag && optStrEqual(s.Role, o.Role) && s.AstID == o.AstID
	case SegRepeatItem:
		return s.RepeatID == o.RepeatID && s.ItemKey == o.ItemKey
	case SegConditionalBranch:
		return s.ConditionID == o.ConditionID && s.Branch == o.Branch
	default:
		return false
	}
}

func optStrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ID is an immutable, hierarchical path through the component tree
// (spec.md §3.7). The zero value is the root identity.
type ID struct {
	Segments []Segment
}

// Root returns the empty (root) SemanticID.
func Root() ID { return ID{} }

// Append returns a new ID with segment appended; the receiver is left
// unmodified (value semantics matching the Rust original's `append`).
func (id ID) Append(segment Segment) ID {
	segs := make([]Segment, len(id.Segments), len(id.Segments)+1)
	copy(segs, id.Segments)
	segs = append(segs, segment)
	return ID{Segments: segs}
}

// Parent returns the ID with its last segment removed, or false if id is
// already root.
func (id ID) Parent() (ID, bool) {
	if len(id.Segments) == 0 {
		return ID{}, false
	}
	return ID{Segments: id.Segments[:len(id.Segments)-1]}, true
}

// Depth returns the number of segments.
func (id ID) Depth() int { return len(id.Segments) }

// IsRoot reports whether id has no segments.
func (id ID) IsRoot() bool { return len(id.Segments) == 0 }

// Selector renders the canonical "::"-joined selector string (spec.md
// §3.7).
func (id ID) Selector() string {
	parts := make([]string, len(id.Segments))
	for i, s := range id.Segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, "::")
}

func (id ID) String() string { return id.Selector() }

// Equal reports whether two SemanticIDs have equal segment sequences.
func (id ID) Equal(o ID) bool {
	if len(id.Segments) != len(o.Segments) {
		return false
	}
	for i := range id.Segments {
		if !id.Segments[i].Equal(o.Segments[i]) {
			return false
		}
	}
	return true
}

// IsDescendantOf reports whether ancestor is a strict prefix of id
// (spec.md §3.7).
func (id ID) IsDescendantOf(ancestor ID) bool {
	if len(id.Segments) <= len(ancestor.Segments) {
		return false
	}
	for i := range ancestor.Segments {
		if !id.Segments[i].Equal(ancestor.Segments[i]) {
			return false
		}
	}
	return true
}
