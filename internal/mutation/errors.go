package mutation

// NodeNotFoundError reports that a mutation referenced a node id absent from
// the current AstIndex (spec.md §4.9).
type NodeNotFoundError struct {
	NodeID string
}

func (e *NodeNotFoundError) Error() string { return "node not found: " + e.NodeID }

// PositionResolutionFailedError reports that a node's sticky indices could
// not be resolved against the current buffer (spec.md §4.9).
type PositionResolutionFailedError struct {
	NodeID string
}

func (e *PositionResolutionFailedError) Error() string {
	return "position resolution failed for node: " + e.NodeID
}

// ConflictError reports that a node's source text changed since the index
// was last built, meaning the mutation's position assumptions are stale
// (spec.md §4.9, §6.4). Callers are expected to rebase and retry.
type ConflictError struct {
	NodeID   string
	Expected string
	Actual   string
}

func (e *ConflictError) Error() string {
	return "conflict on node " + e.NodeID + ": expected " + e.Expected + ", got " + e.Actual
}

// InvalidMutationError reports a mutation that is structurally well-formed
// but cannot be applied to the referenced node (spec.md §4.9).
type InvalidMutationError struct {
	Reason string
}

func (e *InvalidMutationError) Error() string { return "invalid mutation: " + e.Reason }

// ParseError reports that the buffer's text failed to reparse after (or
// before) a mutation, meaning rebuild_index could not run (spec.md §4.9).
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse error after mutation: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }
