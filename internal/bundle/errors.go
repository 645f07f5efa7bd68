package bundle

import (
	"errors"
	"fmt"
)

// ErrComponentNotFound, ErrStyleNotFound and ErrTokenNotFound are the
// sentinel "not found" conditions (spec.md §7), following the teacher's
// chtml/err.go convention of a package-level sentinel for conditions with
// no extra context to carry.
var (
	ErrComponentNotFound = errors.New("component not found")
	ErrStyleNotFound     = errors.New("style not found")
	ErrTokenNotFound     = errors.New("token not found")
)

// ImportNotFoundError carries the offending import path and the file that
// referenced it (spec.md §4.4, §7).
type ImportNotFoundError struct {
	ImportPath string
	FromFile   string
}

func (e *ImportNotFoundError) Error() string {
	return fmt.Sprintf("import not found: %q (imported from %s)", e.ImportPath, e.FromFile)
}

func (e *ImportNotFoundError) Is(target error) bool {
	var ie *ImportNotFoundError
	if errors.As(target, &ie) {
		return e.ImportPath == ie.ImportPath && e.FromFile == ie.FromFile
	}
	return false
}

// CircularDependencyError carries the path at which a back-edge to an
// in-progress node was found (spec.md §4.4).
type CircularDependencyError struct {
	Path string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected at %q", e.Path)
}

func (e *CircularDependencyError) Is(target error) bool {
	var ce *CircularDependencyError
	if errors.As(target, &ce) {
		return e.Path == ce.Path
	}
	return false
}
