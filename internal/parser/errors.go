package parser

import "fmt"

// ParseError carries the byte range of the offending token plus a message
// (spec.md §4.2). The parser aborts the current document on the first
// error it encounters.
type ParseError struct {
	Message string
	Start   int
	End     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at [%d:%d]: %s", e.Start, e.End, e.Message)
}

func (e *ParseError) Is(target error) bool {
	_, ok := target.(*ParseError)
	return ok
}
