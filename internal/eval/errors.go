package eval

import (
	"errors"
	"fmt"

	"github.com/paperclip-lang/paperclip/internal/ast"
)

// ErrDivisionByZero is the sentinel for `/` with a zero divisor (spec.md
// §4.6).
var ErrDivisionByZero = errors.New("division by zero")

// VariableNotFoundError reports an unresolved Variable expression (spec.md
// §4.6: "Variable: lookup in scope, error VariableNotFound(name, span)
// otherwise").
type VariableNotFoundError struct {
	Name string
	Span ast.Span
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("variable not found: %q", e.Name)
}

func (e *VariableNotFoundError) Is(target error) bool {
	var ve *VariableNotFoundError
	if errors.As(target, &ve) {
		return e.Name == ve.Name
	}
	return false
}

// MemberNotFoundError reports a Member access on a non-Object or a missing
// property (spec.md §4.6: "Member: evaluate object; if Object, read
// property, else error").
type MemberNotFoundError struct {
	Property string
	Span     ast.Span
}

func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("member not found: %q", e.Property)
}

func (e *MemberNotFoundError) Is(target error) bool {
	var me *MemberNotFoundError
	if errors.As(target, &me) {
		return e.Property == me.Property
	}
	return false
}

// DivisionByZeroError carries the offending span alongside the sentinel.
type DivisionByZeroError struct {
	Span ast.Span
}

func (e *DivisionByZeroError) Error() string { return ErrDivisionByZero.Error() }
func (e *DivisionByZeroError) Unwrap() error { return ErrDivisionByZero }

// InvalidOperandsError reports a binary operator applied to operands its
// rules don't cover (spec.md §4.6, §7 EvalError::InvalidOperands), matching
// original_source/packages/evaluator/src/evaluator.rs's per-operator type
// check.
type InvalidOperandsError struct {
	Op      string
	Details string
	Span    ast.Span
}

func (e *InvalidOperandsError) Error() string {
	return fmt.Sprintf("invalid operands for %s: %s", e.Op, e.Details)
}

func (e *InvalidOperandsError) Is(target error) bool {
	var ie *InvalidOperandsError
	if errors.As(target, &ie) {
		return e.Op == ie.Op
	}
	return false
}

// TokenNotFoundError reports an unregistered `{name}` token reference in a
// style property value (spec.md §4.5).
type TokenNotFoundError struct {
	Name string
}

func (e *TokenNotFoundError) Error() string {
	return fmt.Sprintf("token not found: %q", e.Name)
}

func (e *TokenNotFoundError) Is(target error) bool {
	var te *TokenNotFoundError
	if errors.As(target, &te) {
		return e.Name == te.Name
	}
	return false
}
