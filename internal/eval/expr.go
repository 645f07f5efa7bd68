package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/values"
)

// EvalExpression evaluates e against scope, per the rules in spec.md §4.6
// ("Expression evaluation").
func EvalExpression(e ast.Expression, scope *Scope) (values.Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return values.String(n.Value), nil
	case *ast.Number:
		return values.Number(n.Value), nil
	case *ast.Boolean:
		return values.Boolean(n.Value), nil
	case *ast.Variable:
		v, ok := scope.Lookup(n.Name)
		if !ok {
			return values.Null, &VariableNotFoundError{Name: n.Name, Span: n.Span}
		}
		return v, nil
	case *ast.Member:
		obj, err := EvalExpression(n.Object, scope)
		if err != nil {
			return values.Null, err
		}
		if obj.Kind != values.KindObject {
			return values.Null, &MemberNotFoundError{Property: n.Property, Span: n.Span}
		}
		v, ok := obj.Object[n.Property]
		if !ok {
			return values.Null, &MemberNotFoundError{Property: n.Property, Span: n.Span}
		}
		return v, nil
	case *ast.Call:
		return values.Null, &MemberNotFoundError{Property: "(call)", Span: n.Span}
	case *ast.Binary:
		return evalBinary(n, scope)
	case *ast.Template:
		return evalTemplate(n, scope)
	default:
		return values.Null, &MemberNotFoundError{Property: "(unknown expression)", Span: e.ExprSpan()}
	}
}

func evalTemplate(t *ast.Template, scope *Scope) (values.Value, error) {
	var b strings.Builder
	for _, part := range t.Parts {
		if !part.IsExpr {
			b.WriteString(part.Literal)
			continue
		}
		v, err := EvalExpression(part.Expr, scope)
		if err != nil {
			return values.Null, err
		}
		b.WriteString(v.ToString())
	}
	return values.String(b.String()), nil
}

func evalBinary(n *ast.Binary, scope *Scope) (values.Value, error) {
	left, err := EvalExpression(n.Left, scope)
	if err != nil {
		return values.Null, err
	}
	right, err := EvalExpression(n.Right, scope)
	if err != nil {
		return values.Null, err
	}

	switch n.Op {
	case ast.OpAnd:
		return values.Boolean(left.IsTruthy() && right.IsTruthy()), nil
	case ast.OpOr:
		return values.Boolean(left.IsTruthy() || right.IsTruthy()), nil
	case ast.OpEq:
		return values.Boolean(values.StructEqual(left, right)), nil
	case ast.OpNeq:
		return values.Boolean(!values.StructEqual(left, right)), nil
	}

	if n.Op == ast.OpAdd {
		if left.IsNumeric() && right.IsNumeric() {
			return values.Number(left.Num + right.Num), nil
		}
		if left.IsStringLike() || right.IsStringLike() {
			return values.String(left.ToString() + right.ToString()), nil
		}
		return values.Number(left.Num + right.Num), nil
	}

	// -, *, /, <, <=, >, >= are numeric-only (spec.md §4.6).
	switch n.Op {
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		if !left.IsNumeric() || !right.IsNumeric() {
			return values.Null, &InvalidOperandsError{
				Op:      string(n.Op),
				Details: fmt.Sprintf("%s requires numeric operands, got %s and %s", n.Op, left.Kind, right.Kind),
				Span:    n.Span,
			}
		}
	}

	switch n.Op {
	case ast.OpSub:
		return values.Number(left.Num - right.Num), nil
	case ast.OpMul:
		return values.Number(left.Num * right.Num), nil
	case ast.OpDiv:
		if right.Num == 0 {
			return values.Null, &DivisionByZeroError{Span: n.Span}
		}
		return values.Number(left.Num / right.Num), nil
	case ast.OpLt:
		return values.Boolean(left.Num < right.Num), nil
	case ast.OpLte:
		return values.Boolean(left.Num <= right.Num), nil
	case ast.OpGt:
		return values.Boolean(left.Num > right.Num), nil
	case ast.OpGte:
		return values.Boolean(left.Num >= right.Num), nil
	}

	return values.Null, &MemberNotFoundError{Property: "(unknown operator " + string(n.Op) + ")", Span: n.Span}
}

// formatIndex builds a repeat item's auto-generated key when no explicit
// "key" field is present on the item (spec.md §4.6, §4.10): the
// "item-N" shape lets the validator recognize and warn on unstable,
// auto-generated keys.
func formatIndex(i int) string {
	return "item-" + strconv.Itoa(i)
}
