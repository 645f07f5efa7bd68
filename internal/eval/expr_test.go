package eval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/values"
)

func TestEvalExpressionLiteralsAndVariable(t *testing.T) {
	scope := NewScope()
	scope.Set("name", values.String("world"))

	v, err := EvalExpression(&ast.Variable{Name: "name"}, scope)
	require.NoError(t, err)
	assert.Equal(t, "world", v.Str)

	_, err = EvalExpression(&ast.Variable{Name: "missing"}, scope)
	var ve *VariableNotFoundError
	assert.True(t, errors.As(err, &ve))
}

func TestEvalExpressionBinaryArithmetic(t *testing.T) {
	scope := NewScope()
	add := &ast.Binary{Op: ast.OpAdd, Left: &ast.Number{Value: 2}, Right: &ast.Number{Value: 3}}
	v, err := EvalExpression(add, scope)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Num)

	concat := &ast.Binary{Op: ast.OpAdd, Left: &ast.Literal{Value: "a"}, Right: &ast.Literal{Value: "b"}}
	v, err = EvalExpression(concat, scope)
	require.NoError(t, err)
	assert.Equal(t, "ab", v.Str)

	div := &ast.Binary{Op: ast.OpDiv, Left: &ast.Number{Value: 1}, Right: &ast.Number{Value: 0}}
	_, err = EvalExpression(div, scope)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestEvalExpressionBinaryRejectsNonNumericOperands(t *testing.T) {
	scope := NewScope()

	ops := []ast.BinaryOp{ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte}
	for _, op := range ops {
		bin := &ast.Binary{Op: op, Left: &ast.Literal{Value: "abc"}, Right: &ast.Number{Value: 5}}
		_, err := EvalExpression(bin, scope)
		var ie *InvalidOperandsError
		require.ErrorAs(t, err, &ie, "op %s should reject a string operand", op)
		assert.Equal(t, string(op), ie.Op)
	}
}

func TestEvalExpressionTemplate(t *testing.T) {
	scope := NewScope()
	scope.Set("n", values.Number(7))
	tmpl := &ast.Template{Parts: []ast.TemplatePart{
		{Literal: "count: "},
		{IsExpr: true, Expr: &ast.Variable{Name: "n"}},
	}}
	v, err := EvalExpression(tmpl, scope)
	require.NoError(t, err)
	assert.Equal(t, "count: 7", v.Str)
}

func TestEvalExpressionMember(t *testing.T) {
	scope := NewScope()
	scope.Set("obj", values.Object(map[string]values.Value{"x": values.Number(1)}))
	member := &ast.Member{Object: &ast.Variable{Name: "obj"}, Property: "x"}
	v, err := EvalExpression(member, scope)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Num)

	_, err = EvalExpression(&ast.Member{Object: &ast.Variable{Name: "obj"}, Property: "y"}, scope)
	var me *MemberNotFoundError
	assert.True(t, errors.As(err, &me))
}
