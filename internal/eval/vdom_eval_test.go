package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/semantic"
	"github.com/paperclip-lang/paperclip/internal/values"
	"github.com/paperclip-lang/paperclip/internal/vdom"
)

func TestEvaluateDocumentSimpleComponent(t *testing.T) {
	body := &ast.Tag{
		TagName: "div",
		Attributes: map[string]ast.Expression{
			"class": &ast.Literal{Value: "card"},
		},
		AttrOrder: []string{"class"},
		Span:      ast.Span{ID: "el1"},
		Children: []ast.Element{
			&ast.Text{Content: &ast.Literal{Value: "hello"}, Span: ast.Span{ID: "t1"}},
		},
	}
	doc := &ast.Document{
		Components: []ast.Component{
			{Name: "Card", Public: true, Render: body, Span: ast.Span{ID: "c1"}},
		},
	}
	b, path := newTestBundle(t, "a.pc", doc)

	out, err := EvaluateDocument(doc, b, path)
	require.NoError(t, err)
	require.Len(t, out.Nodes, 1)

	root := out.Nodes[0]
	assert.Equal(t, vdom.KindElement, root.Kind)
	assert.Equal(t, "div", root.Tag)
	assert.Equal(t, "card", root.Attributes["class"])
	assert.Equal(t, "Card::div[el1]", root.SemanticID)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "hello", root.Children[0].Content)
}

func TestEvaluateDocumentConditional(t *testing.T) {
	cond := &ast.Conditional{
		Condition:  &ast.Boolean{Value: false},
		ThenBranch: []ast.Element{&ast.Text{Content: &ast.Literal{Value: "yes"}, Span: ast.Span{ID: "t1"}}},
		ElseBranch: []ast.Element{&ast.Text{Content: &ast.Literal{Value: "no"}, Span: ast.Span{ID: "t2"}}},
		Span:       ast.Span{ID: "cond1"},
	}
	doc := &ast.Document{
		Components: []ast.Component{{Name: "App", Public: true, Render: cond, Span: ast.Span{ID: "c1"}}},
	}
	b, path := newTestBundle(t, "a.pc", doc)

	out, err := EvaluateDocument(doc, b, path)
	require.NoError(t, err)
	require.Len(t, out.Nodes, 1)
	assert.Equal(t, "no", out.Nodes[0].Content)
}

func TestEvaluateDocumentConditionalMissingElse(t *testing.T) {
	cond := &ast.Conditional{
		Condition:  &ast.Boolean{Value: false},
		ThenBranch: []ast.Element{&ast.Text{Content: &ast.Literal{Value: "yes"}, Span: ast.Span{ID: "t1"}}},
		Span:       ast.Span{ID: "cond1"},
	}
	doc := &ast.Document{
		Components: []ast.Component{{Name: "App", Public: true, Render: cond, Span: ast.Span{ID: "c1"}}},
	}
	b, path := newTestBundle(t, "a.pc", doc)

	out, err := EvaluateDocument(doc, b, path)
	require.NoError(t, err)
	require.Len(t, out.Nodes, 1)
	assert.Equal(t, vdom.KindComment, out.Nodes[0].Kind)
	assert.Equal(t, "conditional false", out.Nodes[0].Content)
}

func TestEvalRepeatOverEmptyArrayProducesCommentNotWrapper(t *testing.T) {
	repeat := &ast.Repeat{
		ItemName:   "item",
		Collection: &ast.Variable{Name: "items"},
		Body: []ast.Element{
			&ast.Text{Content: &ast.Variable{Name: "item"}, Span: ast.Span{ID: "t1"}},
		},
		Span: ast.Span{ID: "rep1"},
	}
	scope := NewScope()
	scope.Set("items", values.Array(nil))
	ctx := evalCtx{scope: scope, semID: semantic.Root()}

	node, err := evalRepeat(repeat, ctx)
	require.NoError(t, err)
	assert.Equal(t, vdom.KindComment, node.Kind)
	assert.NotEqual(t, "div", node.Tag)
}

func TestEvaluateDocumentRepeatUnboundCollectionBecomesErrorNode(t *testing.T) {
	repeat := &ast.Repeat{
		ItemName:   "item",
		Collection: &ast.Variable{Name: "items"},
		Body: []ast.Element{
			&ast.Text{Content: &ast.Variable{Name: "item"}, Span: ast.Span{ID: "t1"}},
		},
		Span: ast.Span{ID: "rep1"},
	}
	doc := &ast.Document{
		Components: []ast.Component{{Name: "List", Public: true, Render: repeat, Span: ast.Span{ID: "c1"}}},
	}
	b, path := newTestBundle(t, "a.pc", doc)

	out, err := EvaluateDocument(doc, b, path)
	require.NoError(t, err)
	// "items" is unbound, so collection evaluation fails and the whole
	// repeat node is replaced in place by an Error VNode (spec.md §4.6
	// partial evaluation).
	assert.Equal(t, vdom.KindErrorNode, out.Nodes[0].Kind)
}

func TestEvaluateDocumentExpressionErrorBecomesErrorNode(t *testing.T) {
	text := &ast.Text{Content: &ast.Variable{Name: "missing"}, Span: ast.Span{ID: "t1"}}
	doc := &ast.Document{
		Components: []ast.Component{{Name: "Broken", Public: true, Render: text, Span: ast.Span{ID: "c1"}}},
	}
	b, path := newTestBundle(t, "a.pc", doc)

	out, err := EvaluateDocument(doc, b, path)
	require.NoError(t, err)
	require.Len(t, out.Nodes, 1)
	assert.Equal(t, vdom.KindErrorNode, out.Nodes[0].Kind)
	assert.Contains(t, out.Nodes[0].Message, "missing")
}
