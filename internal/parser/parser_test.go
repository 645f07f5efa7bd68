package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperclip-lang/paperclip/internal/ast"
)

func TestParseTokenRoundTripShape(t *testing.T) {
	doc, err := Parse("tokens.pc", `public token primaryColor #3366FF`)
	require.NoError(t, err)
	require.Len(t, doc.Tokens, 1)
	tok := doc.Tokens[0]
	assert.True(t, tok.Public)
	assert.Equal(t, "primaryColor", tok.Name)
	assert.Equal(t, "#3366FF", tok.Value)
}

func TestParsePublicStyleWithExtends(t *testing.T) {
	src := `public style fontBase { font-family: Inter; font-size: 14px }
public component B { render button { style extends fontBase { padding: 8px } text "x" } }`
	doc, err := Parse("b.pc", src)
	require.NoError(t, err)
	require.Len(t, doc.Styles, 1)
	assert.Equal(t, "Inter", doc.Styles[0].Properties["font-family"])
	assert.Equal(t, "14px", doc.Styles[0].Properties["font-size"])

	require.Len(t, doc.Components, 1)
	comp := doc.Components[0]
	require.NotNil(t, comp.Render)
	tag, ok := comp.Render.(*ast.Tag)
	require.True(t, ok)
	assert.Equal(t, "button", tag.TagName)
	require.Len(t, tag.Styles, 1)
	assert.Equal(t, []string{"fontBase"}, tag.Styles[0].Extends)
	assert.Equal(t, "8px", tag.Styles[0].Properties["padding"])
	require.Len(t, tag.Children, 1)
	txt, ok := tag.Children[0].(*ast.Text)
	require.True(t, ok)
	lit, ok := txt.Content.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "x", lit.Value)
}

func TestParseFrameOnTopLevelRender(t *testing.T) {
	src := "/**\n * @frame(x: 10, y: 20, width: 100, height: 50)\n */\ndiv { text \"hi\" }"
	doc, err := Parse("frame.pc", src)
	require.NoError(t, err)
	require.Len(t, doc.Renders, 1)
	require.Len(t, doc.RenderFrames, 1)
	require.NotNil(t, doc.RenderFrames[0])
	assert.Equal(t, 10.0, doc.RenderFrames[0].X)
	assert.Equal(t, 20.0, doc.RenderFrames[0].Y)
	assert.Equal(t, 100.0, doc.RenderFrames[0].Width)
	assert.Equal(t, 50.0, doc.RenderFrames[0].Height)
}

func TestParseRepeatWithKeyAttribute(t *testing.T) {
	src := `component UserList {
		render div {
			repeat item in items {
				div { key = item.id text item.id }
			}
		}
	}`
	doc, err := Parse("list.pc", src)
	require.NoError(t, err)
	require.Len(t, doc.Components, 1)
	root, ok := doc.Components[0].Render.(*ast.Tag)
	require.True(t, ok)
	require.Len(t, root.Children, 1)
	rep, ok := root.Children[0].(*ast.Repeat)
	require.True(t, ok)
	assert.Equal(t, "item", rep.ItemName)
	coll, ok := rep.Collection.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "items", coll.Name)
	require.Len(t, rep.Body, 1)
	inner, ok := rep.Body[0].(*ast.Tag)
	require.True(t, ok)
	_, hasKey := inner.Attributes["key"]
	assert.True(t, hasKey)
}

func TestParseConditionalWithElseIf(t *testing.T) {
	src := `component C {
		render div {
			if active {
				text "on"
			} else if pending {
				text "pending"
			} else {
				text "off"
			}
		}
	}`
	doc, err := Parse("c.pc", src)
	require.NoError(t, err)
	root := doc.Components[0].Render.(*ast.Tag)
	cond, ok := root.Children[0].(*ast.Conditional)
	require.True(t, ok)
	require.Len(t, cond.ThenBranch, 1)
	require.Len(t, cond.ElseBranch, 1)
	_, isNestedCond := cond.ElseBranch[0].(*ast.Conditional)
	assert.True(t, isNestedCond)
}

func TestParseInstanceWithSlotInsert(t *testing.T) {
	src := `component Card {
		slot footer { text "default" }
		render div { footer }
	}
	component Page {
		render Card {
			insert footer { text "custom" }
		}
	}`
	doc, err := Parse("card.pc", src)
	require.NoError(t, err)
	require.Len(t, doc.Components, 2)
	card := doc.Components[0]
	require.Len(t, card.Slots, 1)
	assert.Equal(t, "footer", card.Slots[0].Name)
	root := card.Render.(*ast.Tag)
	_, isSlot := root.Children[0].(*ast.SlotInsert)
	assert.True(t, isSlot)

	page := doc.Components[1]
	inst, ok := page.Render.(*ast.Instance)
	require.True(t, ok)
	assert.Equal(t, "Card", inst.Name)
	require.Len(t, inst.Children, 1)
	_, isInsert := inst.Children[0].(*ast.Insert)
	assert.True(t, isInsert)
}

func TestParseTemplateStringExpression(t *testing.T) {
	src := `component C { render text "hi ${user.name}!" }`
	doc, err := Parse("t.pc", src)
	require.NoError(t, err)
	txt := doc.Components[0].Render.(*ast.Text)
	tmpl, ok := txt.Content.(*ast.Template)
	require.True(t, ok)
	require.Len(t, tmpl.Parts, 3)
	assert.Equal(t, "hi ", tmpl.Parts[0].Literal)
	assert.True(t, tmpl.Parts[1].IsExpr)
	member, ok := tmpl.Parts[1].Expr.(*ast.Member)
	require.True(t, ok)
	assert.Equal(t, "name", member.Property)
	assert.Equal(t, "!", tmpl.Parts[2].Literal)
}

func TestParseExpressionPrecedence(t *testing.T) {
	src := `component C { render div { if a || b && c == d + e * f { text "x" } } }`
	doc, err := Parse("p.pc", src)
	require.NoError(t, err)
	root := doc.Components[0].Render.(*ast.Tag)
	cond := root.Children[0].(*ast.Conditional)
	top, ok := cond.Condition.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpOr, top.Op)
}

func TestParseErrorAbortsDocument(t *testing.T) {
	_, err := Parse("bad.pc", `component C { render div { style { color ~ red } } }`)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestOverrideDottedPath(t *testing.T) {
	src := `component C {
		override div.span.button {
			style { color: red }
		}
		render div {}
	}`
	doc, err := Parse("o.pc", src)
	require.NoError(t, err)
	require.Len(t, doc.Components[0].Overrides, 1)
	assert.Equal(t, []string{"div", "span", "button"}, doc.Components[0].Overrides[0].Path)
}

func TestUniqueSequentialIDs(t *testing.T) {
	doc, err := Parse("ids.pc", `component C { render div { text "a" text "b" } }`)
	require.NoError(t, err)
	seen := map[string]bool{}
	var walk func(ast.Element)
	walk = func(e ast.Element) {
		id := e.ElemSpan().ID
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		switch v := e.(type) {
		case *ast.Tag:
			for _, c := range v.Children {
				walk(c)
			}
		}
	}
	walk(doc.Components[0].Render)
}
