package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/parser"
)

func TestPrintTokenRoundTrip(t *testing.T) {
	doc, err := parser.Parse("tok.pc", `public token primaryColor #3366FF`)
	require.NoError(t, err)

	out := Print(doc)
	assert.Contains(t, out, "public token primaryColor #3366FF")

	reparsed, err := parser.Parse("tok.pc", out)
	require.NoError(t, err)
	require.Len(t, reparsed.Tokens, 1)
	assert.Equal(t, doc.Tokens[0].Name, reparsed.Tokens[0].Name)
	assert.Equal(t, doc.Tokens[0].Value, reparsed.Tokens[0].Value)
	assert.Equal(t, doc.Tokens[0].Public, reparsed.Tokens[0].Public)
}

func TestPrintStyleWithExtendsRoundTrip(t *testing.T) {
	src := `public style fontBase { font-family: Inter; font-size: 14px }
public component B { render button { style extends fontBase { padding: 8px } text "x" } }`
	doc, err := parser.Parse("b.pc", src)
	require.NoError(t, err)

	out := Print(doc)

	reparsed, err := parser.Parse("b.pc", out)
	require.NoError(t, err)
	require.Len(t, reparsed.Styles, 1)
	assert.Equal(t, doc.Styles[0].Properties, reparsed.Styles[0].Properties)
	assert.Equal(t, doc.Styles[0].Name, reparsed.Styles[0].Name)

	require.Len(t, reparsed.Components, 1)
	origTag := doc.Components[0].Render.(*ast.Tag)
	gotTag := reparsed.Components[0].Render.(*ast.Tag)
	assert.Equal(t, origTag.TagName, gotTag.TagName)
	require.Len(t, gotTag.Styles, 1)
	assert.Equal(t, origTag.Styles[0].Extends, gotTag.Styles[0].Extends)
	assert.Equal(t, origTag.Styles[0].Properties, gotTag.Styles[0].Properties)
}

func TestPrintConditionalRepeatRoundTrip(t *testing.T) {
	src := `component C {
		render div {
			repeat item in items {
				div { key = item.id text item.id }
			}
			if active {
				text "on"
			} else if pending {
				text "pending"
			} else {
				text "off"
			}
		}
	}`
	doc, err := parser.Parse("c.pc", src)
	require.NoError(t, err)

	out := Print(doc)
	reparsed, err := parser.Parse("c.pc", out)
	require.NoError(t, err)

	root := reparsed.Components[0].Render.(*ast.Tag)
	require.Len(t, root.Children, 2)

	rep, ok := root.Children[0].(*ast.Repeat)
	require.True(t, ok)
	assert.Equal(t, "item", rep.ItemName)

	cond, ok := root.Children[1].(*ast.Conditional)
	require.True(t, ok)
	require.Len(t, cond.ThenBranch, 1)
	require.Len(t, cond.ElseBranch, 1)
	_, nested := cond.ElseBranch[0].(*ast.Conditional)
	assert.True(t, nested)
}

func TestPrintTemplateExpressionRoundTrip(t *testing.T) {
	doc, err := parser.Parse("t.pc", `component C { render text "hi ${user.name}!" }`)
	require.NoError(t, err)

	out := Print(doc)
	reparsed, err := parser.Parse("t.pc", out)
	require.NoError(t, err)

	txt := reparsed.Components[0].Render.(*ast.Text)
	tmpl, ok := txt.Content.(*ast.Template)
	require.True(t, ok)
	require.Len(t, tmpl.Parts, 3)
	assert.Equal(t, "hi ", tmpl.Parts[0].Literal)
	assert.True(t, tmpl.Parts[1].IsExpr)
	assert.Equal(t, "!", tmpl.Parts[2].Literal)
}

func TestPrintInstanceWithSlotInsertRoundTrip(t *testing.T) {
	src := `component Card {
		slot footer { text "default" }
		render div { footer }
	}
	component Page {
		render Card {
			insert footer { text "custom" }
		}
	}`
	doc, err := parser.Parse("card.pc", src)
	require.NoError(t, err)

	out := Print(doc)
	reparsed, err := parser.Parse("card.pc", out)
	require.NoError(t, err)
	require.Len(t, reparsed.Components, 2)

	page := reparsed.Components[1]
	inst, ok := page.Render.(*ast.Instance)
	require.True(t, ok)
	assert.Equal(t, "Card", inst.Name)
	require.Len(t, inst.Children, 1)
	_, isInsert := inst.Children[0].(*ast.Insert)
	assert.True(t, isInsert)
}
