package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperclip-lang/paperclip/internal/bundle"
	"github.com/paperclip-lang/paperclip/internal/fsx"
	"github.com/paperclip-lang/paperclip/internal/parser"
)

func addDoc(t *testing.T, b *bundle.Bundle, fs fsx.FileSystem, path, src string) {
	t.Helper()
	doc, err := parser.Parse(path, src)
	require.NoError(t, err)
	_, err = b.AddDocument(fs, path, doc)
	require.NoError(t, err)
}

func TestInferCollectsShapesAcrossCallSites(t *testing.T) {
	fs := fsx.NewMem(map[string]string{"a.pc": ""})
	b := bundle.New()
	addDoc(t, b, fs, "a.pc", `public component App {
    render div {
        Card { label = "hi" size = 3 }
        Card { label = "bye" }
    }
}`)

	report := Infer(b)
	cp, ok := report["Card"]
	require.True(t, ok)
	assert.Equal(t, 2, cp.CallSites)

	var label, size *PropUsage
	for i := range cp.Props {
		switch cp.Props[i].Name {
		case "label":
			label = &cp.Props[i]
		case "size":
			size = &cp.Props[i]
		}
	}
	require.NotNil(t, label)
	require.NotNil(t, size)
	assert.Equal(t, []Shape{ShapeString}, label.Shapes)
	assert.False(t, label.Optional)
	assert.Equal(t, []Shape{ShapeNumber}, size.Shapes)
	assert.True(t, size.Optional)
}

func TestInferClassifiesVariableAndMemberProps(t *testing.T) {
	fs := fsx.NewMem(map[string]string{"a.pc": ""})
	b := bundle.New()
	addDoc(t, b, fs, "a.pc", `public component App {
    render div {
        Card { label = user.name active = isActive }
    }
}`)

	report := Infer(b)
	cp, ok := report["Card"]
	require.True(t, ok)

	shapesByName := map[string][]Shape{}
	for _, p := range cp.Props {
		shapesByName[p.Name] = p.Shapes
	}
	assert.Equal(t, []Shape{ShapeMember}, shapesByName["label"])
	assert.Equal(t, []Shape{ShapeIdentifier}, shapesByName["active"])
}

func TestInferReturnsEmptyReportForNoInstances(t *testing.T) {
	fs := fsx.NewMem(map[string]string{"a.pc": ""})
	b := bundle.New()
	addDoc(t, b, fs, "a.pc", `public component App { render div { text "hi" } }`)

	report := Infer(b)
	assert.Empty(t, report)
}
