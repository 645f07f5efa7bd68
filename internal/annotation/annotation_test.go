package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/idgen"
)

func TestParseFrameAnnotation(t *testing.T) {
	raw := "/**\n * A card component.\n * @frame(x: 100, y: 200, width: 300, height: 400)\n * Extra notes.\n */"
	gen := idgen.New("card.pc")
	doc := Parse(raw, ast.Span{Start: 0, End: len(raw), ID: gen.Next()}, gen)

	assert.Contains(t, doc.Description, "A card component.")
	assert.Contains(t, doc.Description, "Extra notes.")
	require.Len(t, doc.Annotations, 1)
	assert.Equal(t, "frame", doc.Annotations[0].Name)

	frame, ok := ParseFrame(doc)
	require.True(t, ok)
	assert.Equal(t, 100.0, frame.X)
	assert.Equal(t, 200.0, frame.Y)
	assert.True(t, frame.HasWidth)
	assert.Equal(t, 300.0, frame.Width)
	assert.True(t, frame.HasHeight)
	assert.Equal(t, 400.0, frame.Height)
}

func TestParseAnnotationWithoutParams(t *testing.T) {
	raw := "/** @deprecated use Button instead */"
	gen := idgen.New("x.pc")
	doc := Parse(raw, ast.Span{Start: 0, End: len(raw), ID: gen.Next()}, gen)
	require.Len(t, doc.Annotations, 1)
	assert.Equal(t, "deprecated", doc.Annotations[0].Name)
	assert.Empty(t, doc.Annotations[0].Params)
}

func TestParseArrayAndStringParams(t *testing.T) {
	raw := `/** @prop(variants: [primary, "secondary", 2], label: "Save") */`
	gen := idgen.New("x.pc")
	doc := Parse(raw, ast.Span{Start: 0, End: len(raw), ID: gen.Next()}, gen)
	require.Len(t, doc.Annotations, 1)
	a := doc.Annotations[0]
	v, ok := a.Param("variants")
	require.True(t, ok)
	require.Equal(t, ast.AnnotationArray, v.Kind)
	require.Len(t, v.Arr, 3)
	assert.Equal(t, ast.AnnotationString, v.Arr[0].Kind)
	assert.Equal(t, "primary", v.Arr[0].Str)
	assert.Equal(t, ast.AnnotationString, v.Arr[1].Kind)
	assert.Equal(t, "secondary", v.Arr[1].Str)
	assert.Equal(t, ast.AnnotationNumber, v.Arr[2].Kind)
	assert.Equal(t, 2.0, v.Arr[2].Num)

	label, ok := a.Param("label")
	require.True(t, ok)
	assert.Equal(t, "Save", label.Str)
}

func TestMissingFrameAnnotation(t *testing.T) {
	raw := "/** just a description */"
	gen := idgen.New("x.pc")
	doc := Parse(raw, ast.Span{Start: 0, End: len(raw), ID: gen.Next()}, gen)
	_, ok := ParseFrame(doc)
	assert.False(t, ok)
}
