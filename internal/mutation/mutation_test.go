package mutation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperclip-lang/paperclip/internal/crdt"
	"github.com/paperclip-lang/paperclip/internal/parser"
)

func newHandler(t *testing.T, path, source string) (*Handler, *crdt.Buffer) {
	t.Helper()
	buf := crdt.NewBuffer(source)
	h := NewHandler(path)
	require.NoError(t, h.RebuildIndex(buf))
	return h, buf
}

func frameID(t *testing.T, h *Handler) string {
	t.Helper()
	for id, pos := range h.Index().Nodes {
		if pos.NodeType.String() == "Frame" {
			return id
		}
	}
	t.Fatal("no frame node indexed")
	return ""
}

func TestApplyGeneratesMutationIDWhenNotSupplied(t *testing.T) {
	source := "component Card {\n    render div { text \"hi\" }\n}"
	h, buf := newHandler(t, "card.pc", source)

	var spanID string
	for id, pos := range h.Index().Nodes {
		if pos.NodeType.String() == "Text" {
			spanID = id
			break
		}
	}
	require.NotEmpty(t, spanID)

	res, err := h.Apply(DeleteNode{NodeID: spanID}, buf)
	require.NoError(t, err)
	assert.Equal(t, Applied, res.Kind)
	assert.NotEmpty(t, res.MutationID)
}

func TestApplySetFrameBoundsRewritesAnnotation(t *testing.T) {
	source := "/**\n * @frame(x: 10, y: 20, width: 100, height: 50)\n */\ncomponent Card {\n    render div { text \"hi\" }\n}"
	h, buf := newHandler(t, "card.pc", source)

	id := frameID(t, h)
	res, err := h.Apply(SetFrameBounds{MutationID: "m1", FrameID: id, X: 1, Y: 2, Width: 3, Height: 4}, buf)
	require.NoError(t, err)
	assert.Equal(t, Applied, res.Kind)
	assert.Contains(t, buf.String(), "@frame(x: 1, y: 2, width: 3, height: 4)")
}

func TestApplySetFrameBoundsRejectsNonFrameNode(t *testing.T) {
	source := "component Card {\n    render div { text \"hi\" }\n}"
	h, buf := newHandler(t, "card.pc", source)

	var elemID string
	for id, pos := range h.Index().Nodes {
		if pos.NodeType.String() == "Element" {
			elemID = id
			break
		}
	}
	require.NotEmpty(t, elemID)

	_, err := h.Apply(SetFrameBounds{MutationID: "m1", FrameID: elemID, X: 0, Y: 0, Width: 0, Height: 0}, buf)
	require.Error(t, err)
	var invalid *InvalidMutationError
	assert.ErrorAs(t, err, &invalid)
}

func TestApplySetFrameBoundsDetectsConflict(t *testing.T) {
	source := "/**\n * @frame(x: 10, y: 20, width: 100, height: 50)\n */\ncomponent Card {\n    render div { text \"hi\" }\n}"
	h, buf := newHandler(t, "card.pc", source)
	id := frameID(t, h)

	buf.Insert(10, "Q") // externally edit inside the doc comment's range

	_, err := h.Apply(SetFrameBounds{MutationID: "m1", FrameID: id, X: 1, Y: 2, Width: 3, Height: 4}, buf)
	require.Error(t, err)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestApplySetTextContentReplacesQuotedLiteral(t *testing.T) {
	source := `component Card { render div { text "old" } }`
	h, buf := newHandler(t, "card.pc", source)

	var textID string
	for id, pos := range h.Index().Nodes {
		if pos.NodeType.String() == "Text" {
			textID = id
			break
		}
	}
	require.NotEmpty(t, textID)

	res, err := h.Apply(SetTextContent{MutationID: "m1", NodeID: textID, Content: "new"}, buf)
	require.NoError(t, err)
	assert.Equal(t, Applied, res.Kind)
	assert.Contains(t, buf.String(), `"new"`)
	assert.NotContains(t, buf.String(), `"old"`)
}

func TestApplyDeleteNodeRemovesSource(t *testing.T) {
	source := `component Card { render div { span { text "a" } text "b" } }`
	h, buf := newHandler(t, "card.pc", source)

	var spanID string
	for id, pos := range h.Index().Nodes {
		content := pos.ExpectedContent
		if pos.NodeType.String() == "Element" && len(content) > 0 && content[0] == 's' {
			spanID = id
			break
		}
	}
	require.NotEmpty(t, spanID)

	res, err := h.Apply(DeleteNode{MutationID: "m1", NodeID: spanID}, buf)
	require.NoError(t, err)
	assert.Equal(t, Applied, res.Kind)
	assert.NotContains(t, buf.String(), `span {`)
	assert.Contains(t, buf.String(), `text "b"`)
}

func TestApplySetStylePropertyCreatesBlockThenUpdatesIt(t *testing.T) {
	source := `component Card { render div { text "hi" } }`
	h, buf := newHandler(t, "card.pc", source)

	var divID string
	for id, pos := range h.Index().Nodes {
		if pos.NodeType.String() == "Element" {
			divID = id
			break
		}
	}
	require.NotEmpty(t, divID)

	res, err := h.Apply(SetStyleProperty{MutationID: "m1", NodeID: divID, Property: "color", Value: "red"}, buf)
	require.NoError(t, err)
	assert.Equal(t, Applied, res.Kind)
	assert.Contains(t, buf.String(), "style {")
	assert.Contains(t, buf.String(), "color: red")

	divID = frameOrElementAfterRebuild(t, h)
	res, err = h.Apply(SetStyleProperty{MutationID: "m2", NodeID: divID, Property: "color", Value: "blue"}, buf)
	require.NoError(t, err)
	assert.Equal(t, Applied, res.Kind)
	assert.Contains(t, buf.String(), "color: blue")
	assert.NotContains(t, buf.String(), "color: red")
}

func frameOrElementAfterRebuild(t *testing.T, h *Handler) string {
	t.Helper()
	for id, pos := range h.Index().Nodes {
		if pos.NodeType.String() == "Element" {
			return id
		}
	}
	t.Fatal("no element node after rebuild")
	return ""
}

func TestApplySetStyleRejectsInjectionAttempt(t *testing.T) {
	source := `component Card { render div { text "hi" } }`
	h, buf := newHandler(t, "card.pc", source)
	var divID string
	for id, pos := range h.Index().Nodes {
		if pos.NodeType.String() == "Element" {
			divID = id
			break
		}
	}
	require.NotEmpty(t, divID)

	_, err := h.Apply(SetStyleProperty{MutationID: "m1", NodeID: divID, Property: "color", Value: "red; } evil {"}, buf)
	require.Error(t, err)
	var invalid *InvalidMutationError
	assert.ErrorAs(t, err, &invalid)
}

func TestApplyDeleteStyleProperty(t *testing.T) {
	source := "component Card {\n    render div {\n        style {\n            color: red\n            padding: 8px\n        }\n        text \"hi\"\n    }\n}"
	h, buf := newHandler(t, "card.pc", source)

	var divID string
	for id, pos := range h.Index().Nodes {
		if pos.NodeType.String() == "Element" {
			divID = id
			break
		}
	}
	require.NotEmpty(t, divID)

	res, err := h.Apply(DeleteStyleProperty{MutationID: "m1", NodeID: divID, Property: "color"}, buf)
	require.NoError(t, err)
	assert.Equal(t, Applied, res.Kind)
	assert.NotContains(t, buf.String(), "color: red")
	assert.Contains(t, buf.String(), "padding: 8px")
}

func TestApplySetComponentAnnotationCreatesDocCommentWhenAbsent(t *testing.T) {
	source := "component Card {\n    render div { text \"hi\" }\n}"
	h, buf := newHandler(t, "card.pc", source)

	res, err := h.Apply(SetComponentAnnotation{MutationID: "m1", ComponentName: "Card", AnnotationName: "frame", ParamsStr: "x: 0, y: 0"}, buf)
	require.NoError(t, err)
	assert.Equal(t, Applied, res.Kind)
	assert.Contains(t, buf.String(), "@frame(x: 0, y: 0)")
}

func TestApplySetComponentAnnotationReplacesExisting(t *testing.T) {
	source := "/**\n * @frame(x: 1, y: 1)\n */\ncomponent Card {\n    render div { text \"hi\" }\n}"
	h, buf := newHandler(t, "card.pc", source)

	res, err := h.Apply(SetComponentAnnotation{MutationID: "m1", ComponentName: "Card", AnnotationName: "frame", ParamsStr: "x: 9, y: 9"}, buf)
	require.NoError(t, err)
	assert.Equal(t, Applied, res.Kind)
	assert.Contains(t, buf.String(), "@frame(x: 9, y: 9)")
	assert.NotContains(t, buf.String(), "@frame(x: 1, y: 1)")
}

func TestApplyRemoveComponentAnnotation(t *testing.T) {
	source := "/**\n * @frame(x: 1, y: 1)\n */\ncomponent Card {\n    render div { text \"hi\" }\n}"
	h, buf := newHandler(t, "card.pc", source)

	res, err := h.Apply(RemoveComponentAnnotation{MutationID: "m1", ComponentName: "Card", AnnotationName: "frame"}, buf)
	require.NoError(t, err)
	assert.Equal(t, Applied, res.Kind)
	assert.NotContains(t, buf.String(), "@frame")

	doc, err := parser.Parse("card.pc", buf.String())
	require.NoError(t, err)
	require.Len(t, doc.Components, 1)
}

func TestApplySetAttributeIsNoop(t *testing.T) {
	source := `component Card { render div { text "hi" } }`
	h, buf := newHandler(t, "card.pc", source)

	res, err := h.Apply(SetAttribute{MutationID: "m1", NodeID: "anything", Name: "id", Value: "x"}, buf)
	require.NoError(t, err)
	assert.Equal(t, Noop, res.Kind)
}

func TestApplyUnknownNodeIDReturnsNodeNotFound(t *testing.T) {
	source := `component Card { render div { text "hi" } }`
	h, buf := newHandler(t, "card.pc", source)

	_, err := h.Apply(DeleteNode{MutationID: "m1", NodeID: "does-not-exist"}, buf)
	require.Error(t, err)
	var notFound *NodeNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
