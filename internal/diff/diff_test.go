package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperclip-lang/paperclip/internal/vdom"
)

func el(semID, tag string) *vdom.VNode {
	n := vdom.NewElement(tag)
	n.SemanticID = semID
	return n
}

func TestDiffDocumentsCreateAndRemoveKeyed(t *testing.T) {
	oldDoc := &vdom.Document{Nodes: []*vdom.VNode{el("App::a[1]", "div")}}
	newDoc := &vdom.Document{Nodes: []*vdom.VNode{el("App::b[2]", "span")}}

	patches := DiffDocuments(oldDoc, newDoc)
	require.Len(t, patches, 2)
	assert.Equal(t, PatchRemoveNode, patches[0].Kind)
	assert.Equal(t, PatchCreateNode, patches[1].Kind)
}

func TestDiffDocumentsUpdateAttributes(t *testing.T) {
	a := el("App::a[1]", "div")
	a.Attributes["class"] = "old"
	b := el("App::a[1]", "div")
	b.Attributes["class"] = "new"

	patches := DiffDocuments(&vdom.Document{Nodes: []*vdom.VNode{a}}, &vdom.Document{Nodes: []*vdom.VNode{b}})
	assert.Len(t, patches, 1)
	assert.Equal(t, PatchUpdateAttributes, patches[0].Kind)
	assert.Equal(t, "new", patches[0].Attributes["class"])
}

func TestDiffDocumentsTextPairsByPosition(t *testing.T) {
	oldDoc := &vdom.Document{Nodes: []*vdom.VNode{vdom.NewText("hello")}}
	newDoc := &vdom.Document{Nodes: []*vdom.VNode{vdom.NewText("world")}}

	patches := DiffDocuments(oldDoc, newDoc)
	assert.Len(t, patches, 1)
	assert.Equal(t, PatchUpdateText, patches[0].Kind)
	assert.Equal(t, "world", patches[0].Text)
}

func TestDiffDocumentsReplaceOnTagChange(t *testing.T) {
	oldDoc := &vdom.Document{Nodes: []*vdom.VNode{el("App::a[1]", "div")}}
	newDoc := &vdom.Document{Nodes: []*vdom.VNode{el("App::a[1]", "span")}}

	patches := DiffDocuments(oldDoc, newDoc)
	assert.Len(t, patches, 1)
	assert.Equal(t, PatchReplaceNode, patches[0].Kind)
}

func TestDiffStylesAddRemoveAndReplace(t *testing.T) {
	oldRules := []vdom.CssRule{{Selector: ".a", Properties: map[string]string{"color": "red"}}}
	newRules := []vdom.CssRule{{Selector: ".a", Properties: map[string]string{"color": "blue"}}, {Selector: ".b"}}

	patches := diffStyles(oldRules, newRules)
	var kinds []PatchKind
	for _, p := range patches {
		kinds = append(kinds, p.Kind)
	}
	assert.Contains(t, kinds, PatchRemoveStyleRule)
	assert.Contains(t, kinds, PatchAddStyleRule)
}

func TestPatchOrderingRemovesBeforeCreatesBeforeUpdates(t *testing.T) {
	oldDoc := &vdom.Document{Nodes: []*vdom.VNode{el("App::old[1]", "div"), el("App::keep[2]", "div")}}
	keep := el("App::keep[2]", "div")
	keep.Attributes["x"] = "1"
	newDoc := &vdom.Document{Nodes: []*vdom.VNode{el("App::new[3]", "div"), keep}}

	patches := DiffDocuments(oldDoc, newDoc)
	var sawCreate, sawUpdate bool
	for _, p := range patches {
		switch p.Kind {
		case PatchRemoveNode:
			assert.False(t, sawCreate, "remove must precede create")
		case PatchCreateNode:
			sawCreate = true
		case PatchUpdateAttributes:
			sawUpdate = true
			assert.True(t, sawCreate, "create must precede update")
		}
	}
	assert.True(t, sawUpdate)
}
