// Package diff implements the semantic-id-driven VDOM differ and the
// (selector, media_query)-keyed CSS differ from spec.md §4.8, producing the
// patch envelope consumed by internal/transport.
package diff

import (
	"reflect"

	"github.com/paperclip-lang/paperclip/internal/vdom"
)

// PatchKind discriminates the VDocPatch union (spec.md §6.3).
type PatchKind int

const (
	PatchCreateNode PatchKind = iota
	PatchRemoveNode
	PatchReplaceNode
	PatchUpdateAttributes
	PatchUpdateStyles
	PatchUpdateText
	PatchAddStyleRule
	PatchRemoveStyleRule
)

// Patch is one entry in the VDocPatch wire format (spec.md §6.3): `path`
// is a sequence of child indices from the root, payload fields are
// populated per Kind.
type Patch struct {
	Kind PatchKind
	Path []int

	// CreateNode / ReplaceNode.
	Node *vdom.VNode

	// CreateNode only: the index within the parent to splice at.
	Index int

	// UpdateAttributes / UpdateStyles.
	Attributes map[string]string
	Styles     map[string]string

	// UpdateText.
	Text string

	// AddStyleRule / RemoveStyleRule.
	Rule      vdom.CssRule
	RuleIndex int
}

// DiffDocuments compares old and new VirtualDomDocuments and returns the
// ordered patch envelope (spec.md §4.8: "node removes before creates
// before updates before style rule changes").
func DiffDocuments(oldDoc, newDoc *vdom.Document) []Patch {
	var removes, creates, updates []Patch
	diffSiblings(oldDoc.Nodes, newDoc.Nodes, nil, &removes, &creates, &updates)

	styles := diffStyles(oldDoc.Styles, newDoc.Styles)

	out := make([]Patch, 0, len(removes)+len(creates)+len(updates)+len(styles))
	out = append(out, removes...)
	out = append(out, creates...)
	out = append(out, updates...)
	out = append(out, styles...)
	return out
}

func isKeyed(n *vdom.VNode) bool {
	return n.SemanticID != ""
}

// diffSiblings implements spec.md §4.8 points 1-4 for one sibling list
// under parentPath.
func diffSiblings(oldList, newList []*vdom.VNode, parentPath []int, removes, creates, updates *[]Patch) {
	type indexed struct {
		node *vdom.VNode
		idx  int
	}

	oldKeyed := map[string]indexed{}
	newKeyed := map[string]indexed{}
	var oldAnon, newAnon []indexed

	for i, n := range oldList {
		if isKeyed(n) {
			oldKeyed[n.SemanticID] = indexed{n, i}
		} else {
			oldAnon = append(oldAnon, indexed{n, i})
		}
	}
	for i, n := range newList {
		if isKeyed(n) {
			newKeyed[n.SemanticID] = indexed{n, i}
		} else {
			newAnon = append(newAnon, indexed{n, i})
		}
	}

	for _, n := range oldList {
		if !isKeyed(n) {
			continue
		}
		old := oldKeyed[n.SemanticID]
		if _, ok := newKeyed[n.SemanticID]; !ok {
			path := appendPath(parentPath, old.idx)
			*removes = append(*removes, Patch{Kind: PatchRemoveNode, Path: path})
		}
	}
	for _, n := range newList {
		if !isKeyed(n) {
			continue
		}
		nw := newKeyed[n.SemanticID]
		if _, ok := oldKeyed[n.SemanticID]; !ok {
			path := appendPath(parentPath, nw.idx)
			*creates = append(*creates, Patch{Kind: PatchCreateNode, Path: path, Node: nw.node, Index: nw.idx})
		}
	}
	for _, n := range newList {
		if !isKeyed(n) {
			continue
		}
		nw := newKeyed[n.SemanticID]
		old, ok := oldKeyed[n.SemanticID]
		if !ok {
			continue
		}
		path := appendPath(parentPath, nw.idx)
		diffMatched(old.node, nw.node, path, removes, creates, updates)
	}

	// Anonymous nodes pair by position (spec.md §4.8 point 3).
	n := len(oldAnon)
	if len(newAnon) < n {
		n = len(newAnon)
	}
	for i := n; i < len(oldAnon); i++ {
		path := appendPath(parentPath, oldAnon[i].idx)
		*removes = append(*removes, Patch{Kind: PatchRemoveNode, Path: path})
	}
	for i := n; i < len(newAnon); i++ {
		path := appendPath(parentPath, newAnon[i].idx)
		*creates = append(*creates, Patch{Kind: PatchCreateNode, Path: path, Node: newAnon[i].node, Index: newAnon[i].idx})
	}
	for i := 0; i < n; i++ {
		path := appendPath(parentPath, newAnon[i].idx)
		diffMatched(oldAnon[i].node, newAnon[i].node, path, removes, creates, updates)
	}
}

// diffMatched handles spec.md §4.8 point 4 for one matched pair already
// known to occupy path.
func diffMatched(old, nw *vdom.VNode, path []int, removes, creates, updates *[]Patch) {
	if old.Kind != nw.Kind || (old.Kind == vdom.KindElement && old.Tag != nw.Tag) {
		*updates = append(*updates, Patch{Kind: PatchReplaceNode, Path: path, Node: nw})
		return
	}

	switch nw.Kind {
	case vdom.KindElement:
		if !reflect.DeepEqual(old.Attributes, nw.Attributes) {
			*updates = append(*updates, Patch{Kind: PatchUpdateAttributes, Path: path, Attributes: nw.Attributes})
		}
		if !reflect.DeepEqual(old.Styles, nw.Styles) {
			*updates = append(*updates, Patch{Kind: PatchUpdateStyles, Path: path, Styles: nw.Styles})
		}
		diffSiblings(old.Children, nw.Children, path, removes, creates, updates)
	case vdom.KindText:
		if old.Content != nw.Content {
			*updates = append(*updates, Patch{Kind: PatchUpdateText, Path: path, Text: nw.Content})
		}
	case vdom.KindErrorNode:
		if old.Message != nw.Message {
			*updates = append(*updates, Patch{Kind: PatchUpdateText, Path: path, Text: nw.Message})
		}
	}
}

func appendPath(parent []int, idx int) []int {
	out := make([]int, len(parent), len(parent)+1)
	copy(out, parent)
	return append(out, idx)
}

type ruleKey struct {
	selector, media string
}

// diffStyles implements spec.md §4.8's CSS diff: keyed by (selector,
// media_query); a changed selector is a remove-then-add, in new-document
// order.
func diffStyles(oldRules, newRules []vdom.CssRule) []Patch {
	oldByKey := map[ruleKey]int{}
	for i, r := range oldRules {
		oldByKey[ruleKey{r.Selector, r.MediaQuery}] = i
	}

	keptNew := map[ruleKey]bool{}
	for _, r := range newRules {
		keptNew[ruleKey{r.Selector, r.MediaQuery}] = true
	}

	var out []Patch
	for i, r := range oldRules {
		if !keptNew[ruleKey{r.Selector, r.MediaQuery}] {
			out = append(out, Patch{Kind: PatchRemoveStyleRule, RuleIndex: i})
		}
	}
	for _, r := range newRules {
		key := ruleKey{r.Selector, r.MediaQuery}
		oldIdx, existed := oldByKey[key]
		if !existed {
			out = append(out, Patch{Kind: PatchAddStyleRule, Rule: r})
			continue
		}
		if !reflect.DeepEqual(oldRules[oldIdx].Properties, r.Properties) {
			out = append(out, Patch{Kind: PatchRemoveStyleRule, RuleIndex: oldIdx})
			out = append(out, Patch{Kind: PatchAddStyleRule, Rule: r})
		}
	}
	return out
}
