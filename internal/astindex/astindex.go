// Package astindex builds the sticky-position index described in spec.md
// §3.10, grounded directly on
// original_source/packages/workspace/src/ast_index.rs: a map from node id
// to its rel_start/rel_end sticky indices plus parent/children maps, built
// by walking the parsed Document and recording each node's span against
// the source's crdt.Buffer.
package astindex

import (
	"strings"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/crdt"
)

// NodeType mirrors the original_source NodeType enum (spec.md §3.10).
type NodeType int

const (
	NodeFrame NodeType = iota
	NodeComponent
	NodeElement
	NodeText
	NodeStyle
	NodeAttribute
)

func (t NodeType) String() string {
	switch t {
	case NodeFrame:
		return "Frame"
	case NodeComponent:
		return "Component"
	case NodeElement:
		return "Element"
	case NodeText:
		return "Text"
	case NodeStyle:
		return "Style"
	case NodeAttribute:
		return "Attribute"
	default:
		return "Unknown"
	}
}

// NodePosition is one indexed node's sticky position plus the literal
// source slice observed at build time, used for conflict detection before
// a mutation is applied (spec.md §3.10).
type NodePosition struct {
	NodeID         string
	RelStart       crdt.StickyIndex
	RelEnd         crdt.StickyIndex
	ExpectedContent string
	NodeType       NodeType
}

// Index is the AstIndex from spec.md §3.10.
type Index struct {
	Nodes    map[string]NodePosition
	Parents  map[string]string
	Children map[string][]string
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		Nodes:    map[string]NodePosition{},
		Parents:  map[string]string{},
		Children: map[string][]string{},
	}
}

// Build walks doc, indexing every Component, Frame, and Element subtree
// against buf (spec.md §3.10). source is the buffer's text at build time,
// used to capture each node's expected_content.
func Build(doc *ast.Document, buf *crdt.Buffer) *Index {
	idx := New()
	source := buf.String()

	for i := range doc.Components {
		comp := &doc.Components[i]
		idx.indexComponent(comp, buf, source, "")
	}
	for i := range doc.RenderFrames {
		if doc.RenderFrames[i] != nil && i < len(doc.Renders) && i < len(doc.RenderDocs) && doc.RenderDocs[i] != nil {
			idx.indexFrameAnnotation(doc.Renders[i].Body.ElemSpan().ID, doc.RenderDocs[i].Span, buf, source)
		}
	}
	for i := range doc.Renders {
		idx.indexElement(doc.Renders[i].Body, buf, source, "")
	}
	return idx
}

func (idx *Index) indexSpan(span ast.Span, buf *crdt.Buffer, source string, nodeType NodeType, parentID string) string {
	nodeID := span.ID
	existing, exists := idx.Nodes[nodeID]
	if exists && existing.NodeType == NodeFrame && nodeType == NodeElement {
		// A component's frame is indexed under the body element's node id
		// (spec.md §3.10): keep the Frame entry, store the Element variant
		// under a derived key instead of overwriting it.
		nodeID = span.ID + "-element"
	}

	idx.Nodes[nodeID] = NodePosition{
		NodeID:          nodeID,
		RelStart:        buf.EncodeSticky(span.Start, crdt.After),
		RelEnd:          buf.EncodeSticky(span.End, crdt.After),
		ExpectedContent: sliceSafe(source, span.Start, span.End),
		NodeType:        nodeType,
	}

	if parentID != "" {
		idx.Parents[nodeID] = parentID
		idx.Children[parentID] = append(idx.Children[parentID], nodeID)
	}
	return nodeID
}

func (idx *Index) indexComponent(comp *ast.Component, buf *crdt.Buffer, source, parentID string) {
	nodeID := idx.indexSpan(comp.Span, buf, source, NodeComponent, parentID)

	if comp.Frame != nil && comp.Render != nil && comp.Doc != nil {
		// spec.md §3.10: "a component's frame is indexed under the body
		// element's node id (not the component's own id)". internal/ast
		// keeps no span for the annotation itself once its values are
		// parsed into Frame, so the doc comment's span is passed and
		// indexFrameAnnotation locates the @frame(...) text inside it.
		idx.indexFrameAnnotation(comp.Render.ElemSpan().ID, comp.Doc.Span, buf, source)
	}

	if comp.Render != nil {
		idx.indexElement(comp.Render, buf, source, nodeID)
	}
}

// indexFrameAnnotation records a Frame entry under bodyNodeID, anchored to
// the "@frame(...)" text inside frameSpan (the enclosing doc-comment's
// span; see indexComponent), or to all of frameSpan when that text is not
// found in it.
func (idx *Index) indexFrameAnnotation(bodyNodeID string, frameSpan ast.Span, buf *crdt.Buffer, source string) {
	start, end := frameSpan.Start, frameSpan.End
	text := sliceSafe(source, start, end)
	if at := strings.Index(text, "@frame("); at >= 0 {
		if closeIdx := strings.IndexByte(text[at:], ')'); closeIdx >= 0 {
			start, end = frameSpan.Start+at, frameSpan.Start+at+closeIdx+1
		}
	}
	idx.Nodes[bodyNodeID] = NodePosition{
		NodeID:          bodyNodeID,
		RelStart:        buf.EncodeSticky(start, crdt.After),
		RelEnd:          buf.EncodeSticky(end, crdt.After),
		ExpectedContent: sliceSafe(source, start, end),
		NodeType:        NodeFrame,
	}
}

func (idx *Index) indexElement(el ast.Element, buf *crdt.Buffer, source, parentID string) {
	switch n := el.(type) {
	case *ast.Tag:
		nodeID := idx.indexSpan(n.Span, buf, source, NodeElement, parentID)
		for _, c := range n.Children {
			idx.indexElement(c, buf, source, nodeID)
		}
	case *ast.Text:
		idx.indexSpan(n.Span, buf, source, NodeText, parentID)
	case *ast.Instance:
		nodeID := idx.indexSpan(n.Span, buf, source, NodeElement, parentID)
		for _, c := range n.Children {
			idx.indexElement(c, buf, source, nodeID)
		}
	case *ast.Repeat:
		nodeID := idx.indexSpan(n.Span, buf, source, NodeElement, parentID)
		for _, c := range n.Body {
			idx.indexElement(c, buf, source, nodeID)
		}
	case *ast.Conditional:
		nodeID := idx.indexSpan(n.Span, buf, source, NodeElement, parentID)
		for _, c := range n.ThenBranch {
			idx.indexElement(c, buf, source, nodeID)
		}
		for _, c := range n.ElseBranch {
			idx.indexElement(c, buf, source, nodeID)
		}
	case *ast.Insert:
		nodeID := idx.indexSpan(n.Span, buf, source, NodeElement, parentID)
		for _, c := range n.Content {
			idx.indexElement(c, buf, source, nodeID)
		}
	case *ast.SlotInsert:
		idx.indexSpan(n.Span, buf, source, NodeElement, parentID)
	}
}

func sliceSafe(s string, start, end int) string {
	if start < 0 || end > len(s) || start > end {
		return ""
	}
	return s[start:end]
}

// Lookup returns the NodePosition stored under id.
func (idx *Index) Lookup(id string) (NodePosition, bool) {
	p, ok := idx.Nodes[id]
	return p, ok
}

// CheckConflict reports whether id's current source slice in buf still
// matches the ExpectedContent captured when the index was built (spec.md
// §3.10, §4.9): a mismatch means the region was edited externally since the
// last rebuild and the caller must reject or rebase the mutation.
func (idx *Index) CheckConflict(id string, buf *crdt.Buffer) (matches bool, actual string) {
	p, exists := idx.Nodes[id]
	if !exists {
		return true, ""
	}
	start, end, ok := idx.ResolveRange(id, buf)
	if !ok {
		return true, ""
	}
	actual = sliceSafe(buf.String(), start, end)
	return actual == p.ExpectedContent, actual
}

// ResolveRange resolves a node's sticky rel_start/rel_end against buf's
// current state (spec.md §3.10).
func (idx *Index) ResolveRange(id string, buf *crdt.Buffer) (start, end int, ok bool) {
	p, exists := idx.Nodes[id]
	if !exists {
		return 0, 0, false
	}
	s, ok1 := buf.ResolveSticky(p.RelStart)
	e, ok2 := buf.ResolveSticky(p.RelEnd)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return s, e, true
}
