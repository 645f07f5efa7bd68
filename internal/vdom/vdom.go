// Package vdom defines the virtual DOM and CSS rule types produced by the
// evaluator (spec.md §3.6) and consumed by the differ (internal/diff) and
// the mutation engine's conflict-free read path.
package vdom

// NodeKind discriminates the VNode variants.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindText
	KindComment
	KindErrorNode
)

// VNode is a node in a VirtualDomDocument (spec.md §3.6). Not every field
// applies to every Kind; Element uses Tag/Attributes/Styles/Children/Key/
// ID, Text/Comment use Content, Error uses Message/Span.
type VNode struct {
	Kind NodeKind

	// Element fields.
	Tag        string
	Attributes map[string]string
	Styles     map[string]string
	Children   []*VNode

	// Text / Comment fields.
	Content string

	// Error fields.
	Message string
	Span    *ErrorSpan

	// Identity, set on Element and Error nodes.
	SemanticID string
	Key        *string
	ID         *string
	SourceID   *string
}

// ErrorSpan is the minimal span carried by an Error VNode (spec.md §3.6,
// §4.6 "partial evaluation").
type ErrorSpan struct {
	Start, End int
}

// NewElement constructs an Element VNode with initialized maps.
func NewElement(tag string) *VNode {
	return &VNode{
		Kind:       KindElement,
		Tag:        tag,
		Attributes: map[string]string{},
		Styles:     map[string]string{},
	}
}

// NewText constructs a Text VNode.
func NewText(content string) *VNode {
	return &VNode{Kind: KindText, Content: content}
}

// NewComment constructs a Comment VNode.
func NewComment(content string) *VNode {
	return &VNode{Kind: KindComment, Content: content}
}

// NewError constructs an Error VNode (spec.md §4.6 "partial evaluation":
// an expression error is caught and replaced in-place rather than
// aborting the whole document).
func NewError(message string, span *ErrorSpan, semanticID string) *VNode {
	return &VNode{Kind: KindErrorNode, Message: message, Span: span, SemanticID: semanticID}
}

// CssRule is one emitted CSS rule (spec.md §3.6).
type CssRule struct {
	Selector    string
	Properties  map[string]string
	PropOrder   []string
	MediaQuery  string
	HasMedia    bool
}

// SetProperty sets a property, recording first-seen insertion order so
// output is deterministic (spec.md §2 "Insertion order is observable for
// deterministic output").
func (r *CssRule) SetProperty(name, value string) {
	if r.Properties == nil {
		r.Properties = map[string]string{}
	}
	if _, exists := r.Properties[name]; !exists {
		r.PropOrder = append(r.PropOrder, name)
	}
	r.Properties[name] = value
}

// Document is a VirtualDomDocument: the evaluated tree plus its CSS rules
// (spec.md §3.6).
type Document struct {
	Nodes  []*VNode
	Styles []CssRule
}
