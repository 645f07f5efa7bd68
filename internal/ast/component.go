package ast

// ScriptDirective is a component's optional `script { src: ..., target: ...,
// name: ... }` directive (spec.md §3.3).
type ScriptDirective struct {
	Src    string
	Target string
	Name   string // optional
}

type Variant struct {
	Name     string
	Triggers []string
}

type Slot struct {
	Name           string
	DefaultContent []Element
}

type Override struct {
	Path       []string // dotted path segments, identifiers or element keywords
	Styles     []StyleBlock
	Attributes map[string]Expression
}

// Component is a named, reusable design unit (spec.md §3.3).
type Component struct {
	Public   bool
	Name     string
	Script   *ScriptDirective // optional
	Frame    *Frame           // optional, projected from @frame
	Variants []Variant
	Slots    []Slot
	Overrides []Override
	Render   Element // optional render body (an Element), nil if absent
	Span     Span
	Doc      *DocComment // optional
}

// Token is a named design token (spec.md §3.2).
type Token struct {
	Public bool
	Name   string
	Value  string
	Span   Span
}

// Trigger is a named set of selector strings (spec.md §3.2).
type Trigger struct {
	Name      string
	Selectors []string
	Span      Span
}

// Style is a named, reusable style declaration (spec.md §3.2).
type Style struct {
	Public     bool
	Name       string
	Extends    []string
	Properties map[string]string
	PropOrder  []string
	Span       Span
}

// SetProperty records a CSS property in both the map and the order slice.
func (s *Style) SetProperty(name, value string) {
	if s.Properties == nil {
		s.Properties = map[string]string{}
	}
	if _, exists := s.Properties[name]; !exists {
		s.PropOrder = append(s.PropOrder, name)
	}
	s.Properties[name] = value
}

// Import is an `import "path" [as alias]` declaration.
type Import struct {
	Path  string
	Alias string // optional; empty means no alias
	Span  Span
}

// Render is a top-level `render { ... }` block, paired positionally with
// RenderFrames and RenderDocs (spec.md §3.2).
type Render struct {
	Body Element
	Span Span
}

// Document is a fully parsed `.pc` source file (spec.md §3.2). Field order
// within each slice is the declaration order observed in source, which is
// the basis of deterministic output.
type Document struct {
	Path    string
	Imports []Import
	Tokens  []Token
	Triggers []Trigger
	Styles  []Style
	Components []Component
	Renders []Render
	// RenderDocs/RenderFrames are aligned by position with Renders: the
	// doc-comment (if any) preceding a top-level render, and the frame (if
	// any) projected from its @frame annotation.
	RenderDocs   []*DocComment
	RenderFrames []*Frame
}

// FindComponent returns the component with the given name declared directly
// in this document (no import resolution — that is internal/bundle's job).
func (d *Document) FindComponent(name string) (*Component, bool) {
	for i := range d.Components {
		if d.Components[i].Name == name {
			return &d.Components[i], true
		}
	}
	return nil, false
}

// FindStyle returns the style with the given name declared directly in this
// document.
func (d *Document) FindStyle(name string) (*Style, bool) {
	for i := range d.Styles {
		if d.Styles[i].Name == name {
			return &d.Styles[i], true
		}
	}
	return nil, false
}

// FindToken returns the token with the given name declared directly in this
// document.
func (d *Document) FindToken(name string) (*Token, bool) {
	for i := range d.Tokens {
		if d.Tokens[i].Name == name {
			return &d.Tokens[i], true
		}
	}
	return nil, false
}
