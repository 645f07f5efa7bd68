package ast

// Element is the closed sum of render-tree node kinds from spec.md §3.4.
type Element interface {
	ElemSpan() Span
	isElement()
}

// StyleBlock is an inline `style { ... }` (optionally `style extends ... {}`)
// attached to a Tag or Text element (spec.md §3.4).
type StyleBlock struct {
	Variants   []string
	Extends    []string // possibly namespaced refs, e.g. "theme.fontBase"
	Properties map[string]string
	// PropOrder preserves declaration order for deterministic printing even
	// though spec.md treats the map as order-irrelevant for evaluation.
	PropOrder []string
	Span      Span
}

// SetProperty records a CSS property in both the map and the order slice.
func (b *StyleBlock) SetProperty(name, value string) {
	if b.Properties == nil {
		b.Properties = map[string]string{}
	}
	if _, exists := b.Properties[name]; !exists {
		b.PropOrder = append(b.PropOrder, name)
	}
	b.Properties[name] = value
}

type Tag struct {
	TagName     string
	ElementName string // optional
	Attributes  map[string]Expression
	AttrOrder   []string
	Styles      []StyleBlock
	Children    []Element
	Span        Span
}

func (e *Tag) ElemSpan() Span { return e.Span }
func (*Tag) isElement()       {}

type Text struct {
	Content Expression
	Styles  []StyleBlock
	Span    Span
}

func (e *Text) ElemSpan() Span { return e.Span }
func (*Text) isElement()       {}

type Instance struct {
	Name     string
	Props    map[string]Expression
	PropOrder []string
	Children []Element
	Span     Span
}

func (e *Instance) ElemSpan() Span { return e.Span }
func (*Instance) isElement()       {}

type SlotInsert struct {
	Name string
	Span Span
}

func (e *SlotInsert) ElemSpan() Span { return e.Span }
func (*SlotInsert) isElement()       {}

type Insert struct {
	SlotName string
	Content  []Element
	Span     Span
}

func (e *Insert) ElemSpan() Span { return e.Span }
func (*Insert) isElement()       {}

type Conditional struct {
	Condition  Expression
	ThenBranch []Element
	ElseBranch []Element // nil if absent
	Span       Span
}

func (e *Conditional) ElemSpan() Span { return e.Span }
func (*Conditional) isElement()       {}

type Repeat struct {
	ItemName   string
	Collection Expression
	Body       []Element
	Span       Span
}

func (e *Repeat) ElemSpan() Span { return e.Span }
func (*Repeat) isElement()       {}
