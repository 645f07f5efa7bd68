package ast

// AnnotationValue is the closed value type an annotation parameter can hold
// (spec.md §3.3). Array values nest recursively.
type AnnotationValue struct {
	Kind   AnnotationValueKind
	Num    float64
	Bool   bool
	Str    string
	Arr    []AnnotationValue
}

type AnnotationValueKind int

const (
	AnnotationNumber AnnotationValueKind = iota
	AnnotationBoolean
	AnnotationString
	AnnotationArray
)

// AnnotationParam is one `key: value` pair inside an annotation's parameter
// list; order is preserved since annotation params are an ordered sequence.
type AnnotationParam struct {
	Key   string
	Value AnnotationValue
}

// Annotation is a single `@name(...)` directive recovered from a doc-comment
// (spec.md §3.3, §4.3).
type Annotation struct {
	Name   string
	Params []AnnotationParam
	Span   Span
}

// Param looks up a parameter by key, returning ok=false if absent.
func (a *Annotation) Param(key string) (AnnotationValue, bool) {
	for _, p := range a.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return AnnotationValue{}, false
}

// DocComment is the parsed form of a `/** ... */` block: free text plus any
// recognized `@name(...)` annotations (spec.md §4.3).
type DocComment struct {
	Description string
	Annotations []Annotation
	Span        Span
}

// Annotation returns the first annotation with the given name, if any.
func (d *DocComment) Annotation(name string) (*Annotation, bool) {
	if d == nil {
		return nil, false
	}
	for i := range d.Annotations {
		if d.Annotations[i].Name == name {
			return &d.Annotations[i], true
		}
	}
	return nil, false
}

// Frame is the projection of a reserved `@frame(x,y,width?,height?)`
// annotation onto a Component or a top-level render (spec.md §3.3, §3.9).
type Frame struct {
	X, Y          float64
	Width, Height float64
	HasWidth      bool
	HasHeight     bool
}
