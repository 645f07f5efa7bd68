// Package inference implements the optional prop-shape inference engine
// supplemented into SPEC_FULL.md §4 from
// original_source/packages/inference/src/inference.rs: it collects the
// shapes of values actually passed to each component's props across every
// Instance call site in a bundle, the same technique as the teacher's
// chtml/shape_reflect.go (observe usage, don't require a declared schema).
// It is read-only and never affects evaluation.
package inference

import (
	"sort"

	expr_parser "github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/ast"

	paperclip_ast "github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/bundle"
)

// Shape is the classification of one observed prop value. Only a narrow
// subset of github.com/expr-lang/expr's ast.Node kinds is consulted here
// (ast/parser packages only, never its evaluator) to turn a paperclip
// Expression into a shape label.
type Shape string

const (
	ShapeString     Shape = "string"
	ShapeNumber     Shape = "number"
	ShapeBoolean    Shape = "boolean"
	ShapeIdentifier Shape = "identifier"
	ShapeMember     Shape = "member"
	ShapeBinary     Shape = "binary"
	ShapeTemplate   Shape = "template"
	ShapeUnknown    Shape = "unknown"
)

// PropUsage aggregates every shape observed for one prop name across all
// Instance call sites of a component.
type PropUsage struct {
	Name   string
	Shapes []Shape // deduplicated, sorted
	// Optional is true if at least one call site omitted this prop while
	// another supplied it.
	Optional bool
}

// ComponentProps is the inferred prop shape report for one component name.
type ComponentProps struct {
	Component string
	Props     []PropUsage
	// CallSites is the number of Instance nodes observed for this
	// component, used to decide Optional above.
	CallSites int
}

// Report maps a component name to its inferred prop usage.
type Report map[string]*ComponentProps

// Infer walks every document in b and returns the prop shapes observed at
// each Instance call site, keyed by the instantiated component's name.
func Infer(b *bundle.Bundle) Report {
	report := Report{}
	seen := map[string]map[string]map[Shape]bool{} // component -> prop -> shapes
	presence := map[string]map[string]int{}         // component -> prop -> call sites where present
	callSites := map[string]int{}

	for _, path := range b.Paths() {
		doc, ok := b.Document(path)
		if !ok {
			continue
		}
		visitDocument(doc, func(inst *paperclip_ast.Instance) {
			callSites[inst.Name]++
			if seen[inst.Name] == nil {
				seen[inst.Name] = map[string]map[Shape]bool{}
				presence[inst.Name] = map[string]int{}
			}
			for _, name := range inst.PropOrder {
				expr, ok := inst.Props[name]
				if !ok {
					continue
				}
				if seen[inst.Name][name] == nil {
					seen[inst.Name][name] = map[Shape]bool{}
				}
				seen[inst.Name][name][classify(expr)] = true
				presence[inst.Name][name]++
			}
		})
	}

	for comp, props := range seen {
		cp := &ComponentProps{Component: comp, CallSites: callSites[comp]}
		for name, shapes := range props {
			usage := PropUsage{Name: name, Optional: presence[comp][name] < callSites[comp]}
			for s := range shapes {
				usage.Shapes = append(usage.Shapes, s)
			}
			sort.Slice(usage.Shapes, func(i, j int) bool { return usage.Shapes[i] < usage.Shapes[j] })
			cp.Props = append(cp.Props, usage)
		}
		sort.Slice(cp.Props, func(i, j int) bool { return cp.Props[i].Name < cp.Props[j].Name })
		report[comp] = cp
	}
	return report
}

// visitDocument calls fn for every Instance element reachable from every
// component's render body and every top-level render in doc.
func visitDocument(doc *paperclip_ast.Document, fn func(*paperclip_ast.Instance)) {
	for i := range doc.Components {
		if doc.Components[i].Render != nil {
			visitElement(doc.Components[i].Render, fn)
		}
	}
	for _, r := range doc.Renders {
		visitElement(r.Body, fn)
	}
}

func visitElement(e paperclip_ast.Element, fn func(*paperclip_ast.Instance)) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case *paperclip_ast.Tag:
		for _, c := range v.Children {
			visitElement(c, fn)
		}
	case *paperclip_ast.Instance:
		fn(v)
		for _, c := range v.Children {
			visitElement(c, fn)
		}
	case *paperclip_ast.SlotInsert:
	case *paperclip_ast.Insert:
		for _, c := range v.Content {
			visitElement(c, fn)
		}
	case *paperclip_ast.Conditional:
		for _, c := range v.ThenBranch {
			visitElement(c, fn)
		}
		for _, c := range v.ElseBranch {
			visitElement(c, fn)
		}
	case *paperclip_ast.Repeat:
		for _, c := range v.Body {
			visitElement(c, fn)
		}
	}
}

// classify turns a paperclip Expression into a Shape by re-serializing its
// narrow literal/identifier/member/binary subset into expr-lang/expr's own
// grammar and inspecting the ast.Node kind expr_parser.Parse returns,
// rather than hand-rolling a second classifier.
func classify(e paperclip_ast.Expression) Shape {
	switch v := e.(type) {
	case *paperclip_ast.Template:
		return ShapeTemplate
	default:
		src, ok := toExprSource(v)
		if !ok {
			return ShapeUnknown
		}
		tree, err := expr_parser.Parse(src)
		if err != nil {
			return ShapeUnknown
		}
		return classifyNode(tree.Node)
	}
}

func classifyNode(n ast.Node) Shape {
	switch n.(type) {
	case *ast.StringNode:
		return ShapeString
	case *ast.IntegerNode, *ast.FloatNode:
		return ShapeNumber
	case *ast.BoolNode:
		return ShapeBoolean
	case *ast.IdentifierNode:
		return ShapeIdentifier
	case *ast.MemberNode:
		return ShapeMember
	case *ast.BinaryNode:
		return ShapeBinary
	default:
		return ShapeUnknown
	}
}

// toExprSource renders the small literal/variable/member/binary subset of
// paperclip's expression grammar as expr-lang/expr source text.
func toExprSource(e paperclip_ast.Expression) (string, bool) {
	switch v := e.(type) {
	case *paperclip_ast.Literal:
		return quoteExprString(v.Value), true
	case *paperclip_ast.Number:
		return formatExprNumber(v.Value), true
	case *paperclip_ast.Boolean:
		if v.Value {
			return "true", true
		}
		return "false", true
	case *paperclip_ast.Variable:
		return v.Name, true
	case *paperclip_ast.Member:
		obj, ok := toExprSource(v.Object)
		if !ok {
			return "", false
		}
		return obj + "." + v.Property, true
	case *paperclip_ast.Binary:
		left, ok := toExprSource(v.Left)
		if !ok {
			return "", false
		}
		right, ok := toExprSource(v.Right)
		if !ok {
			return "", false
		}
		return left + " " + string(v.Op) + " " + right, true
	default:
		return "", false
	}
}

func quoteExprString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	out = append(out, '"')
	return string(out)
}

func formatExprNumber(v float64) string {
	// expr-lang's parser only needs a valid numeric literal; the exact
	// formatting has no bearing on the resulting node's Shape.
	if v == float64(int64(v)) {
		return itoa64(int64(v))
	}
	return ftoa(v)
}

func itoa64(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func ftoa(v float64) string {
	// Minimal decimal rendering sufficient for expr-lang's float literal
	// grammar; precision loss here does not affect shape classification.
	whole := int64(v)
	frac := v - float64(whole)
	if frac < 0 {
		frac = -frac
	}
	fracDigits := int64(frac * 1e6)
	return itoa64(whole) + "." + padLeft(itoa64(fracDigits), 6)
}

func padLeft(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}
	return s
}
