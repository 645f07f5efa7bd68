// Package printer serializes an ast.Document back to Paperclip source text
// (spec.md §8: "deserialize(serialize(D)) == D" up to insignificant
// whitespace). It is grounded on the teacher's PrintToSource buffer-passing
// style (print-to-source.go) and on the original Rust Serializer
// (serializer.rs), reworked for Paperclip's grammar rather than Astro's or
// the original's HTML-flavored one.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paperclip-lang/paperclip/internal/ast"
)

// Printer accumulates serialized source text into a strings.Builder,
// tracking indentation depth as it walks the AST.
type Printer struct {
	buf    strings.Builder
	indent string
	depth  int
}

// New returns a Printer using the given per-level indent string (teacher
// default mirrors the original's two-space indent when indent is empty).
func New(indent string) *Printer {
	if indent == "" {
		indent = "  "
	}
	return &Printer{indent: indent}
}

// Print serializes doc and returns the resulting source text.
func Print(doc *ast.Document) string {
	p := New("  ")
	p.document(doc)
	return p.buf.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth; i++ {
		p.buf.WriteString(p.indent)
	}
}

func (p *Printer) document(doc *ast.Document) {
	for _, imp := range doc.Imports {
		p.importDecl(imp)
		p.buf.WriteByte('\n')
	}
	if len(doc.Imports) > 0 {
		p.buf.WriteByte('\n')
	}

	for _, tok := range doc.Tokens {
		p.token(tok)
		p.buf.WriteByte('\n')
	}
	if len(doc.Tokens) > 0 {
		p.buf.WriteByte('\n')
	}

	for _, trg := range doc.Triggers {
		p.trigger(trg)
		p.buf.WriteByte('\n')
	}
	if len(doc.Triggers) > 0 {
		p.buf.WriteByte('\n')
	}

	for _, st := range doc.Styles {
		p.style(st)
		p.buf.WriteByte('\n')
	}
	if len(doc.Styles) > 0 {
		p.buf.WriteByte('\n')
	}

	for i, comp := range doc.Components {
		if i > 0 {
			p.buf.WriteByte('\n')
		}
		p.component(comp)
	}

	for i, render := range doc.Renders {
		if i > 0 || len(doc.Components) > 0 {
			p.buf.WriteByte('\n')
		}
		p.element(render.Body)
	}
}

func (p *Printer) importDecl(imp ast.Import) {
	p.buf.WriteString("import \"")
	p.buf.WriteString(imp.Path)
	p.buf.WriteByte('"')
	if imp.Alias != "" {
		p.buf.WriteString(" as ")
		p.buf.WriteString(imp.Alias)
	}
}

func (p *Printer) token(tok ast.Token) {
	if tok.Public {
		p.buf.WriteString("public ")
	}
	p.buf.WriteString("token ")
	p.buf.WriteString(tok.Name)
	p.buf.WriteByte(' ')
	p.buf.WriteString(tok.Value)
}

func (p *Printer) trigger(trg ast.Trigger) {
	if len(trg.Selectors) == 0 {
		p.buf.WriteString("trigger ")
		p.buf.WriteString(trg.Name)
		p.buf.WriteString(" {}")
		return
	}
	p.buf.WriteString("trigger ")
	p.buf.WriteString(trg.Name)
	p.buf.WriteString(" {\n")
	p.depth++
	for i, sel := range trg.Selectors {
		p.writeIndent()
		p.buf.WriteByte('"')
		p.buf.WriteString(sel)
		p.buf.WriteByte('"')
		if i < len(trg.Selectors)-1 {
			p.buf.WriteByte(',')
		}
		p.buf.WriteByte('\n')
	}
	p.depth--
	p.buf.WriteString("}")
}

func (p *Printer) propertiesBlock(names []string, props map[string]string) {
	p.buf.WriteString(" {\n")
	p.depth++
	for _, name := range names {
		p.writeIndent()
		p.buf.WriteString(name)
		p.buf.WriteString(": ")
		p.buf.WriteString(props[name])
		p.buf.WriteString(";\n")
	}
	p.depth--
	p.writeIndent()
	p.buf.WriteString("}")
}

func (p *Printer) extendsList(refs []string) {
	if len(refs) == 0 {
		return
	}
	p.buf.WriteString(" extends ")
	p.buf.WriteString(strings.Join(refs, ", "))
}

func (p *Printer) style(st ast.Style) {
	if st.Public {
		p.buf.WriteString("public ")
	}
	p.buf.WriteString("style ")
	p.buf.WriteString(st.Name)
	p.extendsList(st.Extends)
	p.propertiesBlock(st.PropOrder, st.Properties)
}

func (p *Printer) styleBlock(sb ast.StyleBlock) {
	p.writeIndent()
	p.buf.WriteString("style")
	if len(sb.Variants) > 0 {
		p.buf.WriteByte('(')
		p.buf.WriteString(strings.Join(sb.Variants, ", "))
		p.buf.WriteByte(')')
	}
	p.extendsList(sb.Extends)
	p.propertiesBlock(sb.PropOrder, sb.Properties)
	p.buf.WriteByte('\n')
}

func (p *Printer) component(c ast.Component) {
	if c.Public {
		p.buf.WriteString("public ")
	}
	p.buf.WriteString("component ")
	p.buf.WriteString(c.Name)
	p.buf.WriteString(" {\n")
	p.depth++

	if c.Script != nil {
		p.writeIndent()
		p.buf.WriteString("script { src: \"")
		p.buf.WriteString(c.Script.Src)
		p.buf.WriteString("\", target: \"")
		p.buf.WriteString(c.Script.Target)
		p.buf.WriteByte('"')
		if c.Script.Name != "" {
			p.buf.WriteString(", name: \"")
			p.buf.WriteString(c.Script.Name)
			p.buf.WriteByte('"')
		}
		p.buf.WriteString(" }\n")
	}

	for _, v := range c.Variants {
		p.writeIndent()
		p.buf.WriteString("variant ")
		p.buf.WriteString(v.Name)
		p.buf.WriteByte('(')
		for i, trig := range v.Triggers {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.buf.WriteString(trig)
		}
		p.buf.WriteString(")\n")
	}

	for _, s := range c.Slots {
		p.writeIndent()
		p.buf.WriteString("slot ")
		p.buf.WriteString(s.Name)
		if len(s.DefaultContent) > 0 {
			p.buf.WriteString(" {\n")
			p.depth++
			for _, el := range s.DefaultContent {
				p.element(el)
			}
			p.depth--
			p.writeIndent()
			p.buf.WriteString("}\n")
		} else {
			p.buf.WriteString(" {}\n")
		}
	}

	for _, ov := range c.Overrides {
		p.writeIndent()
		p.buf.WriteString("override ")
		p.buf.WriteString(strings.Join(ov.Path, "."))
		p.buf.WriteString(" {\n")
		p.depth++
		for _, sb := range ov.Styles {
			p.styleBlock(sb)
		}
		for name, val := range ov.Attributes {
			p.writeIndent()
			p.buf.WriteString(name)
			p.buf.WriteString(": ")
			p.expressionInner(val)
			p.buf.WriteString(",\n")
		}
		p.depth--
		p.writeIndent()
		p.buf.WriteString("}\n")
	}

	if c.Render != nil {
		p.writeIndent()
		p.buf.WriteString("render ")
		p.element(c.Render)
	}

	p.depth--
	p.writeIndent()
	p.buf.WriteString("}\n")
}

func (p *Printer) element(el ast.Element) {
	switch v := el.(type) {
	case *ast.Tag:
		p.tag(v, true)
	case *ast.Text:
		p.writeIndent()
		p.buf.WriteString("text ")
		p.expressionInner(v.Content)
		for _, sb := range v.Styles {
			p.buf.WriteByte('\n')
			p.styleBlockInline(sb)
		}
		p.buf.WriteByte('\n')
	case *ast.Instance:
		p.instance(v)
	case *ast.SlotInsert:
		p.writeIndent()
		p.buf.WriteString(v.Name)
		p.buf.WriteByte('\n')
	case *ast.Insert:
		p.writeIndent()
		p.buf.WriteString("insert ")
		p.buf.WriteString(v.SlotName)
		p.bracedChildren(v.Content)
	case *ast.Conditional:
		p.conditional(v)
	case *ast.Repeat:
		p.writeIndent()
		p.buf.WriteString("repeat ")
		p.buf.WriteString(v.ItemName)
		p.buf.WriteString(" in ")
		p.expressionInner(v.Collection)
		p.bracedChildren(v.Body)
	}
}

// styleBlockInline writes a style block without a leading writeIndent call
// already having happened at statement start (used after a "text ..." line).
func (p *Printer) styleBlockInline(sb ast.StyleBlock) {
	p.writeIndent()
	p.buf.WriteString("style")
	p.extendsList(sb.Extends)
	p.propertiesBlock(sb.PropOrder, sb.Properties)
}

func (p *Printer) tag(t *ast.Tag, topLevel bool) {
	if topLevel {
		p.writeIndent()
	}
	p.buf.WriteString(t.TagName)
	if t.ElementName != "" {
		p.buf.WriteByte(' ')
		p.buf.WriteString(t.ElementName)
	}
	hasBody := len(t.Children) > 0 || len(t.Styles) > 0 || len(t.AttrOrder) > 0
	if !hasBody {
		p.buf.WriteString(" {}\n")
		return
	}
	p.buf.WriteString(" {\n")
	p.depth++
	for _, name := range t.AttrOrder {
		p.writeIndent()
		p.buf.WriteString(name)
		p.buf.WriteString(" = ")
		p.expression(t.Attributes[name])
		p.buf.WriteByte('\n')
	}
	for _, sb := range t.Styles {
		p.styleBlock(sb)
	}
	for _, child := range t.Children {
		p.element(child)
	}
	p.depth--
	p.writeIndent()
	p.buf.WriteString("}\n")
}

func (p *Printer) instance(inst *ast.Instance) {
	p.writeIndent()
	p.buf.WriteString(inst.Name)
	hasBody := len(inst.Children) > 0 || len(inst.PropOrder) > 0
	if !hasBody {
		p.buf.WriteString(" {}\n")
		return
	}
	p.buf.WriteString(" {\n")
	p.depth++
	for _, name := range inst.PropOrder {
		p.writeIndent()
		p.buf.WriteString(name)
		p.buf.WriteString(" = ")
		p.expression(inst.Props[name])
		p.buf.WriteByte('\n')
	}
	for _, child := range inst.Children {
		p.element(child)
	}
	p.depth--
	p.writeIndent()
	p.buf.WriteString("}\n")
}

func (p *Printer) bracedChildren(children []ast.Element) {
	p.buf.WriteString(" {\n")
	p.depth++
	for _, c := range children {
		p.element(c)
	}
	p.depth--
	p.writeIndent()
	p.buf.WriteString("}\n")
}

func (p *Printer) conditional(c *ast.Conditional) {
	p.writeIndent()
	p.buf.WriteString("if ")
	p.expressionInner(c.Condition)
	p.buf.WriteString(" {\n")
	p.depth++
	for _, child := range c.ThenBranch {
		p.element(child)
	}
	p.depth--
	p.writeIndent()
	p.buf.WriteString("}")
	if len(c.ElseBranch) == 1 {
		if nested, ok := c.ElseBranch[0].(*ast.Conditional); ok {
			p.buf.WriteString(" else ")
			p.conditionalInline(nested)
			return
		}
	}
	if len(c.ElseBranch) > 0 {
		p.buf.WriteString(" else {\n")
		p.depth++
		for _, child := range c.ElseBranch {
			p.element(child)
		}
		p.depth--
		p.writeIndent()
		p.buf.WriteString("}\n")
		return
	}
	p.buf.WriteByte('\n')
}

// conditionalInline prints an "else if" chain link without re-emitting a
// leading indent (it continues the previous line after "} else ").
func (p *Printer) conditionalInline(c *ast.Conditional) {
	p.buf.WriteString("if ")
	p.expressionInner(c.Condition)
	p.buf.WriteString(" {\n")
	p.depth++
	for _, child := range c.ThenBranch {
		p.element(child)
	}
	p.depth--
	p.writeIndent()
	p.buf.WriteString("}")
	if len(c.ElseBranch) == 1 {
		if nested, ok := c.ElseBranch[0].(*ast.Conditional); ok {
			p.buf.WriteString(" else ")
			p.conditionalInline(nested)
			return
		}
	}
	if len(c.ElseBranch) > 0 {
		p.buf.WriteString(" else {\n")
		p.depth++
		for _, child := range c.ElseBranch {
			p.element(child)
		}
		p.depth--
		p.writeIndent()
		p.buf.WriteString("}\n")
		return
	}
	p.buf.WriteByte('\n')
}

// expression serializes a tag attribute or instance prop value, wrapping
// anything other than a bare literal/number/boolean/template in "{...}"
// (spec.md §4.2), mirroring the original serializer's rule. Attribute and
// prop values are the only positions where the parser accepts that
// wrapper; text content, if/repeat heads and override attributes are
// printed bare through expressionInner.
func (p *Printer) expression(e ast.Expression) {
	switch e.(type) {
	case *ast.Literal, *ast.Number, *ast.Boolean, *ast.Template:
		p.expressionInner(e)
	default:
		p.buf.WriteByte('{')
		p.expressionInner(e)
		p.buf.WriteByte('}')
	}
}

func (p *Printer) expressionInner(e ast.Expression) {
	switch v := e.(type) {
	case *ast.Literal:
		p.buf.WriteByte('"')
		p.buf.WriteString(escapeString(v.Value))
		p.buf.WriteByte('"')
	case *ast.Number:
		p.buf.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case *ast.Boolean:
		if v.Value {
			p.buf.WriteString("true")
		} else {
			p.buf.WriteString("false")
		}
	case *ast.Variable:
		p.buf.WriteString(v.Name)
	case *ast.Member:
		p.expressionInner(v.Object)
		p.buf.WriteByte('.')
		p.buf.WriteString(v.Property)
	case *ast.Call:
		p.expressionInner(v.Function)
		p.buf.WriteByte('(')
		for i, arg := range v.Args {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.expressionInner(arg)
		}
		p.buf.WriteByte(')')
	case *ast.Binary:
		p.expressionInner(v.Left)
		p.buf.WriteByte(' ')
		p.buf.WriteString(string(v.Op))
		p.buf.WriteByte(' ')
		p.expressionInner(v.Right)
	case *ast.Template:
		p.buf.WriteByte('"')
		for _, part := range v.Parts {
			if part.IsExpr {
				p.buf.WriteString("${")
				p.expressionInner(part.Expr)
				p.buf.WriteByte('}')
			} else {
				p.buf.WriteString(escapeString(part.Literal))
			}
		}
		p.buf.WriteByte('"')
	default:
		p.buf.WriteString(fmt.Sprintf("/* unsupported expression %T */", e))
	}
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
