// Package parser implements the hand-written recursive-descent parser from
// spec.md §4.2: it turns a lexer.Token stream into an ast.Document, minting
// a stable node id for every node from an idgen.Generator seeded on the
// document's logical path.
package parser

import (
	"strconv"
	"strings"

	"github.com/paperclip-lang/paperclip/internal/annotation"
	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/idgen"
	"github.com/paperclip-lang/paperclip/internal/lexer"
)

// Parse tokenizes and parses src under the given logical path, returning
// the resulting Document or the first ParseError encountered.
func Parse(path, src string) (*ast.Document, error) {
	p := &parser{
		path: path,
		src:  src,
		toks: lexer.New(src).Tokenize(),
		gen:  idgen.New(path),
	}
	return p.parseDocument()
}

type parser struct {
	path string
	src  string
	toks []lexer.Token
	pos  int
	gen  *idgen.Generator

	// pendingDoc holds a doc-comment consumed ahead of the item it
	// attaches to (spec.md §4.2: "the parser consumes a doc-comment
	// immediately preceding a top-level item and attaches it").
	pendingDoc *ast.DocComment

	// allowBraceExpr is true only while parsing an attribute/prop value,
	// where "{...}" is a valid expression wrapper (spec.md §4.2). Outside
	// that position (if/repeat conditions, style property values) a
	// leading '{' always starts a block, never an expression.
	allowBraceExpr bool
}

func (p *parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) lexer.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.toks[i]
}

func (p *parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) atKeyword(word string) bool {
	t := p.cur()
	return t.Kind == lexer.Keyword && t.Text == word
}

func (p *parser) errAt(t lexer.Token, msg string) error {
	return &ParseError{Message: msg, Start: t.Start, End: t.End}
}

func (p *parser) expect(kind lexer.Kind, what string) (lexer.Token, error) {
	t := p.cur()
	if t.Kind != kind {
		return t, p.errAt(t, "expected "+what+", got "+tokenDesc(t))
	}
	p.advance()
	return t, nil
}

func (p *parser) expectKeyword(word string) (lexer.Token, error) {
	t := p.cur()
	if t.Kind != lexer.Keyword || t.Text != word {
		return t, p.errAt(t, "expected keyword '"+word+"', got "+tokenDesc(t))
	}
	p.advance()
	return t, nil
}

func tokenDesc(t lexer.Token) string {
	if t.Kind == lexer.EOF {
		return "end of file"
	}
	return "'" + t.Text + "'"
}

func (p *parser) nextID() string { return p.gen.Next() }

func (p *parser) parseDocument() (doc *ast.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				err = pe
				doc = nil
				return
			}
			panic(r)
		}
	}()

	doc = &ast.Document{Path: p.path}

	for p.cur().Kind != lexer.EOF {
		if p.cur().Kind == lexer.DocComment {
			p.consumeDocComment()
			continue
		}

		switch {
		case p.atKeyword("import"):
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			doc.Imports = append(doc.Imports, imp)

		case p.atKeyword("public"):
			start := p.advance()
			switch {
			case p.atKeyword("token"):
				tok, err := p.parseToken(true)
				if err != nil {
					return nil, err
				}
				doc.Tokens = append(doc.Tokens, tok)
			case p.atKeyword("trigger"):
				trg, err := p.parseTrigger()
				if err != nil {
					return nil, err
				}
				doc.Triggers = append(doc.Triggers, trg)
			case p.atKeyword("style"):
				st, err := p.parseStyle(true)
				if err != nil {
					return nil, err
				}
				doc.Styles = append(doc.Styles, st)
			case p.atKeyword("component"):
				c, err := p.parseComponent(true)
				if err != nil {
					return nil, err
				}
				doc.Components = append(doc.Components, *c)
			default:
				return nil, p.errAt(start, "'public' must precede token, trigger, style or component")
			}

		case p.atKeyword("token"):
			tok, err := p.parseToken(false)
			if err != nil {
				return nil, err
			}
			doc.Tokens = append(doc.Tokens, tok)

		case p.atKeyword("trigger"):
			trg, err := p.parseTrigger()
			if err != nil {
				return nil, err
			}
			doc.Triggers = append(doc.Triggers, trg)

		case p.atKeyword("style"):
			st, err := p.parseStyle(false)
			if err != nil {
				return nil, err
			}
			doc.Styles = append(doc.Styles, st)

		case p.atKeyword("component"):
			c, err := p.parseComponent(false)
			if err != nil {
				return nil, err
			}
			doc.Components = append(doc.Components, *c)

		default:
			// A bare element at top level is a top-level render (spec.md
			// §3.2: "ordered top-level renders"); there is no leading
			// keyword for it.
			elem, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			doc.Renders = append(doc.Renders, ast.Render{Body: elem, Span: elem.ElemSpan()})
			doc.RenderDocs = append(doc.RenderDocs, p.takePendingDoc())
			doc.RenderFrames = append(doc.RenderFrames, frameFromDoc(doc.RenderDocs[len(doc.RenderDocs)-1]))
			continue
		}
	}

	return doc, nil
}

func (p *parser) consumeDocComment() {
	t := p.advance()
	span := ast.Span{Start: t.Start, End: t.End, ID: p.nextID()}
	p.pendingDoc = annotation.Parse(t.Text, span, p.gen)
}

func (p *parser) takePendingDoc() *ast.DocComment {
	d := p.pendingDoc
	p.pendingDoc = nil
	return d
}

func frameFromDoc(doc *ast.DocComment) *ast.Frame {
	if doc == nil {
		return nil
	}
	f, ok := annotation.ParseFrame(doc)
	if !ok {
		return nil
	}
	return f
}

func (p *parser) parseImport() (ast.Import, error) {
	start, err := p.expectKeyword("import")
	if err != nil {
		return ast.Import{}, err
	}
	pathTok, err := p.expect(lexer.String, "import path string")
	if err != nil {
		return ast.Import{}, err
	}
	imp := ast.Import{Path: lexer.Unescape(strings.Trim(pathTok.Text, `"`))}
	if p.atKeyword("as") {
		p.advance()
		alias, err := p.expect(lexer.Ident, "import alias")
		if err != nil {
			return ast.Import{}, err
		}
		imp.Alias = alias.Text
	}
	imp.Span = ast.Span{Start: start.Start, End: p.cur().Start, ID: p.nextID()}
	return imp, nil
}

// parseRawValueUntilStop consumes raw source text starting at the current
// token up to (but not including) the next token that starts a new
// top-level declaration, or EOF, and returns it trimmed. This backs
// "raw value" token/attribute values that are not further parsed
// (spec.md §3.2, §3.4).
func (p *parser) parseRawValueUntilStop() string {
	startTok := p.cur()
	if startTok.Kind == lexer.EOF {
		return ""
	}
	start := startTok.Start
	end := start
	for p.cur().Kind != lexer.EOF && !p.atsStop() {
		end = p.cur().End
		p.advance()
	}
	return strings.TrimSpace(p.src[start:end])
}

func (p *parser) atsStop() bool {
	t := p.cur()
	if t.Kind != lexer.Keyword {
		return false
	}
	switch t.Text {
	case "import", "public", "token", "trigger", "style", "component":
		return true
	}
	return false
}

func (p *parser) parseToken(public bool) (ast.Token, error) {
	start, err := p.expectKeyword("token")
	if err != nil {
		return ast.Token{}, err
	}
	name, err := p.expect(lexer.Ident, "token name")
	if err != nil {
		return ast.Token{}, err
	}
	value := p.parseRawValueUntilStop()
	return ast.Token{
		Public: public,
		Name:   name.Text,
		Value:  value,
		Span:   ast.Span{Start: start.Start, End: p.cur().Start, ID: p.nextID()},
	}, nil
}

func (p *parser) parseTrigger() (ast.Trigger, error) {
	start, err := p.expectKeyword("trigger")
	if err != nil {
		return ast.Trigger{}, err
	}
	name, err := p.expect(lexer.Ident, "trigger name")
	if err != nil {
		return ast.Trigger{}, err
	}
	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return ast.Trigger{}, err
	}
	var selectors []string
	for p.cur().Kind != lexer.RBrace && p.cur().Kind != lexer.EOF {
		s, err := p.expect(lexer.String, "selector string")
		if err != nil {
			return ast.Trigger{}, err
		}
		selectors = append(selectors, lexer.Unescape(strings.Trim(s.Text, `"`)))
		if p.cur().Kind == lexer.Comma {
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RBrace, "'}'"); err != nil {
		return ast.Trigger{}, err
	}
	return ast.Trigger{
		Name:      name.Text,
		Selectors: selectors,
		Span:      ast.Span{Start: start.Start, End: p.cur().Start, ID: p.nextID()},
	}, nil
}

// parseRef parses a possibly-namespaced reference: IDENT ('.' IDENT)?,
// returning it joined as "namespace.name" (spec.md §4.2).
func (p *parser) parseRef() (string, error) {
	first, err := p.expect(lexer.Ident, "identifier")
	if err != nil {
		return "", err
	}
	name := first.Text
	if p.cur().Kind == lexer.Dot {
		p.advance()
		second, err := p.expect(lexer.Ident, "identifier")
		if err != nil {
			return "", err
		}
		name += "." + second.Text
	}
	return name, nil
}

func (p *parser) parseExtendsList() ([]string, error) {
	var refs []string
	for {
		ref, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
		if p.cur().Kind == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	return refs, nil
}

func (p *parser) parseStyle(public bool) (ast.Style, error) {
	start, err := p.expectKeyword("style")
	if err != nil {
		return ast.Style{}, err
	}
	name, err := p.expect(lexer.Ident, "style name")
	if err != nil {
		return ast.Style{}, err
	}
	st := ast.Style{Public: public, Name: name.Text}
	if p.atKeyword("extends") {
		p.advance()
		refs, err := p.parseExtendsList()
		if err != nil {
			return ast.Style{}, err
		}
		st.Extends = refs
	}
	if err := p.parseStyleProperties(&st); err != nil {
		return ast.Style{}, err
	}
	st.Span = ast.Span{Start: start.Start, End: p.cur().Start, ID: p.nextID()}
	return st, nil
}

func (p *parser) parseStyleProperties(st *ast.Style) error {
	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return err
	}
	for p.cur().Kind != lexer.RBrace && p.cur().Kind != lexer.EOF {
		name, err := p.parseCSSPropertyName()
		if err != nil {
			return err
		}
		if _, err := p.expect(lexer.Colon, "':'"); err != nil {
			return err
		}
		value := p.parseRawPropertyValue()
		st.SetProperty(name, value)
		if p.cur().Kind == lexer.Semicolon {
			p.advance()
		}
	}
	_, err := p.expect(lexer.RBrace, "'}'")
	return err
}

// parseCSSPropertyName parses a property name, joining hyphen-separated
// identifier runs (e.g. "font-family") into a single name. The lexer
// tokenizes '-' as Minus regardless of context, so a kebab-case CSS
// property surfaces as Ident Minus Ident ...; this only joins runs with
// no intervening whitespace, so a genuine subtraction elsewhere is
// unaffected (property values are raw text, never expressions).
func (p *parser) parseCSSPropertyName() (string, error) {
	first, err := p.expect(lexer.Ident, "CSS property name")
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(first.Text)
	end := first.End
	for p.cur().Kind == lexer.Minus && p.cur().Start == end && p.peekAt(1).Kind == lexer.Ident && p.peekAt(1).Start == p.cur().End {
		p.advance() // '-'
		next := p.advance()
		b.WriteByte('-')
		b.WriteString(next.Text)
		end = next.End
	}
	return b.String(), nil
}

// parseRawPropertyValue consumes raw text up to the next ';' or '}' at
// brace depth zero — properties are textual CSS values (spec.md §3.4).
func (p *parser) parseRawPropertyValue() string {
	startTok := p.cur()
	start := startTok.Start
	end := start
	for p.cur().Kind != lexer.EOF && p.cur().Kind != lexer.Semicolon && p.cur().Kind != lexer.RBrace {
		end = p.cur().End
		p.advance()
	}
	return strings.TrimSpace(p.src[start:end])
}

func (p *parser) parseComponent(public bool) (*ast.Component, error) {
	start, err := p.expectKeyword("component")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Ident, "component name")
	if err != nil {
		return nil, err
	}
	c := &ast.Component{Public: public, Name: name.Text, Doc: p.takePendingDoc()}
	if c.Doc != nil {
		c.Frame = frameFromDoc(c.Doc)
	}

	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return nil, err
	}
	for p.cur().Kind != lexer.RBrace && p.cur().Kind != lexer.EOF {
		switch {
		case p.atKeyword("script"):
			s, err := p.parseScriptDirective()
			if err != nil {
				return nil, err
			}
			c.Script = s
		case p.atKeyword("variant"):
			v, err := p.parseVariant()
			if err != nil {
				return nil, err
			}
			c.Variants = append(c.Variants, v)
		case p.atKeyword("slot"):
			s, err := p.parseSlot()
			if err != nil {
				return nil, err
			}
			c.Slots = append(c.Slots, s)
		case p.atKeyword("override"):
			o, err := p.parseOverride()
			if err != nil {
				return nil, err
			}
			c.Overrides = append(c.Overrides, o)
		case p.atKeyword("render"):
			p.advance()
			elem, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			c.Render = elem
		default:
			return nil, p.errAt(p.cur(), "unexpected token in component body: "+tokenDesc(p.cur()))
		}
	}
	if _, err := p.expect(lexer.RBrace, "'}'"); err != nil {
		return nil, err
	}
	c.Span = ast.Span{Start: start.Start, End: p.cur().Start, ID: p.nextID()}
	return c, nil
}

func (p *parser) parseScriptDirective() (*ast.ScriptDirective, error) {
	if _, err := p.expectKeyword("script"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return nil, err
	}
	sd := &ast.ScriptDirective{}
	for p.cur().Kind != lexer.RBrace && p.cur().Kind != lexer.EOF {
		key, err := p.expect(lexer.Ident, "script field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Colon, "':'"); err != nil {
			return nil, err
		}
		val, err := p.expect(lexer.String, "string value")
		if err != nil {
			return nil, err
		}
		v := lexer.Unescape(strings.Trim(val.Text, `"`))
		switch key.Text {
		case "src":
			sd.Src = v
		case "target":
			sd.Target = v
		case "name":
			sd.Name = v
		}
		if p.cur().Kind == lexer.Comma {
			p.advance()
		}
	}
	_, err := p.expect(lexer.RBrace, "'}'")
	return sd, err
}

// parseTriggerRef accepts either an identifier or a quoted string form for
// a variant trigger (spec.md §9 Open Questions: both forms are accepted,
// with no conflict-resolution rule specified between a variant trigger
// name and a declared `trigger` block).
func (p *parser) parseTriggerRef() (string, error) {
	if p.cur().Kind == lexer.String {
		t := p.advance()
		return lexer.Unescape(strings.Trim(t.Text, `"`)), nil
	}
	t, err := p.expect(lexer.Ident, "trigger name")
	if err != nil {
		return "", err
	}
	return t.Text, nil
}

func (p *parser) parseVariant() (ast.Variant, error) {
	if _, err := p.expectKeyword("variant"); err != nil {
		return ast.Variant{}, err
	}
	name, err := p.expect(lexer.Ident, "variant name")
	if err != nil {
		return ast.Variant{}, err
	}
	v := ast.Variant{Name: name.Text}
	if _, err := p.expect(lexer.LParen, "'('"); err != nil {
		return ast.Variant{}, err
	}
	for p.cur().Kind != lexer.RParen && p.cur().Kind != lexer.EOF {
		trig, err := p.parseTriggerRef()
		if err != nil {
			return ast.Variant{}, err
		}
		v.Triggers = append(v.Triggers, trig)
		if p.cur().Kind == lexer.Comma {
			p.advance()
		}
	}
	_, err = p.expect(lexer.RParen, "')'")
	return v, err
}

func (p *parser) parseSlot() (ast.Slot, error) {
	if _, err := p.expectKeyword("slot"); err != nil {
		return ast.Slot{}, err
	}
	name, err := p.expect(lexer.Ident, "slot name")
	if err != nil {
		return ast.Slot{}, err
	}
	s := ast.Slot{Name: name.Text}
	if p.cur().Kind == lexer.LBrace {
		p.advance()
		for p.cur().Kind != lexer.RBrace && p.cur().Kind != lexer.EOF {
			el, err := p.parseElement()
			if err != nil {
				return ast.Slot{}, err
			}
			s.DefaultContent = append(s.DefaultContent, el)
		}
		if _, err := p.expect(lexer.RBrace, "'}'"); err != nil {
			return ast.Slot{}, err
		}
	}
	return s, nil
}

// elementKeywords are the tag keywords that may also appear as a dotted
// path segment in an override path (spec.md §4.2).
var elementKeywords = map[string]bool{
	"div": true, "span": true, "button": true, "img": true, "input": true, "text": true,
}

func (p *parser) parseOverride() (ast.Override, error) {
	if _, err := p.expectKeyword("override"); err != nil {
		return ast.Override{}, err
	}
	var path []string
	for {
		t := p.cur()
		if t.Kind == lexer.Ident || (t.Kind == lexer.Keyword && elementKeywords[t.Text]) {
			p.advance()
			path = append(path, t.Text)
		} else {
			return ast.Override{}, p.errAt(t, "expected identifier or element keyword in override path")
		}
		if p.cur().Kind == lexer.Dot {
			p.advance()
			continue
		}
		break
	}
	ov := ast.Override{Path: path, Attributes: map[string]ast.Expression{}}
	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return ast.Override{}, err
	}
	for p.cur().Kind != lexer.RBrace && p.cur().Kind != lexer.EOF {
		if p.atKeyword("style") {
			p.advance()
			var sb ast.StyleBlock
			if p.atKeyword("extends") {
				p.advance()
				refs, err := p.parseExtendsList()
				if err != nil {
					return ast.Override{}, err
				}
				sb.Extends = refs
			}
			if err := p.parseStyleBlockProperties(&sb); err != nil {
				return ast.Override{}, err
			}
			ov.Styles = append(ov.Styles, sb)
			continue
		}
		attrName, err := p.expect(lexer.Ident, "attribute name")
		if err != nil {
			return ast.Override{}, err
		}
		if _, err := p.expect(lexer.Colon, "':'"); err != nil {
			return ast.Override{}, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return ast.Override{}, err
		}
		ov.Attributes[attrName.Text] = val
		if p.cur().Kind == lexer.Comma {
			p.advance()
		}
	}
	_, err := p.expect(lexer.RBrace, "'}'")
	return ov, err
}

func (p *parser) parseStyleBlockProperties(sb *ast.StyleBlock) error {
	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return err
	}
	for p.cur().Kind != lexer.RBrace && p.cur().Kind != lexer.EOF {
		name, err := p.parseCSSPropertyName()
		if err != nil {
			return err
		}
		if _, err := p.expect(lexer.Colon, "':'"); err != nil {
			return err
		}
		value := p.parseRawPropertyValue()
		sb.SetProperty(name, value)
		if p.cur().Kind == lexer.Semicolon {
			p.advance()
		}
	}
	_, err := p.expect(lexer.RBrace, "'}'")
	return err
}

func parseNumber(text string) float64 {
	n, _ := strconv.ParseFloat(text, 64)
	return n
}
