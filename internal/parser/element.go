package parser

import (
	"unicode"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/lexer"
)

// isTagKeyword reports whether word is in elementKeywords other than
// "text", which is handled by its own production.
func isTagKeyword(word string) bool {
	return elementKeywords[word] && word != "text"
}

// parseElement parses one Element node in render position (spec.md §3.4,
// §4.2). First-letter case on an identifier distinguishes an HTML tag
// (lowercase) from a component Instance (uppercase); a bare identifier
// not followed by '{' is a slot-insert reference.
func (p *parser) parseElement() (ast.Element, error) {
	t := p.cur()

	switch {
	case t.Kind == lexer.Keyword && t.Text == "if":
		return p.parseConditional()
	case t.Kind == lexer.Keyword && t.Text == "repeat":
		return p.parseRepeat()
	case t.Kind == lexer.Keyword && t.Text == "insert":
		return p.parseInsert()
	case t.Kind == lexer.Keyword && t.Text == "text":
		return p.parseText()
	case t.Kind == lexer.Keyword && isTagKeyword(t.Text):
		return p.parseTagOrInstance(t.Text)
	case t.Kind == lexer.Ident:
		return p.parseTagOrInstance(t.Text)
	default:
		return nil, p.errAt(t, "unexpected token in render position: "+tokenDesc(t))
	}
}

func (p *parser) parseTagOrInstance(name string) (ast.Element, error) {
	nameTok := p.advance()
	next := p.cur()
	if next.Kind != lexer.LBrace {
		// Bare identifier with no following block: a slot-insert reference.
		return &ast.SlotInsert{
			Name: name,
			Span: ast.Span{Start: nameTok.Start, End: nameTok.End, ID: p.nextID()},
		}, nil
	}

	if isUpperFirst(name) {
		return p.parseInstanceBody(name, nameTok)
	}
	return p.parseTagBody(name, nameTok)
}

func isUpperFirst(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)[0]
	return unicode.IsUpper(r)
}

func (p *parser) parseTagBody(tagName string, nameTok lexer.Token) (ast.Element, error) {
	tag := &ast.Tag{TagName: tagName, Attributes: map[string]ast.Expression{}}
	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return nil, err
	}
	for p.cur().Kind != lexer.RBrace && p.cur().Kind != lexer.EOF {
		switch {
		case p.atKeyword("style"):
			sb, err := p.parseStyleBlock()
			if err != nil {
				return nil, err
			}
			tag.Styles = append(tag.Styles, sb)
		case p.cur().Kind == lexer.Ident && p.peekAt(1).Kind == lexer.Assign:
			name := p.advance().Text
			p.advance() // '='
			val, err := p.parseAttributeExpression()
			if err != nil {
				return nil, err
			}
			if _, exists := tag.Attributes[name]; !exists {
				tag.AttrOrder = append(tag.AttrOrder, name)
			}
			tag.Attributes[name] = val
		default:
			child, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			tag.Children = append(tag.Children, child)
		}
	}
	end, err := p.expect(lexer.RBrace, "'}'")
	if err != nil {
		return nil, err
	}
	tag.Span = ast.Span{Start: nameTok.Start, End: end.End, ID: p.nextID()}
	return tag, nil
}

func (p *parser) parseInstanceBody(name string, nameTok lexer.Token) (ast.Element, error) {
	inst := &ast.Instance{Name: name, Props: map[string]ast.Expression{}}
	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return nil, err
	}
	for p.cur().Kind != lexer.RBrace && p.cur().Kind != lexer.EOF {
		switch {
		case p.cur().Kind == lexer.Ident && p.peekAt(1).Kind == lexer.Assign:
			propName := p.advance().Text
			p.advance() // '='
			val, err := p.parseAttributeExpression()
			if err != nil {
				return nil, err
			}
			if _, exists := inst.Props[propName]; !exists {
				inst.PropOrder = append(inst.PropOrder, propName)
			}
			inst.Props[propName] = val
		default:
			child, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			inst.Children = append(inst.Children, child)
		}
	}
	end, err := p.expect(lexer.RBrace, "'}'")
	if err != nil {
		return nil, err
	}
	inst.Span = ast.Span{Start: nameTok.Start, End: end.End, ID: p.nextID()}
	return inst, nil
}

func (p *parser) parseStyleBlock() (ast.StyleBlock, error) {
	start, err := p.expectKeyword("style")
	if err != nil {
		return ast.StyleBlock{}, err
	}
	var sb ast.StyleBlock
	if p.cur().Kind == lexer.LParen {
		p.advance()
		for p.cur().Kind != lexer.RParen && p.cur().Kind != lexer.EOF {
			v, err := p.expect(lexer.Ident, "variant name")
			if err != nil {
				return ast.StyleBlock{}, err
			}
			sb.Variants = append(sb.Variants, v.Text)
			if p.cur().Kind == lexer.Comma {
				p.advance()
			}
		}
		if _, err := p.expect(lexer.RParen, "')'"); err != nil {
			return ast.StyleBlock{}, err
		}
	}
	if p.atKeyword("extends") {
		p.advance()
		refs, err := p.parseExtendsList()
		if err != nil {
			return ast.StyleBlock{}, err
		}
		sb.Extends = refs
	}
	if err := p.parseStyleBlockProperties(&sb); err != nil {
		return ast.StyleBlock{}, err
	}
	sb.Span = ast.Span{Start: start.Start, End: p.cur().Start, ID: p.nextID()}
	return sb, nil
}

func (p *parser) parseText() (ast.Element, error) {
	start, err := p.expectKeyword("text")
	if err != nil {
		return nil, err
	}
	content, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	txt := &ast.Text{Content: content}
	for p.atKeyword("style") {
		sb, err := p.parseStyleBlock()
		if err != nil {
			return nil, err
		}
		txt.Styles = append(txt.Styles, sb)
	}
	txt.Span = ast.Span{Start: start.Start, End: p.cur().Start, ID: p.nextID()}
	return txt, nil
}

func (p *parser) parseInsert() (ast.Element, error) {
	start, err := p.expectKeyword("insert")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Ident, "slot name")
	if err != nil {
		return nil, err
	}
	ins := &ast.Insert{SlotName: name.Text}
	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return nil, err
	}
	for p.cur().Kind != lexer.RBrace && p.cur().Kind != lexer.EOF {
		child, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		ins.Content = append(ins.Content, child)
	}
	end, err := p.expect(lexer.RBrace, "'}'")
	if err != nil {
		return nil, err
	}
	ins.Span = ast.Span{Start: start.Start, End: end.End, ID: p.nextID()}
	return ins, nil
}

func (p *parser) parseConditional() (ast.Element, error) {
	start, err := p.expectKeyword("if")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	thenBranch, err := p.parseBracedElements()
	if err != nil {
		return nil, err
	}
	cnd := &ast.Conditional{Condition: cond, ThenBranch: thenBranch}
	if p.atKeyword("else") {
		p.advance()
		if p.atKeyword("if") {
			elseIf, err := p.parseConditional()
			if err != nil {
				return nil, err
			}
			cnd.ElseBranch = []ast.Element{elseIf}
		} else {
			elseBranch, err := p.parseBracedElements()
			if err != nil {
				return nil, err
			}
			cnd.ElseBranch = elseBranch
		}
	}
	cnd.Span = ast.Span{Start: start.Start, End: p.cur().Start, ID: p.nextID()}
	return cnd, nil
}

func (p *parser) parseRepeat() (ast.Element, error) {
	start, err := p.expectKeyword("repeat")
	if err != nil {
		return nil, err
	}
	item, err := p.expect(lexer.Ident, "repeat item name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("in"); err != nil {
		return nil, err
	}
	coll, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBracedElements()
	if err != nil {
		return nil, err
	}
	return &ast.Repeat{
		ItemName:   item.Text,
		Collection: coll,
		Body:       body,
		Span:       ast.Span{Start: start.Start, End: p.cur().Start, ID: p.nextID()},
	}, nil
}

func (p *parser) parseBracedElements() ([]ast.Element, error) {
	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return nil, err
	}
	var elems []ast.Element
	for p.cur().Kind != lexer.RBrace && p.cur().Kind != lexer.EOF {
		el, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	if _, err := p.expect(lexer.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return elems, nil
}
