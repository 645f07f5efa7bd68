package parser

import (
	"strings"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/lexer"
)

// parseAttributeExpression parses an expression in attribute/prop value
// position, where a leading "{...}" is a valid expression wrapper
// (spec.md §4.2).
func (p *parser) parseAttributeExpression() (ast.Expression, error) {
	prev := p.allowBraceExpr
	p.allowBraceExpr = true
	defer func() { p.allowBraceExpr = prev }()
	return p.parseExpression()
}

// parseExpression parses a full expression following the precedence chain
// from spec.md §4.2: || < && < == != < < <= > >= < + - < * / < primary.
func (p *parser) parseExpression() (ast.Expression, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.OrOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: ast.OpOr, Right: right, Span: spanOf(left, right)}
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.AndAnd {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: ast.OpAnd, Right: right, Span: spanOf(left, right)}
	}
	return left, nil
}

func (p *parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.EqEq || p.cur().Kind == lexer.NotEq {
		op := ast.OpEq
		if p.cur().Kind == lexer.NotEq {
			op = ast.OpNeq
		}
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op, Right: right, Span: spanOf(left, right)}
	}
	return left, nil
}

func (p *parser) parseRelational() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.cur().Kind {
		case lexer.Lt:
			op = ast.OpLt
		case lexer.Lte:
			op = ast.OpLte
		case lexer.Gt:
			op = ast.OpGt
		case lexer.Gte:
			op = ast.OpGte
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op, Right: right, Span: spanOf(left, right)}
	}
}

func (p *parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Plus || p.cur().Kind == lexer.Minus {
		op := ast.OpAdd
		if p.cur().Kind == lexer.Minus {
			op = ast.OpSub
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op, Right: right, Span: spanOf(left, right)}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Star || p.cur().Kind == lexer.Slash {
		op := ast.OpMul
		if p.cur().Kind == lexer.Slash {
			op = ast.OpDiv
		}
		p.advance()
		right, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op, Right: right, Span: spanOf(left, right)}
	}
	return left, nil
}

// parsePostfix parses a primary expression followed by any chain of
// ".prop" member accesses and "(args)" calls (spec.md §4.2).
func (p *parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case lexer.Dot:
			p.advance()
			prop, err := p.expect(lexer.Ident, "member name")
			if err != nil {
				return nil, err
			}
			expr = &ast.Member{Object: expr, Property: prop.Text, Span: ast.Span{Start: expr.ExprSpan().Start, End: prop.End, ID: p.nextID()}}
		case lexer.LParen:
			p.advance()
			var args []ast.Expression
			for p.cur().Kind != lexer.RParen && p.cur().Kind != lexer.EOF {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.cur().Kind == lexer.Comma {
					p.advance()
				}
			}
			end, err := p.expect(lexer.RParen, "')'")
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Function: expr, Args: args, Span: ast.Span{Start: expr.ExprSpan().Start, End: end.End, ID: p.nextID()}}
		default:
			return expr, nil
		}
	}
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	t := p.cur()
	switch t.Kind {
	case lexer.String:
		p.advance()
		return &ast.Literal{Value: lexer.Unescape(strings.Trim(t.Text, `"`)), Span: spanFromTok(t, p.nextID())}, nil

	case lexer.TemplateString:
		p.advance()
		return p.parseTemplateLexeme(t)

	case lexer.Number:
		p.advance()
		return &ast.Number{Value: parseNumber(t.Text), Span: spanFromTok(t, p.nextID())}, nil

	case lexer.CSSUnit, lexer.HexColor:
		p.advance()
		return &ast.Literal{Value: t.Text, Span: spanFromTok(t, p.nextID())}, nil

	case lexer.Ident:
		p.advance()
		switch t.Text {
		case "true":
			return &ast.Boolean{Value: true, Span: spanFromTok(t, p.nextID())}, nil
		case "false":
			return &ast.Boolean{Value: false, Span: spanFromTok(t, p.nextID())}, nil
		default:
			return &ast.Variable{Name: t.Text, Span: spanFromTok(t, p.nextID())}, nil
		}

	case lexer.LParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil

	case lexer.LBrace:
		if !p.allowBraceExpr {
			return nil, p.errAt(t, "unexpected '{' in expression position")
		}
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBrace, "'}'"); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, p.errAt(t, "expected expression, got "+tokenDesc(t))
	}
}

func spanFromTok(t lexer.Token, id string) ast.Span {
	return ast.Span{Start: t.Start, End: t.End, ID: id}
}

func spanOf(left, right ast.Expression) ast.Span {
	return ast.Span{Start: left.ExprSpan().Start, End: right.ExprSpan().End, ID: left.ExprSpan().ID}
}

// parseTemplateLexeme re-parses a string literal containing "${" into
// alternating Literal/Expression parts using a nested parser instance that
// shares this parser's id generator (spec.md §4.2).
func (p *parser) parseTemplateLexeme(t lexer.Token) (ast.Expression, error) {
	inner := strings.Trim(t.Text, `"`)
	var parts []ast.TemplatePart
	i := 0
	var lit strings.Builder
	for i < len(inner) {
		if inner[i] == '\\' && i+1 < len(inner) {
			lit.WriteByte(inner[i])
			lit.WriteByte(inner[i+1])
			i += 2
			continue
		}
		if inner[i] == '$' && i+1 < len(inner) && inner[i+1] == '{' {
			if lit.Len() > 0 {
				parts = append(parts, ast.TemplatePart{Literal: lexer.Unescape(lit.String())})
				lit.Reset()
			}
			depth := 1
			start := i + 2
			j := start
			for j < len(inner) && depth > 0 {
				switch inner[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth > 0 {
					j++
				}
			}
			exprSrc := inner[start:j]
			sub := &parser{path: p.path, src: exprSrc, toks: lexer.New(exprSrc).Tokenize(), gen: p.gen}
			expr, err := sub.parseExpression()
			if err != nil {
				return nil, err
			}
			parts = append(parts, ast.TemplatePart{IsExpr: true, Expr: expr})
			i = j + 1
			continue
		}
		lit.WriteByte(inner[i])
		i++
	}
	if lit.Len() > 0 {
		parts = append(parts, ast.TemplatePart{Literal: lexer.Unescape(lit.String())})
	}
	return &ast.Template{Parts: parts, Span: spanFromTok(t, p.nextID())}, nil
}
