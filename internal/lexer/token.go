// Package lexer tokenizes Paperclip `.pc` source into a flat token stream
// (spec.md §4.1). The tokenizer never fails: unknown characters are emitted
// as an Error token carrying their byte range, and the parser decides what
// to do with it.
package lexer

import (
	"fmt"

	"golang.org/x/net/html/atom"
)

type Kind int

const (
	EOF Kind = iota
	Error

	Ident
	Keyword
	String
	TemplateString // string literal containing "${"
	Number
	HexColor
	CSSUnit
	DocComment

	// punctuation
	LBrace    // {
	RBrace    // }
	LParen    // (
	RParen    // )
	Comma     // ,
	Semicolon // ;
	Colon     // :
	Dot       // .
	Assign    // =
	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Lt        // <
	Gt        // >
	Lte       // <=
	Gte       // >=
	EqEq      // ==
	NotEq     // !=
	AndAnd    // &&
	OrOr      // ||
)

// grammarKeywords holds the non-tag reserved words from §4.1.
var grammarKeywords = map[string]bool{
	"import": true, "as": true, "public": true, "token": true,
	"trigger": true, "style": true, "extends": true, "component": true,
	"variant": true, "slot": true, "override": true, "render": true,
	"script": true, "insert": true, "if": true, "else": true,
	"repeat": true, "in": true, "text": true,
}

// tagAtoms is the fixed subset of HTML tag names §4.1 reserves as element
// keywords. Membership is resolved via golang.org/x/net/html/atom's
// canonical tag table rather than a second hand-rolled string set.
var tagAtoms = map[atom.Atom]bool{
	atom.Div: true, atom.Span: true, atom.Button: true, atom.Img: true, atom.Input: true,
}

// IsKeyword reports whether word is one of the reserved keywords in §4.1.
func IsKeyword(word string) bool {
	if grammarKeywords[word] {
		return true
	}
	if a := atom.Lookup([]byte(word)); a != 0 {
		return tagAtoms[a]
	}
	return false
}

// Token is a single lexeme with its byte range in the source.
type Token struct {
	Kind  Kind
	Text  string
	Start int
	End   int
}

func (t Token) String() string {
	return fmt.Sprintf("%v(%q)@[%d:%d]", t.Kind, t.Text, t.Start, t.End)
}
