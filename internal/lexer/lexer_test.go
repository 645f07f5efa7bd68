package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestTokenizeKeywordsAndPunctuation(t *testing.T) {
	toks := New(`public component Foo { render div { text "hi" } }`).Tokenize()
	got := kinds(toks)
	want := []Kind{Keyword, Keyword, Ident, LBrace, Keyword, Keyword, LBrace, Keyword, String, RBrace, RBrace, EOF}
	assert.Equal(t, want, got)
}

func TestTokenizeHexColorAndUnit(t *testing.T) {
	toks := New(`#3366FF 16px 1.5em`).Tokenize()
	assert.Equal(t, Kind(HexColor), toks[0].Kind)
	assert.Equal(t, "#3366FF", toks[0].Text)
	assert.Equal(t, Kind(CSSUnit), toks[1].Kind)
	assert.Equal(t, "16px", toks[1].Text)
	assert.Equal(t, Kind(CSSUnit), toks[2].Kind)
	assert.Equal(t, "1.5em", toks[2].Text)
}

func TestTokenizeTemplateStringDetection(t *testing.T) {
	toks := New(`"hello ${name}!"`).Tokenize()
	assert.Equal(t, Kind(TemplateString), toks[0].Kind)

	plain := New(`"hello"`).Tokenize()
	assert.Equal(t, Kind(String), plain[0].Kind)
}

func TestTokenizeDocComment(t *testing.T) {
	toks := New("/** @frame(x: 1, y: 2) */\ncomponent C {}").Tokenize()
	assert.Equal(t, Kind(DocComment), toks[0].Kind)
	assert.Contains(t, toks[0].Text, "@frame")
}

func TestUnknownCharacterProducesErrorToken(t *testing.T) {
	toks := New("~").Tokenize()
	assert.Equal(t, Kind(Error), toks[0].Kind)
	assert.Equal(t, 0, toks[0].Start)
	assert.Equal(t, 1, toks[0].End)
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "a\"b\\c\nd", Unescape(`a\"b\\c\nd`))
	assert.Equal(t, "plain", Unescape("plain"))
}

func TestOperators(t *testing.T) {
	toks := New(`<= >= == != && ||`).Tokenize()
	want := []Kind{Lte, Gte, EqEq, NotEq, AndAnd, OrOr, EOF}
	assert.Equal(t, want, kinds(toks))
}
