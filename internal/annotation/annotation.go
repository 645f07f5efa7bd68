// Package annotation implements the doc-comment annotation sub-parser from
// spec.md §4.3: it strips `/** ... */` delimiters and leading `*` markers,
// scans for `@name[(params)]` directives at paren/bracket depth zero, and
// folds everything else into a free-text description.
package annotation

import (
	"strconv"
	"strings"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/idgen"
)

// Parse consumes a doc-comment lexeme (including its "/**"/"*/" delimiters)
// and returns the parsed DocComment. span is the byte range of the whole
// doc-comment token; gen mints one id per recognized annotation.
func Parse(raw string, span ast.Span, gen *idgen.Generator) *ast.DocComment {
	inner := stripDelimiters(raw)
	cleaned := cleanLines(inner)
	desc, annotations := extract(cleaned, span, gen)
	return &ast.DocComment{
		Description: strings.TrimSpace(desc),
		Annotations: annotations,
		Span:        span,
	}
}

func stripDelimiters(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimSuffix(s, "*/")
	return s
}

func cleanLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		t := strings.TrimSpace(line)
		t = strings.TrimPrefix(t, "*")
		t = strings.TrimLeft(t, " \t")
		out = append(out, t)
	}
	return strings.Join(out, " ")
}

func extract(content string, docSpan ast.Span, gen *idgen.Generator) (string, []ast.Annotation) {
	var annotations []ast.Annotation
	var desc strings.Builder
	runes := []rune(content)
	i := 0
	for i < len(runes) {
		if runes[i] == '@' {
			startOfWord := i == 0 || isWordBoundary(runes[i-1])
			if startOfWord {
				j := i + 1
				for j < len(runes) && (isAlnum(runes[j]) || runes[j] == '_') {
					j++
				}
				if j > i+1 {
					name := string(runes[i+1 : j])
					if j < len(runes) && runes[j] == '(' {
						if paramsStr, end, ok := findMatchingParen(runes, j); ok {
							annotations = append(annotations, ast.Annotation{
								Name:   name,
								Params: parseParams(paramsStr),
								Span:   ast.Span{Start: docSpan.Start, End: docSpan.End, ID: gen.Next()},
							})
							i = end + 1
							continue
						}
					} else {
						annotations = append(annotations, ast.Annotation{
							Name: name,
							Span: ast.Span{Start: docSpan.Start, End: docSpan.End, ID: gen.Next()},
						})
						i = j
						continue
					}
				}
			}
		}
		desc.WriteRune(runes[i])
		i++
	}
	return desc.String(), annotations
}

func isWordBoundary(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' || r == ','
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// findMatchingParen returns the content between start's '(' and its
// matching ')', tracking nested parens/brackets and ignoring delimiters
// inside quoted strings. end is the index of the closing ')'.
func findMatchingParen(runes []rune, start int) (string, int, bool) {
	if runes[start] != '(' {
		return "", 0, false
	}
	depth := 1
	bracketDepth := 0
	inString := false
	var strCh rune
	var content strings.Builder
	i := start + 1
	for i < len(runes) && depth > 0 {
		c := runes[i]
		switch {
		case !inString && (c == '"' || c == '\''):
			inString = true
			strCh = c
			content.WriteRune(c)
		case inString && c == strCh && (i == 0 || runes[i-1] != '\\'):
			inString = false
			content.WriteRune(c)
		case inString:
			content.WriteRune(c)
		default:
			switch c {
			case '(':
				depth++
				content.WriteRune(c)
			case ')':
				depth--
				if depth > 0 {
					content.WriteRune(c)
				}
			case '[':
				bracketDepth++
				content.WriteRune(c)
			case ']':
				bracketDepth--
				content.WriteRune(c)
			default:
				content.WriteRune(c)
			}
		}
		i++
	}
	if depth != 0 || bracketDepth != 0 {
		return "", 0, false
	}
	return content.String(), i - 1, true
}

func parseParams(paramsStr string) []ast.AnnotationParam {
	trimmed := strings.TrimSpace(paramsStr)
	if trimmed == "" {
		return nil
	}
	var params []ast.AnnotationParam
	for _, part := range splitAtDepthZero(trimmed, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colon := strings.IndexByte(part, ':')
		if colon < 0 {
			continue
		}
		key := strings.TrimSpace(part[:colon])
		value := parseValue(strings.TrimSpace(part[colon+1:]))
		params = append(params, ast.AnnotationParam{Key: key, Value: value})
	}
	return params
}

// splitAtDepthZero splits s on delimiter, but only where paren/bracket/brace
// depth is zero and outside quoted strings.
func splitAtDepthZero(s string, delimiter rune) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	inString := false
	var strCh rune
	runes := []rune(s)
	for i, c := range runes {
		switch {
		case !inString && (c == '"' || c == '\''):
			inString = true
			strCh = c
			current.WriteRune(c)
		case inString && c == strCh && (i == 0 || runes[i-1] != '\\'):
			inString = false
			current.WriteRune(c)
		case inString:
			current.WriteRune(c)
		case c == '(' || c == '[' || c == '{':
			depth++
			current.WriteRune(c)
		case c == ')' || c == ']' || c == '}':
			depth--
			current.WriteRune(c)
		case c == delimiter && depth == 0:
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, strings.TrimSpace(current.String()))
	}
	return parts
}

// parseValue parses a value string in the fixed priority order from
// spec.md §4.3: boolean, number, array, quoted string, else bare string.
func parseValue(s string) ast.AnnotationValue {
	trimmed := strings.TrimSpace(s)
	switch trimmed {
	case "true":
		return ast.AnnotationValue{Kind: ast.AnnotationBoolean, Bool: true}
	case "false":
		return ast.AnnotationValue{Kind: ast.AnnotationBoolean, Bool: false}
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return ast.AnnotationValue{Kind: ast.AnnotationNumber, Num: n}
	}
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		inner := trimmed[1 : len(trimmed)-1]
		var arr []ast.AnnotationValue
		for _, item := range splitAtDepthZero(inner, ',') {
			if item == "" {
				continue
			}
			arr = append(arr, parseValue(item))
		}
		return ast.AnnotationValue{Kind: ast.AnnotationArray, Arr: arr}
	}
	if len(trimmed) >= 2 && (trimmed[0] == '"' || trimmed[0] == '\'') && trimmed[len(trimmed)-1] == trimmed[0] {
		return ast.AnnotationValue{Kind: ast.AnnotationString, Str: trimmed[1 : len(trimmed)-1]}
	}
	return ast.AnnotationValue{Kind: ast.AnnotationString, Str: trimmed}
}

// ParseFrame projects a `@frame(x,y,width?,height?)` annotation into a
// Frame, returning ok=false if the annotation is absent or malformed
// (spec.md §3.3).
func ParseFrame(doc *ast.DocComment) (*ast.Frame, bool) {
	a, ok := doc.Annotation("frame")
	if !ok {
		return nil, false
	}
	x, xok := numParam(a, "x")
	y, yok := numParam(a, "y")
	if !xok || !yok {
		return nil, false
	}
	f := &ast.Frame{X: x, Y: y}
	if w, ok := numParam(a, "width"); ok {
		f.Width, f.HasWidth = w, true
	}
	if h, ok := numParam(a, "height"); ok {
		f.Height, f.HasHeight = h, true
	}
	return f, true
}

func numParam(a *ast.Annotation, key string) (float64, bool) {
	v, ok := a.Param(key)
	if !ok || v.Kind != ast.AnnotationNumber {
		return 0, false
	}
	return v.Num, true
}
