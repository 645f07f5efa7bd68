package eval

import (
	"fmt"
	"strings"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/bundle"
	"github.com/paperclip-lang/paperclip/internal/vdom"
)

// BuildTokenRegistry walks entry's own tokens, then each dependency's
// public tokens, registering the entry's first on any name collision
// (spec.md §4.5).
func BuildTokenRegistry(entry *ast.Document, b *bundle.Bundle, entryPath string) map[string]string {
	reg := map[string]string{}
	for _, tok := range entry.Tokens {
		if _, exists := reg[tok.Name]; !exists {
			reg[tok.Name] = tok.Value
		}
	}
	for _, depPath := range b.Dependencies(entryPath) {
		dep, ok := b.Document(depPath)
		if !ok {
			continue
		}
		for _, tok := range dep.Tokens {
			if !tok.Public {
				continue
			}
			if _, exists := reg[tok.Name]; !exists {
				reg[tok.Name] = tok.Value
			}
		}
	}
	return reg
}

// resolveValue replaces a property value of the form "{name}" with its
// registered token value (spec.md §4.5); any other string passes through
// unchanged.
func resolveValue(raw string, tokens map[string]string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= 2 && trimmed[0] == '{' && trimmed[len(trimmed)-1] == '}' {
		name := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
		v, ok := tokens[name]
		if !ok {
			return "", &TokenNotFoundError{Name: name}
		}
		return v, nil
	}
	return raw, nil
}

type propEntry struct {
	Name  string
	Value string
}

// mergeInto expands extendsRefs (each resolved as a global style, merged
// recursively) into (result, index), then overlays ownProps/ownOrder via
// renderOwn, overriding same-named entries so local properties win (spec.md
// §4.5 point 3).
func mergeInto(result []propEntry, index map[string]int, extendsRefs []string, ownProps map[string]string, ownOrder []string, renderOwn func(name, resolved string) string, b *bundle.Bundle, currentFile string, tokens map[string]string) ([]propEntry, error) {
	for _, ref := range extendsRefs {
		extended, err := b.FindStyle(ref, currentFile)
		if err != nil {
			return nil, err
		}
		parentEntries, err := resolveStyleChain(extended, b, currentFile, tokens)
		if err != nil {
			return nil, err
		}
		for _, pe := range parentEntries {
			if idx, ok := index[pe.Name]; ok {
				result[idx] = pe
			} else {
				index[pe.Name] = len(result)
				result = append(result, pe)
			}
		}
	}
	for _, name := range ownOrder {
		resolved, err := resolveValue(ownProps[name], tokens)
		if err != nil {
			return nil, err
		}
		entry := propEntry{Name: name, Value: renderOwn(name, resolved)}
		if idx, ok := index[name]; ok {
			result[idx] = entry
		} else {
			index[name] = len(result)
			result = append(result, entry)
		}
	}
	return result, nil
}

// resolveStyleChain returns the fully-merged property list for a named
// style, including its own properties (wrapped as a reference to its own
// :root custom property, with the locally-resolved value as CSS fallback)
// and everything it extends (spec.md §4.5 points 1-3).
func resolveStyleChain(style *ast.Style, b *bundle.Bundle, currentFile string, tokens map[string]string) ([]propEntry, error) {
	renderOwn := func(name, resolved string) string {
		return fmt.Sprintf("var(%s, %s)", CSSVarName(style.Name, name, style.Span.ID), resolved)
	}
	return mergeInto(nil, map[string]int{}, style.Extends, style.Properties, style.PropOrder, renderOwn, b, currentFile, tokens)
}

// EvaluateCSS produces the VirtualCssDocument for entry (spec.md §4.5).
func EvaluateCSS(entry *ast.Document, b *bundle.Bundle, entryPath string) ([]vdom.CssRule, error) {
	tokens := BuildTokenRegistry(entry, b, entryPath)
	docID, _ := b.DocumentIDFor(entryPath)

	var rules []vdom.CssRule

	root := vdom.CssRule{Selector: ":root"}
	hasRoot := false
	for _, style := range entry.Styles {
		if !style.Public {
			continue
		}
		for _, name := range style.PropOrder {
			resolved, err := resolveValue(style.Properties[name], tokens)
			if err != nil {
				return nil, err
			}
			root.SetProperty(CSSVarName(style.Name, name, style.Span.ID), resolved)
			hasRoot = true
		}

		merged, err := resolveStyleChain(&style, b, entryPath, tokens)
		if err != nil {
			return nil, err
		}
		classRule := vdom.CssRule{Selector: "." + GlobalClassName(style.Name, docID, style.Span.ID)}
		for _, e := range merged {
			classRule.SetProperty(e.Name, e.Value)
		}
		rules = append(rules, classRule)
	}
	if hasRoot {
		rules = append([]vdom.CssRule{root}, rules...)
	}

	for _, comp := range entry.Components {
		if !comp.Public || comp.Render == nil {
			continue
		}
		tagRules, err := collectComponentRules(comp.Render, comp.Name, docID, b, entryPath, tokens)
		if err != nil {
			return nil, err
		}
		rules = append(rules, tagRules...)
	}

	return rules, nil
}

// collectComponentRules recurses a component's render body, emitting one
// class rule per Tag with non-empty styles (spec.md §4.5).
func collectComponentRules(el ast.Element, componentName, docID string, b *bundle.Bundle, currentFile string, tokens map[string]string) ([]vdom.CssRule, error) {
	var rules []vdom.CssRule

	var walk func(ast.Element) error
	walk = func(el ast.Element) error {
		switch n := el.(type) {
		case *ast.Tag:
			if len(n.Styles) > 0 {
				var result []propEntry
				index := map[string]int{}
				for _, block := range n.Styles {
					var err error
					result, err = mergeInto(result, index, block.Extends, block.Properties, block.PropOrder,
						func(name, resolved string) string { return resolved }, b, currentFile, tokens)
					if err != nil {
						return err
					}
				}
				rule := vdom.CssRule{Selector: "." + ComponentClassName(componentName, n.TagName, docID, n.Span.ID)}
				for _, e := range result {
					rule.SetProperty(e.Name, e.Value)
				}
				rules = append(rules, rule)
			}
			for _, c := range n.Children {
				if err := walk(c); err != nil {
					return err
				}
			}
		case *ast.Instance:
			for _, c := range n.Children {
				if err := walk(c); err != nil {
					return err
				}
			}
		case *ast.Conditional:
			for _, c := range n.ThenBranch {
				if err := walk(c); err != nil {
					return err
				}
			}
			for _, c := range n.ElseBranch {
				if err := walk(c); err != nil {
					return err
				}
			}
		case *ast.Repeat:
			for _, c := range n.Body {
				if err := walk(c); err != nil {
					return err
				}
			}
		case *ast.Insert:
			for _, c := range n.Content {
				if err := walk(c); err != nil {
					return err
				}
			}
		case *ast.Text, *ast.SlotInsert:
			// Neither contributes rules (spec.md §4.5).
		}
		return nil
	}

	if err := walk(el); err != nil {
		return nil, err
	}
	return rules, nil
}
