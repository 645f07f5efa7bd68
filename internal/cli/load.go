package cli

import (
	"fmt"
	"path/filepath"

	"github.com/paperclip-lang/paperclip/internal/bundle"
	"github.com/paperclip-lang/paperclip/internal/eval"
	"github.com/paperclip-lang/paperclip/internal/fsx"
	"github.com/paperclip-lang/paperclip/internal/parser"
	"github.com/paperclip-lang/paperclip/internal/vdom"
)

// loaded bundles together everything one file evaluates to, for reuse
// across check/build/inspect.
type loaded struct {
	fs        fsx.FileSystem
	bundle    *bundle.Bundle
	canonical string
	document  *vdom.Document
	styles    []vdom.CssRule
}

// loadFile parses path, registers it (and its transitive imports) in a
// fresh bundle rooted at its containing directory, and evaluates its VDOM
// and CSS.
func loadFile(path string) (*loaded, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	root := filepath.Dir(abs)
	rel := filepath.Base(abs)

	fs := fsx.NewOS(root)
	source, err := fs.ReadToString(rel)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := parser.Parse(rel, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	b := bundle.New()
	canonical, err := b.AddDocument(fs, rel, doc)
	if err != nil {
		return nil, fmt.Errorf("registering %s: %w", path, err)
	}
	if err := b.BuildDependencies(fs, root); err != nil {
		return nil, fmt.Errorf("resolving imports of %s: %w", path, err)
	}

	vdomDoc, err := eval.EvaluateDocument(doc, b, canonical)
	if err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", path, err)
	}
	styles, err := eval.EvaluateCSS(doc, b, canonical)
	if err != nil {
		return nil, fmt.Errorf("evaluating styles of %s: %w", path, err)
	}

	return &loaded{fs: fs, bundle: b, canonical: canonical, document: vdomDoc, styles: styles}, nil
}
