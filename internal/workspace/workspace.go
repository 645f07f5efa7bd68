// Package workspace implements the per-file cache from spec.md §4.11: the
// single source of truth that gives the live-preview pipeline
// "last-valid-state preservation" while typing. Grounded on the teacher's
// pages.Handler, which similarly holds one long-lived struct guarding
// mutable per-request state behind a mutex and an optional *slog.Logger.
package workspace

import (
	"log/slog"
	"sync"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/bundle"
	"github.com/paperclip-lang/paperclip/internal/diff"
	"github.com/paperclip-lang/paperclip/internal/eval"
	"github.com/paperclip-lang/paperclip/internal/fsx"
	"github.com/paperclip-lang/paperclip/internal/logx"
	"github.com/paperclip-lang/paperclip/internal/parser"
	"github.com/paperclip-lang/paperclip/internal/validator"
	"github.com/paperclip-lang/paperclip/internal/vdom"
)

// entry caches everything derived from one file's last successful parse
// (spec.md §4.11).
type entry struct {
	source  string
	doc     *ast.Document
	vdom    *vdom.Document
	styles  []vdom.CssRule
	version int
}

// UpdateResult is returned by State.UpdateFile (spec.md §4.11): either the
// very first successful evaluation of a file (Initial carries the full
// tree) or an incremental patch set against the previous cache.
type UpdateResult struct {
	Version  int
	Initial  bool
	Document *vdom.Document // set when Initial
	Styles   []vdom.CssRule // set when Initial
	Patches  []diff.Patch   // set when !Initial
	Warnings []validator.Warning
}

// State is the workspace cache (spec.md §4.11). One State serves one
// project; DevMode toggles internal/validator's traversal.
type State struct {
	Bundle *bundle.Bundle
	Logger *slog.Logger
	DevMode bool

	mu      sync.Mutex
	entries map[string]*entry
}

// NewState returns a State over an empty bundle.
func NewState(logger *slog.Logger, devMode bool) *State {
	return &State{
		Bundle:  bundle.New(),
		Logger:  logx.Default(logger),
		DevMode: devMode,
		entries: map[string]*entry{},
	}
}

// UpdateFile runs the full pipeline for one file's new source (spec.md
// §4.11): parse, bundle, evaluate, diff against the cached snapshot, bump
// the version, and replace the cache — all only on success. A parse
// failure leaves the prior cache (and therefore the last good preview)
// untouched and is returned as an error.
func (s *State) UpdateFile(fs fsx.FileSystem, path, source, projectRoot string) (UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := parser.Parse(path, source)
	if err != nil {
		return UpdateResult{}, err
	}

	canonical, err := s.Bundle.AddDocument(fs, path, doc)
	if err != nil {
		return UpdateResult{}, err
	}
	if err := s.Bundle.BuildDependencies(fs, projectRoot); err != nil {
		return UpdateResult{}, err
	}

	newVDom, err := eval.EvaluateDocument(doc, s.Bundle, canonical)
	if err != nil {
		return UpdateResult{}, err
	}
	newStyles, err := eval.EvaluateCSS(doc, s.Bundle, canonical)
	if err != nil {
		return UpdateResult{}, err
	}

	warnings := validator.Validate(newVDom, s.DevMode)
	for _, w := range warnings {
		s.Logger.Warn("validation", slog.String("level", w.Level.String()), slog.String("message", w.Message), slog.String("semantic_id", w.SemanticID))
	}

	prior, hadPrior := s.entries[canonical]
	version := 1
	if hadPrior {
		version = prior.version + 1
	}

	s.entries[canonical] = &entry{source: source, doc: doc, vdom: newVDom, styles: newStyles, version: version}

	if !hadPrior {
		return UpdateResult{Version: version, Initial: true, Document: newVDom, Styles: newStyles, Warnings: warnings}, nil
	}

	oldDoc := &vdom.Document{Nodes: prior.vdom.Nodes, Styles: prior.styles}
	newDoc := &vdom.Document{Nodes: newVDom.Nodes, Styles: newStyles}
	patches := diff.DiffDocuments(oldDoc, newDoc)
	return UpdateResult{Version: version, Patches: patches, Warnings: warnings}, nil
}

// Get returns the cached VDOM document and styles for path, if present.
func (s *State) Get(canonicalPath string) (*vdom.Document, []vdom.CssRule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[canonicalPath]
	if !ok {
		return nil, nil, false
	}
	return e.vdom, e.styles, true
}

// Source returns the last successfully cached source text and parsed
// Document for path, if present (spec.md §4.11).
func (s *State) Source(canonicalPath string) (string, *ast.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[canonicalPath]
	if !ok {
		return "", nil, false
	}
	return e.source, e.doc, true
}
