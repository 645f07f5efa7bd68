// Package bundle owns every parsed Document in a project, resolves imports
// into a dependency graph, and answers cross-file name-resolution queries
// (spec.md §3.8, §4.4). It is grounded on the teacher's io/fs.FS wrapping
// idiom (internal/fsx, itself grounded on dpotapov/go-pages) for filesystem
// access, and on golang.org/x/sync/errgroup for the concurrent dependency
// walk (SPEC_FULL.md §10 domain-stack wiring).
package bundle

import (
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/fsx"
	"github.com/paperclip-lang/paperclip/internal/idgen"
)

// AssetReference describes one non-Paperclip file (image, font, ...)
// referenced from a document. original_source's bundle.rs tracks an
// AssetReference{path, kind, size_hint}; spec.md only requires a
// deduplicated registry, so size_hint is dropped as unused by any
// consumer described in spec.md (see SPEC_FULL.md §4).
type AssetReference struct {
	Path string
	Kind AssetKind
}

// AssetKind classifies an asset by its file extension.
type AssetKind int

const (
	AssetUnknown AssetKind = iota
	AssetImage
	AssetFont
)

func classifyAsset(path string) AssetKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp":
		return AssetImage
	case ".woff", ".woff2", ".ttf", ".otf":
		return AssetFont
	default:
		return AssetUnknown
	}
}

type assetEntry struct {
	ref     AssetReference
	sources map[string]bool
}

// Bundle owns all parsed Documents keyed by canonical file path (spec.md
// §3.8). Clients must treat Document pointers returned from Bundle as
// short-lived: AddDocument may replace the underlying entry at any time.
type Bundle struct {
	mu sync.RWMutex

	docs map[string]*ast.Document
	ids  map[string]string // canonical path -> document id (hex CRC32)

	// aliases[file][alias] = resolved canonical path, populated by
	// BuildDependencies from each document's import declarations.
	aliases map[string]map[string]string

	// forward[a] = set of paths a imports; reverse[a] = set of paths that
	// import a (spec.md §4.4).
	forward map[string]map[string]bool
	reverse map[string]map[string]bool

	assets map[string]*assetEntry
}

// New returns an empty Bundle.
func New() *Bundle {
	return &Bundle{
		docs:    map[string]*ast.Document{},
		ids:     map[string]string{},
		aliases: map[string]map[string]string{},
		forward: map[string]map[string]bool{},
		reverse: map[string]map[string]bool{},
		assets:  map[string]*assetEntry{},
	}
}

// DocumentID returns the CRC32-of-canonical-path id for path (spec.md
// §4.4: "computes the document id (CRC32 of the canonical path as
// string)"), reusing internal/idgen's seed derivation so a document's id
// and its node-id prefix are always the same value.
func DocumentID(canonicalPath string) string {
	return idgen.New(canonicalPath).Seed()
}

// AddDocument canonicalizes path via fs, computes its document id, and
// stores doc, replacing any prior document under that path (spec.md §4.4).
func (b *Bundle) AddDocument(fs fsx.FileSystem, path string, doc *ast.Document) (string, error) {
	canonical, err := fs.Canonicalize(path)
	if err != nil {
		return "", err
	}
	doc.Path = canonical

	b.mu.Lock()
	defer b.mu.Unlock()
	b.docs[canonical] = doc
	b.ids[canonical] = DocumentID(canonical)
	if _, ok := b.forward[canonical]; !ok {
		b.forward[canonical] = map[string]bool{}
	}
	if _, ok := b.reverse[canonical]; !ok {
		b.reverse[canonical] = map[string]bool{}
	}
	return canonical, nil
}

// DocumentIDFor returns the stored document id for canonicalPath, as
// computed by the most recent AddDocument call.
func (b *Bundle) DocumentIDFor(canonicalPath string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	id, ok := b.ids[canonicalPath]
	return id, ok
}

// Document returns the document stored under canonical path.
func (b *Bundle) Document(canonicalPath string) (*ast.Document, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	d, ok := b.docs[canonicalPath]
	return d, ok
}

// Dependencies returns the canonical paths directly imported by path, in
// sorted order (spec.md §4.5: "walk the entry document's tokens, then walk
// dependencies").
func (b *Bundle) Dependencies(path string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.forward[path]))
	for t := range b.forward[path] {
		out = append(out, t)
	}
	sortStrings(out)
	return out
}

// Paths returns every canonical path currently held by the bundle, in no
// particular order.
func (b *Bundle) Paths() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.docs))
	for p := range b.docs {
		out = append(out, p)
	}
	return out
}

// resolveImportPath resolves an import's literal path text against the
// importing file's directory and the project root (spec.md §4.4: "resolves
// each './foo.pc' or 'pkg/foo.pc' against the importing file and project
// root").
func resolveImportPath(fs fsx.FileSystem, importPath, fromFile, projectRoot string) (string, error) {
	var candidate string
	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		candidate = filepath.Join(filepath.Dir(fromFile), importPath)
	} else {
		candidate = filepath.Join(projectRoot, importPath)
	}
	if !fs.Exists(candidate) {
		return "", &ImportNotFoundError{ImportPath: importPath, FromFile: fromFile}
	}
	return fs.Canonicalize(candidate)
}

// BuildDependencies walks every document's imports, resolves each against
// the importing file and projectRoot, records alias maps, and constructs
// forward/reverse edges (spec.md §4.4). Resolution for distinct documents
// runs concurrently via errgroup; the graph itself is built sequentially
// afterwards since edge insertion must be deterministic and cheap.
func (b *Bundle) BuildDependencies(fs fsx.FileSystem, projectRoot string) error {
	b.mu.RLock()
	paths := make([]string, 0, len(b.docs))
	for p := range b.docs {
		paths = append(paths, p)
	}
	b.mu.RUnlock()

	type resolved struct {
		fromFile string
		alias    string
		target   string
	}
	results := make([][]resolved, len(paths))

	var g errgroup.Group
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			b.mu.RLock()
			doc := b.docs[p]
			b.mu.RUnlock()

			out := make([]resolved, 0, len(doc.Imports))
			for _, imp := range doc.Imports {
				target, err := resolveImportPath(fs, imp.Path, p, projectRoot)
				if err != nil {
					return err
				}
				out = append(out, resolved{fromFile: p, alias: imp.Alias, target: target})
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, rs := range results {
		for _, r := range rs {
			if _, ok := b.aliases[r.fromFile]; !ok {
				b.aliases[r.fromFile] = map[string]string{}
			}
			if r.alias != "" {
				b.aliases[r.fromFile][r.alias] = r.target
			}
			if _, ok := b.forward[r.fromFile]; !ok {
				b.forward[r.fromFile] = map[string]bool{}
			}
			b.forward[r.fromFile][r.target] = true
			if _, ok := b.reverse[r.target]; !ok {
				b.reverse[r.target] = map[string]bool{}
			}
			b.reverse[r.target][r.fromFile] = true
		}
	}

	return b.detectCycleLocked()
}

// visitState is the three-color DFS marker from spec.md §4.4.
type visitState int

const (
	unvisited visitState = iota
	inProgress
	done
)

// detectCycleLocked runs the three-color DFS described in spec.md §4.4: a
// back-edge to an in-progress node is a cycle. Caller must hold b.mu.
func (b *Bundle) detectCycleLocked() error {
	state := map[string]visitState{}
	for p := range b.docs {
		state[p] = unvisited
	}

	var visit func(path string) error
	visit = func(path string) error {
		state[path] = inProgress
		neighbors := make([]string, 0, len(b.forward[path]))
		for n := range b.forward[path] {
			neighbors = append(neighbors, n)
		}
		sortStrings(neighbors)
		for _, n := range neighbors {
			switch state[n] {
			case inProgress:
				return &CircularDependencyError{Path: n}
			case unvisited:
				if err := visit(n); err != nil {
					return err
				}
			}
		}
		state[path] = done
		return nil
	}

	paths := make([]string, 0, len(b.docs))
	for p := range b.docs {
		paths = append(paths, p)
	}
	sortStrings(paths)
	for _, p := range paths {
		if state[p] == unvisited {
			if err := visit(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// splitRef splits a "alias.name" reference into (alias, name); alias is ""
// if ref contains no dot (spec.md §4.4).
func splitRef(ref string) (alias, name string) {
	if i := strings.IndexByte(ref, '.'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}

// FindComponent resolves a component reference against currentFile (spec.md
// §4.4).
func (b *Bundle) FindComponent(ref, currentFile string) (*ast.Component, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	alias, name := splitRef(ref)
	if alias != "" {
		target, ok := b.aliases[currentFile][alias]
		if !ok {
			return nil, ErrComponentNotFound
		}
		doc, ok := b.docs[target]
		if !ok {
			return nil, ErrComponentNotFound
		}
		c, ok := doc.FindComponent(name)
		if !ok || !c.Public {
			return nil, ErrComponentNotFound
		}
		return c, nil
	}
	if doc, ok := b.docs[currentFile]; ok {
		if c, ok := doc.FindComponent(name); ok {
			return c, nil
		}
	}
	for _, target := range b.unaliasedImports(currentFile) {
		if doc, ok := b.docs[target]; ok {
			if c, ok := doc.FindComponent(name); ok && c.Public {
				return c, nil
			}
		}
	}
	return nil, ErrComponentNotFound
}

// FindStyle resolves a style reference against currentFile (spec.md §4.4).
func (b *Bundle) FindStyle(ref, currentFile string) (*ast.Style, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	alias, name := splitRef(ref)
	if alias != "" {
		target, ok := b.aliases[currentFile][alias]
		if !ok {
			return nil, ErrStyleNotFound
		}
		doc, ok := b.docs[target]
		if !ok {
			return nil, ErrStyleNotFound
		}
		s, ok := doc.FindStyle(name)
		if !ok || !s.Public {
			return nil, ErrStyleNotFound
		}
		return s, nil
	}
	if doc, ok := b.docs[currentFile]; ok {
		if s, ok := doc.FindStyle(name); ok {
			return s, nil
		}
	}
	for _, target := range b.unaliasedImports(currentFile) {
		if doc, ok := b.docs[target]; ok {
			if s, ok := doc.FindStyle(name); ok && s.Public {
				return s, nil
			}
		}
	}
	return nil, ErrStyleNotFound
}

// FindToken resolves a token reference against currentFile (spec.md §4.4).
func (b *Bundle) FindToken(ref, currentFile string) (*ast.Token, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	alias, name := splitRef(ref)
	if alias != "" {
		target, ok := b.aliases[currentFile][alias]
		if !ok {
			return nil, ErrTokenNotFound
		}
		doc, ok := b.docs[target]
		if !ok {
			return nil, ErrTokenNotFound
		}
		t, ok := doc.FindToken(name)
		if !ok || !t.Public {
			return nil, ErrTokenNotFound
		}
		return t, nil
	}
	if doc, ok := b.docs[currentFile]; ok {
		if t, ok := doc.FindToken(name); ok {
			return t, nil
		}
	}
	for _, target := range b.unaliasedImports(currentFile) {
		if doc, ok := b.docs[target]; ok {
			if t, ok := doc.FindToken(name); ok && t.Public {
				return t, nil
			}
		}
	}
	return nil, ErrTokenNotFound
}

// unaliasedImports returns the forward-edge targets of currentFile that
// were imported without an alias. Caller must hold b.mu (read or write).
func (b *Bundle) unaliasedImports(currentFile string) []string {
	doc, ok := b.docs[currentFile]
	if !ok {
		return nil
	}
	aliased := map[string]bool{}
	for _, a := range b.aliases[currentFile] {
		aliased[a] = true
	}
	out := make([]string, 0, len(doc.Imports))
	for target := range b.forward[currentFile] {
		if !aliased[target] {
			out = append(out, target)
		}
	}
	sortStrings(out)
	return out
}

// AddAsset inserts path into the deduplicated asset registry, recording
// sourceFile in its using set (spec.md §4.4).
func (b *Bundle) AddAsset(path, sourceFile string) *AssetReference {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.assets[path]
	if !ok {
		e = &assetEntry{
			ref:     AssetReference{Path: path, Kind: classifyAsset(path)},
			sources: map[string]bool{},
		}
		b.assets[path] = e
	}
	e.sources[sourceFile] = true
	return &e.ref
}

// Asset returns the registered AssetReference for path, if any.
func (b *Bundle) Asset(path string) (*AssetReference, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.assets[path]
	if !ok {
		return nil, false
	}
	ref := e.ref
	return &ref, true
}

// AssetSourceUsers returns the sorted set of files that reference path
// (spec.md §4.4: "source_users available separately").
func (b *Bundle) AssetSourceUsers(path string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.assets[path]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(e.sources))
	for s := range e.sources {
		out = append(out, s)
	}
	sortStrings(out)
	return out
}
