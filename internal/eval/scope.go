// Package eval implements the CSS and VDOM evaluators from spec.md §4.5
// and §4.6: turning a resolved Document plus its Bundle into a
// VirtualCssDocument and a VirtualDomDocument. Expression evaluation is
// hand-rolled directly against internal/ast.Expression rather than reused
// from the teacher's github.com/expr-lang/expr — see DESIGN.md for why
// that dependency is wired into internal/inference instead.
package eval

import "github.com/paperclip-lang/paperclip/internal/values"

// Scope is a chained variable environment (spec.md §4.6 Context.variables).
// Each Instance and each Repeat item creates a child scope so that
// shadowing never mutates an ancestor's bindings; a Conditional branch
// evaluates in its enclosing scope.
type Scope struct {
	parent *Scope
	vars   map[string]values.Value
}

// NewScope returns a root scope with no bindings.
func NewScope() *Scope {
	return &Scope{vars: map[string]values.Value{}}
}

// Child returns a new scope nested under s.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, vars: map[string]values.Value{}}
}

// Set binds name to v in this scope (not any ancestor).
func (s *Scope) Set(name string, v values.Value) {
	s.vars[name] = v
}

// Lookup resolves name by walking from s up through parents.
func (s *Scope) Lookup(name string) (values.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return values.Null, false
}
