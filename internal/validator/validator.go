// Package validator implements the dev-mode VDOM checks from spec.md §4.10:
// a read-only walk over an evaluated vdom.Document that reports warnings
// and errors without altering evaluation. Grounded on the teacher's
// checker pattern (a dedicated walker type separate from the evaluator
// that only produces diagnostics, as chtml's component validation does)
// and on semantic.ID's canonical selector string for naming the offending
// node in each warning.
package validator

import (
	"strings"

	"github.com/paperclip-lang/paperclip/internal/vdom"
)

// Level distinguishes a blocking problem from an advisory one (spec.md
// §4.10).
type Level int

const (
	LevelWarning Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "warning"
}

// Warning is one diagnostic produced by Validate (spec.md §4.10
// ValidationWarning).
type Warning struct {
	Level      Level
	Message    string
	SemanticID string // empty if the warning is not tied to one node
}

// Validate walks doc and returns every diagnostic found. devMode=false
// returns nil without traversal (spec.md §4.10: "production mode returns
// an empty list without traversal").
func Validate(doc *vdom.Document, devMode bool) []Warning {
	if !devMode {
		return nil
	}
	v := &walker{seenIDs: map[string]bool{}}
	for _, n := range doc.Nodes {
		v.walk(n)
	}
	return v.warnings
}

type walker struct {
	warnings []Warning
	seenIDs  map[string]bool
}

func (v *walker) warn(level Level, message, semID string) {
	v.warnings = append(v.warnings, Warning{Level: level, Message: message, SemanticID: semID})
}

func (v *walker) walk(n *vdom.VNode) {
	if n == nil {
		return
	}
	if n.SemanticID != "" {
		if v.seenIDs[n.SemanticID] {
			v.warn(LevelError, "duplicate semantic id: "+n.SemanticID, n.SemanticID)
		}
		v.seenIDs[n.SemanticID] = true
	}

	if isRepeatWrapper(n) {
		v.checkRepeatKeys(n)
	}
	v.checkInstanceSiblingKeys(n)

	for _, c := range n.Children {
		v.walk(c)
	}
}

// isRepeatWrapper recognizes the wrapper element evalRepeat produces: its
// own SemanticID has no repeat-item segment, but every child's does
// (spec.md §3.7 "repeat[repeat-id]{\"key\"}" segment, §4.6 evalRepeat).
func isRepeatWrapper(n *vdom.VNode) bool {
	if n.Kind != vdom.KindElement || len(n.Children) == 0 {
		return false
	}
	for _, c := range n.Children {
		if !strings.Contains(c.SemanticID, "repeat[") {
			return false
		}
	}
	return true
}

// checkRepeatKeys flags duplicate item keys within one repeat block and
// warns on auto-generated ("item-N") keys (spec.md §4.10).
func (v *walker) checkRepeatKeys(wrapper *vdom.VNode) {
	seen := map[string]bool{}
	for _, c := range wrapper.Children {
		key := repeatKey(c.SemanticID)
		if key == "" {
			continue
		}
		if seen[key] {
			v.warn(LevelError, "duplicate repeat item key: "+key, c.SemanticID)
		}
		seen[key] = true
		if isAutoGeneratedKey(key) {
			v.warn(LevelWarning, "auto-generated repeat key, prefer a stable key: "+key, c.SemanticID)
		}
	}
}

// repeatKey extracts the `{"key"}` payload from a segment's trailing
// `repeat[id]{"key"}` text (spec.md §3.7 Segment.String for SegRepeatItem).
func repeatKey(semID string) string {
	idx := strings.LastIndex(semID, `repeat[`)
	if idx < 0 {
		return ""
	}
	rest := semID[idx:]
	start := strings.Index(rest, `{"`)
	end := strings.LastIndex(rest, `"}`)
	if start < 0 || end < 0 || end <= start+2 {
		return ""
	}
	return rest[start+2 : end]
}

func isAutoGeneratedKey(key string) bool {
	return strings.HasPrefix(key, "item-")
}

// checkInstanceSiblingKeys warns when an element has multiple children
// whose SemanticID is a Component segment without an explicit key, since
// siblings would then be indistinguishable across reorderings (spec.md
// §4.10).
func (v *walker) checkInstanceSiblingKeys(n *vdom.VNode) {
	if n.Kind != vdom.KindElement || len(n.Children) < 2 {
		return
	}
	unkeyed := map[string]int{}
	for _, c := range n.Children {
		name, hasKey := componentSegment(c.SemanticID)
		if name == "" || hasKey {
			continue
		}
		unkeyed[name]++
	}
	for name, count := range unkeyed {
		if count > 1 {
			v.warn(LevelWarning, "component instance \""+name+"\" has no explicit key among multiple siblings", n.SemanticID)
		}
	}
}

// componentSegment reports the component name of semID's last segment and
// whether it carries an explicit `{"key"}` (spec.md §3.7 SegComponent
// rendering: `Name` or `Name{"key"}`).
func componentSegment(semID string) (name string, hasKey bool) {
	idx := strings.LastIndex(semID, "::")
	last := semID
	if idx >= 0 {
		last = semID[idx+2:]
	}
	if last == "" {
		return "", false
	}
	if strings.ContainsAny(last, "[.") {
		return "", false // Element or Slot segment, not a Component
	}
	if braceIdx := strings.Index(last, `{"`); braceIdx >= 0 {
		return last[:braceIdx], true
	}
	return last, false
}
