package eval

import (
	"strconv"

	"github.com/paperclip-lang/paperclip/internal/ast"
	"github.com/paperclip-lang/paperclip/internal/bundle"
	"github.com/paperclip-lang/paperclip/internal/semantic"
	"github.com/paperclip-lang/paperclip/internal/values"
	"github.com/paperclip-lang/paperclip/internal/vdom"
)

// evalCtx threads the per-node state described as Context in spec.md §4.6
// through the recursive element evaluator.
type evalCtx struct {
	scope       *Scope
	semID       semantic.ID
	currentFile string
	bundle      *bundle.Bundle

	// frame, when non-nil, is consumed exactly once by the next Tag
	// evaluated (the body root of a component or top-level render with an
	// @frame annotation).
	frame *ast.Frame

	// slots holds the content bound to each named slot at the nearest
	// enclosing Instance (spec.md §4.6 SlotInsert).
	slots map[string][]ast.Element

	// defaults holds each slot's `slot name { ... }` default content,
	// declared on the component whose body is currently being evaluated.
	defaults map[string][]ast.Element
}

func (c evalCtx) withSemID(id semantic.ID) evalCtx {
	c2 := c
	c2.semID = id
	c2.frame = nil
	return c2
}

// EvaluateDocument produces the VirtualDomDocument for entry (spec.md
// §4.6), then attaches CSS rules produced by EvaluateCSS.
func EvaluateDocument(entry *ast.Document, b *bundle.Bundle, entryPath string) (*vdom.Document, error) {
	tokens := BuildTokenRegistry(entry, b, entryPath)
	rootScope := NewScope()
	for name, v := range tokens {
		rootScope.Set(name, values.String(v))
	}

	doc := &vdom.Document{}

	for _, comp := range entry.Components {
		if !comp.Public || comp.Render == nil {
			continue
		}
		semID := semantic.Root().Append(semantic.ComponentSegment(comp.Name, nil))
		ctx := evalCtx{
			scope:       rootScope.Child(),
			semID:       semID,
			currentFile: entryPath,
			bundle:      b,
			frame:       comp.Frame,
			defaults:    slotDefaults(comp),
		}
		node := evalElementRecovering(comp.Render, ctx)
		doc.Nodes = append(doc.Nodes, node)
	}

	for i, r := range entry.Renders {
		var frame *ast.Frame
		if i < len(entry.RenderFrames) {
			frame = entry.RenderFrames[i]
		}
		ctx := evalCtx{
			scope:       rootScope.Child(),
			semID:       semantic.Root(),
			currentFile: entryPath,
			bundle:      b,
			frame:       frame,
		}
		node := evalElementRecovering(r.Body, ctx)
		doc.Nodes = append(doc.Nodes, node)
	}

	rules, err := EvaluateCSS(entry, b, entryPath)
	if err != nil {
		return nil, err
	}
	doc.Styles = rules
	return doc, nil
}

// evalElementRecovering evaluates el, turning any error into an Error VNode
// in place rather than aborting (spec.md §4.6: "partial evaluation").
func evalElementRecovering(el ast.Element, ctx evalCtx) *vdom.VNode {
	node, err := evalElement(el, ctx)
	if err != nil {
		span := el.ElemSpan()
		return vdom.NewError(err.Error(), &vdom.ErrorSpan{Start: span.Start, End: span.End}, ctx.semID.Selector())
	}
	return node
}

func evalElement(el ast.Element, ctx evalCtx) (*vdom.VNode, error) {
	switch n := el.(type) {
	case *ast.Tag:
		return evalTag(n, ctx)
	case *ast.Text:
		return evalText(n, ctx)
	case *ast.Instance:
		return evalInstance(n, ctx)
	case *ast.SlotInsert:
		return evalSlotInsert(n, ctx)
	case *ast.Conditional:
		return evalConditional(n, ctx)
	case *ast.Repeat:
		return evalRepeat(n, ctx)
	default:
		return vdom.NewComment("unsupported element"), nil
	}
}

func evalTag(n *ast.Tag, ctx evalCtx) (*vdom.VNode, error) {
	attrs := map[string]string{}
	for _, name := range n.AttrOrder {
		v, err := EvalExpression(n.Attributes[name], ctx.scope)
		if err != nil {
			return nil, err
		}
		attrs[name] = v.ToString()
	}

	styles := map[string]string{}
	for _, block := range n.Styles {
		for _, name := range block.PropOrder {
			styles[name] = block.Properties[name]
		}
	}

	var role *string
	if r, ok := attrs["data-role"]; ok {
		role = &r
	}

	semID := ctx.semID.Append(semantic.ElementSegment(n.TagName, role, n.Span.ID))

	if ctx.frame != nil {
		attrs["data-frame-x"] = formatNum(ctx.frame.X)
		attrs["data-frame-y"] = formatNum(ctx.frame.Y)
		if ctx.frame.HasWidth {
			attrs["data-frame-width"] = formatNum(ctx.frame.Width)
		}
		if ctx.frame.HasHeight {
			attrs["data-frame-height"] = formatNum(ctx.frame.Height)
		}
	}

	node := vdom.NewElement(n.TagName)
	node.Attributes = attrs
	node.Styles = styles
	node.SemanticID = semID.Selector()
	srcID := n.Span.ID
	node.SourceID = &srcID

	childCtx := ctx.withSemID(semID)
	for _, c := range n.Children {
		node.Children = append(node.Children, evalElementRecovering(c, childCtx))
	}
	return node, nil
}

func evalText(n *ast.Text, ctx evalCtx) (*vdom.VNode, error) {
	v, err := EvalExpression(n.Content, ctx.scope)
	if err != nil {
		return nil, err
	}
	return vdom.NewText(v.ToString()), nil
}

func evalInstance(n *ast.Instance, ctx evalCtx) (*vdom.VNode, error) {
	comp, err := ctx.bundle.FindComponent(n.Name, ctx.currentFile)
	if err != nil {
		return nil, err
	}

	childScope := ctx.scope.Child()
	var key *string
	for _, name := range n.PropOrder {
		v, err := EvalExpression(n.Props[name], ctx.scope)
		if err != nil {
			return nil, err
		}
		childScope.Set(name, v)
		if name == "key" {
			s := v.ToString()
			key = &s
		}
	}

	slots := map[string][]ast.Element{}
	var positional []ast.Element
	for _, c := range n.Children {
		if ins, ok := c.(*ast.Insert); ok {
			slots[ins.SlotName] = ins.Content
			continue
		}
		positional = append(positional, c)
	}
	if len(positional) > 0 {
		slots["default"] = positional
	}

	semID := ctx.semID.Append(semantic.ComponentSegment(n.Name, key))
	childCtx := evalCtx{
		scope:       childScope,
		semID:       semID,
		currentFile: ctx.currentFile,
		bundle:      ctx.bundle,
		frame:       comp.Frame,
		slots:       slots,
		defaults:    slotDefaults(comp),
	}
	if comp.Render == nil {
		return vdom.NewComment(n.Name), nil
	}
	return evalElement(comp.Render, childCtx)
}

func evalSlotInsert(n *ast.SlotInsert, ctx evalCtx) (*vdom.VNode, error) {
	if content, ok := ctx.slots[n.Name]; ok && len(content) > 0 {
		semID := ctx.semID.Append(semantic.SlotSegment(n.Name, semantic.SlotInserted))
		return wrapMultiple(content, ctx.withSemID(semID)), nil
	}
	semID := ctx.semID.Append(semantic.SlotSegment(n.Name, semantic.SlotDefault))
	if content, ok := ctx.defaults[n.Name]; ok && len(content) > 0 {
		return wrapMultiple(content, ctx.withSemID(semID)), nil
	}
	node := vdom.NewComment("slot:" + n.Name)
	node.SemanticID = semID.Selector()
	return node, nil
}

// slotDefaults builds the name->default-content map for comp's declared
// slots (spec.md §3.3 Slot.DefaultContent).
func slotDefaults(comp *ast.Component) map[string][]ast.Element {
	m := map[string][]ast.Element{}
	for _, s := range comp.Slots {
		m[s.Name] = s.DefaultContent
	}
	return m
}

func evalConditional(n *ast.Conditional, ctx evalCtx) (*vdom.VNode, error) {
	cond, err := EvalExpression(n.Condition, ctx.scope)
	if err != nil {
		return nil, err
	}

	branch := semantic.BranchThen
	children := n.ThenBranch
	if !cond.IsTruthy() {
		branch = semantic.BranchElse
		children = n.ElseBranch
	}

	semID := ctx.semID.Append(semantic.ConditionalBranchSegment(n.Span.ID, branch))
	if len(children) == 0 {
		node := vdom.NewComment("conditional false")
		node.SemanticID = semID.Selector()
		return node, nil
	}
	return wrapMultiple(children, ctx.withSemID(semID)), nil
}

func evalRepeat(n *ast.Repeat, ctx evalCtx) (*vdom.VNode, error) {
	coll, err := EvalExpression(n.Collection, ctx.scope)
	if err != nil {
		return nil, err
	}
	if coll.Kind != values.KindArray {
		return vdom.NewComment("repeat: non-array collection"), nil
	}
	if len(coll.Arr) == 0 {
		return vdom.NewComment("repeat: empty collection"), nil
	}

	wrapper := vdom.NewElement("div")
	wrapper.SemanticID = ctx.semID.Selector()
	for i, item := range coll.Arr {
		itemScope := ctx.scope.Child()
		itemScope.Set(n.ItemName, item)

		key := formatIndex(i)
		if item.Kind == values.KindObject {
			if k, ok := item.Object["key"]; ok {
				key = k.ToString()
			}
		}

		semID := ctx.semID.Append(semantic.RepeatItemSegment(n.Span.ID, key))
		itemCtx := evalCtx{
			scope:       itemScope,
			semID:       semID,
			currentFile: ctx.currentFile,
			bundle:      ctx.bundle,
			slots:       ctx.slots,
			defaults:    ctx.defaults,
		}
		node := wrapMultiple(n.Body, itemCtx)
		wrapper.Children = append(wrapper.Children, node)
	}
	return wrapper, nil
}

// wrapMultiple evaluates a list of sibling elements; if exactly one
// results, it is returned directly, otherwise it is wrapped in a
// transparent <div> (spec.md §4.6 Conditional, Repeat).
func wrapMultiple(children []ast.Element, ctx evalCtx) *vdom.VNode {
	if len(children) == 1 {
		return evalElementRecovering(children[0], ctx)
	}
	wrapper := vdom.NewElement("div")
	wrapper.SemanticID = ctx.semID.Selector()
	for _, c := range children {
		wrapper.Children = append(wrapper.Children, evalElementRecovering(c, ctx))
	}
	return wrapper
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
