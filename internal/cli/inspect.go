package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/paperclip-lang/paperclip/internal/vdom"
)

var inspectXML bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Dump a file's evaluated VirtualDomDocument for debugging",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := loadFile(args[0])
		if err != nil {
			return err
		}
		if !inspectXML {
			return fmt.Errorf("inspect currently only supports --xml")
		}

		doc := etree.NewDocument()
		root := doc.CreateElement("document")
		for _, n := range l.document.Nodes {
			appendVNode(root, n)
		}
		doc.Indent(2)

		xml, err := doc.WriteToString()
		if err != nil {
			return fmt.Errorf("encoding %s as xml: %w", args[0], err)
		}
		fmt.Fprint(cmd.OutOrStdout(), xml)
		return nil
	},
}

// appendVNode renders one VNode (and its children) as an etree.Element
// under parent, the debug-only XML projection named in SPEC_FULL.md §10
// (not used on the hot evaluation path).
func appendVNode(parent *etree.Element, n *vdom.VNode) {
	switch n.Kind {
	case vdom.KindText:
		text := parent.CreateElement("text")
		text.SetText(n.Content)
	case vdom.KindComment:
		parent.CreateComment(n.Content)
	case vdom.KindErrorNode:
		errEl := parent.CreateElement("error")
		errEl.CreateAttr("message", n.Message)
		if n.SemanticID != "" {
			errEl.CreateAttr("semantic-id", n.SemanticID)
		}
	default:
		el := parent.CreateElement(n.Tag)
		if n.SemanticID != "" {
			el.CreateAttr("semantic-id", n.SemanticID)
		}
		if n.Key != nil {
			el.CreateAttr("key", *n.Key)
		}
		if n.ID != nil {
			el.CreateAttr("id", *n.ID)
		}
		for _, name := range sortedKeys(n.Attributes) {
			el.CreateAttr(name, n.Attributes[name])
		}
		if len(n.Styles) > 0 {
			styleEl := el.CreateElement("style")
			for i, name := range sortedKeys(n.Styles) {
				styleEl.CreateAttr("p"+strconv.Itoa(i), name+": "+n.Styles[name])
			}
		}
		for _, child := range n.Children {
			appendVNode(el, child)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectXML, "xml", false, "dump as an XML tree (the only supported format)")
}
