package prooftree

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RenderASCII renders the tree rooted at root's real root as box-drawing
// ASCII art, one line per node.
func RenderASCII(root *Node) string {
	var sb strings.Builder
	realRoot := root.RealRoot()
	if realRoot == nil {
		return ""
	}
	sb.WriteString(realRoot.Tag)
	sb.WriteString("\n")
	renderChildren(&sb, realRoot, "")
	return sb.String()
}

func renderChildren(sb *strings.Builder, n *Node, prefix string) {
	for i, c := range n.Children {
		last := i == len(n.Children)-1
		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		fmt.Fprintf(sb, "%s%s%s\n", prefix, connector, c.Tag)
		renderChildren(sb, c, childPrefix)
	}
}

// jsonNode is the wire shape for RenderJSON.
type jsonNode struct {
	Tag      string      `json:"tag"`
	Data     string      `json:"data"`
	Children []*jsonNode `json:"children,omitempty"`
}

func toJSONNode(n *Node) *jsonNode {
	jn := &jsonNode{Tag: n.Tag, Data: n.Data}
	for _, c := range n.Children {
		jn.Children = append(jn.Children, toJSONNode(c))
	}
	return jn
}

// RenderJSON renders the tree rooted at root's real root as indented
// JSON.
func RenderJSON(root *Node) ([]byte, error) {
	realRoot := root.RealRoot()
	if realRoot == nil {
		return json.Marshal(nil)
	}
	return json.MarshalIndent(toJSONNode(realRoot), "", "  ")
}
