// Package prooftree builds, from a Proved-Facts Map, per-fact proof
// skeletons and the AND/OR and regular proof trees served to a query
// (§3 "Proof Tree Node", §4.E, §4.F, §4.G).
package prooftree

import (
	"github.com/google/uuid"

	"xproblog/internal/model"
)

// orBranchPrefix marks a node as an OR-split alternative (§3, §4.F).
const orBranchPrefix = "or-branch:"

// rootData is the reserved data value of every tree's synthetic root.
const rootData = "root"

// Node is a proof tree node: (tag, id, data) per §3. Identity is by ID;
// structural equality is by Data and child structure (see
// StructurallyEqual).
type Node struct {
	ID       string
	Tag      string
	Data     string
	Children []*Node
}

// NewNode allocates a node with a freshly generated identifier.
func NewNode(tag, data string) *Node {
	return &Node{ID: uuid.NewString(), Tag: tag, Data: data}
}

// NewRoot builds a fresh synthetic root wrapping a single real-root child.
func NewRoot(realRoot *Node) *Node {
	root := &Node{ID: uuid.NewString(), Tag: "root", Data: rootData}
	root.Children = []*Node{realRoot}
	return root
}

// RealRoot returns the wrapped tree's real root: the synthetic root's
// single child (§3 "Tree").
func (n *Node) RealRoot() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// AddChild appends a child node.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// IsLeaf reports whether n has no children (§4.G).
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsPreLeaf reports whether n has children, all of which are leaves
// (§4.G).
func (n *Node) IsPreLeaf() bool {
	if n.IsLeaf() {
		return false
	}
	for _, c := range n.Children {
		if !c.IsLeaf() {
			return false
		}
	}
	return true
}

// IsOrNode reports whether n is an internal node whose children all
// carry the or-branch data prefix (§4.F, §8 invariant 5).
func (n *Node) IsOrNode() bool {
	if n.IsLeaf() {
		return false
	}
	for _, c := range n.Children {
		if !isOrBranchData(c.Data) {
			return false
		}
	}
	return true
}

func isOrBranchData(data string) bool {
	return len(data) >= len(orBranchPrefix) && data[:len(orBranchPrefix)] == orBranchPrefix
}

// BasicFactData wraps a predicate with the "#...#" sentinel marking a
// basic-fact leaf (§3, §4.E).
func BasicFactData(p model.Predicate) string {
	return model.BasicFactSentinel(p)
}

// IsBasicFactData reports whether data is a basic-fact sentinel.
func IsBasicFactData(data string) bool {
	return model.IsBasicFactSentinel(data)
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *Node) Size() int {
	size := 1
	for _, c := range n.Children {
		size += c.Size()
	}
	return size
}

// DeepCopy produces a structurally identical subtree with freshly
// generated ids, preserving child order (§4.G "Deep copy").
func (n *Node) DeepCopy() *Node {
	cp := &Node{ID: uuid.NewString(), Tag: n.Tag, Data: n.Data}
	for _, c := range n.Children {
		cp.Children = append(cp.Children, c.DeepCopy())
	}
	return cp
}
