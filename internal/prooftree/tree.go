package prooftree

// walkCtx threads a node together with its ancestor chain (real root
// first, the node's parent last) so ancestor-relative predicates can be evaluated without
// a parent pointer on Node.
type walkCtx struct {
	node      *Node
	ancestors []*Node // from real root down to (not including) node
}

// BFSLeaves enumerates, in breadth-first order over the subtree rooted at
// realRoot, every node that IsLeaf (§4.G "BFS leaves").
func BFSLeaves(realRoot *Node) []*Node {
	var leaves []*Node
	queue := []*Node{realRoot}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.IsLeaf() {
			leaves = append(leaves, n)
			continue
		}
		queue = append(queue, n.Children...)
	}
	return leaves
}

// bfsWithAncestors enumerates every node in the subtree, breadth-first,
// paired with its ancestor chain (real root first).
func bfsWithAncestors(realRoot *Node) []walkCtx {
	var out []walkCtx
	queue := []walkCtx{{node: realRoot}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		childAncestors := append(append([]*Node{}, cur.ancestors...), cur.node)
		for _, c := range cur.node.Children {
			queue = append(queue, walkCtx{node: c, ancestors: childAncestors})
		}
	}
	return out
}

// AncestorHasSameData reports whether any ancestor of n (including the
// real root) shares n's Data (§4.G "ancestor-has-same-data"). ancestors
// is the chain from real root down to n's parent.
func AncestorHasSameData(n *Node, ancestors []*Node) bool {
	for _, a := range ancestors {
		if a.Data == n.Data {
			return true
		}
	}
	return false
}

// NonleafExistsWithSameData reports whether any non-leaf node in the
// subtree rooted at realRoot carries the given data (§4.F
// "find_first_leaf_to_expand").
func NonleafExistsWithSameData(data string, realRoot *Node) bool {
	queue := []*Node{realRoot}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if !n.IsLeaf() && n.Data == data {
			return true
		}
		queue = append(queue, n.Children...)
	}
	return false
}

// StructurallyEqual implements the §4.G structural-equality relation,
// including the deliberate leaf/pre-leaf equivalence quirk (§9 "Structural
// equality quirk"): a leaf is considered equal to a pre-leaf carrying the
// same root data, independent of the pre-leaf's own children.
func StructurallyEqual(a, b *Node) bool {
	if (a.IsLeaf() && b.IsPreLeaf()) || (a.IsPreLeaf() && b.IsLeaf()) {
		return a.Data == b.Data
	}

	if a.Size() != b.Size() {
		return false
	}
	if a.Data != b.Data {
		return false
	}
	if a.Size() == 1 {
		return true
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !StructurallyEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
