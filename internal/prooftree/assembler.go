package prooftree

import (
	"fmt"

	"xproblog/internal/logging"
	"xproblog/internal/model"
)

// NotProvedError reports a query that is neither a basic fact nor a
// proved fact (§7 "Unknown query").
type NotProvedError struct {
	Query model.Predicate
}

func (e *NotProvedError) Error() string {
	return fmt.Sprintf("%q is not a proved fact", string(e.Query))
}

// BuildAndOrTree assembles the full AND/OR proof tree for query (§4.F
// "AND/OR tree construction"). The returned node is a synthetic root
// whose single child is the real root.
func BuildAndOrTree(query model.Predicate, skeletons map[model.Predicate]*Node, basic model.BasicFactSet) (*Node, error) {
	if basic.Has(query) {
		return NewRoot(NewNode(BasicFactData(query), BasicFactData(query))), nil
	}

	skeleton, ok := skeletons[query]
	if !ok {
		return nil, &NotProvedError{Query: query}
	}

	realRoot := skeleton.DeepCopy()
	root := NewRoot(realRoot)

	for {
		leaf := findFirstLeafToExpand(root.RealRoot())
		if leaf == nil {
			break
		}
		expandLeaf(root.RealRoot(), leaf, skeletons)
	}

	removeCyclicProof(root)
	logging.TreeDebug("built AND/OR tree for %q (%d nodes)", string(query), root.Size())
	return root, nil
}

// findFirstLeafToExpand returns the first leaf (BFS order) whose data is
// not a basic-fact sentinel and does not already appear on a non-leaf
// node elsewhere in the tree (§4.F).
func findFirstLeafToExpand(realRoot *Node) *Node {
	for _, leaf := range BFSLeaves(realRoot) {
		if IsBasicFactData(leaf.Data) {
			continue
		}
		if NonleafExistsWithSameData(leaf.Data, realRoot) {
			continue
		}
		return leaf
	}
	return nil
}

// expandLeaf splices a deep-cloned copy of the skeleton for leaf.Data
// (its synthetic-root wrapper stripped) in place of leaf.
func expandLeaf(realRoot, leaf *Node, skeletons map[model.Predicate]*Node) {
	skeleton, ok := skeletons[model.Predicate(leaf.Data)]
	if !ok {
		// Nothing to splice; leave the leaf as-is rather than looping
		// forever on an un-expandable node.
		leaf.Tag = leaf.Data
		leaf.Data = BasicFactData(model.Predicate(leaf.Data))
		return
	}
	clone := skeleton.DeepCopy()
	leaf.Tag = clone.Tag
	leaf.Data = clone.Data
	leaf.Children = clone.Children
}

// removeCyclicProof iteratively removes, for any leaf whose data equals
// an ancestor's, that leaf's parent node — and repeats until a full pass
// removes nothing (§4.F "Cycle elimination"). OR-branch reorganization is
// re-run afterward.
func removeCyclicProof(root *Node) {
	for {
		if !removeCyclicPassOnce(root) {
			break
		}
	}
	ReorgOrBranches(root)
}

// removeCyclicPassOnce performs one pass: find any leaf with an ancestor
// sharing its data and prune that leaf's parent. Returns whether a
// removal happened.
func removeCyclicPassOnce(root *Node) bool {
	realRoot := root.RealRoot()
	if realRoot == nil {
		return false
	}
	for _, wc := range bfsWithAncestors(realRoot) {
		if !wc.node.IsLeaf() {
			continue
		}
		if !AncestorHasSameData(wc.node, wc.ancestors) {
			continue
		}
		if len(wc.ancestors) == 0 {
			// The real root itself is the offending leaf; nothing to prune.
			continue
		}
		parent := wc.ancestors[len(wc.ancestors)-1]
		removeChild(root, parent)
		return true
	}
	return false
}

// removeChild detaches target from its parent anywhere in the tree
// rooted at root (the synthetic root, so the real root itself can be
// detached from it if ever required).
func removeChild(root, target *Node) bool {
	for _, c := range root.Children {
		if c == target {
			root.Children = removeFromSlice(root.Children, target)
			return true
		}
	}
	for _, c := range root.Children {
		if removeChild(c, target) {
			return true
		}
	}
	return false
}

func removeFromSlice(nodes []*Node, target *Node) []*Node {
	out := make([]*Node, 0, len(nodes)-1)
	for _, n := range nodes {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// ReorgOrBranches deduplicates OR-node children by structural equality
// (preserving first occurrence), promotes a sole survivor in place of its
// OR-node, and relabels remaining children "Proof 1", "Proof 2", ...
// (§4.F "OR-branch reorganization").
func ReorgOrBranches(root *Node) {
	realRoot := root.RealRoot()
	if realRoot == nil {
		return
	}
	reorgNode(root, realRoot)
}

func reorgNode(parentHolder, n *Node) {
	if n.IsOrNode() {
		dedupeChildren(n)
		if len(n.Children) == 1 {
			sole := n.Children[0]
			promoteSoleChild(parentHolder, n)
			reorgNode(parentHolder, sole)
			return
		}
		for i, c := range n.Children {
			c.Tag = fmt.Sprintf("Proof %d", i+1)
		}
	}
	for _, c := range n.Children {
		reorgNode(n, c)
	}
}

// dedupeChildren removes structurally-equal duplicate children, keeping
// the first occurrence of each (§8 invariant 8).
func dedupeChildren(n *Node) {
	var kept []*Node
	for _, c := range n.Children {
		duplicate := false
		for _, k := range kept {
			if StructurallyEqual(k, c) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, c)
		}
	}
	n.Children = kept
}

// promoteSoleChild replaces n, wherever it appears as a child of
// parentHolder, with n's single remaining child's subtree.
func promoteSoleChild(parentHolder, n *Node) {
	sole := n.Children[0]
	for i, c := range parentHolder.Children {
		if c == n {
			parentHolder.Children[i] = sole
			return
		}
	}
}

// BuildRegularTree projects the AND/OR tree onto a "regular" tree:
// OR-nodes keep only their first child; everything else is copied in
// full. OR-branch reorganization is re-applied afterward to collapse any
// OR-nodes the projection surfaced (§4.F "Regular tree projection").
func BuildRegularTree(andOr *Node) *Node {
	realRoot := andOr.RealRoot()
	projected := projectRegular(realRoot)
	root := NewRoot(projected)
	ReorgOrBranches(root)
	return root
}

func projectRegular(n *Node) *Node {
	cp := &Node{ID: n.ID, Tag: n.Tag, Data: n.Data}
	if n.IsLeaf() {
		return cp
	}
	if n.IsOrNode() {
		cp.Children = []*Node{projectRegular(n.Children[0])}
		return cp
	}
	for _, c := range n.Children {
		cp.Children = append(cp.Children, projectRegular(c))
	}
	return cp
}
