package prooftree

import (
	"fmt"
	"sort"

	"xproblog/internal/logging"
	"xproblog/internal/model"
)

// maxBFSLevel bounds skeleton expansion depth, guarding against cycles
// the checked-set memoization misses (§4.E, §9 "Cycle handling").
const maxBFSLevel = 20

// queueItem is a pending (predicate, node) pair awaiting expansion at the
// next BFS level: parent is the node carrying the predicate, under which
// its own witnesses are attached.
type queueItem struct {
	fact   model.Predicate
	parent *Node
}

// BuildSkeletons builds one bounded-depth proof skeleton per proved
// fact (§4.E). arrival supplies the trace-arrival tie-break used when
// ordering alternative proofs under an OR-node (§5).
func BuildSkeletons(proved model.ProvedFacts, basic model.BasicFactSet, arrival map[model.Predicate]map[string]int) map[model.Predicate]*Node {
	facts := make([]model.Predicate, 0, len(proved))
	for f := range proved {
		facts = append(facts, f)
	}
	sort.Slice(facts, func(i, j int) bool { return facts[i] < facts[j] })

	trees := make(map[model.Predicate]*Node, len(facts))
	for _, fact := range facts {
		trees[fact] = buildSkeleton(fact, proved, basic, arrival[fact])
	}
	logging.TreeDebug("built %d proof skeletons", len(trees))
	return trees
}

func buildSkeleton(fact model.Predicate, proved model.ProvedFacts, basic model.BasicFactSet, arrival map[string]int) *Node {
	realRoot := NewNode(string(fact), string(fact))

	// checked tracks facts that have already had their own witnesses
	// attached somewhere in this skeleton, so the same intermediate fact
	// is never expanded twice (§4.E "Checked set initialization").
	checked := basic.Clone()
	checked[fact] = struct{}{}

	queue := attachWitnesses(fact, realRoot, proved, basic, arrival)
	for level := 0; level < maxBFSLevel && len(queue) > 0; level++ {
		var next []queueItem
		for _, item := range queue {
			if !proved.IsProved(item.fact) {
				continue
			}
			if checked.Has(item.fact) {
				continue
			}
			if ancestorChainHasData(item.parent, string(item.fact), realRoot) {
				continue
			}
			checked[item.fact] = struct{}{}
			next = append(next, attachWitnesses(item.fact, item.parent, proved, basic, arrival)...)
		}
		queue = next
	}

	return realRoot
}

// ancestorChainHasData walks from node's parent up to realRoot
// (inclusive), reporting whether any proper ancestor of node carries the
// given data. Used to reject a cyclic proof extension before it is
// expanded (§4.E).
func ancestorChainHasData(node *Node, data string, realRoot *Node) bool {
	path := findPath(realRoot, node)
	if len(path) > 0 {
		path = path[:len(path)-1]
	}
	for _, n := range path {
		if n.Data == data {
			return true
		}
	}
	return false
}

// findPath returns the chain of nodes from realRoot down to target,
// inclusive, or nil if target is not in the subtree.
func findPath(realRoot, target *Node) []*Node {
	if realRoot == target {
		return []*Node{realRoot}
	}
	for _, c := range realRoot.Children {
		if p := findPath(c, target); p != nil {
			return append([]*Node{realRoot}, p...)
		}
	}
	return nil
}

// attachWitnesses attaches, under parent, either a single child-per-witness
// chain (one proof) or an OR-layer of "Proof k" branches (multiple
// proofs), for the named fact (§4.E "Expand"). It returns the queue items
// proposing further BFS expansion at the next level; the caller decides
// whether each is actually eligible (already checked, cyclic).
func attachWitnesses(fact model.Predicate, parent *Node, proved model.ProvedFacts, basic model.BasicFactSet, arrival map[string]int) []queueItem {
	proofs := proved.Proofs(fact, arrival)

	var queue []queueItem
	for i, proof := range proofs {
		target := parent
		if len(proofs) > 1 {
			branch := NewNode(proofTag(i), orBranchPrefix+string(fact))
			parent.AddChild(branch)
			target = branch
		}

		for _, g := range proof.Sorted() {
			if !basic.Has(g) && !proved.IsProved(g) {
				continue
			}
			data := string(g)
			if basic.Has(g) {
				data = BasicFactData(g)
			}
			child := NewNode(data, data)
			target.AddChild(child)
			queue = append(queue, queueItem{fact: g, parent: child})
		}
	}
	return queue
}

func proofTag(i int) string {
	return fmt.Sprintf("Proof %d", i+1)
}
