package prooftree

import (
	"testing"

	"xproblog/internal/model"
)

// S1: single fact.
func TestBuildAndOrTreeBasicFact(t *testing.T) {
	basic := model.NewBasicFactSet([]model.Fact{{Predicate: "a"}})
	root, err := BuildAndOrTree("a", nil, basic)
	if err != nil {
		t.Fatalf("BuildAndOrTree: %v", err)
	}
	realRoot := root.RealRoot()
	if realRoot.Data != "#a#" {
		t.Errorf("expected root data '#a#', got %q", realRoot.Data)
	}
	if !realRoot.IsLeaf() {
		t.Errorf("expected single-node tree")
	}
}

// S2: single rule, single proof.
func TestBuildAndOrTreeSingleProof(t *testing.T) {
	basic := model.NewBasicFactSet([]model.Fact{{Predicate: "a"}, {Predicate: "b"}})
	proved := make(model.ProvedFacts)
	proved.Add("c", proofSet("a", "b"))
	skeletons := BuildSkeletons(proved, basic, nil)

	root, err := BuildAndOrTree("c", skeletons, basic)
	if err != nil {
		t.Fatalf("BuildAndOrTree: %v", err)
	}
	realRoot := root.RealRoot()
	if realRoot.IsOrNode() {
		t.Errorf("expected no OR-layer")
	}
	if len(realRoot.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(realRoot.Children))
	}
}

// S3: two proofs that dedup to one.
func TestBuildAndOrTreeDuplicateProofsDedup(t *testing.T) {
	basic := model.NewBasicFactSet([]model.Fact{{Predicate: "a"}, {Predicate: "b"}})
	proved := make(model.ProvedFacts)
	proved.Add("c", proofSet("a"))
	proved.Add("c", proofSet("a")) // identical proof-set; deduped by Key()
	skeletons := BuildSkeletons(proved, basic, nil)

	root, err := BuildAndOrTree("c", skeletons, basic)
	if err != nil {
		t.Fatalf("BuildAndOrTree: %v", err)
	}
	realRoot := root.RealRoot()
	if realRoot.IsOrNode() {
		t.Errorf("expected no OR-layer once duplicate proof-sets collapse to one")
	}
}

// S4: two distinct proofs.
func TestBuildAndOrTreeTwoDistinctProofs(t *testing.T) {
	basic := model.NewBasicFactSet([]model.Fact{{Predicate: "a"}, {Predicate: "b"}})
	proved := make(model.ProvedFacts)
	proved.Add("c", proofSet("a"))
	proved.Add("c", proofSet("b"))
	skeletons := BuildSkeletons(proved, basic, nil)

	root, err := BuildAndOrTree("c", skeletons, basic)
	if err != nil {
		t.Fatalf("BuildAndOrTree: %v", err)
	}
	realRoot := root.RealRoot()
	if !realRoot.IsOrNode() {
		t.Fatalf("expected OR-node with two branches")
	}
	if len(realRoot.Children) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(realRoot.Children))
	}
	if realRoot.Children[0].Tag != "Proof 1" || realRoot.Children[1].Tag != "Proof 2" {
		t.Errorf("expected branches tagged Proof 1/Proof 2, got %q/%q", realRoot.Children[0].Tag, realRoot.Children[1].Tag)
	}
}

// S6: cycle pruning.
func TestBuildAndOrTreeCyclePruned(t *testing.T) {
	basic := model.BasicFactSet{}
	proved := make(model.ProvedFacts)
	proved.Add("p", proofSet("q"))
	proved.Add("q", proofSet("p"))
	skeletons := BuildSkeletons(proved, basic, nil)

	root, err := BuildAndOrTree("p", skeletons, basic)
	if err != nil {
		t.Fatalf("BuildAndOrTree: %v", err)
	}
	realRoot := root.RealRoot()
	if realRoot.Data != "p" {
		t.Errorf("expected surviving root data 'p', got %q", realRoot.Data)
	}
	if !realRoot.IsLeaf() {
		t.Errorf("expected the cyclic extension to have been pruned to a single node, got %d children", len(realRoot.Children))
	}
}

func TestBuildAndOrTreeUnknownQuery(t *testing.T) {
	_, err := BuildAndOrTree("nope", map[model.Predicate]*Node{}, model.BasicFactSet{})
	if err == nil {
		t.Fatalf("expected error for unknown query")
	}
	if _, ok := err.(*NotProvedError); !ok {
		t.Errorf("expected *NotProvedError, got %T", err)
	}
}

func TestBuildRegularTreeProjectsFirstBranch(t *testing.T) {
	basic := model.NewBasicFactSet([]model.Fact{{Predicate: "a"}, {Predicate: "b"}})
	proved := make(model.ProvedFacts)
	proved.Add("c", proofSet("a"))
	proved.Add("c", proofSet("b"))
	skeletons := BuildSkeletons(proved, basic, nil)

	andOr, err := BuildAndOrTree("c", skeletons, basic)
	if err != nil {
		t.Fatalf("BuildAndOrTree: %v", err)
	}
	regular := BuildRegularTree(andOr)
	realRoot := regular.RealRoot()
	if realRoot.IsOrNode() {
		t.Fatalf("regular tree must not retain OR-nodes")
	}
	if len(realRoot.Children) != 1 {
		t.Fatalf("expected exactly one child (the first alternative), got %d", len(realRoot.Children))
	}
}

func TestBuildRegularTreeIdempotent(t *testing.T) {
	basic := model.NewBasicFactSet([]model.Fact{{Predicate: "a"}, {Predicate: "b"}})
	proved := make(model.ProvedFacts)
	proved.Add("c", proofSet("a"))
	proved.Add("c", proofSet("b"))
	skeletons := BuildSkeletons(proved, basic, nil)

	andOr, err := BuildAndOrTree("c", skeletons, basic)
	if err != nil {
		t.Fatalf("BuildAndOrTree: %v", err)
	}
	regular1 := BuildRegularTree(andOr)
	regular2 := BuildRegularTree(regular1)

	if !StructurallyEqual(regular1.RealRoot(), regular2.RealRoot()) {
		t.Errorf("expected projecting a regular tree again to be idempotent")
	}
}
