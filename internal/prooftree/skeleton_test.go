package prooftree

import (
	"testing"

	"xproblog/internal/model"
)

func proofSet(preds ...model.Predicate) model.ProofSet {
	return model.NewProofSet(preds)
}

func TestBuildSkeletonsSingleProof(t *testing.T) {
	basic := model.NewBasicFactSet([]model.Fact{{Predicate: "a"}, {Predicate: "b"}})
	proved := make(model.ProvedFacts)
	proved.Add("c", proofSet("a", "b"))

	skeletons := BuildSkeletons(proved, basic, nil)
	tree, ok := skeletons["c"]
	if !ok {
		t.Fatalf("expected skeleton for 'c'")
	}
	if tree.IsOrNode() {
		t.Errorf("expected no OR-layer for a single proof")
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}
}

func TestBuildSkeletonsTwoDistinctProofs(t *testing.T) {
	basic := model.NewBasicFactSet([]model.Fact{{Predicate: "a"}, {Predicate: "b"}})
	proved := make(model.ProvedFacts)
	proved.Add("c", proofSet("a"))
	proved.Add("c", proofSet("b"))

	skeletons := BuildSkeletons(proved, basic, nil)
	tree := skeletons["c"]
	if !tree.IsOrNode() {
		t.Fatalf("expected OR-layer for two distinct proofs")
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 OR-branches, got %d", len(tree.Children))
	}
}

func TestBuildSkeletonsBasicFactWrapped(t *testing.T) {
	basic := model.NewBasicFactSet([]model.Fact{{Predicate: "a"}})
	proved := make(model.ProvedFacts)
	proved.Add("c", proofSet("a"))

	skeletons := BuildSkeletons(proved, basic, nil)
	tree := skeletons["c"]
	if len(tree.Children) != 1 || tree.Children[0].Data != "#a#" {
		t.Fatalf("expected basic-fact child wrapped in sentinel, got %+v", tree.Children)
	}
}

func TestBuildSkeletonsExpandsMultipleLevels(t *testing.T) {
	basic := model.NewBasicFactSet([]model.Fact{{Predicate: "a"}})
	proved := make(model.ProvedFacts)
	proved.Add("c", proofSet("b"))
	proved.Add("b", proofSet("a"))

	skeletons := BuildSkeletons(proved, basic, nil)
	tree := skeletons["c"]
	if len(tree.Children) != 1 || tree.Children[0].Data != "b" {
		t.Fatalf("expected c's direct witness 'b', got %+v", tree.Children)
	}
	b := tree.Children[0]
	if len(b.Children) != 1 || b.Children[0].Data != "#a#" {
		t.Fatalf("expected b's own witness 'a' to be expanded one level deeper, got %+v", b.Children)
	}
}

func TestBuildSkeletonsDropsWitnessesNotBasicOrProved(t *testing.T) {
	basic := model.NewBasicFactSet([]model.Fact{{Predicate: "a"}})
	proved := make(model.ProvedFacts)
	proved.Add("c", proofSet("a", "unseen"))

	skeletons := BuildSkeletons(proved, basic, nil)
	tree := skeletons["c"]
	if len(tree.Children) != 1 {
		t.Fatalf("expected only the known witness 'a' to produce a child, got %+v", tree.Children)
	}
}
