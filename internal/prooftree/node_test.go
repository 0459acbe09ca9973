package prooftree

import "testing"

func TestIsLeafAndPreLeaf(t *testing.T) {
	leaf := NewNode("a", "a")
	if !leaf.IsLeaf() {
		t.Errorf("expected leaf with no children to be a leaf")
	}
	if leaf.IsPreLeaf() {
		t.Errorf("a leaf is not a pre-leaf")
	}

	parent := NewNode("p", "p")
	parent.AddChild(NewNode("c1", "c1"))
	parent.AddChild(NewNode("c2", "c2"))
	if parent.IsLeaf() {
		t.Errorf("node with children should not be a leaf")
	}
	if !parent.IsPreLeaf() {
		t.Errorf("node whose children are all leaves should be a pre-leaf")
	}

	grandparent := NewNode("g", "g")
	grandparent.AddChild(parent)
	if grandparent.IsPreLeaf() {
		t.Errorf("node with a non-leaf child should not be a pre-leaf")
	}
}

func TestIsOrNode(t *testing.T) {
	or := NewNode("c", "c")
	or.AddChild(NewNode("Proof 1", "or-branch:c"))
	or.AddChild(NewNode("Proof 2", "or-branch:c"))
	if !or.IsOrNode() {
		t.Errorf("expected node with or-branch children to be an OR-node")
	}

	and := NewNode("c", "c")
	and.AddChild(NewNode("a", "a"))
	if and.IsOrNode() {
		t.Errorf("expected node with plain children not to be an OR-node")
	}
}

func TestBasicFactDataRoundTrip(t *testing.T) {
	data := BasicFactData("a")
	if data != "#a#" {
		t.Errorf("got %q", data)
	}
	if !IsBasicFactData(data) {
		t.Errorf("expected %q to be recognized as a basic-fact sentinel", data)
	}
}

func TestDeepCopyFreshIDsSameTopology(t *testing.T) {
	orig := NewNode("c", "c")
	child := NewNode("a", "a")
	orig.AddChild(child)

	cp := orig.DeepCopy()
	if cp.ID == orig.ID || cp.Children[0].ID == child.ID {
		t.Errorf("expected deep copy to have fresh ids")
	}
	if cp.Tag != orig.Tag || cp.Data != orig.Data {
		t.Errorf("expected deep copy to preserve tag/data")
	}
	if len(cp.Children) != 1 || cp.Children[0].Data != "a" {
		t.Errorf("expected deep copy to preserve child structure")
	}
}

func TestSize(t *testing.T) {
	root := NewNode("c", "c")
	root.AddChild(NewNode("a", "a"))
	root.AddChild(NewNode("b", "b"))
	if root.Size() != 3 {
		t.Errorf("expected size 3, got %d", root.Size())
	}
}
