package prooftree

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRenderASCIIShowsChildren(t *testing.T) {
	root := NewRoot(NewNode("c", "c"))
	realRoot := root.RealRoot()
	realRoot.AddChild(NewNode("a", "a"))
	realRoot.AddChild(NewNode("b", "b"))

	out := RenderASCII(root)
	if !strings.Contains(out, "c") || !strings.Contains(out, "a") || !strings.Contains(out, "b") {
		t.Errorf("expected rendered tree to mention all tags, got %q", out)
	}
	if !strings.Contains(out, "└── ") {
		t.Errorf("expected last-child connector in output, got %q", out)
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	root := NewRoot(NewNode("c", "c"))
	root.RealRoot().AddChild(NewNode("a", "a"))

	data, err := RenderJSON(root)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var decoded jsonNode
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Tag != "c" || len(decoded.Children) != 1 || decoded.Children[0].Tag != "a" {
		t.Errorf("unexpected decoded shape: %+v", decoded)
	}
}
