package kb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestRewriteSingleFactAndRule(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "facts.pl", "a.\nb.\n")
	writeTestFile(t, dir, "rules.pl", "c :- a,b.\n")

	result, err := Rewrite(dir)
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	if len(result.Facts) != 2 {
		t.Fatalf("expected 2 facts, got %v", result.Facts)
	}
	if len(result.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %v", result.Rules)
	}

	out, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	content := string(out)

	if !strings.Contains(content, "%BEGIN:BASIC_FACTS") || !strings.Contains(content, "%END:BASIC_FACTS") {
		t.Errorf("missing fact block markers:\n%s", content)
	}
	if !strings.Contains(content, "a.\n") || !strings.Contains(content, "b.\n") {
		t.Errorf("missing facts in output:\n%s", content)
	}
	if !strings.Contains(content, "c :-\n") {
		t.Errorf("missing rule head in output:\n%s", content)
	}
	if !strings.Contains(content, `write("xproblog:"),write(c),write("is proved because:"),nl`) {
		t.Errorf("missing header-line instrumentation:\n%s", content)
	}
	if !strings.Contains(content, `write("xproblog:"),write(a),nl`) {
		t.Errorf("missing witness instrumentation for a:\n%s", content)
	}
}

func TestRewriteProbabilityStrippedFromFacts(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "kb.pl", "0.4::a.\n0.6::b :- a.\n")

	result, err := Rewrite(dir)
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	out, _ := os.ReadFile(result.OutputPath)
	content := string(out)

	if strings.Contains(content, "0.4::a.\n") {
		t.Errorf("expected fact probability annotation stripped from fact set:\n%s", content)
	}
	if !strings.Contains(content, "a.\n") {
		t.Errorf("expected bare fact a. in output:\n%s", content)
	}
	if !strings.Contains(content, "0.6::b :-\n") {
		t.Errorf("expected probability-annotated rule head preserved:\n%s", content)
	}
}

func TestRewriteDetectsUnchanged(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "kb.pl", "a.\nb.\nc :- a,b.\n")

	first, err := Rewrite(dir)
	if err != nil {
		t.Fatalf("first Rewrite: %v", err)
	}
	if first.Unchanged {
		t.Errorf("first pass should have no prior generation to compare, got Unchanged=true")
	}

	second, err := Rewrite(dir)
	if err != nil {
		t.Fatalf("second Rewrite: %v", err)
	}
	if !second.Unchanged {
		t.Errorf("expected second pass to detect no change")
	}

	if _, err := os.Stat(second.OutputPath + ".bak"); err != nil {
		t.Errorf("expected backup file to exist: %v", err)
	}
}

func TestRewriteDropsNonPyUseModule(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "kb.pl", "a.\nuse_module(library(lists)).\nuse_module('engine.py').\nquery(a).\n")

	result, err := Rewrite(dir)
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	out, _ := os.ReadFile(result.OutputPath)
	content := string(out)

	if strings.Contains(content, "library(lists)") {
		t.Errorf("expected non-.py use_module to be dropped:\n%s", content)
	}
	if !strings.Contains(content, "engine.py") {
		t.Errorf("expected .py use_module to survive:\n%s", content)
	}
	if !strings.Contains(content, "query(a)") {
		t.Errorf("expected query(...) directive to survive:\n%s", content)
	}
}

func TestRewriteIgnoresOwnGoFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "kb.pl", "a.\n")
	writeTestFile(t, dir, "helper.go", "package main\n")

	files, err := listKBFiles(dir)
	if err != nil {
		t.Fatalf("listKBFiles: %v", err)
	}
	for _, f := range files {
		if strings.HasSuffix(f, ".go") {
			t.Errorf("expected .go files excluded, got %v", files)
		}
	}
}

func TestRewriteIgnoresTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "kb.pl", "a.\n")
	writeTestFile(t, dir, "~scratch.pl", "b.\n")

	files, err := listKBFiles(dir)
	if err != nil {
		t.Fatalf("listKBFiles: %v", err)
	}
	for _, f := range files {
		if strings.HasPrefix(f, "~") {
			t.Errorf("expected temporary files excluded, got %v", files)
		}
	}
}
