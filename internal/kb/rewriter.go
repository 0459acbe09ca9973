package kb

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"xproblog/internal/logging"
	"xproblog/internal/model"
)

// OutputFileName is the canonical consolidated-KB filename (§6).
const OutputFileName = "~xproblog.kb"

// transformerSuffix excludes the rewriter's own source files from
// enumeration, mirroring the host-tooling exclusion in the source this
// system was distilled from (§4.C step 1).
const transformerSuffix = ".go"

// ParsedRule is a model.Rule as produced by ParseClause. Rewrite keeps
// rules in a slice in the order they were read, so the rule block is
// emitted in source order.
type ParsedRule = model.Rule

// RewriteResult is everything a KB Rewriter pass produces.
type RewriteResult struct {
	OutputPath   string
	Facts        []model.Fact
	Rules        []ParsedRule
	SpecialLines []string
	Unchanged    bool // true when output is line-for-line identical to the prior generation
	Diff         string
}

// Rewrite enumerates the KB files in dir, tokenizes and parses them, and
// writes the consolidated instrumented KB (§4.C).
func Rewrite(dir string) (*RewriteResult, error) {
	timer := logging.StartTimer(logging.CategoryRewrite, "kb rewrite")
	defer timer.Stop()

	files, err := listKBFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("enumerating KB files in %s: %w", dir, err)
	}
	logging.Rewrite("processing %d KB files in %s: %v", len(files), dir, files)

	lines, err := readAllLines(dir, files)
	if err != nil {
		return nil, err
	}

	tok := Tokenize(lines)
	logging.RewriteDebug("tokenized into %d clauses, %d special lines", len(tok.Clauses), len(tok.SpecialLines))

	var facts []model.Fact
	var rules []ParsedRule
	for _, clause := range tok.Clauses {
		fact, rule, isRule := ParseClause(clause)
		if isRule {
			rules = append(rules, rule)
		} else {
			facts = append(facts, fact)
		}
	}

	outputPath := filepath.Join(dir, OutputFileName)
	backupPath := outputPath + ".bak"

	var priorContent []byte
	hadPrior := false
	if existing, err := os.ReadFile(outputPath); err == nil {
		hadPrior = true
		priorContent = existing
		if err := os.WriteFile(backupPath, existing, 0644); err != nil {
			return nil, fmt.Errorf("backing up %s: %w", outputPath, err)
		}
	}

	rendered := render(facts, rules, tok.SpecialLines)
	if err := os.WriteFile(outputPath, []byte(rendered), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outputPath, err)
	}
	logging.Rewrite("wrote consolidated KB to %s (%d facts, %d rules)", outputPath, len(facts), len(rules))

	result := &RewriteResult{
		OutputPath:   outputPath,
		Facts:        facts,
		Rules:        rules,
		SpecialLines: tok.SpecialLines,
	}

	if hadPrior {
		result.Unchanged = linesEqual(priorContent, []byte(rendered))
		if !result.Unchanged {
			result.Diff = diffReport(string(priorContent), rendered)
		}
	}

	return result, nil
}

// listKBFiles enumerates regular, non-generated, non-temporary files in
// dir and returns them sorted for deterministic processing order
// (§4.C step 1, §5 ordering guarantee 1).
func listKBFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, transformerSuffix) {
			continue
		}
		if strings.HasPrefix(name, "~") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func readAllLines(dir string, files []string) ([]string, error) {
	var lines []string
	for _, f := range files {
		path := filepath.Join(dir, f)
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		err = scanner.Err()
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return lines, nil
}

// render assembles the three-section consolidated KB body (§6).
func render(facts []model.Fact, rules []ParsedRule, specialLines []string) string {
	var b strings.Builder

	b.WriteString("%BEGIN:BASIC_FACTS\n")
	for _, f := range facts {
		b.WriteString(string(f.Predicate))
		b.WriteString(".\n")
	}
	b.WriteString("%END:BASIC_FACTS\n\n")

	b.WriteString("%BEGIN:RULES\n")
	for _, r := range rules {
		renderRule(&b, r)
	}
	b.WriteString("%END:RULES\n\n")

	for _, l := range specialLines {
		if isDroppedDirective(l) {
			continue
		}
		b.WriteString(l)
		b.WriteString("\n")
	}

	return b.String()
}

// isDroppedDirective reports whether a use_module(...) directive should
// be dropped from the output: it is needed only by the source language's
// own host tooling, not by the inference engine, unless it references a
// .py path (the chosen passthrough policy; see SPEC_FULL.md open question
// decision 2).
func isDroppedDirective(l string) bool {
	return strings.Contains(l, "use_module(") && !strings.Contains(l, ".py")
}

// renderRule writes one instrumented rule clause, implementing the trace
// contract body instrumentation (§4.C "Body instrumentation").
func renderRule(b *strings.Builder, r ParsedRule) {
	if r.HasProbability() {
		fmt.Fprintf(b, "%s::%s :-\n", r.Probability, r.Head)
	} else {
		fmt.Fprintf(b, "%s :-\n", r.Head)
	}

	body := make([]string, 0, len(r.Body)+2)
	for _, p := range r.Body {
		body = append(body, string(p))
	}

	var prefixes []string
	for i, p := range r.Body {
		instrument := i >= len(r.Instrument) || r.Instrument[i]
		if instrument {
			prefixes = append(prefixes, fmt.Sprintf("write(\"xproblog:\"),write(%s),nl", p))
		}
	}

	body = append(body, fmt.Sprintf("write(\"xproblog:\"),write(%s),write(\"is proved because:\"),nl", r.Head))
	if len(prefixes) > 0 {
		body = append(body, strings.Join(prefixes, ","))
	}

	for i, line := range body {
		term := ","
		if i == len(body)-1 {
			term = "."
		}
		fmt.Fprintf(b, "\t%s%s\n", line, term)
	}
}

// linesEqual compares two KB file contents line-for-line, the change
// detection used to set RewriteResult.Unchanged (§4.C step 5, §6).
func linesEqual(a, b []byte) bool {
	return sameLines(splitLines(string(a)), splitLines(string(b)))
}

func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

func sameLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// diffReport renders a human-readable inline character-level diff
// (insertions and deletions marked with ANSI colours) between the
// previous and newly written KB, used for the CLI's change-report output.
func diffReport(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	return dmp.DiffPrettyText(diffs)
}
