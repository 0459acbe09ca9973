package kb

import (
	"strings"

	"xproblog/internal/model"
)

// ignoredBodyPatterns mark body predicates that are pure syntactic side
// predicates and must not emit trace instrumentation (§4.C).
var ignoredBodyPatterns = []string{"not ", " is "}

// ParseClause decomposes one clause string into either a Fact or a Rule
// (§4.B). isRule is false for a fact (only fact is set) and true for a
// rule (only rule is set).
func ParseClause(s string) (fact model.Fact, rule model.Rule, isRule bool) {
	if idx := strings.Index(s, ":-"); idx >= 0 {
		headPart := s[:idx]
		bodyPart := s[idx+2:]
		return model.Fact{}, parseRule(headPart, bodyPart), true
	}
	return model.Fact{Predicate: model.Canon(stripFactProbability(s))}, model.Rule{}, false
}

// stripFactProbability drops a leading "P::" probability annotation from
// a fact clause: the Basic Fact Set stores facts by their bare
// predicate, probabilities surviving only in rule head-lines (§3).
func stripFactProbability(s string) string {
	if idx := strings.Index(s, "::"); idx >= 0 {
		return s[idx+2:]
	}
	return s
}

func parseRule(headPart, bodyPart string) model.Rule {
	head := strings.ReplaceAll(headPart, " ", "")
	var prob string
	if idx := strings.Index(head, "::"); idx >= 0 {
		prob = head[:idx]
		head = head[idx+2:]
	}

	body := splitBody(bodyPart)
	predicates := make([]model.Predicate, 0, len(body))
	instrument := make([]bool, 0, len(body))
	for _, b := range body {
		predicates = append(predicates, model.Canon(b))
		instrument = append(instrument, shouldInstrumentRaw(b))
	}

	return model.Rule{
		Probability: prob,
		Head:        model.Predicate(head),
		Body:        predicates,
		Instrument:  instrument,
	}
}

// splitBody scans bodyPart+"," left to right, tracking parenthesis
// balance, and emits one body predicate per comma found outside
// parentheses (§4.B).
func splitBody(bodyPart string) []string {
	s := bodyPart + ","
	var out []string
	marker := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' && !inParentheses(i, s) {
			out = append(out, strings.TrimSpace(s[marker:i]))
			marker = i + 1
		}
	}
	return out
}

// inParentheses reports whether position index in s lies strictly inside
// a pair of parentheses: there is an unmatched '(' to its left and an
// unmatched ')' to its right. Index 0 and len-1 are never inside (§4.B).
func inParentheses(index int, s string) bool {
	if index < 0 || index >= len(s) {
		panic("kb: index out of range in parenthesis predicate")
	}
	if index == 0 || index == len(s)-1 {
		return false
	}

	leftDepth := 0
	for i := 0; i < index; i++ {
		switch s[i] {
		case '(':
			leftDepth++
		case ')':
			if leftDepth > 0 {
				leftDepth--
			}
		}
	}
	if leftDepth == 0 {
		return false
	}

	rightDepth := 0
	for i := len(s) - 1; i > index; i-- {
		switch s[i] {
		case ')':
			rightDepth++
		case '(':
			if rightDepth > 0 {
				rightDepth--
			}
		}
	}
	return rightDepth > 0
}

// shouldInstrumentRaw reports whether a body predicate, in its
// pre-canonicalization (whitespace-preserved) form, should emit a trace
// write. It is not a pure-syntactic side predicate like "X is Y" or
// "not foo(X)" — those patterns depend on the surrounding spaces that
// model.Canon later strips (§4.C).
func shouldInstrumentRaw(raw string) bool {
	for _, pat := range ignoredBodyPatterns {
		if strings.Contains(raw, pat) {
			return false
		}
	}
	return true
}
