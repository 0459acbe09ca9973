// Package model holds the shared data model for the KB rewriter and the
// proof-tree reconstructor: predicates, facts, rules, and proof sets.
package model

import "strings"

// Predicate is an opaque, whitespace-stripped textual atom such as
// "p(a,b)" or "parent(X,Y)". Two predicates are equal iff their canonical
// forms are identical.
type Predicate string

// Canon returns the canonical form of a predicate: all interior whitespace
// removed. Two predicates compare equal iff their canonical forms match.
func Canon(s string) Predicate {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return Predicate(b.String())
}

// String returns the canonical text of the predicate.
func (p Predicate) String() string {
	return string(p)
}

// BasicFactSentinel wraps a predicate in "#...#" to mark it as a basic
// fact leaf in a proof tree's node data (§3, §4.E).
func BasicFactSentinel(p Predicate) string {
	return "#" + string(p) + "#"
}

// IsBasicFactSentinel reports whether data is of the form "#...#".
func IsBasicFactSentinel(data string) bool {
	return len(data) >= 2 && data[0] == '#' && data[len(data)-1] == '#'
}

// UnwrapBasicFactSentinel strips the "#...#" wrapper, returning the
// underlying predicate text. Safe to call on non-sentinel data: in that
// case it returns the input unchanged.
func UnwrapBasicFactSentinel(data string) string {
	if IsBasicFactSentinel(data) {
		return data[1 : len(data)-1]
	}
	return data
}
