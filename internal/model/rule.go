package model

// Rule is a parsed clause of the form "P::head :- body." or
// "head :- body.". Body order follows the order given in the source; the
// probability, when present, is kept verbatim as a literal numeric token.
type Rule struct {
	Probability string // empty when the clause carried no "P::" annotation
	Head        Predicate
	Body        []Predicate
	// Instrument[i] reports whether Body[i] should emit trace
	// instrumentation; false for predicates matching the "not "/" is "
	// ignore patterns, evaluated against the pre-canonicalization text
	// (§4.C — those patterns rely on surrounding whitespace).
	Instrument []bool
}

// HasProbability reports whether the rule carried a "P::" annotation.
func (r Rule) HasProbability() bool {
	return r.Probability != ""
}
