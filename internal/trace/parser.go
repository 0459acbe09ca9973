// Package trace parses the inference engine's line-oriented trace stream
// into a Predicate -> set-of-proof-sets mapping (§4.D).
package trace

import (
	"strings"

	"xproblog/internal/logging"
	"xproblog/internal/model"
)

// headerSentinel marks a line that introduces a fact's proof-set: the
// rewriter's trace contract emits it as part of the "is proved because:"
// guard predicate, with the fact/sentinel boundary carried by the closing
// quote of the preceding write/1 literal (§4.C, §4.D). It is written in
// whitespace-stripped form because Parse removes all whitespace from a
// line before looking for it.
const headerSentinel = `"isprovedbecause:`

// Result is the outcome of parsing one trace stream: the Proved-Facts
// Map plus, per fact, the order each distinct proof-set key first
// appeared — the tie-break used when ordering alternative proofs (§5
// ordering guarantee 2).
type Result struct {
	Proved  model.ProvedFacts
	Arrival map[model.Predicate]map[string]int
}

// Parse scans payload lines (already stripped of the "xproblog:" prefix
// by the caller) and builds the Proved-Facts Map (§4.D): on each header
// line (`<fact>"is proved because:"`), the fact is taken as the substring
// before the first `"`, and the lines up to the next header are collected
// as the proof-set for that fact. basic is consulted only to
// enforce the invariant that a basic fact cannot also be "proved" — any
// such overlap is removed from the result.
func Parse(lines []string, basic model.BasicFactSet) Result {
	proved := make(model.ProvedFacts)
	arrival := make(map[model.Predicate]map[string]int)

	var currentFact model.Predicate
	var currentWitnesses []model.Predicate
	inProof := false

	flush := func() {
		if !inProof {
			return
		}
		proof := model.NewProofSet(currentWitnesses)
		key := proof.Key()

		m, ok := arrival[currentFact]
		if !ok {
			m = make(map[string]int)
			arrival[currentFact] = m
		}
		if _, seen := m[key]; !seen {
			m[key] = len(m)
		}

		proved.Add(currentFact, proof)
	}

	for _, raw := range lines {
		line := stripWhitespace(raw)
		if line == "" {
			continue
		}

		if idx := strings.Index(line, headerSentinel); idx >= 0 {
			flush()
			currentFact = model.Predicate(line[:idx])
			currentWitnesses = nil
			inProof = true
			continue
		}

		if inProof {
			currentWitnesses = append(currentWitnesses, model.Predicate(line))
		}
	}
	flush()

	proved.RemoveBasicFacts(basic)
	for fact := range arrival {
		if basic.Has(fact) {
			delete(arrival, fact)
		}
	}

	logging.TraceDebug("parsed %d proved facts from %d trace lines", len(proved), len(lines))
	return Result{Proved: proved, Arrival: arrival}
}

// stripWhitespace removes all whitespace from a payload line, as required
// before sentinel matching (§4.D: "Whitespace is removed from every
// payload line").
func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
