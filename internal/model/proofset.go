package model

import "sort"

// ProofSet is one witness for one fact: an unordered collection of
// predicates that together imply it. Two proof sets are equal iff they
// contain the same predicates (§3).
type ProofSet map[Predicate]struct{}

// NewProofSet builds a ProofSet from a slice of predicate strings.
func NewProofSet(predicates []Predicate) ProofSet {
	s := make(ProofSet, len(predicates))
	for _, p := range predicates {
		s[p] = struct{}{}
	}
	return s
}

// Key returns a canonical, order-independent string key for this proof
// set, used to deduplicate structurally identical proofs (§3: "Two proof
// sets are equal iff they contain the same predicates").
func (s ProofSet) Key() string {
	items := make([]string, 0, len(s))
	for p := range s {
		items = append(items, string(p))
	}
	sort.Strings(items)
	key := ""
	for i, it := range items {
		if i > 0 {
			key += "\x00"
		}
		key += it
	}
	return key
}

// Sorted returns the proof set's predicates in deterministic (lexical)
// order, used wherever the builder must iterate a proof's members
// reproducibly (§4.E: "for fact in sorted(proof)").
func (s ProofSet) Sorted() []Predicate {
	out := make([]Predicate, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of predicates in the proof set, used for the
// ascending-cardinality ordering of alternative proofs (§4.E, §5).
func (s ProofSet) Len() int {
	return len(s)
}

// ProvedFacts maps a predicate to the set of distinct proof-sets that
// prove it (§3: "Proved-Facts Map"). Proof sets are deduplicated by Key().
type ProvedFacts map[Predicate]map[string]ProofSet

// Add records one proof-set as a witness for fact, deduplicating against
// any proof-set already recorded with the same Key().
func (pf ProvedFacts) Add(fact Predicate, proof ProofSet) {
	sets, ok := pf[fact]
	if !ok {
		sets = make(map[string]ProofSet)
		pf[fact] = sets
	}
	sets[proof.Key()] = proof
}

// Proofs returns the distinct proof-sets recorded for fact, sorted by
// ascending cardinality with trace-arrival order as a tie-break (§5).
// arrivalOrder maps each proof-set Key() to the order it was first seen.
func (pf ProvedFacts) Proofs(fact Predicate, arrivalOrder map[string]int) []ProofSet {
	sets := pf[fact]
	out := make([]ProofSet, 0, len(sets))
	for _, s := range sets {
		out = append(out, s)
	}
	sortProofsByCardinalityThenArrival(out, arrivalOrder)
	return out
}

func sortProofsByCardinalityThenArrival(proofs []ProofSet, arrivalOrder map[string]int) {
	less := func(i, j int) bool {
		if proofs[i].Len() != proofs[j].Len() {
			return proofs[i].Len() < proofs[j].Len()
		}
		return arrivalOrder[proofs[i].Key()] < arrivalOrder[proofs[j].Key()]
	}
	insertionSort(proofs, less)
}

// insertionSort is a stable, dependency-free sort used for the small
// per-fact proof lists (bounded by the number of alternative derivations
// for one predicate, never large in practice).
func insertionSort(proofs []ProofSet, less func(i, j int) bool) {
	for i := 1; i < len(proofs); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			proofs[j], proofs[j-1] = proofs[j-1], proofs[j]
		}
	}
}

// IsProved reports whether fact has at least one recorded proof.
func (pf ProvedFacts) IsProved(fact Predicate) bool {
	_, ok := pf[fact]
	return ok
}

// RemoveBasicFacts drops any key that is also in the basic fact set: a
// basic fact cannot also be "proved" (§4.D) — the basic-fact
// classification wins.
func (pf ProvedFacts) RemoveBasicFacts(basic BasicFactSet) {
	for fact := range pf {
		if basic.Has(fact) {
			delete(pf, fact)
		}
	}
}
