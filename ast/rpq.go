package ast

import "strings"

// RPQ is a regular path query compiled to a disjunction of sequences. Every
// RPQ produced by parsing holds at least one sequence. Sequences may be empty
// only as intermediate values of Kleene expansion.
type RPQ []Sequence

// String returns the canonical text of the query: the non-empty sequences
// joined by the alternation operator. Parsing the canonical text again yields
// the same non-empty sequences; ε branches are not printed and do not come
// back.
func (q RPQ) String() string {
	parts := make([]string, 0, len(q))
	for _, s := range q {
		if s.IsEmpty() {
			continue
		}
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "∣")
}

// Contains returns whether the disjunction holds a sequence structurally
// equal to s.
func (q RPQ) Contains(s Sequence) bool {
	key := s.String()
	for _, t := range q {
		if t.String() == key {
			return true
		}
	}
	return false
}

// Dedup returns the disjunction with structural duplicates removed, keeping
// first occurrences in order.
func (q RPQ) Dedup() RPQ {
	seen := make(map[string]struct{}, len(q))
	out := make(RPQ, 0, len(q))
	for _, s := range q {
		key := s.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
