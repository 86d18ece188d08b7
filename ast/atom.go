package ast

import "strings"

// Atom is a single labelled hop in a path query. If Inverse is set, the hop
// traverses an edge against its direction.
type Atom struct {
	Inverse bool
	Label   string
}

// String returns the canonical text of the atom.
func (a Atom) String() string {
	if a.Inverse {
		return "^" + a.Label
	}
	return a.Label
}

// Sequence is an ordered list of atoms. It is the unit of evaluation against
// a graph probe. The empty sequence is only ever an intermediate value during
// Kleene expansion and is filtered out before evaluation.
type Sequence []Atom

// String returns the canonical text of the sequence, with atoms joined by dots.
// It doubles as the structural key of the sequence: two sequences are equal
// if and only if their canonical texts are equal.
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, a := range s {
		parts[i] = a.String()
	}
	return strings.Join(parts, ".")
}

// IsEmpty returns whether the sequence is the empty sequence ε.
func (s Sequence) IsEmpty() bool {
	return len(s) == 0
}

// HasInverse returns whether any atom in the sequence is inverted.
func (s Sequence) HasInverse() bool {
	for _, a := range s {
		if a.Inverse {
			return true
		}
	}
	return false
}

// Concat returns a new sequence holding the atoms of s followed by those of t.
func (s Sequence) Concat(t Sequence) Sequence {
	out := make(Sequence, 0, len(s)+len(t))
	out = append(out, s...)
	out = append(out, t...)
	return out
}
