package parser

import "github.com/graphquality/rpcheck/ast"

// Expand returns the sequences of q ready for evaluation, with ε branches
// left over from Kleene expansion removed. A query whose every branch is ε
// expands to no sequences and evaluates to the empty pair-set.
func Expand(q ast.RPQ) []ast.Sequence {
	out := make([]ast.Sequence, 0, len(q))
	for _, s := range q {
		if s.IsEmpty() {
			continue
		}
		out = append(out, s)
	}
	return out
}
