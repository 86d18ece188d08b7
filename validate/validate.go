// Package validate checks the relation symbols of a parsed constraint.
// Validation is purely syntactic: symbols that do not occur in the graph are
// legitimate and simply evaluate to the empty pair-set.
package validate

import (
	"fmt"
	"strings"

	"github.com/graphquality/rpcheck/ast"
)

// Side names the side of a constraint a symbol error was found on.
type Side string

const (
	LHS Side = "LHS"
	RHS Side = "RHS"
)

// SymbolError describes an invalid relation symbol in one sequence of a
// constraint. Index is the position of the sequence within its side.
type SymbolError struct {
	Side   Side
	Index  int
	Reason string
}

func (e SymbolError) Error() string {
	return fmt.Sprintf("%s sequence %d: %s", e.Side, e.Index, e.Reason)
}

// Symbols checks every atom of the constraint and returns an error descriptor
// for each empty relation symbol found. A nil result means the constraint
// passed validation.
func Symbols(c *ast.RPC) []SymbolError {
	var errs []SymbolError
	errs = append(errs, symbols(LHS, c.LHS)...)
	errs = append(errs, symbols(RHS, c.RHS)...)
	return errs
}

func symbols(side Side, q ast.RPQ) []SymbolError {
	var errs []SymbolError

	for i, seq := range q {
		for _, a := range seq {
			if strings.TrimSpace(a.Label) == "" {
				errs = append(errs, SymbolError{
					Side:   side,
					Index:  i,
					Reason: "empty relation symbol",
				})
			}
		}
	}

	return errs
}
