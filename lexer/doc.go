// Package lexer provides a lexer that tokenises regular path constraints.
// The tokens are then to be further processed by a parser into a disjunction
// of atom sequences.
package lexer
