// Package parser provides a parser that reads a stream of lexical tokens from
// a lexer, transforming them into a disjunction of atom sequences. Alternation
// is distributed over concatenation during parsing, and the Kleene star is
// approximated by a bounded expansion, so the result is a flat set of linear
// path patterns ready for evaluation against a graph probe.
package parser
