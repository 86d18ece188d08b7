// Package ast provides the abstract syntax of regular path constraints.
// A parsed constraint is a name together with two regular path queries, each
// compiled down to a disjunction of atom sequences.
package ast
