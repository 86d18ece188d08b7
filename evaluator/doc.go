// Package evaluator decides regular path constraints against a graph probe
// and quantifies how inconsistent the graph is with respect to a set of them.
// It provides the single-constraint inclusion check and the inconsistency
// measures engine with its fast and slow evaluation paths.
package evaluator
