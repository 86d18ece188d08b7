// Package probe defines the contract between the constraint evaluator and
// the storage engine holding the graph, together with the pair, edge, and
// path vocabulary shared by both.
package probe
