// Package memgraph provides an in-memory labelled directed multigraph
// implementing the probe contract. It backs tests and the CLI; production
// deployments substitute a probe over their own storage engine.
package memgraph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/lvlath/core"

	"github.com/graphquality/rpcheck/ast"
	"github.com/graphquality/rpcheck/probe"
)

// Graph is a labelled directed multigraph held in memory. Vertex and edge
// storage lives in an lvlath core graph; edge labels are kept in a sidecar
// map keyed by lvlath edge ID, since lvlath edges carry no label of their own.
//
// A Graph is safe for concurrent reads. Mutation must not overlap with
// evaluation.
type Graph struct {
	g *core.Graph

	mu     sync.RWMutex
	labels map[string]string
}

// New returns a new empty graph.
func New() *Graph {
	return &Graph{
		g: core.NewGraph(
			core.WithDirected(true),
			core.WithMultiEdges(),
			core.WithLoops(),
		),
		labels: map[string]string{},
	}
}

// AddNode adds a node. Adding a node twice is not an error.
func (m *Graph) AddNode(id probe.NodeID) error {
	return m.g.AddVertex(string(id))
}

// AddEdge adds a directed labelled edge, creating its endpoints as needed.
func (m *Graph) AddEdge(from, to probe.NodeID, label string) error {
	if label == "" {
		return fmt.Errorf("memgraph: empty edge label")
	}

	eid, err := m.g.AddEdge(string(from), string(to), 0)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.labels[eid] = label
	m.mu.Unlock()

	return nil
}

// Stats returns the node and relationship counts of the graph.
func (m *Graph) Stats() probe.Stats {
	return probe.Stats{
		Nodes:         m.g.VertexCount(),
		Relationships: m.g.EdgeCount(),
	}
}

// index is a label-keyed adjacency snapshot used to evaluate one request.
type index struct {
	out map[string]map[probe.NodeID][]probe.NodeID
	in  map[string]map[probe.NodeID][]probe.NodeID
}

func (m *Graph) buildIndex() *index {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := &index{
		out: map[string]map[probe.NodeID][]probe.NodeID{},
		in:  map[string]map[probe.NodeID][]probe.NodeID{},
	}

	for _, e := range m.g.Edges() {
		label, ok := m.labels[e.ID]
		if !ok {
			continue
		}

		addHop(idx.out, label, probe.NodeID(e.From), probe.NodeID(e.To))
		addHop(idx.in, label, probe.NodeID(e.To), probe.NodeID(e.From))
	}

	// deterministic expansion order
	for _, byNode := range idx.out {
		for _, tos := range byNode {
			sortNodeIDs(tos)
		}
	}
	for _, byNode := range idx.in {
		for _, tos := range byNode {
			sortNodeIDs(tos)
		}
	}

	return idx
}

func addHop(hops map[string]map[probe.NodeID][]probe.NodeID, label string, from, to probe.NodeID) {
	byNode, ok := hops[label]
	if !ok {
		byNode = map[probe.NodeID][]probe.NodeID{}
		hops[label] = byNode
	}
	byNode[from] = append(byNode[from], to)
}

func (idx *index) hops(a ast.Atom) map[probe.NodeID][]probe.NodeID {
	if a.Inverse {
		return idx.in[a.Label]
	}
	return idx.out[a.Label]
}

// PairsForSequence returns all pairs (u, v) connected by a path realising seq.
func (m *Graph) PairsForSequence(ctx context.Context, seq ast.Sequence) ([]probe.Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seq.IsEmpty() {
		return nil, fmt.Errorf("memgraph: empty sequence")
	}

	idx := m.buildIndex()

	// seed with the pairs of the first atom, then expand hop by hop
	current := map[probe.Pair]struct{}{}
	for from, tos := range idx.hops(seq[0]) {
		for _, to := range tos {
			current[probe.Pair{U: from, V: to}] = struct{}{}
		}
	}

	for _, a := range seq[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hops := idx.hops(a)
		next := map[probe.Pair]struct{}{}
		for p := range current {
			for _, to := range hops[p.V] {
				next[probe.Pair{U: p.U, V: to}] = struct{}{}
			}
		}
		current = next
	}

	pairs := make([]probe.Pair, 0, len(current))
	for p := range current {
		pairs = append(pairs, p)
	}
	probe.SortPairs(pairs)

	return pairs, nil
}

// WitnessPath returns one concrete path from u to v realising seq, or nil if
// there is none. Sequences containing inverse atoms yield no witness.
func (m *Graph) WitnessPath(ctx context.Context, seq ast.Sequence, u, v probe.NodeID) (probe.Path, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seq.IsEmpty() || seq.HasInverse() {
		return nil, nil
	}

	idx := m.buildIndex()

	var walk func(cur probe.NodeID, i int, acc probe.Path) probe.Path
	walk = func(cur probe.NodeID, i int, acc probe.Path) probe.Path {
		if i == len(seq) {
			if cur == v {
				out := make(probe.Path, len(acc))
				copy(out, acc)
				return out
			}
			return nil
		}

		for _, next := range idx.hops(seq[i])[cur] {
			step := probe.Edge{U: cur, V: next, Label: seq[i].Label}
			if found := walk(next, i+1, append(acc, step)); found != nil {
				return found
			}
		}

		return nil
	}

	return walk(u, 0, nil), nil
}

// SampleViolations returns up to limit pairs satisfying some sequence of lhs
// while satisfying no sequence of rhs. It implements the fast evaluation
// path's single-question probe contract.
func (m *Graph) SampleViolations(ctx context.Context, lhs, rhs []ast.Sequence, limit int) ([]probe.Pair, error) {
	lhsPairs, err := m.pairsForAll(ctx, lhs)
	if err != nil {
		return nil, err
	}

	rhsPairs, err := m.pairsForAll(ctx, rhs)
	if err != nil {
		return nil, err
	}

	violations := make([]probe.Pair, 0)
	for p := range lhsPairs {
		if _, ok := rhsPairs[p]; !ok {
			violations = append(violations, p)
		}
	}
	probe.SortPairs(violations)

	if limit >= 0 && len(violations) > limit {
		violations = violations[:limit]
	}

	return violations, nil
}

func (m *Graph) pairsForAll(ctx context.Context, seqs []ast.Sequence) (map[probe.Pair]struct{}, error) {
	out := map[probe.Pair]struct{}{}
	for _, seq := range seqs {
		pairs, err := m.PairsForSequence(ctx, seq)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			out[p] = struct{}{}
		}
	}
	return out, nil
}

func sortNodeIDs(ids []probe.NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

var (
	_ probe.Probe            = (*Graph)(nil)
	_ probe.ViolationSampler = (*Graph)(nil)
	_ probe.StatsProvider    = (*Graph)(nil)
)
