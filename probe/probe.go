package probe

import (
	"context"
	"sort"

	"github.com/graphquality/rpcheck/ast"
)

// NodeID identifies a node in the graph. The engine treats it as an opaque
// token: it is only ever compared for equality and ordered for stable output.
type NodeID string

// Pair is an ordered pair of nodes connected by some path.
type Pair struct {
	U NodeID `json:"u"`
	V NodeID `json:"v"`
}

// Edge is a single labelled edge of the graph.
type Edge struct {
	U     NodeID `json:"u"`
	V     NodeID `json:"v"`
	Label string `json:"label"`
}

// Path is an ordered list of edges whose concatenation evidences membership
// of its endpoints in some sequence's pair-set.
type Path []Edge

// Probe is the storage engine collaborator the evaluator drives. A probe is
// borrowed for the duration of a single request and must be safe for
// concurrent reads.
type Probe interface {
	// PairsForSequence returns all pairs (u, v) such that seq is realised by
	// a directed labelled path from u to v in the current graph. Inverse
	// atoms are honoured by reversing direction. The result is deduplicated.
	PairsForSequence(ctx context.Context, seq ast.Sequence) ([]Pair, error)

	// WitnessPath returns one concrete path from u to v realising seq, or
	// nil if there is none. It may return nil whenever seq contains an
	// inverse atom.
	WitnessPath(ctx context.Context, seq ast.Sequence, u, v NodeID) (Path, error)
}

// ViolationSampler is an optional probe capability used by the fast
// evaluation path: it reports pairs satisfying some left-hand sequence while
// satisfying no right-hand sequence, stopping after limit pairs. Probes
// backed by a query engine can express this as a single pattern match with a
// NOT EXISTS over the right-hand alternatives.
type ViolationSampler interface {
	SampleViolations(ctx context.Context, lhs, rhs []ast.Sequence, limit int) ([]Pair, error)
}

// StatsProvider is an optional probe capability reporting the size of the
// current graph.
type StatsProvider interface {
	Stats() Stats
}

// Stats holds the node and relationship counts of a graph.
type Stats struct {
	Nodes         int `json:"nodes"`
	Relationships int `json:"relationships"`
}

// SortPairs sorts pairs in byte order on (u, v).
func SortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].U != pairs[j].U {
			return pairs[i].U < pairs[j].U
		}
		return pairs[i].V < pairs[j].V
	})
}

// SortEdges sorts edges in byte order on (u, v, label).
func SortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		if edges[i].V != edges[j].V {
			return edges[i].V < edges[j].V
		}
		return edges[i].Label < edges[j].Label
	})
}
