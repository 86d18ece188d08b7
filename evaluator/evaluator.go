package evaluator

import (
	"context"

	"github.com/graphquality/rpcheck/ast"
	"github.com/graphquality/rpcheck/probe"
)

// Evaluator computes the pair-sets of atom sequences by driving a graph
// probe. Within a single request, the pair-set of each sequence is computed
// at most once; the memo lives for the duration of one evaluator and is
// dropped with it. An evaluator holds no cross-request state.
type Evaluator struct {
	probe probe.Probe
	cache map[string][]probe.Pair
}

// New returns a new evaluator that drives p.
func New(p probe.Probe) *Evaluator {
	return &Evaluator{
		probe: p,
		cache: map[string][]probe.Pair{},
	}
}

// Pairs returns the pair-set of a single sequence, memoised on the
// sequence's structural form.
func (ev *Evaluator) Pairs(ctx context.Context, seq ast.Sequence) ([]probe.Pair, error) {
	key := seq.String()

	if pairs, ok := ev.cache[key]; ok {
		return pairs, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pairs, err := ev.probe.PairsForSequence(ctx, seq)
	if err != nil {
		return nil, probe.WrapError("pairs for sequence", err)
	}

	ev.cache[key] = pairs

	return pairs, nil
}

// PairSet returns the union of the pair-sets of seqs.
func (ev *Evaluator) PairSet(ctx context.Context, seqs []ast.Sequence) (map[probe.Pair]struct{}, error) {
	out := map[probe.Pair]struct{}{}

	for _, seq := range seqs {
		pairs, err := ev.Pairs(ctx, seq)
		if err != nil {
			return nil, err
		}

		for _, p := range pairs {
			out[p] = struct{}{}
		}
	}

	return out, nil
}

// witness returns one concrete path evidencing (u, v) for seq, or nil.
func (ev *Evaluator) witness(ctx context.Context, seq ast.Sequence, u, v probe.NodeID) (probe.Path, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := ev.probe.WitnessPath(ctx, seq, u, v)
	if err != nil {
		return nil, probe.WrapError("witness path", err)
	}

	return path, nil
}

// difference returns the pairs of a that are not in b, sorted.
func difference(a, b map[probe.Pair]struct{}) []probe.Pair {
	out := make([]probe.Pair, 0)
	for p := range a {
		if _, ok := b[p]; !ok {
			out = append(out, p)
		}
	}
	probe.SortPairs(out)
	return out
}
