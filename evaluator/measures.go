package evaluator

import (
	"context"
	"fmt"

	"github.com/gobuffalo/nulls"

	"github.com/graphquality/rpcheck/ast"
	"github.com/graphquality/rpcheck/parser"
	"github.com/graphquality/rpcheck/probe"
	"github.com/graphquality/rpcheck/validate"
)

// Measure names an inconsistency measure.
type Measure string

const (
	// MeasureDrastic is 1 if any constraint is violated, else 0.
	MeasureDrastic Measure = "mu_drastic"

	// MeasureViolatedConstraints counts constraints with at least one violation.
	MeasureViolatedConstraints Measure = "mu_violated_constraints"

	// MeasureProblematicPairs counts distinct violating node pairs across all
	// constraints.
	MeasureProblematicPairs Measure = "problematic_pairs"

	// MeasureProblematicEdges counts distinct edges appearing in any witness path.
	MeasureProblematicEdges Measure = "problematic_edges"

	// MeasureProblematicLabels counts distinct labels over the problematic edges.
	MeasureProblematicLabels Measure = "problematic_labels"

	// MeasureProblematicVertices counts distinct endpoints over the problematic edges.
	MeasureProblematicVertices Measure = "problematic_vertices"

	// MeasureMinimalGraphs counts witness edge-sets minimal w.r.t. strict
	// inclusion among the collected witness edge-sets.
	MeasureMinimalGraphs Measure = "minimal_problematic_graphs"

	// MeasureMinimalPaths counts witness paths with no strictly smaller
	// witness path over a strict subset of their edges.
	MeasureMinimalPaths Measure = "minimal_problematic_paths"

	// MeasureEMinus is the repair-size surrogate I_E⁻, equal to the count of
	// minimal witness edge-sets.
	MeasureEMinus Measure = "I_E_minus"

	// MeasureEPlus is the repair-size surrogate I_E⁺, equal to the count of
	// problematic pairs.
	MeasureEPlus Measure = "I_E_plus"

	// MeasureVMinus is the size of a greedy vertex cover over the
	// problematic-pairs graph.
	MeasureVMinus Measure = "I_V_minus"
)

// fastSampleLimit bounds the violating pairs sampled per constraint on the
// fast path.
const fastSampleLimit = 20

// AllMeasures returns every measure, in reporting order.
func AllMeasures() []Measure {
	return []Measure{
		MeasureDrastic,
		MeasureViolatedConstraints,
		MeasureProblematicPairs,
		MeasureProblematicEdges,
		MeasureProblematicLabels,
		MeasureProblematicVertices,
		MeasureMinimalGraphs,
		MeasureMinimalPaths,
		MeasureEMinus,
		MeasureEPlus,
		MeasureVMinus,
	}
}

// ParseMeasure returns the measure named s.
func ParseMeasure(s string) (Measure, error) {
	for _, m := range AllMeasures() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown measure %q", s)
}

// fastMeasures are the measures computable without witness paths.
var fastMeasures = map[Measure]bool{
	MeasureDrastic:             true,
	MeasureViolatedConstraints: true,
	MeasureProblematicPairs:    true,
}

// ConstraintReport is the per-constraint detail of a measures result. The
// pair-count fields are null when the constraint was not fully evaluated:
// on symbol validation failure, or on the sampled fast path.
type ConstraintReport struct {
	Name            string    `json:"name"`
	OK              bool      `json:"ok"`
	Type            string    `json:"type,omitempty"`
	Errors          []string  `json:"errors,omitempty"`
	LHSPairs        nulls.Int `json:"lhs_pairs"`
	RHSPairs        nulls.Int `json:"rhs_pairs"`
	ViolationsCount nulls.Int `json:"violations_count"`
}

// Details carries the per-constraint reports and, after a slow-path
// evaluation, the supporting sets behind the advanced measures.
type Details struct {
	PerConstraint []ConstraintReport `json:"per_constraint"`
	Pairs         []probe.Pair       `json:"pairs,omitempty"`
	MIMS          [][]probe.Edge     `json:"MIMS,omitempty"`
	MinimalPaths  []probe.Path       `json:"minimal_paths,omitempty"`
}

// MeasuresResult is the outcome of computing inconsistency measures over a
// set of constraints. Summary holds exactly the requested measures.
type MeasuresResult struct {
	Summary map[Measure]int `json:"summary"`
	Details Details         `json:"details"`
}

// compiled is one parsed and validated constraint ready for evaluation.
type compiled struct {
	name    string
	lhs     []ast.Sequence
	rhs     []ast.Sequence
	symErrs []validate.SymbolError
}

// ComputeMeasures parses the constraints, evaluates them against the graph
// behind p, and computes the requested measures. An empty requested list
// means all measures.
//
// When only mu_drastic, mu_violated_constraints, and problematic_pairs are
// requested, evaluation takes a fast path that asks the probe a single
// violation-existence question per constraint; problematic_pairs is then a
// sample-based lower bound (the cardinality of the union of per-constraint
// samples of at most 20 pairs each). If the probe does not implement
// probe.ViolationSampler, the fast path evaluates full pair-sets instead and
// problematic_pairs is exact. Any advanced measure forces full pair-set
// evaluation and witness extraction.
//
// A parse error on any constraint aborts the whole computation, as does any
// probe failure. A constraint failing symbol validation counts as violated
// and is reported per-constraint instead.
func ComputeMeasures(ctx context.Context, p probe.Probe, constraints []string, requested []Measure) (*MeasuresResult, error) {
	if len(requested) == 0 {
		requested = AllMeasures()
	}

	for _, m := range requested {
		if _, err := ParseMeasure(string(m)); err != nil {
			return nil, err
		}
	}

	compiledCs := make([]compiled, 0, len(constraints))
	for _, raw := range constraints {
		rpc, err := parser.ParseRPC(raw)
		if err != nil {
			return nil, err
		}

		compiledCs = append(compiledCs, compiled{
			name:    rpc.Name,
			lhs:     parser.Expand(rpc.LHS),
			rhs:     parser.Expand(rpc.RHS),
			symErrs: validate.Symbols(rpc),
		})
	}

	fast := true
	for _, m := range requested {
		if !fastMeasures[m] {
			fast = false
			break
		}
	}

	if fast {
		return computeFast(ctx, p, compiledCs, requested)
	}

	return computeSlow(ctx, p, compiledCs, requested)
}

func computeFast(ctx context.Context, p probe.Probe, constraints []compiled, requested []Measure) (*MeasuresResult, error) {
	sampler, hasSampler := p.(probe.ViolationSampler)

	wantPairs := false
	for _, m := range requested {
		if m == MeasureProblematicPairs {
			wantPairs = true
		}
	}

	// without the pairs measure a single violating pair answers the question
	limit := 1
	if wantPairs {
		limit = fastSampleLimit
	}

	ev := New(p)

	violated := 0
	sampled := map[probe.Pair]struct{}{}
	reports := make([]ConstraintReport, 0, len(constraints))

	for _, c := range constraints {
		if len(c.symErrs) > 0 {
			violated++
			reports = append(reports, schemaReport(c))
			continue
		}

		var violations []probe.Pair

		if hasSampler {
			var err error
			violations, err = sampler.SampleViolations(ctx, c.lhs, c.rhs, limit)
			if err != nil {
				return nil, probe.WrapError("sample violations", err)
			}

			reports = append(reports, ConstraintReport{
				Name: c.name,
				OK:   len(violations) == 0,
			})
		} else {
			lhsSet, err := ev.PairSet(ctx, c.lhs)
			if err != nil {
				return nil, err
			}

			rhsSet, err := ev.PairSet(ctx, c.rhs)
			if err != nil {
				return nil, err
			}

			violations = difference(lhsSet, rhsSet)

			reports = append(reports, ConstraintReport{
				Name:            c.name,
				OK:              len(violations) == 0,
				LHSPairs:        nulls.NewInt(len(lhsSet)),
				RHSPairs:        nulls.NewInt(len(rhsSet)),
				ViolationsCount: nulls.NewInt(len(violations)),
			})
		}

		if len(violations) > 0 {
			violated++
			for _, v := range violations {
				sampled[v] = struct{}{}
			}
		}
	}

	summary := map[Measure]int{}
	for _, m := range requested {
		switch m {
		case MeasureDrastic:
			summary[m] = drastic(violated)
		case MeasureViolatedConstraints:
			summary[m] = violated
		case MeasureProblematicPairs:
			summary[m] = len(sampled)
		}
	}

	return &MeasuresResult{
		Summary: summary,
		Details: Details{
			PerConstraint: reports,
		},
	}, nil
}

func computeSlow(ctx context.Context, p probe.Probe, constraints []compiled, requested []Measure) (*MeasuresResult, error) {
	ev := New(p)

	violated := 0
	allProblem := map[probe.Pair]struct{}{}
	witnessed := map[probe.Pair]bool{}
	var witnessPaths []probe.Path
	reports := make([]ConstraintReport, 0, len(constraints))

	for _, c := range constraints {
		if len(c.symErrs) > 0 {
			violated++
			reports = append(reports, schemaReport(c))
			continue
		}

		lhsSet, err := ev.PairSet(ctx, c.lhs)
		if err != nil {
			return nil, err
		}

		rhsSet, err := ev.PairSet(ctx, c.rhs)
		if err != nil {
			return nil, err
		}

		violations := difference(lhsSet, rhsSet)

		if len(violations) > 0 {
			violated++

			for _, v := range violations {
				allProblem[v] = struct{}{}

				// one witness per pair globally: the first left-hand
				// sequence that yields one wins, across all constraints
				if witnessed[v] {
					continue
				}

				for _, seq := range c.lhs {
					path, err := ev.witness(ctx, seq, v.U, v.V)
					if err != nil {
						return nil, err
					}

					if len(path) > 0 {
						witnessed[v] = true
						witnessPaths = append(witnessPaths, path)
						break
					}
				}
			}
		}

		reports = append(reports, ConstraintReport{
			Name:            c.name,
			OK:              len(violations) == 0,
			LHSPairs:        nulls.NewInt(len(lhsSet)),
			RHSPairs:        nulls.NewInt(len(rhsSet)),
			ViolationsCount: nulls.NewInt(len(violations)),
		})
	}

	edgeSets := make([]map[probe.Edge]struct{}, len(witnessPaths))
	for i, path := range witnessPaths {
		edgeSets[i] = edgeSet(path)
	}

	var mims [][]probe.Edge
	for i, s := range edgeSets {
		if minimalEdgeSet(edgeSets, i) {
			mims = append(mims, sortedEdges(s))
		}
	}

	var minimalPaths []probe.Path
	for i, path := range witnessPaths {
		if minimalPath(witnessPaths, edgeSets, i) {
			minimalPaths = append(minimalPaths, path)
		}
	}

	probEdges := map[probe.Edge]struct{}{}
	for _, s := range edgeSets {
		for e := range s {
			probEdges[e] = struct{}{}
		}
	}

	probLabels := map[string]struct{}{}
	probVertices := map[probe.NodeID]struct{}{}
	for e := range probEdges {
		probLabels[e.Label] = struct{}{}
		probVertices[e.U] = struct{}{}
		probVertices[e.V] = struct{}{}
	}

	summary := map[Measure]int{}
	for _, m := range requested {
		switch m {
		case MeasureDrastic:
			summary[m] = drastic(violated)
		case MeasureViolatedConstraints:
			summary[m] = violated
		case MeasureProblematicPairs:
			summary[m] = len(allProblem)
		case MeasureProblematicEdges:
			summary[m] = len(probEdges)
		case MeasureProblematicLabels:
			summary[m] = len(probLabels)
		case MeasureProblematicVertices:
			summary[m] = len(probVertices)
		case MeasureMinimalGraphs:
			summary[m] = len(mims)
		case MeasureMinimalPaths:
			summary[m] = len(minimalPaths)
		case MeasureEMinus:
			summary[m] = len(mims)
		case MeasureEPlus:
			summary[m] = len(allProblem)
		case MeasureVMinus:
			summary[m] = greedyVertexCover(allProblem)
		}
	}

	pairs := make([]probe.Pair, 0, len(allProblem))
	for p := range allProblem {
		pairs = append(pairs, p)
	}
	probe.SortPairs(pairs)

	return &MeasuresResult{
		Summary: summary,
		Details: Details{
			PerConstraint: reports,
			Pairs:         pairs,
			MIMS:          mims,
			MinimalPaths:  minimalPaths,
		},
	}, nil
}

func schemaReport(c compiled) ConstraintReport {
	errs := make([]string, len(c.symErrs))
	for i, e := range c.symErrs {
		errs[i] = e.Error()
	}

	return ConstraintReport{
		Name:   c.name,
		OK:     false,
		Type:   "schema_validation",
		Errors: errs,
	}
}

func drastic(violated int) int {
	if violated > 0 {
		return 1
	}
	return 0
}

// minimalEdgeSet reports whether no other collected edge-set is a strict
// subset of edge-set i.
func minimalEdgeSet(sets []map[probe.Edge]struct{}, i int) bool {
	for j, other := range sets {
		if j == i {
			continue
		}
		if strictSubset(other, sets[i]) {
			return false
		}
	}
	return true
}

// minimalPath reports whether no other collected witness path is strictly
// shorter than path i while covering a strict subset of its edges.
func minimalPath(paths []probe.Path, sets []map[probe.Edge]struct{}, i int) bool {
	for j := range paths {
		if j == i {
			continue
		}
		if len(paths[j]) < len(paths[i]) && strictSubset(sets[j], sets[i]) {
			return false
		}
	}
	return true
}

func strictSubset(a, b map[probe.Edge]struct{}) bool {
	if len(a) >= len(b) {
		return false
	}
	for e := range a {
		if _, ok := b[e]; !ok {
			return false
		}
	}
	return true
}

func edgeSet(path probe.Path) map[probe.Edge]struct{} {
	s := make(map[probe.Edge]struct{}, len(path))
	for _, e := range path {
		s[e] = struct{}{}
	}
	return s
}

func sortedEdges(s map[probe.Edge]struct{}) []probe.Edge {
	out := make([]probe.Edge, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	probe.SortEdges(out)
	return out
}

// greedyVertexCover covers the problematic pairs by repeatedly removing the
// vertex incident to the most remaining pairs, ties broken towards the
// smallest vertex ID, until no pairs remain.
func greedyVertexCover(pairs map[probe.Pair]struct{}) int {
	left := make(map[probe.Pair]struct{}, len(pairs))
	for p := range pairs {
		left[p] = struct{}{}
	}

	cover := 0

	for len(left) > 0 {
		freq := map[probe.NodeID]int{}
		for p := range left {
			freq[p.U]++
			freq[p.V]++
		}

		var best probe.NodeID
		bestCount := -1
		for id, n := range freq {
			if n > bestCount || (n == bestCount && id < best) {
				best = id
				bestCount = n
			}
		}

		cover++

		for p := range left {
			if p.U == best || p.V == best {
				delete(left, p)
			}
		}
	}

	return cover
}
