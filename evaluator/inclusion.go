package evaluator

import (
	"context"

	"github.com/gobuffalo/nulls"

	"github.com/graphquality/rpcheck/parser"
	"github.com/graphquality/rpcheck/probe"
	"github.com/graphquality/rpcheck/validate"
)

// maxReportedViolations caps the violation list included in results; the
// count is always exact.
const maxReportedViolations = 200

// InclusionResult is the outcome of checking a single constraint.
// The pair-count fields are null when the constraint failed symbol
// validation and was never evaluated.
type InclusionResult struct {
	Name            string       `json:"name"`
	OK              bool         `json:"ok"`
	Type            string       `json:"type,omitempty"`
	Errors          []string     `json:"errors,omitempty"`
	LHSPairs        nulls.Int    `json:"lhs_pairs"`
	RHSPairs        nulls.Int    `json:"rhs_pairs"`
	Violations      []probe.Pair `json:"violations"`
	ViolationsCount nulls.Int    `json:"violations_count"`
}

// CheckInclusion parses the constraint raw and decides whether its left-hand
// pair-set is included in its right-hand pair-set on the graph behind p.
// Lex, parse, and constraint-structure errors are returned as errors; symbol
// validation failures are reported in the result itself.
func CheckInclusion(ctx context.Context, p probe.Probe, raw string) (*InclusionResult, error) {
	rpc, err := parser.ParseRPC(raw)
	if err != nil {
		return nil, err
	}

	if symErrs := validate.Symbols(rpc); len(symErrs) > 0 {
		return &InclusionResult{
			Name:   rpc.Name,
			OK:     false,
			Type:   "schema_validation",
			Errors: symbolErrorStrings(symErrs),
		}, nil
	}

	ev := New(p)

	lhsSet, err := ev.PairSet(ctx, parser.Expand(rpc.LHS))
	if err != nil {
		return nil, err
	}

	rhsSet, err := ev.PairSet(ctx, parser.Expand(rpc.RHS))
	if err != nil {
		return nil, err
	}

	violations := difference(lhsSet, rhsSet)

	reported := violations
	if len(reported) > maxReportedViolations {
		reported = reported[:maxReportedViolations]
	}

	return &InclusionResult{
		Name:            rpc.Name,
		OK:              len(violations) == 0,
		LHSPairs:        nulls.NewInt(len(lhsSet)),
		RHSPairs:        nulls.NewInt(len(rhsSet)),
		Violations:      reported,
		ViolationsCount: nulls.NewInt(len(violations)),
	}, nil
}

func symbolErrorStrings(errs []validate.SymbolError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
