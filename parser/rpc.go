package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/graphquality/rpcheck/ast"
	"github.com/graphquality/rpcheck/lexer"
)

// groupPattern matches a dotted prefix followed by a parenthesised two-way
// alternation, e.g. "child_of.(brother_of∣sister_of)". The alternation
// operator is normalised to '∣' before matching.
var groupPattern = regexp.MustCompile(`([A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)*)\.\(([A-Za-z0-9_]+)\s*∣\s*([A-Za-z0-9_]+)\)`)

type rpcError struct {
	reason string
}

func newRPCError(reason string) *rpcError {
	return &rpcError{
		reason: reason,
	}
}

func newRPCErrorf(s string, args ...interface{}) *rpcError {
	return newRPCError(fmt.Sprintf(s, args...))
}

// IsRPCError returns whether e is an error in the overall structure of a
// constraint, as opposed to a lex or parse error inside one of its queries.
func IsRPCError(e error) bool {
	var re *rpcError
	return errors.As(e, &re)
}

func (e *rpcError) Error() string {
	return "invalid constraint: " + e.reason
}

// ParseRPC parses a constraint of the form "name (=|:) lhs (⊆|<=) rhs [;]".
// Both sides are compiled to disjunctions of sequences. The name must be
// non-empty, and exactly one inclusion operator is required.
func ParseRPC(raw string) (*ast.RPC, error) {
	s := strings.TrimSpace(raw)

	// anything after a terminator is discarded
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	if s == "" {
		return nil, newRPCError("empty constraint")
	}

	name, body, ok := splitName(s)
	if !ok {
		return nil, newRPCError("missing name delimiter '=' or ':'")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newRPCError("empty constraint name")
	}

	body = DistributeGroups(body)
	body = strings.ReplaceAll(body, "<=", "⊆")

	switch n := strings.Count(body, "⊆"); {
	case n == 0:
		return nil, newRPCError("missing inclusion operator '⊆' or '<='")
	case n > 1:
		return nil, newRPCErrorf("found %d inclusion operators, expected exactly one", n)
	}

	lhsText, rhsText, _ := strings.Cut(body, "⊆")

	if strings.TrimSpace(lhsText) == "" {
		return nil, newRPCError("empty left-hand query")
	}
	if strings.TrimSpace(rhsText) == "" {
		return nil, newRPCError("empty right-hand query")
	}

	lhs, err := parseRPQ(lhsText)
	if err != nil {
		return nil, err
	}

	rhs, err := parseRPQ(rhsText)
	if err != nil {
		return nil, err
	}

	return &ast.RPC{
		Name: name,
		LHS:  lhs,
		RHS:  rhs,
	}, nil
}

// ParseRPQ parses a single path query into a disjunction of sequences.
func ParseRPQ(raw string) (ast.RPQ, error) {
	return parseRPQ(DistributeGroups(raw))
}

func parseRPQ(text string) (ast.RPQ, error) {
	l := lexer.New(text)
	tCh, doneCh := l.Tokens()
	return New(tCh, doneCh).Parse()
}

// splitName splits off the constraint name at the first '=' or ':' that is
// not part of a "<=" inclusion operator.
func splitName(s string) (name string, body string, ok bool) {
	runes := []rune(s)
	for i, c := range runes {
		switch c {
		case ':':
			return string(runes[:i]), string(runes[i+1:]), true
		case '=':
			if i > 0 && runes[i-1] == '<' {
				continue
			}
			return string(runes[:i]), string(runes[i+1:]), true
		}
	}
	return "", "", false
}

// DistributeGroups rewrites a parenthesised alternation behind a dotted prefix
// into the distributed form, to fixpoint:
//
//	p.(a∣b) → p.a∣p.b
//
// The parser distributes grouping on its own; the rewrite is kept as a
// defensive pre-pass for hand-authored inputs in the legacy grammar, which
// downstream evaluators compiling to linear path patterns rely on.
func DistributeGroups(s string) string {
	s = strings.ReplaceAll(s, "|", "∣")

	for {
		m := groupPattern.FindStringSubmatchIndex(s)
		if m == nil {
			return s
		}

		prefix := s[m[2]:m[3]]
		left := s[m[4]:m[5]]
		right := s[m[6]:m[7]]

		s = s[:m[0]] + prefix + "." + left + "∣" + prefix + "." + right + s[m[1]:]
	}
}
