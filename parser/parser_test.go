package parser

import (
	"strconv"
	"testing"

	"github.com/graphquality/rpcheck/ast"
	"github.com/graphquality/rpcheck/lexer"
)

func TestParseRPQString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"a",
			"a",
		},
		{
			"a.b",
			"a.b",
		},
		{
			"a b",
			"a.b",
		},
		{
			"a∣b",
			"a∣b",
		},
		{
			"a|b",
			"a∣b",
		},
		{
			"a|a",
			"a",
		},
		{
			"(a)",
			"a",
		},
		{
			"((a∣b))",
			"a∣b",
		},
		{
			"(a∣b).c",
			"a.c∣b.c",
		},
		{
			"a.(b∣c)",
			"a.b∣a.c",
		},
		{
			"(a∣b).(c∣d)",
			"a.c∣a.d∣b.c∣b.d",
		},
		{
			"a.(b.(c∣d))",
			"a.b.c∣a.b.d",
		},
		{
			"^a.b",
			"^a.b",
		},
		{
			"child_of.(brother_of∣sister_of)",
			"child_of.brother_of∣child_of.sister_of",
		},
		{
			"a*",
			"a∣a.a∣a.a.a",
		},
		{
			"a*.b",
			"b∣a.b∣a.a.b∣a.a.a.b",
		},
		{
			"(a∣b)*.c",
			"c∣a.c∣b.c∣a.a.c∣a.b.c∣b.a.c∣b.b.c∣a.a.a.c∣a.a.b.c∣a.b.a.c∣a.b.b.c∣b.a.a.c∣b.a.b.c∣b.b.a.c∣b.b.b.c",
		},
	}

	for i, test := range tests {
		test := test
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			q := parseString(test.input, t)
			if q.String() != test.expected {
				t.Fatalf("wrong disjunction, expected=%s, got=%s", test.expected, q.String())
			}
		})
	}
}

func TestKleeneBound(t *testing.T) {
	// a* expands to ε plus exactly three repetitions
	q := parseString("a*", t)

	if len(q) != 4 {
		t.Fatalf("wrong number of branches, expected=4, got=%d", len(q))
	}

	if !q[0].IsEmpty() {
		t.Fatalf("expected first branch to be ε, got %s", q[0])
	}

	seqs := Expand(q)
	if len(seqs) != 3 {
		t.Fatalf("wrong number of expanded sequences, expected=3, got=%d", len(seqs))
	}
}

func TestKleeneExpansionDropsEpsilon(t *testing.T) {
	q := parseString("(a∣b)*", t)

	// 1 + 2 + 4 + 8 branches, ε included
	if len(q) != 15 {
		t.Fatalf("wrong number of branches, expected=15, got=%d", len(q))
	}

	for _, s := range Expand(q) {
		if s.IsEmpty() {
			t.Fatal("expanded sequences must not contain ε")
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"a.",
		"a∣",
		"(a",
		")a",
		"*",
		"a b )",
		"^",
		"^.a",
		"a ⊆ b",
	}

	for i, input := range tests {
		input := input
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			_, err := parseRPQ(input)
			if err == nil {
				t.Fatalf("expected parse error for %q, got none", input)
			}

			if !IsParseError(err) {
				t.Fatalf("expected parse error for %q, got: %v", input, err)
			}

			if _, ok := ErrorPos(err); !ok {
				t.Fatal("parse error carries no position")
			}
		})
	}
}

func TestLexErrorPropagates(t *testing.T) {
	_, err := parseRPQ("a&b")
	if err == nil {
		t.Fatal("expected error, got none")
	}

	if !lexer.IsLexError(err) {
		t.Fatalf("expected lex error, got: %v", err)
	}
}

func TestParsePrintParseFixedPoint(t *testing.T) {
	tests := []string{
		"a",
		"a.b.c",
		"a∣b∣c",
		"(a∣b).c",
		"^a.b∣c",
		"a*",
		"child_of.(brother_of∣sister_of)",
	}

	for i, input := range tests {
		input := input
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			q := parseString(input, t)

			printed := q.String()
			again := parseString(printed, t)

			if again.String() != printed {
				t.Fatalf("parse-print-parse not a fixed point: %q -> %q -> %q", input, printed, again.String())
			}
		})
	}
}

func TestDistributionEquivalence(t *testing.T) {
	tests := []struct {
		grouped     string
		distributed string
	}{
		{"p.(a∣b)", "p.a∣p.b"},
		{"p.q.(a∣b)", "p.q.a∣p.q.b"},
		{"x.(a∣b)∣c", "x.a∣x.b∣c"},
	}

	for i, test := range tests {
		test := test
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			grouped := parseString(test.grouped, t)
			distributed := parseString(test.distributed, t)

			if !sameSequences(grouped, distributed) {
				t.Fatalf("wrong sequences, expected=%s, got=%s", distributed.String(), grouped.String())
			}
		})
	}
}

func sameSequences(a, b ast.RPQ) bool {
	if len(a) != len(b) {
		return false
	}

	for _, s := range a {
		if !b.Contains(s) {
			return false
		}
	}

	return true
}

func parseString(input string, t *testing.T) ast.RPQ {
	t.Helper()

	q, err := parseRPQ(input)
	if err != nil {
		t.Fatalf("error parsing query: %v", err)
	}

	return q
}
