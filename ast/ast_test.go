package ast

import "testing"

func TestSequenceString(t *testing.T) {
	tests := []struct {
		seq      Sequence
		expected string
	}{
		{Sequence{}, ""},
		{Sequence{{Label: "a"}}, "a"},
		{Sequence{{Label: "a"}, {Label: "b"}}, "a.b"},
		{Sequence{{Inverse: true, Label: "a"}, {Label: "b"}}, "^a.b"},
	}

	for _, test := range tests {
		if got := test.seq.String(); got != test.expected {
			t.Fatalf("wrong string, expected=%q, got=%q", test.expected, got)
		}
	}
}

func TestSequenceConcat(t *testing.T) {
	a := Sequence{{Label: "a"}}
	b := Sequence{{Label: "b"}, {Label: "c"}}

	c := a.Concat(b)
	if c.String() != "a.b.c" {
		t.Fatalf("wrong concatenation: %s", c)
	}

	// concat copies; the operands stay untouched
	if a.String() != "a" || b.String() != "b.c" {
		t.Fatal("concat mutated an operand")
	}
}

func TestRPQDedup(t *testing.T) {
	q := RPQ{
		Sequence{{Label: "a"}},
		Sequence{{Label: "b"}},
		Sequence{{Label: "a"}},
	}

	d := q.Dedup()
	if len(d) != 2 {
		t.Fatalf("wrong length after dedup, expected=2, got=%d", len(d))
	}

	if d.String() != "a∣b" {
		t.Fatalf("wrong disjunction after dedup: %s", d.String())
	}
}

func TestRPQStringSkipsEpsilon(t *testing.T) {
	q := RPQ{
		Sequence{},
		Sequence{{Label: "a"}},
	}

	if q.String() != "a" {
		t.Fatalf("wrong string, expected=a, got=%s", q.String())
	}
}

func TestRPCString(t *testing.T) {
	c := RPC{
		Name: "C1",
		LHS:  RPQ{Sequence{{Label: "child_of"}}},
		RHS: RPQ{
			Sequence{{Label: "son_of"}},
			Sequence{{Label: "daughter_of"}},
		},
	}

	if c.String() != "C1 = child_of ⊆ son_of∣daughter_of" {
		t.Fatalf("wrong string: %s", c.String())
	}
}
