package ast

// RPC is a regular path constraint: the requirement that every node pair
// connected by the left-hand query is also connected by the right-hand query.
type RPC struct {
	Name string
	LHS  RPQ
	RHS  RPQ
}

// String returns the canonical text of the constraint.
func (c *RPC) String() string {
	return c.Name + " = " + c.LHS.String() + " ⊆ " + c.RHS.String()
}
