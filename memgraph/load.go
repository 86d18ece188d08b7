package memgraph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/graphquality/rpcheck/probe"
)

// graphFile is the on-disk JSON form of a graph:
//
//	{"nodes": ["1", "2"], "edges": [{"from": "1", "to": "2", "label": "child_of"}]}
type graphFile struct {
	Nodes []probe.NodeID `json:"nodes"`
	Edges []graphEdge    `json:"edges"`
}

type graphEdge struct {
	From  probe.NodeID `json:"from"`
	To    probe.NodeID `json:"to"`
	Label string       `json:"label"`
}

// Read decodes a graph from its JSON form.
func Read(r io.Reader) (*Graph, error) {
	var f graphFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("memgraph: decoding graph: %w", err)
	}

	m := New()

	for _, n := range f.Nodes {
		if err := m.AddNode(n); err != nil {
			return nil, fmt.Errorf("memgraph: node %q: %w", n, err)
		}
	}

	for _, e := range f.Edges {
		if err := m.AddEdge(e.From, e.To, e.Label); err != nil {
			return nil, fmt.Errorf("memgraph: edge %q-[%s]->%q: %w", e.From, e.Label, e.To, err)
		}
	}

	return m, nil
}

// ReadFile loads a graph from the JSON file at path.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}
