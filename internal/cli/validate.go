package cli

import (
	"io"

	"github.com/aretw0/journey/pkg/graph"
)

// Validate reads a graph and checks its internal consistency.
func Validate(r io.Reader, format string) (*graph.DecisionGraph, error) {
	g, err := ReadGraph(r, format)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return g, err
	}
	return g, nil
}
