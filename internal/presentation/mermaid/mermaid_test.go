package mermaid_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey/internal/presentation/mermaid"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/graph"
)

func sample(t *testing.T) *graph.DecisionGraph {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.AddDecision("Front Hall", nil, nil))
	require.NoError(t, g.AddDecision("yard", nil, nil))
	require.NoError(t, g.AddTransition("Front Hall", "door", "yard", graph.TransitionSpec{
		Requirement: domain.MustParseRequirement("key"),
	}))
	require.NoError(t, g.AddTransition("yard", `say "hi"`, "Front Hall", graph.TransitionSpec{}))
	require.NoError(t, g.AddAction("yard", "dig", graph.TransitionSpec{}))
	_, err := g.AddUnexploredEdge("Front Hall", "stairs", graph.UnexploredOptions{})
	require.NoError(t, err)
	return g
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		contains []string
	}{
		{"Rectangle", []string{`d0["Front Hall"]`}},
		{"Action Decision Shape", []string{`d1[["yard"]]`}},
		{"Unexplored Shape", []string{`d2((`}},
		{"Requirement Label", []string{`d0 -- "door [key]" --> d1`}},
		{"Quote Escaping", []string{`d1 -- "say 'hi'" --> d0`}},
		{"Action Loop", []string{`d1 -. "dig" .-> d1`}},
	}

	got := mermaid.Generate(sample(t), nil)
	assert.True(t, strings.HasPrefix(got, "graph TD\n"))
	assert.NotContains(t, got, "classDef")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestGenerate_Overlay(t *testing.T) {
	ctx := context.Background()
	x := exploration.New()
	require.NoError(t, x.Start(ctx, "A", exploration.StartOptions{Exits: []string{"on"}}))
	_, err := x.Explore(ctx, "on", "B")
	require.NoError(t, err)

	cur, err := x.Current()
	require.NoError(t, err)
	overlay := mermaid.OverlayOf(x.Steps())
	assert.Equal(t, []string{"A", "B"}, overlay.Visited)
	assert.Equal(t, "B", overlay.Current)

	got := mermaid.Generate(cur.Graph, overlay)
	assert.Contains(t, got, "class d0 visited;")
	assert.Contains(t, got, "class d1 current;")

	first := mermaid.OverlayOf(x.Steps()[:1])
	assert.Equal(t, "A", first.Current)
}
