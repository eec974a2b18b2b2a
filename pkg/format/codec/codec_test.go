package codec

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey/pkg/command"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/graph"
)

func sampleGraph(t *testing.T) *graph.DecisionGraph {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.AddDecision("Hall", domain.Tags{
		"lit":     true,
		"rooms":   3,
		"height":  2.5,
		"width":   2.0,
		"name":    "Great Hall",
		"list":    []any{1, "two", nil},
		"pair":    command.Tuple{1, "x"},
		"keys":    command.Set{"brass": {}, "iron": {}},
		"byCount": map[any]any{1: "one", 2: "two"},
		"nested":  map[string]any{"^": "not a kind", "deep": []any{map[string]any{"a": 1}}},
	}, []string{"first note", "second note"}))
	require.NoError(t, g.AddDecision("Yard", nil, nil))
	require.NoError(t, g.AddTransitionWithReciprocal("Hall", "door", "Yard", "door",
		graph.TransitionSpec{
			Requirement: domain.MustParseRequirement("key|lockpick&coin*2"),
			Effects: []domain.Effect{
				domain.Gain("fresh air"),
				domain.LoseTokens("coin", 2).WithCharges(3),
				domain.Toggle("a", "b").WithDelay(1),
				domain.Deactivate(),
				domain.Edit(command.MustParse("val 1\nassign x"), command.MustParse(`val "two words"`)),
			},
			Tags:        domain.Tags{"creaky": true},
			Annotations: []string{"heavy"},
		},
		graph.TransitionSpec{Requirement: domain.MustParseRequirement("-locked")},
	))
	_, err := g.AddUnexploredEdge("Yard", "gate", graph.UnexploredOptions{})
	require.NoError(t, err)
	require.NoError(t, g.AddAction("Yard", "dig", graph.TransitionSpec{}))

	require.NoError(t, g.CreateZone("house", 0))
	require.NoError(t, g.CreateZone("estate", 1))
	require.NoError(t, g.AddZoneToZone("house", "estate"))
	require.NoError(t, g.AddDecisionToZone("Hall", "house"))
	require.NoError(t, g.AddDecisionToZone("Yard", "estate"))
	g.AddEquivalence("key", domain.MustParseRequirement("lockpick"))
	g.AddEquivalence("key", domain.MustParseRequirement("crowbar*1"))
	return g
}

func TestGraphRoundTrip(t *testing.T) {
	g := sampleGraph(t)

	data, err := Marshal(g)
	require.NoError(t, err)
	decoded, err := DecodeGraph(data)
	require.NoError(t, err)

	assert.True(t, g.Equal(decoded))
	assert.Equal(t, g.UnknownCount(), decoded.UnknownCount())
	require.NoError(t, decoded.Validate())

	hall, err := decoded.Decision("Hall")
	require.NoError(t, err)
	assert.Equal(t, command.Tuple{1, "x"}, hall.Tags["pair"])
	assert.Equal(t, 2.5, hall.Tags["height"])
	assert.Equal(t, 2.0, hall.Tags["width"])
	assert.Equal(t, 3, hall.Tags["rooms"])
}

func TestEmptyGraphRoundTrip(t *testing.T) {
	g := graph.New()
	data, err := MarshalIndent(g)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	require.IsType(t, &graph.DecisionGraph{}, decoded)
	assert.True(t, g.Equal(decoded.(*graph.DecisionGraph)))
}

func TestExplorationRoundTrip(t *testing.T) {
	ctx := context.Background()
	x := exploration.New()
	state := domain.NewState()
	state.AdjustTokens("coin", -1)
	state.Custom["visited"] = command.Set{"A": {}}
	require.NoError(t, x.Start(ctx, "A", exploration.StartOptions{State: state, Zone: "cave"}))
	_, err := x.Explore(ctx, "right", "B", exploration.Connection{Transition: "left", Destination: "A"})
	require.NoError(t, err)
	_, err = x.Observe(ctx, "door", graph.UnexploredOptions{})
	require.NoError(t, err)
	require.NoError(t, x.TagStep("mood", "curious"))
	require.NoError(t, x.AnnotateStep("heard a noise"))
	require.NoError(t, x.Warp(ctx, "C", ""))

	data, err := Marshal(x)
	require.NoError(t, err)
	decodedAny, err := Decode(data)
	require.NoError(t, err)
	decoded, ok := decodedAny.(*exploration.Exploration)
	require.True(t, ok)

	require.Equal(t, x.Len(), decoded.Len())
	for i := range x.Len() {
		want, _ := x.Situation(i)
		got, _ := decoded.Situation(i)
		assert.True(t, want.Equal(got), "step %d", i)
	}
	last, _ := decoded.Current()
	assert.Equal(t, exploration.WarpTransition, last.Transition)
	first, _ := decoded.Situation(0)
	assert.Equal(t, -1, first.State.TokenCount("coin"))
}

func TestValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"scalar", "text"},
		{"list", []any{1, 2.5, true, nil}},
		{"integral float", 2.0},
		{"large float", 1e21},
		{"floats and ints", []any{3, 3.0, -0.5, map[any]any{1.0: 1}}},
		{"tuple", command.Tuple{"a", command.Tuple{1}}},
		{"set", command.Set{1: {}, 2: {}}},
		{"dict with int keys", map[any]any{1: "x"}},
		{"dict with text keys", map[any]any{"a": 1}},
		{"plain object", map[string]any{"a": []any{"b"}}},
		{"object using the discriminator", map[string]any{"^": "set", "b": 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(tt.value)
			require.NoError(t, err)
			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestWireShape(t *testing.T) {
	data, err := Marshal(command.Tuple{1, 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"^":"tuple","values":[1,2]}`, string(data))

	data, err = Marshal(command.Set{"b": {}, "a": {}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"^":"set","values":["a","b"]}`, string(data))

	data, err = Marshal([]any{2, 2.0})
	require.NoError(t, err)
	assert.Equal(t, `[2,2.0]`, string(data))

	_, err = Marshal(math.Inf(1))
	assert.Error(t, err)
}

func TestDecodeErrors(t *testing.T) {
	_, err := DecodeGraph([]byte(`{"^":"Exploration"}`))
	assert.Error(t, err)

	_, err = DecodeGraph([]byte(`{"^":"DecisionGraph","nodes":[{"name":"A"}],"links":[{"source":"A","key":"t","target":"Z"}]}`))
	var missing *graph.MissingDecisionError
	assert.ErrorAs(t, err, &missing)

	_, err = DecodeGraph([]byte(`{"^":"DecisionGraph","nodes":[{"name":"A"}],"links":[{"source":"A","key":"t","target":"A","requires":"a.b"}]}`))
	var reqErr *domain.RequirementParseError
	assert.ErrorAs(t, err, &reqErr)

	_, err = Decode([]byte(`{"^":"mystery"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestEffectsRoundTrip(t *testing.T) {
	effects := []domain.Effect{
		domain.GainTokens("coin", 2).WithDelay(1),
		domain.Toggle("lamp"),
		domain.Edit(command.MustParse("val 1")),
	}
	data, err := MarshalEffects(effects)
	require.NoError(t, err)
	got, err := DecodeEffects(data)
	require.NoError(t, err)
	assert.True(t, domain.EffectListsEqual(effects, got))

	_, err = DecodeEffects([]byte(`[{"type":"gain","value":[1]}]`))
	assert.Error(t, err)
}
