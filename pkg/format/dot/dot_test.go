package dot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey/pkg/command"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/graph"
)

func sampleGraph(t *testing.T) *graph.DecisionGraph {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.AddDecision("Front Hall", domain.Tags{
		"lit":   true,
		"size":  3,
		"scale": 2.0,
		"ratio": 0.5,
		"pair":  command.Tuple{"a", 1},
		"notes": []any{"x", map[string]any{"k": 2.5}},
	}, []string{"smells of \"dust\"", "line\nbreak"}))
	require.NoError(t, g.AddDecision("yard", nil, nil))
	require.NoError(t, g.AddTransitionWithReciprocal("Front Hall", "door", "yard", "back inside",
		graph.TransitionSpec{
			Requirement: domain.MustParseRequirement("key|lockpick"),
			Effects:     []domain.Effect{domain.Gain("air"), domain.Edit(command.MustParse("val 1\nassign x"))},
			Tags:        domain.Tags{"creaky": true},
			Annotations: []string{"oak"},
		},
		graph.TransitionSpec{Requirement: domain.MustParseRequirement("key|lockpick")},
	))
	_, err := g.AddUnexploredEdge("yard", "gate", graph.UnexploredOptions{})
	require.NoError(t, err)
	require.NoError(t, g.AddAction("yard", "dig", graph.TransitionSpec{
		Effects: []domain.Effect{domain.GainTokens("worm", 1).WithCharges(2)},
	}))

	require.NoError(t, g.CreateZone("house", 0))
	require.NoError(t, g.CreateZone("estate", 1))
	require.NoError(t, g.CreateZone("empty", 2))
	require.NoError(t, g.AddZoneToZone("house", "estate"))
	require.NoError(t, g.AddDecisionToZone("Front Hall", "house"))
	require.NoError(t, g.AddDecisionToZone("yard", "estate"))
	g.AddEquivalence("key", domain.MustParseRequirement("crowbar&-broken"))
	return g
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *graph.DecisionGraph
	}{
		{"empty", func(*testing.T) *graph.DecisionGraph { return graph.New() }},
		{"sample", sampleGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.build(t)
			text, err := RenderString(g)
			require.NoError(t, err)

			back, err := ParseString(text)
			require.NoError(t, err, text)
			assert.True(t, g.Equal(back), text)
			assert.Equal(t, g.Decisions(), back.Decisions())
		})
	}
}

func TestRoundTrip_KeepsNumberKinds(t *testing.T) {
	text, err := RenderString(sampleGraph(t))
	require.NoError(t, err)
	assert.Contains(t, text, `t_scale="2.0"`)

	back, err := ParseString(text)
	require.NoError(t, err)
	hall, err := back.Decision("Front Hall")
	require.NoError(t, err)
	assert.Equal(t, 2.0, hall.Tags["scale"])
	assert.Equal(t, 0.5, hall.Tags["ratio"])
	assert.Equal(t, 3, hall.Tags["size"])
}

func TestRender_SharesAbbreviations(t *testing.T) {
	text, err := RenderString(sampleGraph(t))
	require.NoError(t, err)

	assert.Contains(t, text, "subgraph __requirements__ {\n\t\ta [label=\"key|lockpick\"]\n\t}")
	assert.Contains(t, text, `fullLabel=door reciprocal="back inside" req=a effects=a`)
	assert.Contains(t, text, `fullLabel="back inside" reciprocal=door req=a`)
	assert.Contains(t, text, `fullLabel=dig effects=b`)
	assert.Contains(t, text, "unknownCount=1")
	assert.Contains(t, text, `subgraph cluster_house {`)
}

func TestAbbreviation(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "a"},
		{25, "z"},
		{26, "aa"},
		{27, "ab"},
		{52, "ba"},
		{26 + 26*26, "aaa"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, abbreviation(tt.n))
	}
}

func TestParse_HandWritten(t *testing.T) {
	g, err := ParseString(`
// comment
strict digraph world {
	graph [unknownCount=0];
	node [shape=box];
	subgraph __requirements__ { r [label="lamp*2"] }
	A [t_dark=true, z_cave=1];
	A -> B -> C [fullLabel=on, req=r];
	subgraph { C [t_depth=-4] }
	subgraph cluster_cave { level=0 }
}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, g.Decisions())
	dest, err := g.Destination("B", "on")
	require.NoError(t, err)
	assert.Equal(t, "C", dest)

	tr, err := g.Transition("A", "on")
	require.NoError(t, err)
	assert.Equal(t, "lamp*2", tr.Requirement.String())

	c, err := g.Decision("C")
	require.NoError(t, err)
	assert.Equal(t, -4, c.Tags["depth"])

	a, err := g.Decision("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"cave"}, a.Zones)
	assert.Equal(t, true, a.Tags["dark"])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"not a digraph", "graph { }", 1},
		{"unterminated", "digraph {\n A -> ", 2},
		{"missing fullLabel", "digraph {\n A -> B\n}", 2},
		{"unknown requirement key", "digraph {\n A -> B [fullLabel=x req=q]\n}", 2},
		{"bad tag", "digraph {\n A [t_x=\"{\"]\n}", 2},
		{"duplicate transition", "digraph {\n A -> B [fullLabel=x]\n A -> A [fullLabel=x]\n}", 3},
		{"bad level", "digraph {\n subgraph cluster_z { level=high }\n}", 2},
		{"trailing input", "digraph { } x", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseString(tt.input)
			assert.Nil(t, g)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestParse_WrapsGraphErrors(t *testing.T) {
	_, err := ParseString("digraph {\n A -> B [fullLabel=x]\n A -> A [fullLabel=x]\n}")
	var collision *graph.TransitionCollisionError
	assert.ErrorAs(t, err, &collision)
}
