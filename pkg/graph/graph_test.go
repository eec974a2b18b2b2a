package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey/pkg/domain"
)

func newGraph(t *testing.T, decisions ...string) *DecisionGraph {
	t.Helper()
	g := New()
	for _, d := range decisions {
		require.NoError(t, g.AddDecision(d, nil, nil))
	}
	return g
}

func reciprocalOf(t *testing.T, g *DecisionGraph, from, name string) string {
	t.Helper()
	r, err := g.Reciprocal(from, name)
	require.NoError(t, err)
	return r
}

func TestAddDecisionAndTransition(t *testing.T) {
	g := newGraph(t, "A", "B")

	var collision *DecisionCollisionError
	assert.ErrorAs(t, g.AddDecision("A", nil, nil), &collision)

	require.NoError(t, g.AddTransition("A", "east", "B", TransitionSpec{Requirement: domain.ReqPower{Name: "key"}}))
	var tcol *TransitionCollisionError
	assert.ErrorAs(t, g.AddTransition("A", "east", "A", TransitionSpec{}), &tcol)

	var missing *MissingDecisionError
	assert.ErrorAs(t, g.AddTransition("A", "up", "Z", TransitionSpec{}), &missing)
	assert.Equal(t, "Z", missing.Decision)

	// names are unique per source only
	require.NoError(t, g.AddTransition("B", "east", "A", TransitionSpec{}))

	tr, err := g.Transition("A", "east")
	require.NoError(t, err)
	assert.Equal(t, "B", tr.To)
	assert.Equal(t, "key", tr.Requirement.String())

	_, err = g.Transition("A", "west")
	var mt *MissingTransitionError
	assert.ErrorAs(t, err, &mt)
}

func TestSetReciprocal_Symmetry(t *testing.T) {
	g := newGraph(t, "A", "B")
	require.NoError(t, g.AddTransition("A", "t", "B", TransitionSpec{}))
	require.NoError(t, g.AddTransition("B", "r", "A", TransitionSpec{}))
	require.NoError(t, g.AddTransition("B", "r2", "A", TransitionSpec{}))

	require.NoError(t, g.SetReciprocal("A", "t", "r"))
	assert.Equal(t, "r", reciprocalOf(t, g, "A", "t"))
	assert.Equal(t, "t", reciprocalOf(t, g, "B", "r"))

	// switching partners unpairs the abandoned one
	require.NoError(t, g.SetReciprocal("A", "t", "r2"))
	assert.Equal(t, "r2", reciprocalOf(t, g, "A", "t"))
	assert.Equal(t, "t", reciprocalOf(t, g, "B", "r2"))
	assert.Equal(t, "", reciprocalOf(t, g, "B", "r"))

	// removing either side clears the other
	require.NoError(t, g.RemoveTransition("B", "r2", false))
	assert.Equal(t, "", reciprocalOf(t, g, "A", "t"))

	require.NoError(t, g.SetReciprocal("A", "t", "r"))
	require.NoError(t, g.RemoveTransition("A", "t", false))
	assert.Equal(t, "", reciprocalOf(t, g, "B", "r"))
	require.NoError(t, g.Validate())
}

func TestSetReciprocal_Options(t *testing.T) {
	g := newGraph(t, "A", "B", "C")
	require.NoError(t, g.AddTransition("A", "t", "B", TransitionSpec{}))
	require.NoError(t, g.AddTransition("B", "r", "A", TransitionSpec{}))
	require.NoError(t, g.AddTransition("B", "c", "C", TransitionSpec{}))

	require.NoError(t, g.SetReciprocal("A", "t", "r", OneWay()))
	assert.Equal(t, "r", reciprocalOf(t, g, "A", "t"))
	assert.Equal(t, "", reciprocalOf(t, g, "B", "r"))

	var bad *InvalidDestinationError
	assert.ErrorAs(t, g.SetReciprocal("A", "t", "c"), &bad)
	var missing *MissingTransitionError
	assert.ErrorAs(t, g.SetReciprocal("A", "t", "nope"), &missing)
}

func TestAddUnexploredEdge(t *testing.T) {
	g := newGraph(t, "A")

	dest, err := g.AddUnexploredEdge("A", "north", UnexploredOptions{})
	require.NoError(t, err)
	assert.Equal(t, "_u.0", dest)
	assert.True(t, g.IsUnknown(dest))
	assert.Equal(t, 1, g.UnknownCount())
	assert.Equal(t, DefaultReciprocal, reciprocalOf(t, g, "A", "north"))
	assert.Equal(t, "north", reciprocalOf(t, g, dest, DefaultReciprocal))

	dest2, err := g.AddUnexploredEdge("A", "south", UnexploredOptions{NoReciprocal: true})
	require.NoError(t, err)
	assert.Equal(t, "_u.1", dest2)
	assert.Empty(t, g.Transitions(dest2))
	assert.Equal(t, []string{"north", "south"}, g.UnexploredTransitions("A"))
}

func TestRemoveDecision(t *testing.T) {
	g := newGraph(t, "A", "B", "C")
	require.NoError(t, g.AddTransitionWithReciprocal("A", "ab", "B", "ba", TransitionSpec{}, TransitionSpec{}))
	require.NoError(t, g.AddTransitionWithReciprocal("B", "bc", "C", "cb", TransitionSpec{}, TransitionSpec{}))
	require.NoError(t, g.CreateZone("z", 0))
	require.NoError(t, g.AddDecisionToZone("B", "z"))

	require.NoError(t, g.RemoveDecision("B"))
	assert.False(t, g.HasDecision("B"))
	assert.Empty(t, g.Transitions("A"))
	assert.Empty(t, g.Transitions("C"))
	z, err := g.Zone("z")
	require.NoError(t, err)
	assert.Empty(t, z.Decisions)
	require.NoError(t, g.Validate())
}

func TestRenameTransition(t *testing.T) {
	g := newGraph(t, "A", "B")
	require.NoError(t, g.AddTransitionWithReciprocal("A", "t", "B", "r", TransitionSpec{}, TransitionSpec{}))
	require.NoError(t, g.AddTransition("A", "other", "B", TransitionSpec{}))

	require.NoError(t, g.RenameTransition("A", "t", "go"))
	assert.Equal(t, []string{"go", "other"}, g.Transitions("A"))
	assert.Equal(t, "go", reciprocalOf(t, g, "B", "r"))

	var tcol *TransitionCollisionError
	assert.ErrorAs(t, g.RenameTransition("A", "go", "other"), &tcol)
}

func TestRetargetTransition(t *testing.T) {
	t.Run("swap keeps the pair", func(t *testing.T) {
		g := newGraph(t, "A", "B", "C")
		require.NoError(t, g.AddTransitionWithReciprocal("A", "t", "B", "r", TransitionSpec{}, TransitionSpec{}))

		newRec, err := g.RetargetTransition("A", "t", "C", true, true)
		require.NoError(t, err)
		assert.Equal(t, "r", newRec)
		dest, _ := g.Destination("A", "t")
		assert.Equal(t, "C", dest)
		assert.Empty(t, g.Transitions("B"))
		back, _ := g.Destination("C", "r")
		assert.Equal(t, "A", back)
		assert.Equal(t, "t", reciprocalOf(t, g, "C", "r"))
		require.NoError(t, g.Validate())
	})

	t.Run("no swap severs", func(t *testing.T) {
		g := newGraph(t, "A", "B", "C")
		require.NoError(t, g.AddTransitionWithReciprocal("A", "t", "B", "r", TransitionSpec{}, TransitionSpec{}))

		_, err := g.RetargetTransition("A", "t", "C", false, true)
		require.NoError(t, err)
		assert.Equal(t, "", reciprocalOf(t, g, "A", "t"))
		assert.Equal(t, "", reciprocalOf(t, g, "B", "r"))
		require.NoError(t, g.Validate())
	})

	t.Run("collision renames reciprocal", func(t *testing.T) {
		g := newGraph(t, "A", "B", "C")
		require.NoError(t, g.AddTransitionWithReciprocal("A", "t", "B", "r", TransitionSpec{}, TransitionSpec{}))
		require.NoError(t, g.AddTransition("C", "r", "C", TransitionSpec{}))

		_, err := g.RetargetTransition("A", "t", "C", true, true)
		var tcol *TransitionCollisionError
		require.ErrorAs(t, err, &tcol)

		newRec, err := g.RetargetTransition("A", "t", "C", true, false)
		require.NoError(t, err)
		assert.Equal(t, "r.1", newRec)
		assert.Equal(t, "r.1", reciprocalOf(t, g, "A", "t"))
	})
}

func TestRebaseTransition(t *testing.T) {
	g := newGraph(t, "A", "B", "C")
	require.NoError(t, g.AddTransitionWithReciprocal("A", "t", "B", "r", TransitionSpec{Tags: domain.Tags{"x": 1}}, TransitionSpec{}))
	require.NoError(t, g.AddTransition("C", "t", "A", TransitionSpec{}))

	name, err := g.RebaseTransition("A", "t", "C", true, false)
	require.NoError(t, err)
	assert.Equal(t, "t.1", name)

	tr, err := g.Transition("C", "t.1")
	require.NoError(t, err)
	assert.Equal(t, "B", tr.To)
	assert.Equal(t, "r", tr.Reciprocal)
	assert.Equal(t, domain.Tags{"x": 1}, tr.Tags)
	back, _ := g.Destination("B", "r")
	assert.Equal(t, "C", back)
	assert.Equal(t, "t.1", reciprocalOf(t, g, "B", "r"))
	assert.Empty(t, g.Transitions("A"))
	require.NoError(t, g.Validate())
}

func TestClone_IsIndependent(t *testing.T) {
	g := newGraph(t, "A")
	_, err := g.AddUnexploredEdge("A", "door", UnexploredOptions{})
	require.NoError(t, err)
	g.AddEquivalence("fly", domain.ReqPower{Name: "wings"})

	c := g.Clone()
	assert.True(t, g.Equal(c))

	require.NoError(t, c.TagDecision("A", "visited", true))
	_, err = c.AddUnexploredEdge("A", "window", UnexploredOptions{})
	require.NoError(t, err)

	assert.False(t, g.Equal(c))
	assert.Equal(t, 1, g.UnknownCount())
	assert.Equal(t, 2, c.UnknownCount())
	d, _ := g.Decision("A")
	assert.NotContains(t, d.Tags, "visited")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	g := newGraph(t, "A", "B")
	require.NoError(t, g.AddTransition("A", "t", "B", TransitionSpec{Effects: []domain.Effect{{Type: domain.EffectGain}}}))
	require.NoError(t, g.AddTransition("B", "r", "B", TransitionSpec{}))
	e, _ := g.g.Edge("A", "t")
	e.Attr.reciprocal = "r"

	err := g.Validate()
	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errors, 2)
}

func TestEquivalences(t *testing.T) {
	g := New()
	g.AddEquivalence("fly", domain.MustParseRequirement("wings"))
	g.AddEquivalence("fly", domain.MustParseRequirement("wings"))
	assert.Len(t, g.Equivalences()["fly"], 1)

	s := domain.NewState()
	s.GainPower("wings")
	assert.True(t, g.Satisfied(domain.ReqPower{Name: "fly"}, s))

	assert.True(t, g.RemoveEquivalence("fly", domain.MustParseRequirement("wings")))
	assert.False(t, g.Satisfied(domain.ReqPower{Name: "fly"}, s))
	assert.Empty(t, g.EquivalentPowers())
}
