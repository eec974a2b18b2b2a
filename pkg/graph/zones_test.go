package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zoneFixture builds world(2) > region(1) > {town(0), house(0)} with A in
// town, B in house and C directly in region.
func zoneFixture(t *testing.T) *DecisionGraph {
	t.Helper()
	g := newGraph(t, "A", "B", "C")
	require.NoError(t, g.CreateZone("world", 2))
	require.NoError(t, g.CreateZone("region", 1))
	require.NoError(t, g.CreateZone("town", 0))
	require.NoError(t, g.CreateZone("house", 0))
	require.NoError(t, g.AddZoneToZone("region", "world"))
	require.NoError(t, g.AddZoneToZone("town", "region"))
	require.NoError(t, g.AddZoneToZone("house", "region"))
	require.NoError(t, g.AddDecisionToZone("A", "town"))
	require.NoError(t, g.AddDecisionToZone("B", "house"))
	require.NoError(t, g.AddDecisionToZone("C", "region"))
	return g
}

func TestZones_LevelRules(t *testing.T) {
	g := zoneFixture(t)

	var level *InvalidLevelError
	assert.ErrorAs(t, g.CreateZone("abyss", -1), &level)
	assert.ErrorAs(t, g.AddZoneToZone("region", "town"), &level)
	assert.ErrorAs(t, g.AddZoneToZone("town", "house"), &level)

	var collision *ZoneCollisionError
	assert.ErrorAs(t, g.CreateZone("town", 0), &collision)

	var missing *MissingZoneError
	assert.ErrorAs(t, g.AddDecisionToZone("A", "nowhere"), &missing)
	require.NoError(t, g.Validate())
}

func TestZones_Queries(t *testing.T) {
	g := zoneFixture(t)

	all, err := g.AllDecisionsInZone("region")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, all)

	anc, err := g.ZoneAncestors("town", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "world"}, anc)

	anc, err = g.ZoneAncestors("town", map[string]bool{"region": true})
	require.NoError(t, err)
	assert.Empty(t, anc)

	hier, err := g.ZoneHierarchyOf("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "town", "world"}, hier)

	z, err := g.Zone("region")
	require.NoError(t, err)
	assert.Equal(t, []string{"house", "town"}, z.Children)
	assert.Equal(t, []string{"world"}, z.Parents)
	assert.Equal(t, []string{"C"}, z.Decisions)
}

func TestZones_Edges(t *testing.T) {
	g := zoneFixture(t)
	require.NoError(t, g.AddTransitionWithReciprocal("A", "out", "B", "in", TransitionSpec{}, TransitionSpec{}))
	require.NoError(t, g.AddAction("A", "wait", TransitionSpec{}))

	out, in, err := g.ZoneEdges("town")
	require.NoError(t, err)
	assert.Equal(t, []EdgeRef{{From: "A", Name: "out", To: "B"}}, out)
	assert.Equal(t, []EdgeRef{{From: "B", Name: "in", To: "A"}}, in)

	out, in, err = g.ZoneEdges("region")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, in)
}

func TestZones_Delete(t *testing.T) {
	g := zoneFixture(t)
	require.NoError(t, g.DeleteZone("town"))

	assert.False(t, g.HasZone("town"))
	assert.Empty(t, g.ZonesOf("A"))
	z, _ := g.Zone("region")
	assert.Equal(t, []string{"house"}, z.Children)
	require.NoError(t, g.Validate())

	removed, err := g.RemoveDecisionFromZone("B", "house")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = g.RemoveDecisionFromZone("B", "house")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReplaceZonesInHierarchy(t *testing.T) {
	t.Run("replaces zones at the same level", func(t *testing.T) {
		g := zoneFixture(t)
		require.NoError(t, g.ReplaceZonesInHierarchy("A", "village", 0))

		assert.Equal(t, []string{"village"}, g.ZonesOf("A"))
		v, err := g.Zone("village")
		require.NoError(t, err)
		assert.Equal(t, []string{"region"}, v.Parents)
		town, _ := g.Zone("town")
		assert.Empty(t, town.Decisions)
		require.NoError(t, g.Validate())
	})

	t.Run("slots between levels", func(t *testing.T) {
		g := newGraph(t, "A")
		require.NoError(t, g.CreateZone("town", 0))
		require.NoError(t, g.CreateZone("world", 2))
		require.NoError(t, g.AddZoneToZone("town", "world"))
		require.NoError(t, g.AddDecisionToZone("A", "town"))

		require.NoError(t, g.ReplaceZonesInHierarchy("A", "region", 1))

		town, _ := g.Zone("town")
		assert.Equal(t, []string{"region"}, town.Parents)
		region, _ := g.Zone("region")
		assert.Equal(t, []string{"world"}, region.Parents)
		world, _ := g.Zone("world")
		assert.Equal(t, []string{"region"}, world.Children)
		hier, _ := g.ZoneHierarchyOf("A")
		assert.Equal(t, []string{"region", "town", "world"}, hier)
		require.NoError(t, g.Validate())
	})

	t.Run("becomes the innermost zone", func(t *testing.T) {
		g := newGraph(t, "A")
		require.NoError(t, g.CreateZone("world", 2))
		require.NoError(t, g.AddDecisionToZone("A", "world"))

		require.NoError(t, g.ReplaceZonesInHierarchy("A", "town", 0))

		assert.Equal(t, []string{"town"}, g.ZonesOf("A"))
		town, _ := g.Zone("town")
		assert.Equal(t, []string{"world"}, town.Parents)
		require.NoError(t, g.Validate())
	})

	t.Run("level mismatch", func(t *testing.T) {
		g := zoneFixture(t)
		var level *InvalidLevelError
		assert.ErrorAs(t, g.ReplaceZonesInHierarchy("A", "region", 0), &level)
	})
}
