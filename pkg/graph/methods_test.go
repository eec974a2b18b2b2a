package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey/pkg/command"
)

func runScript(t *testing.T, g *DecisionGraph, text string) (command.Scope, error) {
	t.Helper()
	block, err := command.Parse(text)
	require.NoError(t, err)
	return command.New(command.WithTarget(g)).Execute(context.Background(), block)
}

func TestMethods_BuildGraph(t *testing.T) {
	g := New()
	scope, err := runScript(t, g, `
val Hall
assign decision
call addDecision
val Yard
assign decision
call addDecision
val Hall
assign from
val door
assign transition
val Yard
assign destination
val door
assign reciprocal
val "key|lockpick"
assign requires
call addTransition
val Yard
assign decision
val lit
assign tag
call tagDecision
call transitions
`)
	require.NoError(t, err)
	assert.Equal(t, []any{"door"}, scope.Current())

	tr, err := g.Transition("Hall", "door")
	require.NoError(t, err)
	assert.Equal(t, "Yard", tr.To)
	assert.Equal(t, "door", tr.Reciprocal)
	assert.Equal(t, "key|lockpick", tr.Requirement.String())
	assert.False(t, g.IsUnknown("Hall"))
	yard, _ := g.Decision("Yard")
	assert.Equal(t, true, yard.Tags["lit"])
}

func TestMethods_QueryOnly(t *testing.T) {
	g := newGraph(t, "A")
	q := g.QueryMethods()
	_, ok := q.Method("decisions")
	assert.True(t, ok)
	_, ok = q.Method("addDecision")
	assert.False(t, ok)

	block, err := command.Parse("val B\nassign decision\ncall addDecision")
	require.NoError(t, err)
	_, err = command.New(command.WithTarget(q)).Execute(context.Background(), block)
	require.Error(t, err)
	assert.False(t, g.HasDecision("B"))
}

func TestMethods_ErrorsSurface(t *testing.T) {
	g := newGraph(t, "A")
	_, err := runScript(t, g, "val Z\nassign decision\ncall transitions")
	var missing *MissingDecisionError
	assert.ErrorAs(t, err, &missing)

	var cmdErr *command.CommandError
	assert.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 3, cmdErr.Line)
}
