package exploration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey/pkg/command"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/graph"
)

// withAction starts at A and adds an action carrying effects.
func withAction(t *testing.T, effects ...domain.Effect) *Exploration {
	t.Helper()
	x := started(t)
	require.NoError(t, current(t, x).Graph.AddAction("A", "pull", graph.TransitionSpec{Effects: effects}))
	return x
}

func pull(t *testing.T, x *Exploration, times int) {
	t.Helper()
	for range times {
		require.NoError(t, x.TakeAction(context.Background(), "pull"))
	}
}

func TestEffects_PhaseOrder(t *testing.T) {
	x := withAction(t,
		domain.Lose("x"),
		domain.Gain("x"),
		domain.LoseTokens("coin", 1),
		domain.GainTokens("coin", 3),
	)
	pull(t, x, 1)

	state := current(t, x).State
	assert.False(t, state.HasPower("x"), "lose runs after gain")
	assert.Equal(t, 2, state.TokenCount("coin"))

	first, _ := x.Situation(0)
	assert.Equal(t, 0, first.State.TokenCount("coin"))
}

func TestEffects_Countdowns(t *testing.T) {
	t.Run("delay", func(t *testing.T) {
		x := withAction(t, domain.GainTokens("coin", 1).WithDelay(2))
		var counts []int
		for range 4 {
			pull(t, x, 1)
			counts = append(counts, current(t, x).State.TokenCount("coin"))
		}
		assert.Equal(t, []int{0, 0, 1, 2}, counts)
	})

	t.Run("charges", func(t *testing.T) {
		x := withAction(t, domain.GainTokens("coin", 1).WithCharges(1))
		var counts []int
		for range 3 {
			pull(t, x, 1)
			counts = append(counts, current(t, x).State.TokenCount("coin"))
		}
		assert.Equal(t, []int{1, 1, 1}, counts)

		tr, err := current(t, x).Graph.Transition("A", "pull")
		require.NoError(t, err)
		require.Len(t, tr.Effects, 1)
		assert.Equal(t, 0, *tr.Effects[0].Charges)
	})

	t.Run("delay before charges", func(t *testing.T) {
		x := withAction(t, domain.Gain("lit").WithDelay(1).WithCharges(1))
		pull(t, x, 1)
		assert.False(t, current(t, x).State.HasPower("lit"))
		pull(t, x, 1)
		assert.True(t, current(t, x).State.HasPower("lit"))
	})
}

func TestEffects_Toggle(t *testing.T) {
	x := withAction(t, domain.Toggle("lamp"), domain.Toggle("red", "green", "blue"))
	var held [][]string
	for range 4 {
		pull(t, x, 1)
		held = append(held, current(t, x).State.PowerList())
	}
	assert.Equal(t, [][]string{
		{"lamp", "red"},
		{"green"},
		{"blue", "lamp"},
		{"red"},
	}, held)
}

func TestEffects_Deactivate(t *testing.T) {
	x := withAction(t, domain.Deactivate())
	pull(t, x, 1)
	assert.Empty(t, x.Warnings())

	tr, err := current(t, x).Graph.Transition("A", "pull")
	require.NoError(t, err)
	assert.Equal(t, domain.ReqImpossible{}, tr.Requirement)

	pull(t, x, 1)
	require.Len(t, x.Warnings(), 1)
	assert.Equal(t, "X", x.Warnings()[0].Requirement)
}

func TestEffects_EditCycles(t *testing.T) {
	red := command.MustParse("val red\nassign power\ncall gainPower")
	blue := command.MustParse("val blue\nassign power\ncall gainPower\nload from\nassign decision\nval blue\nassign tag\ncall tagDecision")
	x := withAction(t, domain.Edit(red, blue))

	pull(t, x, 1)
	cur := current(t, x)
	assert.Equal(t, []string{"red"}, cur.State.PowerList())
	tr, _ := cur.Graph.Transition("A", "pull")
	blocks := tr.Effects[0].Value.(domain.EditBlocks)
	assert.Equal(t, blue.String(), blocks[0].String())

	pull(t, x, 1)
	cur = current(t, x)
	assert.Equal(t, []string{"blue", "red"}, cur.State.PowerList())
	a, _ := cur.Graph.Decision("A")
	assert.Equal(t, true, a.Tags["blue"])

	prev, _ := x.Situation(-2)
	a, _ = prev.Graph.Decision("A")
	assert.NotContains(t, a.Tags, "blue")
}

func TestEffects_FailingEditRollsBack(t *testing.T) {
	x := withAction(t, domain.Gain("x"), domain.Edit(command.MustParse("call noSuchMethod")))

	err := x.TakeAction(context.Background(), "pull")
	var cmdErr *command.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, x.Len())
	assert.False(t, current(t, x).State.HasPower("x"))
}
