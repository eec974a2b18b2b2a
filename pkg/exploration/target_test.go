package exploration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey/pkg/command"
)

func TestRun_TraversalScript(t *testing.T) {
	x := New()
	scope, err := x.Run(context.Background(), command.MustParse(`
val A
assign decision
call start
val right
assign transition
val B
assign destination
val left
assign reciprocal
call explore
val B
assign decision
val lit
assign tag
call tagDecision
val coin
assign token
val 2
assign count
call adjustTokens
call stepCount
`))
	require.NoError(t, err)
	assert.Equal(t, 2, scope.Current())
	assert.Equal(t, 2, x.Len())

	cur := current(t, x)
	assert.Equal(t, "B", cur.Position)
	assert.Equal(t, 2, cur.State.TokenCount("coin"))
	b, err := cur.Graph.Decision("B")
	require.NoError(t, err)
	assert.Equal(t, true, b.Tags["lit"])
	r, _ := cur.Graph.Reciprocal("B", "left")
	assert.Equal(t, "right", r)
}

func TestRun_QueriesAndErrors(t *testing.T) {
	x := started(t)
	scope, err := x.Run(context.Background(), command.MustParse(`
call position
assign here
val magic
assign power
call hasPower
`))
	require.NoError(t, err)
	assert.Equal(t, "A", scope["here"])
	assert.Equal(t, false, scope.Current())

	_, err = x.Run(context.Background(), command.MustParse("val nowhere\nassign transition\ncall retrace"))
	var cmdErr *command.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 3, cmdErr.Line)
	assert.Equal(t, 1, x.Len())
}
