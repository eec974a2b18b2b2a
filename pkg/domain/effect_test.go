package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/journey/pkg/command"
)

func TestEffect_Validate(t *testing.T) {
	block, _ := command.Parse("val 1")
	valid := []Effect{
		Gain("a"),
		LoseTokens("coin", 2),
		Toggle("a"),
		Toggle("a", "b", "c"),
		Deactivate(),
		Edit(block),
		Gain("a").WithCharges(1).WithDelay(2),
	}
	for _, e := range valid {
		assert.NoError(t, e.Validate(), e.String())
	}

	invalid := []Effect{
		{Type: EffectGain},
		{Type: EffectDeactivate, Value: Power("a")},
		{Type: EffectEdit, Value: EditBlocks{}},
		{Type: "teleport", Value: Power("a")},
		Gain("a").WithCharges(-1),
	}
	for _, e := range invalid {
		assert.Error(t, e.Validate(), e.String())
	}
}

func TestEffect_CloneIsIndependent(t *testing.T) {
	orig := Toggle("a", "b").WithCharges(3)
	c := orig.Clone()
	*c.Charges = 0
	c.Value.(PowerList)[0] = "z"

	assert.Equal(t, 3, *orig.Charges)
	assert.Equal(t, PowerList{"a", "b"}, orig.Value)
	assert.False(t, orig.Equal(c))
	assert.True(t, orig.Equal(orig.Clone()))
}

func TestState_Clone(t *testing.T) {
	s := NewState()
	s.GainPower("a")
	s.AdjustTokens("coin", 2)
	s.Custom["list"] = []any{1, 2}

	c := s.Clone()
	c.LosePower("a")
	c.AdjustTokens("coin", -5)
	c.Custom["list"].([]any)[0] = 9

	assert.True(t, s.HasPower("a"))
	assert.Equal(t, 2, s.TokenCount("coin"))
	assert.Equal(t, -3, c.TokenCount("coin"))
	assert.Equal(t, []any{1, 2}, s.Custom["list"])
	assert.False(t, s.Equal(c))
}
