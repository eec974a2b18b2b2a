package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/journey/pkg/command"
)

// EffectType names the kind of mutation an Effect performs.
type EffectType string

const (
	EffectGain       EffectType = "gain"
	EffectLose       EffectType = "lose"
	EffectToggle     EffectType = "toggle"
	EffectDeactivate EffectType = "deactivate"
	EffectEdit       EffectType = "edit"
)

// EffectPhases lists effect types in application order.
var EffectPhases = []EffectType{EffectGain, EffectLose, EffectToggle, EffectDeactivate, EffectEdit}

// EffectValue is the payload of an Effect. Implementations: Power,
// TokenCount, PowerList and EditBlocks. Deactivate effects carry nil.
type EffectValue interface {
	isEffectValue()
}

// Power names a single capability.
type Power string

// TokenCount is an amount of one token type.
type TokenCount struct {
	Type  string
	Count int
}

// PowerList is the rotation used by a multi-power toggle.
type PowerList []string

// EditBlocks are the command blocks an edit effect cycles through.
type EditBlocks []command.Block

func (Power) isEffectValue()      {}
func (TokenCount) isEffectValue() {}
func (PowerList) isEffectValue()  {}
func (EditBlocks) isEffectValue() {}

// Effect is a mutation fired when a transition is taken. Charges and Delay
// are optional countdowns and are decremented in place by the effects engine.
type Effect struct {
	Type    EffectType
	Value   EffectValue
	Charges *int
	Delay   *int
}

// Gain adds a power.
func Gain(power string) Effect {
	return Effect{Type: EffectGain, Value: Power(power)}
}

// GainTokens adds count tokens of a type.
func GainTokens(tokenType string, count int) Effect {
	return Effect{Type: EffectGain, Value: TokenCount{Type: tokenType, Count: count}}
}

// Lose removes a power.
func Lose(power string) Effect {
	return Effect{Type: EffectLose, Value: Power(power)}
}

// LoseTokens removes count tokens of a type. Counts may go negative.
func LoseTokens(tokenType string, count int) Effect {
	return Effect{Type: EffectLose, Value: TokenCount{Type: tokenType, Count: count}}
}

// Toggle flips one power, or rotates through several: whichever is held is
// lost and the next one gained.
func Toggle(powers ...string) Effect {
	if len(powers) == 1 {
		return Effect{Type: EffectToggle, Value: Power(powers[0])}
	}
	return Effect{Type: EffectToggle, Value: PowerList(slices.Clone(powers))}
}

// Deactivate makes the transition that fired it impossible to take.
func Deactivate() Effect {
	return Effect{Type: EffectDeactivate}
}

// Edit runs one block per activation, cycling through the blocks in order.
func Edit(blocks ...command.Block) Effect {
	return Effect{Type: EffectEdit, Value: EditBlocks(blocks)}
}

// WithCharges limits how many times the effect fires.
func (e Effect) WithCharges(n int) Effect {
	e.Charges = &n
	return e
}

// WithDelay makes the effect inert for the next n activations.
func (e Effect) WithDelay(n int) Effect {
	e.Delay = &n
	return e
}

// Validate checks that the value matches the effect type.
func (e Effect) Validate() error {
	ok := false
	switch e.Type {
	case EffectGain, EffectLose:
		switch e.Value.(type) {
		case Power, TokenCount:
			ok = true
		}
	case EffectToggle:
		switch v := e.Value.(type) {
		case Power:
			ok = true
		case PowerList:
			ok = len(v) > 0
		}
	case EffectDeactivate:
		ok = e.Value == nil
	case EffectEdit:
		v, isEdit := e.Value.(EditBlocks)
		ok = isEdit && len(v) > 0
	default:
		return fmt.Errorf("unknown effect type %q", e.Type)
	}
	if !ok {
		return fmt.Errorf("invalid %s effect value %T", e.Type, e.Value)
	}
	if e.Charges != nil && *e.Charges < 0 {
		return fmt.Errorf("%s effect has negative charges", e.Type)
	}
	if e.Delay != nil && *e.Delay < 0 {
		return fmt.Errorf("%s effect has negative delay", e.Type)
	}
	return nil
}

// Clone returns a copy that shares no mutable state with e.
func (e Effect) Clone() Effect {
	out := Effect{Type: e.Type, Value: e.Value}
	switch v := e.Value.(type) {
	case PowerList:
		out.Value = slices.Clone(v)
	case EditBlocks:
		blocks := make(EditBlocks, len(v))
		for i, b := range v {
			blocks[i] = slices.Clone(b)
		}
		out.Value = blocks
	}
	if e.Charges != nil {
		n := *e.Charges
		out.Charges = &n
	}
	if e.Delay != nil {
		n := *e.Delay
		out.Delay = &n
	}
	return out
}

// CloneEffects copies an effect list.
func CloneEffects(effects []Effect) []Effect {
	if effects == nil {
		return nil
	}
	out := make([]Effect, len(effects))
	for i, e := range effects {
		out[i] = e.Clone()
	}
	return out
}

// Equal compares two effects including their countdowns.
func (e Effect) Equal(other Effect) bool {
	if e.Type != other.Type || !optionalEqual(e.Charges, other.Charges) || !optionalEqual(e.Delay, other.Delay) {
		return false
	}
	return EffectValuesEqual(e.Value, other.Value)
}

// EffectValuesEqual compares effect payloads. Edit blocks compare by their
// rendered text.
func EffectValuesEqual(a, b EffectValue) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Power:
		y, ok := b.(Power)
		return ok && x == y
	case TokenCount:
		y, ok := b.(TokenCount)
		return ok && x == y
	case PowerList:
		y, ok := b.(PowerList)
		return ok && slices.Equal(x, y)
	case EditBlocks:
		y, ok := b.(EditBlocks)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i].String() != y[i].String() {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("unknown effect value %T", a))
	}
}

// EffectListsEqual compares two effect lists in order.
func EffectListsEqual(a, b []Effect) bool {
	return slices.EqualFunc(a, b, Effect.Equal)
}

func optionalEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (e Effect) String() string {
	var sb strings.Builder
	sb.WriteString(string(e.Type))
	switch v := e.Value.(type) {
	case Power:
		sb.WriteString(" " + string(v))
	case TokenCount:
		fmt.Fprintf(&sb, " %s*%d", v.Type, v.Count)
	case PowerList:
		sb.WriteString(" " + strings.Join(v, ","))
	case EditBlocks:
		fmt.Fprintf(&sb, " (%d blocks)", len(v))
	}
	if e.Charges != nil {
		fmt.Fprintf(&sb, " charges=%d", *e.Charges)
	}
	if e.Delay != nil {
		fmt.Fprintf(&sb, " delay=%d", *e.Delay)
	}
	return sb.String()
}
