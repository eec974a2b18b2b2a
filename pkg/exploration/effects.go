package exploration

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/journey/pkg/command"
	"github.com/aretw0/journey/pkg/domain"
)

// applyEffects fires the effects of (from, transition) against the draft
// step. Effects run phase by phase in domain.EffectPhases order, keeping
// authoring order within a phase. Updated countdowns and edit rotations are
// written back to the transition before any edit block runs.
func (x *Exploration) applyEffects(ctx context.Context, s *step, from, transition string) error {
	g := s.draft.Graph
	t, err := g.Transition(from, transition)
	if err != nil {
		return err
	}
	if len(t.Effects) == 0 {
		return nil
	}
	effects := t.Effects
	state := s.draft.State

	var edits []command.Block
	for _, phase := range domain.EffectPhases {
		for i := range effects {
			e := &effects[i]
			if e.Type != phase || !countDown(e) {
				continue
			}
			switch e.Type {
			case domain.EffectGain:
				gain(state, e.Value, 1)
			case domain.EffectLose:
				gain(state, e.Value, -1)
			case domain.EffectToggle:
				toggle(state, e.Value)
			case domain.EffectDeactivate:
				if err := g.SetRequirement(from, transition, domain.ReqImpossible{}); err != nil {
					return err
				}
			case domain.EffectEdit:
				blocks, ok := e.Value.(domain.EditBlocks)
				if !ok || len(blocks) == 0 {
					return fmt.Errorf("%s/%s: invalid edit effect", from, transition)
				}
				edits = append(edits, blocks[0])
				rotated := slices.Clone(blocks[1:])
				e.Value = append(rotated, blocks[0])
			default:
				return fmt.Errorf("%s/%s: unknown effect type %q", from, transition, e.Type)
			}
		}
	}
	if err := g.SetEffects(from, transition, effects); err != nil {
		return err
	}

	for _, block := range edits {
		scope := command.Scope{
			"from":       from,
			"transition": transition,
			"position":   s.draft.Position,
		}
		target := draftTarget(s.draft)
		if err := x.interpreter(target).Run(ctx, block, scope); err != nil {
			return fmt.Errorf("edit effect of %s/%s: %w", from, transition, err)
		}
	}
	return nil
}

// countDown advances the countdowns of e and reports whether it fires. A
// pending delay is consumed first; spent charges disable the effect for
// good.
func countDown(e *domain.Effect) bool {
	if e.Delay != nil && *e.Delay > 0 {
		*e.Delay--
		return false
	}
	if e.Charges != nil {
		if *e.Charges <= 0 {
			return false
		}
		*e.Charges--
	}
	return true
}

func gain(state *domain.State, v domain.EffectValue, sign int) {
	switch v := v.(type) {
	case domain.Power:
		if sign > 0 {
			state.GainPower(string(v))
		} else {
			state.LosePower(string(v))
		}
	case domain.TokenCount:
		state.AdjustTokens(v.Type, sign*v.Count)
	}
}

func toggle(state *domain.State, v domain.EffectValue) {
	switch v := v.(type) {
	case domain.Power:
		if state.HasPower(string(v)) {
			state.LosePower(string(v))
		} else {
			state.GainPower(string(v))
		}
	case domain.PowerList:
		held := slices.IndexFunc(v, state.HasPower)
		if held < 0 {
			state.GainPower(v[0])
			return
		}
		state.LosePower(v[held])
		state.GainPower(v[(held+1)%len(v)])
	}
}
