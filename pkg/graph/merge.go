package graph

import (
	"github.com/aretw0/journey/pkg/domain"
)

// MergeDecisions folds decision merge into decision into and deletes merge.
// Every transition touching merge ends up at into: incoming transitions are
// retargeted first (rebasing their reciprocals along), then the remaining
// outgoing ones are rebased. Tags are unioned with into winning conflicts,
// except that the unknown tag never spreads to into. Annotations are
// appended and zone memberships carried over.
//
// Transitions moved from merge whose names clash at into fail the merge when
// errorOnNameCollision is set, before anything changes; otherwise they are
// renamed with a numeric suffix. The returned map lists those renames.
func (g *DecisionGraph) MergeDecisions(merge, into string, errorOnNameCollision bool) (map[string]string, error) {
	renames := make(map[string]string)
	if merge == into {
		return renames, nil
	}
	src, err := g.decision(merge)
	if err != nil {
		return nil, err
	}
	dst, err := g.decision(into)
	if err != nil {
		return nil, err
	}
	if errorOnNameCollision {
		for _, name := range g.Transitions(merge) {
			if g.g.HasEdge(into, name) {
				return nil, &TransitionCollisionError{Decision: into, Transition: name}
			}
		}
	}

	// Pass 1: incoming. Retargeting a self-edge of merge rebases its
	// reciprocal, which may create a new incoming edge, so the set is
	// recomputed after every move.
	for {
		incoming := g.g.Incoming(merge)
		if len(incoming) == 0 {
			break
		}
		e := incoming[0]
		oldRec := e.Attr.reciprocal
		newRec, err := g.RetargetTransition(e.From, e.Key, into, true, errorOnNameCollision)
		if err != nil {
			return nil, err
		}
		if oldRec != "" && newRec != "" && newRec != oldRec {
			renames[oldRec] = newRec
		}
	}

	// Pass 2: whatever still leaves merge has no partner that was moved.
	for _, e := range g.g.Outgoing(merge) {
		newName, err := g.RebaseTransition(merge, e.Key, into, false, errorOnNameCollision)
		if err != nil {
			return nil, err
		}
		if newName != e.Key {
			renames[e.Key] = newName
		}
	}

	_, wasUnknown := dst.tags[TagUnknown]
	dst.tags.Merge(src.tags)
	if !wasUnknown {
		delete(dst.tags, TagUnknown)
	}
	dst.annotations = append(dst.annotations, src.annotations...)
	for zone := range src.zones {
		dst.zones[zone] = true
		g.zones[zone].decisions[into] = true
	}
	return renames, g.RemoveDecision(merge)
}

// MergeTransitions folds transition merge at decision from into transition
// into, which must share its destination, and deletes merge. Requirements
// are joined with All unless one is trivial; token gains and losses of the
// same type are summed, repeated power effects dropped and other effects
// appended; tags are unioned with into winning and annotations appended.
// With mergeReciprocals the two reciprocals are merged the same way.
func (g *DecisionGraph) MergeTransitions(from, merge, into string, mergeReciprocals bool) error {
	if merge == into {
		return nil
	}
	src, err := g.transition(from, merge)
	if err != nil {
		return err
	}
	dst, err := g.transition(from, into)
	if err != nil {
		return err
	}
	if src.To != dst.To {
		return &InvalidDestinationError{
			Decision:   from,
			Transition: merge,
			Reason:     "cannot merge into " + into + ": destinations differ",
		}
	}

	d := dst.Attr
	s := src.Attr
	switch {
	case domain.IsTrivial(s.requirement):
	case domain.IsTrivial(d.requirement):
		d.requirement = s.requirement
	default:
		d.requirement = domain.ReqAll{Subs: []domain.Requirement{d.requirement, s.requirement}}
	}
	d.effects = combineEffects(d.effects, s.effects)
	d.tags.Merge(s.tags)
	d.annotations = append(d.annotations, s.annotations...)

	mergeRec := s.reciprocal
	intoRec := d.reciprocal
	if err := g.RemoveTransition(from, merge, false); err != nil {
		return err
	}
	if mergeRec == "" || mergeRec == merge || mergeRec == into || !g.g.HasEdge(src.To, mergeRec) {
		return nil
	}
	switch {
	case intoRec == "":
		return g.SetReciprocal(from, into, mergeRec)
	case mergeReciprocals && mergeRec != intoRec:
		if err := g.MergeTransitions(src.To, mergeRec, intoRec, false); err != nil {
			return err
		}
		return g.SetReciprocal(from, into, intoRec)
	}
	return nil
}

func combineEffects(into, merge []domain.Effect) []domain.Effect {
	out := domain.CloneEffects(into)
outer:
	for _, e := range merge {
		if e.Charges == nil && e.Delay == nil && (e.Type == domain.EffectGain || e.Type == domain.EffectLose) {
			for i, existing := range out {
				if existing.Type != e.Type || existing.Charges != nil || existing.Delay != nil {
					continue
				}
				switch v := e.Value.(type) {
				case domain.TokenCount:
					if tc, ok := existing.Value.(domain.TokenCount); ok && tc.Type == v.Type {
						out[i].Value = domain.TokenCount{Type: v.Type, Count: tc.Count + v.Count}
						continue outer
					}
				case domain.Power:
					if existing.Value == e.Value {
						continue outer
					}
				}
			}
		}
		out = append(out, e.Clone())
	}
	return out
}
