package graph

import (
	"slices"

	"github.com/aretw0/journey/pkg/domain"
)

// DiscoveryOptions configures ReplaceUnexplored.
type DiscoveryOptions struct {
	// Reciprocal names the way back from the discovered decision. When the
	// placeholder already had a way back it is renamed; otherwise one is
	// created. Empty keeps whatever way back exists.
	Reciprocal string
	// RevSpec applies to a newly created way back.
	RevSpec TransitionSpec
	// DecisionTags and DecisionAnnotations are added to the discovered
	// decision.
	DecisionTags        domain.Tags
	DecisionAnnotations []string
	// Zone places the discovered decision in a zone, created at level 0 if
	// missing. When empty, a newly created decision joins the zones that
	// directly contain the source decision.
	Zone string
	// NoZone disables zone placement.
	NoZone bool
	// ForceNew requires connectTo to be a new decision.
	ForceNew bool
}

// ReplaceUnexplored resolves the placeholder at the end of transition
// (from, name) into connectTo, which is created when it does not exist. Other
// transitions attached to the placeholder are carried over. If connectTo
// already has the requested way back and it leads to another placeholder,
// that placeholder is merged into from. The unknown tag is cleared on the
// result.
//
// The returned map lists transitions at connectTo that were renamed to avoid
// collisions.
func (g *DecisionGraph) ReplaceUnexplored(from, name, connectTo string, opts DiscoveryOptions) (map[string]string, error) {
	e, err := g.transition(from, name)
	if err != nil {
		return nil, err
	}
	placeholder := e.To
	if !g.IsUnknown(placeholder) {
		return nil, &InvalidDestinationError{
			Decision:   from,
			Transition: name,
			Reason:     "destination " + placeholder + " is already explored",
		}
	}
	exists := g.g.HasNode(connectTo)
	if exists && opts.ForceNew && connectTo != placeholder {
		return nil, &DecisionCollisionError{Decision: connectTo}
	}

	// Way back already present at connectTo: it has to end up at from.
	var existingBack string
	mergedSecond := false
	if exists && connectTo != placeholder && opts.Reciprocal != "" && g.g.HasEdge(connectTo, opts.Reciprocal) {
		back, _ := g.g.Edge(connectTo, opts.Reciprocal)
		switch {
		case back.To == from:
		case g.IsUnknown(back.To) && back.To != placeholder:
			if _, err := g.MergeDecisions(back.To, from, false); err != nil {
				return nil, err
			}
			mergedSecond = true
		default:
			return nil, &InvalidDestinationError{
				Decision:   connectTo,
				Transition: opts.Reciprocal,
				Reason:     "already leads to " + back.To + ", not " + from,
			}
		}
		existingBack = opts.Reciprocal
	}

	// Name the placeholder's own way back.
	current := e.Attr.reciprocal
	if current != "" && !g.g.HasEdge(placeholder, current) {
		current = ""
	}
	if opts.Reciprocal != "" && existingBack == "" {
		switch {
		case current == "":
			if err := g.addWayBack(placeholder, opts.Reciprocal, from, name, opts.RevSpec); err != nil {
				return nil, err
			}
		case current != opts.Reciprocal:
			if err := g.RenameTransition(placeholder, current, opts.Reciprocal); err != nil {
				return nil, err
			}
		}
	}

	target := connectTo
	if !exists {
		if err := g.AddDecision(connectTo, nil, nil); err != nil {
			return nil, err
		}
	}
	renames := make(map[string]string)
	if target != placeholder {
		renames, err = g.MergeDecisions(placeholder, target, false)
		if err != nil {
			return nil, err
		}
	}

	if existingBack != "" {
		// Fold the placeholder's way back into the one connectTo already had.
		if moved, err := g.Reciprocal(from, name); err == nil && moved != "" && moved != existingBack {
			if err := g.MergeTransitions(target, moved, existingBack, false); err != nil {
				return nil, err
			}
			for k, v := range renames {
				if v == moved {
					delete(renames, k)
				}
			}
		}
		// The second placeholder's way back now runs parallel to (from, name).
		if mergedSecond {
			if paired, err := g.Reciprocal(target, existingBack); err == nil && paired != "" && paired != name {
				if dest, err := g.Destination(from, paired); err == nil && dest == target {
					if err := g.MergeTransitions(from, paired, name, false); err != nil {
						return nil, err
					}
				}
			}
		}
		if err := g.SetReciprocal(from, name, existingBack); err != nil {
			return nil, err
		}
	}

	d, err := g.decision(target)
	if err != nil {
		return nil, err
	}
	delete(d.tags, TagUnknown)
	for k, v := range opts.DecisionTags {
		d.tags[k] = domain.CloneValue(v)
	}
	d.annotations = append(d.annotations, opts.DecisionAnnotations...)

	if opts.NoZone {
		return renames, nil
	}
	switch {
	case opts.Zone != "":
		if !g.HasZone(opts.Zone) {
			if err := g.CreateZone(opts.Zone, 0); err != nil {
				return nil, err
			}
		}
		if err := g.AddDecisionToZone(target, opts.Zone); err != nil {
			return nil, err
		}
	case !exists:
		for _, z := range g.ZonesOf(from) {
			if err := g.AddDecisionToZone(target, z); err != nil {
				return nil, err
			}
		}
	}
	return renames, nil
}

// addWayBack creates a transition from placeholder to from and pairs it with
// (from, name), suffixing the name if the placeholder already uses it.
func (g *DecisionGraph) addWayBack(placeholder, reciprocal, from, name string, spec TransitionSpec) error {
	if g.g.HasEdge(placeholder, reciprocal) {
		existing, _ := g.g.Edge(placeholder, reciprocal)
		if existing.To != from {
			return &TransitionCollisionError{Decision: placeholder, Transition: reciprocal}
		}
		return g.SetReciprocal(from, name, reciprocal)
	}
	if err := g.AddTransition(placeholder, reciprocal, from, spec); err != nil {
		return err
	}
	return g.SetReciprocal(from, name, reciprocal)
}

// UnexploredTransitions lists transitions of a decision that lead to
// placeholders, in creation order.
func (g *DecisionGraph) UnexploredTransitions(from string) []string {
	var out []string
	for _, e := range g.g.Outgoing(from) {
		if g.IsUnknown(e.To) {
			out = append(out, e.Key)
		}
	}
	return slices.Clip(out)
}
