package exploration

import (
	"context"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/graph"
)

// StartOptions configures Start.
type StartOptions struct {
	// State is the initial state; empty when nil.
	State *domain.State
	// Zone places the start decision in a zone, created at level 0 if
	// missing.
	Zone string
	// Exits are added as unexplored transitions of the start decision.
	Exits []string
	// Map is a pre-drawn graph to start on. It is copied, and the start
	// decision must already be on it.
	Map *graph.DecisionGraph
}

// Start creates the first decision and makes it the position. It fails with
// a *BadStartError once the graph has any decision.
func (x *Exploration) Start(ctx context.Context, decision string, opts StartOptions) error {
	if decision == "" {
		return &BadStartError{Decision: decision, Reason: "decision name is empty"}
	}
	setup := func(s *step) error {
		d := s.draft
		if opts.State != nil {
			d.State = opts.State.Clone()
		}
		if opts.Map != nil {
			if !opts.Map.HasDecision(decision) {
				return &BadStartError{Decision: decision, Reason: "the decision is not on the map"}
			}
			d.Graph = opts.Map.Clone()
		} else if err := d.Graph.AddDecision(decision, nil, nil); err != nil {
			return err
		}
		if opts.Zone != "" {
			if err := placeInZone(d.Graph, decision, opts.Zone); err != nil {
				return err
			}
		}
		for _, exit := range opts.Exits {
			if _, err := d.Graph.AddUnexploredEdge(decision, exit, graph.UnexploredOptions{}); err != nil {
				return err
			}
		}
		d.Position = decision
		return nil
	}

	if len(x.steps) == 0 {
		s := &step{op: "start", draft: NewSituation()}
		if err := setup(s); err != nil {
			return err
		}
		x.commit(ctx, s)
		return nil
	}
	cur := x.steps[len(x.steps)-1]
	if cur.Graph.Len() > 0 || cur.Position != "" {
		return &BadStartError{Decision: decision, Reason: "the graph already has decisions"}
	}
	return x.advance(ctx, "start", func(_ *Situation, s *step) error {
		return setup(s)
	})
}

// Connection describes an exit of a newly explored decision.
type Connection struct {
	Transition string
	// Destination is a known decision the exit leads to. Empty leaves the
	// exit unexplored.
	Destination string
	// Reciprocal pairs the exit with a transition back, created at
	// Destination.
	Reciprocal string
}

// Explore takes transition from the current position to a decision that did
// not exist before, named destination, and moves there. The transition is
// created as unexplored when missing; it must otherwise lead to an
// unexplored placeholder. An empty destination keeps the placeholder's name.
//
// A connection leading back to the current position becomes the reciprocal
// of transition; every other connection is added as an exit of the new
// decision. Explore returns the name of the new decision.
func (x *Exploration) Explore(ctx context.Context, transition, destination string, connections ...Connection) (string, error) {
	var arrived string
	err := x.advance(ctx, "explore", func(prev *Situation, s *step) error {
		from, err := positionOf(prev)
		if err != nil {
			return err
		}
		g := s.draft.Graph
		placeholder, err := unexploredEnd(g, from, transition)
		if err != nil {
			return err
		}
		target := destination
		if target == "" {
			target = placeholder
		}
		if err := s.check(prev, from, transition); err != nil {
			return err
		}

		opts := graph.DiscoveryOptions{ForceNew: true}
		var exits []Connection
		for _, c := range connections {
			if opts.Reciprocal == "" && c.Destination == from && (c.Reciprocal == "" || c.Reciprocal == transition) {
				opts.Reciprocal = c.Transition
				continue
			}
			exits = append(exits, c)
		}
		if _, err := g.ReplaceUnexplored(from, transition, target, opts); err != nil {
			return err
		}
		for _, c := range exits {
			if err := addExit(g, target, c); err != nil {
				return err
			}
		}

		s.draft.Position = target
		s.draft.Transition = transition
		arrived = target
		return x.applyEffects(ctx, s, from, transition)
	})
	return arrived, err
}

// ReturnTo takes an unexplored transition from the current position and
// finds that it leads to destination, a known decision. The placeholder is
// merged into destination and reciprocal, when given, names the way back.
func (x *Exploration) ReturnTo(ctx context.Context, transition, destination, reciprocal string) error {
	return x.advance(ctx, "return", func(prev *Situation, s *step) error {
		from, err := positionOf(prev)
		if err != nil {
			return err
		}
		g := s.draft.Graph
		if !g.HasDecision(destination) {
			return &graph.MissingDecisionError{Decision: destination}
		}
		if g.IsUnknown(destination) {
			return &graph.InvalidDestinationError{
				Decision:   from,
				Transition: transition,
				Reason:     destination + " is unexplored; use Explore",
			}
		}
		if _, err := unexploredEnd(g, from, transition); err != nil {
			return err
		}
		if err := s.check(prev, from, transition); err != nil {
			return err
		}
		if _, err := g.ReplaceUnexplored(from, transition, destination, graph.DiscoveryOptions{Reciprocal: reciprocal}); err != nil {
			return err
		}
		s.draft.Position = destination
		s.draft.Transition = transition
		return x.applyEffects(ctx, s, from, transition)
	})
}

// Retrace takes an already explored transition from the current position.
func (x *Exploration) Retrace(ctx context.Context, transition string) error {
	return x.advance(ctx, "retrace", func(prev *Situation, s *step) error {
		from, err := positionOf(prev)
		if err != nil {
			return err
		}
		g := s.draft.Graph
		dest, err := g.Destination(from, transition)
		if err != nil {
			return err
		}
		if g.IsUnknown(dest) {
			return &graph.UnknownDestinationError{Decision: from, Transition: transition}
		}
		if err := s.check(prev, from, transition); err != nil {
			return err
		}
		s.draft.Position = dest
		s.draft.Transition = transition
		return x.applyEffects(ctx, s, from, transition)
	})
}

// TakeAction takes an action at the current position, creating it when it
// does not exist yet. The position does not change.
func (x *Exploration) TakeAction(ctx context.Context, action string) error {
	return x.advance(ctx, "action", func(prev *Situation, s *step) error {
		at, err := positionOf(prev)
		if err != nil {
			return err
		}
		g := s.draft.Graph
		if !g.HasTransition(at, action) {
			if err := g.AddAction(at, action, graph.TransitionSpec{}); err != nil {
				return err
			}
		} else if dest, _ := g.Destination(at, action); dest != at {
			return &graph.InvalidDestinationError{
				Decision:   at,
				Transition: action,
				Reason:     "leads to " + dest + " and is not an action",
			}
		}
		if err := s.check(prev, at, action); err != nil {
			return err
		}
		s.draft.Transition = action
		return x.applyEffects(ctx, s, at, action)
	})
}

// Warp moves to destination without taking a transition, creating the
// decision if needed. A non-empty zone receives the destination.
func (x *Exploration) Warp(ctx context.Context, destination, zone string) error {
	return x.advance(ctx, "warp", func(_ *Situation, s *step) error {
		g := s.draft.Graph
		if !g.HasDecision(destination) {
			if err := g.AddDecision(destination, nil, nil); err != nil {
				return err
			}
		}
		if zone != "" {
			if err := placeInZone(g, destination, zone); err != nil {
				return err
			}
		}
		s.draft.Position = destination
		s.draft.Transition = WarpTransition
		return nil
	})
}

// Observe records a new unexplored transition at the current position and
// returns the name of its placeholder destination.
func (x *Exploration) Observe(ctx context.Context, transition string, opts graph.UnexploredOptions) (string, error) {
	var placeholder string
	err := x.advance(ctx, "observe", func(prev *Situation, s *step) error {
		at, err := positionOf(prev)
		if err != nil {
			return err
		}
		placeholder, err = s.draft.Graph.AddUnexploredEdge(at, transition, opts)
		return err
	})
	return placeholder, err
}

func positionOf(s *Situation) (string, error) {
	if s.Position == "" {
		return "", ErrNoPosition
	}
	return s.Position, nil
}

// unexploredEnd returns the placeholder at the end of (from, transition),
// creating the transition without a way back when it does not exist.
func unexploredEnd(g *graph.DecisionGraph, from, transition string) (string, error) {
	if !g.HasTransition(from, transition) {
		return g.AddUnexploredEdge(from, transition, graph.UnexploredOptions{NoReciprocal: true})
	}
	dest, err := g.Destination(from, transition)
	if err != nil {
		return "", err
	}
	if !g.IsUnknown(dest) {
		return "", &graph.InvalidDestinationError{
			Decision:   from,
			Transition: transition,
			Reason:     "already leads to " + dest + "; use Retrace",
		}
	}
	return dest, nil
}

func addExit(g *graph.DecisionGraph, at string, c Connection) error {
	if c.Destination == "" {
		_, err := g.AddUnexploredEdge(at, c.Transition, graph.UnexploredOptions{Reciprocal: c.Reciprocal})
		return err
	}
	if c.Reciprocal == "" {
		return g.AddTransition(at, c.Transition, c.Destination, graph.TransitionSpec{})
	}
	return g.AddTransitionWithReciprocal(at, c.Transition, c.Destination, c.Reciprocal, graph.TransitionSpec{}, graph.TransitionSpec{})
}

func placeInZone(g *graph.DecisionGraph, decision, zone string) error {
	if !g.HasZone(zone) {
		if err := g.CreateZone(zone, 0); err != nil {
			return err
		}
	}
	return g.AddDecisionToZone(decision, zone)
}
