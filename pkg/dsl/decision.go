package dsl

import (
	"fmt"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/graph"
)

// DecisionBuilder provides a fluent API for configuring a decision.
type DecisionBuilder struct {
	name        string
	tags        domain.Tags
	annotations []string
	edges       []edge
	builder     *Builder
}

type edgeKind int

const (
	edgeTo edgeKind = iota
	edgeBoth
	edgeAction
	edgeUnexplored
)

type edge struct {
	kind       edgeKind
	name       string
	target     string
	reciprocal string
	spec       graph.TransitionSpec
}

func (e edge) apply(g *graph.DecisionGraph, from string) error {
	switch e.kind {
	case edgeTo:
		return g.AddTransition(from, e.name, e.target, e.spec)
	case edgeBoth:
		return g.AddTransitionWithReciprocal(from, e.name, e.target, e.reciprocal, e.spec, graph.TransitionSpec{})
	case edgeAction:
		return g.AddAction(from, e.name, e.spec)
	case edgeUnexplored:
		_, err := g.AddUnexploredEdge(from, e.name, graph.UnexploredOptions{})
		return err
	}
	return fmt.Errorf("unknown edge kind %d", e.kind)
}

// Tag sets a tag on the decision.
func (d *DecisionBuilder) Tag(tag string, value any) *DecisionBuilder {
	if d.tags == nil {
		d.tags = domain.Tags{}
	}
	d.tags[tag] = value
	return d
}

// Annotate appends annotations to the decision.
func (d *DecisionBuilder) Annotate(notes ...string) *DecisionBuilder {
	d.annotations = append(d.annotations, notes...)
	return d
}

// Go adds an unconditional one-way transition.
func (d *DecisionBuilder) Go(transition, target string, effects ...domain.Effect) *DecisionBuilder {
	d.edges = append(d.edges, edge{
		kind:   edgeTo,
		name:   transition,
		target: target,
		spec:   graph.TransitionSpec{Effects: effects},
	})
	return d
}

// Branch adds a one-way transition guarded by a requirement expression.
func (d *DecisionBuilder) Branch(transition, target, requirement string, effects ...domain.Effect) *DecisionBuilder {
	req, err := domain.ParseRequirement(requirement)
	if err != nil {
		d.builder.errs = append(d.builder.errs, fmt.Errorf("decision %q transition %q: %w", d.name, transition, err))
		return d
	}
	d.edges = append(d.edges, edge{
		kind:   edgeTo,
		name:   transition,
		target: target,
		spec:   graph.TransitionSpec{Requirement: req, Effects: effects},
	})
	return d
}

// Both adds a transition together with its way back.
func (d *DecisionBuilder) Both(transition, target, reciprocal string) *DecisionBuilder {
	d.edges = append(d.edges, edge{
		kind:       edgeBoth,
		name:       transition,
		target:     target,
		reciprocal: reciprocal,
	})
	return d
}

// Do adds an action: a transition that stays at the decision.
func (d *DecisionBuilder) Do(action string, effects ...domain.Effect) *DecisionBuilder {
	d.edges = append(d.edges, edge{
		kind: edgeAction,
		name: action,
		spec: graph.TransitionSpec{Effects: effects},
	})
	return d
}

// Unexplored adds a transition to a fresh unknown decision.
func (d *DecisionBuilder) Unexplored(transition string) *DecisionBuilder {
	d.edges = append(d.edges, edge{kind: edgeUnexplored, name: transition})
	return d
}

// Add declares another decision on the same builder, for chaining.
func (d *DecisionBuilder) Add(name string) *DecisionBuilder {
	return d.builder.Add(name)
}
