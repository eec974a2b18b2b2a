package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/graph"
)

// Builder manages the graph construction. Nothing touches a graph until
// Build, so decisions may be referenced before they are added.
type Builder struct {
	order        []string
	decisions    map[string]*DecisionBuilder
	zones        []zoneSpec
	subZones     [][2]string
	equivalences []equivalence
	errs         []error
}

type zoneSpec struct {
	name    string
	level   int
	members []string
}

type equivalence struct {
	power string
	req   domain.Requirement
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		decisions: make(map[string]*DecisionBuilder),
	}
}

// Add declares a decision.
// If the decision already exists, it returns the existing builder.
func (b *Builder) Add(name string) *DecisionBuilder {
	if db, ok := b.decisions[name]; ok {
		return db
	}
	db := &DecisionBuilder{name: name, builder: b}
	b.decisions[name] = db
	b.order = append(b.order, name)
	return db
}

// Zone declares a zone at level holding members.
func (b *Builder) Zone(name string, level int, members ...string) *Builder {
	b.zones = append(b.zones, zoneSpec{name: name, level: level, members: members})
	return b
}

// SubZone nests child in parent. Both must be declared with Zone.
func (b *Builder) SubZone(child, parent string) *Builder {
	b.subZones = append(b.subZones, [2]string{child, parent})
	return b
}

// Equivalence lets requirement stand in for power.
func (b *Builder) Equivalence(power, requirement string) *Builder {
	req, err := domain.ParseRequirement(requirement)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("equivalence for %q: %w", power, err))
		return b
	}
	b.equivalences = append(b.equivalences, equivalence{power: power, req: req})
	return b
}

// Build compiles the declarations into a validated graph. Decisions only
// named as destinations are created after the declared ones, in the order
// they were first referenced.
func (b *Builder) Build() (*graph.DecisionGraph, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	g := graph.New()
	for _, name := range b.order {
		db := b.decisions[name]
		if err := g.AddDecision(name, db.tags, db.annotations); err != nil {
			return nil, err
		}
	}
	for _, name := range b.order {
		for _, e := range b.decisions[name].edges {
			if (e.kind != edgeTo && e.kind != edgeBoth) || g.HasDecision(e.target) {
				continue
			}
			if err := g.AddDecision(e.target, nil, nil); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range b.order {
		for _, e := range b.decisions[name].edges {
			if err := e.apply(g, name); err != nil {
				return nil, fmt.Errorf("decision %q: %w", name, err)
			}
		}
	}

	for _, z := range b.zones {
		if err := g.CreateZone(z.name, z.level); err != nil {
			return nil, err
		}
		for _, d := range z.members {
			if err := g.AddDecisionToZone(d, z.name); err != nil {
				return nil, err
			}
		}
	}
	for _, pair := range b.subZones {
		if err := g.AddZoneToZone(pair[0], pair[1]); err != nil {
			return nil, err
		}
	}
	for _, eq := range b.equivalences {
		g.AddEquivalence(eq.power, eq.req)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
