package graph

import (
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/journey/pkg/domain"
)

// Validate checks the structural invariants: reciprocals exist and lead
// back, zone nesting respects levels and membership records agree on both
// sides, and effects are well formed. Every violation is reported.
func (g *DecisionGraph) Validate() error {
	var errs []error
	for _, e := range g.g.Edges() {
		if r := e.Attr.reciprocal; r != "" {
			back, ok := g.g.Edge(e.To, r)
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("%s/%s: reciprocal %q missing at %q", e.From, e.Key, r, e.To))
			case back.To != e.From:
				errs = append(errs, fmt.Errorf("%s/%s: reciprocal %s/%s leads to %q", e.From, e.Key, e.To, r, back.To))
			}
		}
		for i, eff := range e.Attr.effects {
			if err := eff.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s/%s effect %d: %w", e.From, e.Key, i, err))
			}
		}
	}
	for _, name := range g.g.Nodes() {
		d, _ := g.g.Node(name)
		for z := range d.zones {
			zd, ok := g.zones[z]
			if !ok {
				errs = append(errs, fmt.Errorf("decision %q: member of missing zone %q", name, z))
				continue
			}
			if !zd.decisions[name] {
				errs = append(errs, fmt.Errorf("decision %q: zone %q does not list it", name, z))
			}
		}
	}
	for _, name := range g.Zones() {
		z := g.zones[name]
		for d := range z.decisions {
			data, ok := g.g.Node(d)
			if !ok || !data.zones[name] {
				errs = append(errs, fmt.Errorf("zone %q: lists decision %q which does not list it", name, d))
			}
		}
		for c := range z.children {
			child, ok := g.zones[c]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("zone %q: missing child zone %q", name, c))
			case child.level >= z.level:
				errs = append(errs, &InvalidLevelError{
					Zone:   c,
					Reason: fmt.Sprintf("level %d is not below parent %q at level %d", child.level, name, z.level),
				})
			case !child.parents[name]:
				errs = append(errs, fmt.Errorf("zone %q: child %q does not list it as parent", name, c))
			}
		}
		for p := range z.parents {
			if parent, ok := g.zones[p]; !ok || !parent.children[name] {
				errs = append(errs, fmt.Errorf("zone %q: parent %q does not list it", name, p))
			}
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Equal reports whether two graphs have the same decisions, transitions,
// zones, equivalences and placeholder counter. Creation order is ignored.
func (g *DecisionGraph) Equal(other *DecisionGraph) bool {
	if g.unknownCount != other.unknownCount || g.g.Len() != other.g.Len() || len(g.zones) != len(other.zones) {
		return false
	}
	for _, name := range g.g.Nodes() {
		a, _ := g.g.Node(name)
		b, ok := other.g.Node(name)
		if !ok ||
			!domain.ValuesEqual(map[string]any(a.tags), map[string]any(b.tags)) ||
			!slices.Equal(a.annotations, b.annotations) ||
			!maps.Equal(a.zones, b.zones) {
			return false
		}
		outA, outB := g.g.Outgoing(name), other.g.Outgoing(name)
		if len(outA) != len(outB) {
			return false
		}
		for _, ea := range outA {
			eb, ok := other.g.Edge(name, ea.Key)
			if !ok || ea.To != eb.To || !transitionDataEqual(ea.Attr, eb.Attr) {
				return false
			}
		}
	}
	for name, za := range g.zones {
		zb, ok := other.zones[name]
		if !ok || za.level != zb.level ||
			!maps.Equal(za.parents, zb.parents) ||
			!maps.Equal(za.children, zb.children) ||
			!maps.Equal(za.decisions, zb.decisions) {
			return false
		}
	}
	if len(g.equivalences) != len(other.equivalences) {
		return false
	}
	for power, reqs := range g.equivalences {
		if !slices.EqualFunc(reqs, other.equivalences[power], domain.RequirementsEqual) {
			return false
		}
	}
	return true
}

func transitionDataEqual(a, b *transitionData) bool {
	return a.reciprocal == b.reciprocal &&
		domain.RequirementsEqual(a.requirement, b.requirement) &&
		domain.EffectListsEqual(a.effects, b.effects) &&
		domain.ValuesEqual(map[string]any(a.tags), map[string]any(b.tags)) &&
		slices.Equal(a.annotations, b.annotations)
}
