package graph

import (
	"maps"
	"slices"

	"github.com/aretw0/journey/pkg/domain"
)

// AddEquivalence registers req as an alternative way of holding power.
func (g *DecisionGraph) AddEquivalence(power string, req domain.Requirement) {
	for _, existing := range g.equivalences[power] {
		if domain.RequirementsEqual(existing, req) {
			return
		}
	}
	g.equivalences[power] = append(g.equivalences[power], req)
}

// RemoveEquivalence unregisters an equivalence and reports whether it
// existed.
func (g *DecisionGraph) RemoveEquivalence(power string, req domain.Requirement) bool {
	reqs := g.equivalences[power]
	for i, existing := range reqs {
		if domain.RequirementsEqual(existing, req) {
			reqs = slices.Delete(slices.Clone(reqs), i, i+1)
			if len(reqs) == 0 {
				delete(g.equivalences, power)
			} else {
				g.equivalences[power] = reqs
			}
			return true
		}
	}
	return false
}

// Equivalences returns a copy of the registered equivalences.
func (g *DecisionGraph) Equivalences() domain.Equivalences {
	out := make(domain.Equivalences, len(g.equivalences))
	for power, reqs := range g.equivalences {
		out[power] = slices.Clone(reqs)
	}
	return out
}

// EquivalentPowers returns the powers that have equivalences, sorted.
func (g *DecisionGraph) EquivalentPowers() []string {
	return slices.Sorted(maps.Keys(g.equivalences))
}

// Satisfied evaluates req against state using this graph's equivalences.
func (g *DecisionGraph) Satisfied(req domain.Requirement, state *domain.State) bool {
	return domain.Satisfies(req, state, g.equivalences)
}
