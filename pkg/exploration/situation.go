package exploration

import (
	"slices"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/graph"
)

// WarpTransition is recorded as the transition of a Warp step.
const WarpTransition = "~warp~"

// Situation is one step of an exploration.
type Situation struct {
	Graph *graph.DecisionGraph
	// Position is the current decision; empty before Start.
	Position string
	State    *domain.State
	// Transition is the transition taken from the previous position to reach
	// this step, empty when none was taken.
	Transition  string
	Tags        domain.Tags
	Annotations []string
}

// NewSituation creates an empty first step.
func NewSituation() *Situation {
	return &Situation{
		Graph: graph.New(),
		State: domain.NewState(),
		Tags:  domain.Tags{},
	}
}

// Clone returns a deep copy.
func (s *Situation) Clone() *Situation {
	return &Situation{
		Graph:       s.Graph.Clone(),
		Position:    s.Position,
		State:       s.State.Clone(),
		Transition:  s.Transition,
		Tags:        s.Tags.Clone(),
		Annotations: slices.Clone(s.Annotations),
	}
}

// next is the draft a traversal mutates: graph and state carried over,
// transition, tags and annotations reset.
func (s *Situation) next() *Situation {
	return &Situation{
		Graph:    s.Graph.Clone(),
		Position: s.Position,
		State:    s.State.Clone(),
		Tags:     domain.Tags{},
	}
}

// Equal compares two situations structurally.
func (s *Situation) Equal(other *Situation) bool {
	return s.Position == other.Position &&
		s.Transition == other.Transition &&
		s.Graph.Equal(other.Graph) &&
		s.State.Equal(other.State) &&
		domain.ValuesEqual(map[string]any(s.Tags), map[string]any(other.Tags)) &&
		slices.Equal(s.Annotations, other.Annotations)
}
