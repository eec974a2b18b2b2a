package codec

import (
	"fmt"

	"github.com/aretw0/journey/pkg/command"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
)

// explorationDoc stores the steps as parallel lists.
type explorationDoc struct {
	Kind        string     `json:"^"`
	Graphs      []graphDoc `json:"graphs"`
	Positions   []*string  `json:"positions"`
	States      []stateDoc `json:"states"`
	Transitions []*string  `json:"transitions"`
	Tags        []any      `json:"tags"`
	Annotations [][]string `json:"annotations"`
}

type stateDoc struct {
	Powers any            `json:"powers"`
	Tokens map[string]int `json:"tokens"`
	Custom any            `json:"custom,omitempty"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func encodeExploration(x *exploration.Exploration) (explorationDoc, error) {
	steps := x.Steps()
	doc := explorationDoc{
		Kind:        kindExploration,
		Graphs:      make([]graphDoc, len(steps)),
		Positions:   make([]*string, len(steps)),
		States:      make([]stateDoc, len(steps)),
		Transitions: make([]*string, len(steps)),
		Tags:        make([]any, len(steps)),
		Annotations: make([][]string, len(steps)),
	}
	for i, s := range steps {
		g, err := encodeGraph(s.Graph)
		if err != nil {
			return doc, fmt.Errorf("step %d: %w", i, err)
		}
		doc.Graphs[i] = g
		doc.Positions[i] = optional(s.Position)
		doc.Transitions[i] = optional(s.Transition)
		state, err := encodeState(s.State)
		if err != nil {
			return doc, fmt.Errorf("step %d: %w", i, err)
		}
		doc.States[i] = state
		tags, err := encodeValue(map[string]any(s.Tags.Clone()))
		if err != nil {
			return doc, fmt.Errorf("step %d: %w", i, err)
		}
		doc.Tags[i] = tags
		doc.Annotations[i] = s.Annotations
		if doc.Annotations[i] == nil {
			doc.Annotations[i] = []string{}
		}
	}
	return doc, nil
}

func encodeState(s *domain.State) (stateDoc, error) {
	powers := make([]any, 0, len(s.Powers))
	for _, p := range s.PowerList() {
		powers = append(powers, p)
	}
	doc := stateDoc{
		Powers: map[string]any{Discriminator: kindSet, "values": powers},
		Tokens: s.Tokens,
	}
	if len(s.Custom) > 0 {
		custom, err := encodeValue(s.Custom)
		if err != nil {
			return doc, err
		}
		doc.Custom = custom
	}
	return doc, nil
}

func decodeExploration(doc explorationDoc, opts ...exploration.Option) (*exploration.Exploration, error) {
	n := len(doc.Graphs)
	if len(doc.Positions) != n || len(doc.States) != n || len(doc.Transitions) != n ||
		len(doc.Tags) != n || len(doc.Annotations) != n {
		return nil, fmt.Errorf("exploration lists have different lengths")
	}
	steps := make([]*exploration.Situation, n)
	for i := range n {
		g, err := decodeGraph(doc.Graphs[i])
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		state, err := decodeState(doc.States[i])
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		tags, err := decodeTags(doc.Tags[i])
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps[i] = &exploration.Situation{
			Graph:       g,
			Position:    deref(doc.Positions[i]),
			State:       state,
			Transition:  deref(doc.Transitions[i]),
			Tags:        tags,
			Annotations: doc.Annotations[i],
		}
	}
	return exploration.Restore(steps, opts...), nil
}

func decodeState(doc stateDoc) (*domain.State, error) {
	s := domain.NewState()
	if doc.Powers != nil {
		raw, err := decodeValue(doc.Powers)
		if err != nil {
			return nil, err
		}
		var powers []any
		switch v := raw.(type) {
		case command.Set:
			powers = v.Sorted()
		case []any:
			powers = v
		default:
			return nil, fmt.Errorf("powers must be a set, got %T", raw)
		}
		for _, p := range powers {
			name, ok := p.(string)
			if !ok {
				return nil, fmt.Errorf("power %v is not text", p)
			}
			s.GainPower(name)
		}
	}
	for k, v := range doc.Tokens {
		s.Tokens[k] = v
	}
	if doc.Custom != nil {
		custom, err := decodeTags(doc.Custom)
		if err != nil {
			return nil, fmt.Errorf("custom state: %w", err)
		}
		s.Custom = custom
	}
	return s, nil
}
