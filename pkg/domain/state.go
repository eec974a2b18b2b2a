package domain

import (
	"maps"
	"slices"
)

// State is the game state an exploration carries from step to step. Powers
// and Tokens are the capabilities requirements are checked against; Custom
// holds any other values scripts choose to keep.
type State struct {
	Powers map[string]bool
	Tokens map[string]int
	Custom map[string]any
}

// NewState creates an empty state.
func NewState() *State {
	return &State{
		Powers: make(map[string]bool),
		Tokens: make(map[string]int),
		Custom: make(map[string]any),
	}
}

// HasPower reports whether the power is held.
func (s *State) HasPower(name string) bool {
	if s == nil {
		return false
	}
	return s.Powers[name]
}

// TokenCount returns how many tokens of the type are held.
func (s *State) TokenCount(tokenType string) int {
	if s == nil {
		return 0
	}
	return s.Tokens[tokenType]
}

// GainPower adds a power.
func (s *State) GainPower(name string) {
	s.Powers[name] = true
}

// LosePower removes a power.
func (s *State) LosePower(name string) {
	delete(s.Powers, name)
}

// AdjustTokens adds delta (possibly negative) tokens of a type.
func (s *State) AdjustTokens(tokenType string, delta int) {
	s.Tokens[tokenType] += delta
}

// PowerList returns held powers sorted by name.
func (s *State) PowerList() []string {
	return slices.Sorted(maps.Keys(s.Powers))
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return NewState()
	}
	next := &State{
		Powers: maps.Clone(s.Powers),
		Tokens: maps.Clone(s.Tokens),
		Custom: make(map[string]any, len(s.Custom)),
	}
	if next.Powers == nil {
		next.Powers = make(map[string]bool)
	}
	if next.Tokens == nil {
		next.Tokens = make(map[string]int)
	}
	for k, v := range s.Custom {
		next.Custom[k] = CloneValue(v)
	}
	return next
}

// Equal compares two states.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	return maps.Equal(s.Powers, other.Powers) &&
		maps.Equal(s.Tokens, other.Tokens) &&
		ValuesEqual(s.Custom, other.Custom)
}
