package command

import "maps"

// Scope holds the variables of a running program. The entries "_" and "__"
// are the current and previous values.
type Scope map[string]any

// NewScope creates an empty scope.
func NewScope() Scope {
	return Scope{}
}

// Current returns $_.
func (s Scope) Current() any { return s[Current] }

// Previous returns $__.
func (s Scope) Previous() any { return s[Previous] }

// Push makes v the current value, moving the old current value to previous.
func (s Scope) Push(v any) {
	s[Previous] = s[Current]
	s[Current] = v
}

// Clone returns a shallow copy of the variable table.
func (s Scope) Clone() Scope {
	return maps.Clone(s)
}
