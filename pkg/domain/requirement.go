package domain

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
)

// Equivalences maps a power name to alternative requirements which, when
// satisfied, count as holding that power.
type Equivalences map[string][]Requirement

// Requirement is a boolean precondition over powers and tokens. The set of
// implementations is closed: ReqAny, ReqAll, ReqNot, ReqPower, ReqTokens,
// ReqNothing and ReqImpossible.
type Requirement interface {
	// Satisfied evaluates the requirement against a state. Equivalences for
	// powers named in excluded are not consulted, which bounds recursion
	// through cyclic equivalences.
	Satisfied(state *State, eqs Equivalences, excluded map[string]bool) bool
	// String renders the requirement in the textual grammar accepted by
	// ParseRequirement.
	String() string

	isRequirement()
}

// ReqAny is satisfied when at least one sub-requirement is.
type ReqAny struct{ Subs []Requirement }

// ReqAll is satisfied when every sub-requirement is.
type ReqAll struct{ Subs []Requirement }

// ReqNot negates a sub-requirement.
type ReqNot struct{ Sub Requirement }

// ReqPower requires a named power.
type ReqPower struct{ Name string }

// ReqTokens requires holding at least Count tokens of Type.
type ReqTokens struct {
	Type  string
	Count int
}

// ReqNothing is always satisfied.
type ReqNothing struct{}

// ReqImpossible is never satisfied.
type ReqImpossible struct{}

func (ReqAny) isRequirement()        {}
func (ReqAll) isRequirement()        {}
func (ReqNot) isRequirement()        {}
func (ReqPower) isRequirement()      {}
func (ReqTokens) isRequirement()     {}
func (ReqNothing) isRequirement()    {}
func (ReqImpossible) isRequirement() {}

func (r ReqAny) Satisfied(state *State, eqs Equivalences, excluded map[string]bool) bool {
	for _, sub := range r.Subs {
		if sub.Satisfied(state, eqs, excluded) {
			return true
		}
	}
	return false
}

func (r ReqAll) Satisfied(state *State, eqs Equivalences, excluded map[string]bool) bool {
	for _, sub := range r.Subs {
		if !sub.Satisfied(state, eqs, excluded) {
			return false
		}
	}
	return true
}

func (r ReqNot) Satisfied(state *State, eqs Equivalences, excluded map[string]bool) bool {
	return !r.Sub.Satisfied(state, eqs, excluded)
}

func (r ReqPower) Satisfied(state *State, eqs Equivalences, excluded map[string]bool) bool {
	if state.HasPower(r.Name) {
		return true
	}
	if excluded[r.Name] {
		return false
	}
	alternatives := eqs[r.Name]
	if len(alternatives) == 0 {
		return false
	}
	inner := make(map[string]bool, len(excluded)+1)
	for k, v := range excluded {
		inner[k] = v
	}
	inner[r.Name] = true
	for _, alt := range alternatives {
		if alt.Satisfied(state, eqs, inner) {
			return true
		}
	}
	return false
}

func (r ReqTokens) Satisfied(state *State, _ Equivalences, _ map[string]bool) bool {
	return state.TokenCount(r.Type) >= r.Count
}

func (ReqNothing) Satisfied(*State, Equivalences, map[string]bool) bool { return true }

func (ReqImpossible) Satisfied(*State, Equivalences, map[string]bool) bool { return false }

func (r ReqAny) String() string {
	if len(r.Subs) == 0 {
		return "X"
	}
	parts := make([]string, len(r.Subs))
	for i, sub := range r.Subs {
		// '&' binds tighter than '|', so only nested alternations need parens.
		if _, ok := sub.(ReqAny); ok {
			parts[i] = "(" + sub.String() + ")"
		} else {
			parts[i] = sub.String()
		}
	}
	return strings.Join(parts, "|")
}

func (r ReqAll) String() string {
	if len(r.Subs) == 0 {
		return "O"
	}
	parts := make([]string, len(r.Subs))
	for i, sub := range r.Subs {
		switch sub.(type) {
		case ReqAny, ReqAll:
			parts[i] = "(" + sub.String() + ")"
		default:
			parts[i] = sub.String()
		}
	}
	return strings.Join(parts, "&")
}

func (r ReqNot) String() string {
	switch r.Sub.(type) {
	case ReqAny, ReqAll, ReqTokens, ReqNot:
		return "-(" + r.Sub.String() + ")"
	}
	return "-" + r.Sub.String()
}

func (r ReqPower) String() string { return quoteName(r.Name) }

func (r ReqTokens) String() string {
	return quoteName(r.Type) + "*" + strconv.Itoa(r.Count)
}

func (ReqNothing) String() string { return "O" }

func (ReqImpossible) String() string { return "X" }

// quoteName renders a capability name bare when it lexes as an identifier
// and is not one of the reserved constants, quoted otherwise.
func quoteName(name string) string {
	if name != "X" && name != "O" && token.IsIdentifier(name) {
		return name
	}
	return strconv.Quote(name)
}

// IsTrivial reports whether r is nil or ReqNothing.
func IsTrivial(r Requirement) bool {
	if r == nil {
		return true
	}
	_, ok := r.(ReqNothing)
	return ok
}

// Satisfies evaluates r with no excluded powers; a nil requirement is always
// satisfied.
func Satisfies(r Requirement, state *State, eqs Equivalences) bool {
	if r == nil {
		return true
	}
	return r.Satisfied(state, eqs, nil)
}

// RequirementsEqual compares two requirements structurally.
func RequirementsEqual(a, b Requirement) bool {
	if a == nil || b == nil {
		return IsTrivial(a) && IsTrivial(b)
	}
	switch x := a.(type) {
	case ReqAny:
		y, ok := b.(ReqAny)
		return ok && requirementListsEqual(x.Subs, y.Subs)
	case ReqAll:
		y, ok := b.(ReqAll)
		return ok && requirementListsEqual(x.Subs, y.Subs)
	case ReqNot:
		y, ok := b.(ReqNot)
		return ok && RequirementsEqual(x.Sub, y.Sub)
	case ReqPower:
		y, ok := b.(ReqPower)
		return ok && x == y
	case ReqTokens:
		y, ok := b.(ReqTokens)
		return ok && x == y
	case ReqNothing:
		_, ok := b.(ReqNothing)
		return ok
	case ReqImpossible:
		_, ok := b.(ReqImpossible)
		return ok
	default:
		panic(fmt.Sprintf("unknown requirement type %T", a))
	}
}

func requirementListsEqual(a, b []Requirement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !RequirementsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// AsGainList converts a requirement built only from powers, tokens, ReqAll,
// ReqAny and ReqNothing into the smallest list of gain effects that would
// satisfy it. Alternations pick the cheapest branch, earliest on ties.
func AsGainList(r Requirement) ([]Effect, error) {
	switch x := r.(type) {
	case nil, ReqNothing:
		return nil, nil
	case ReqPower:
		return []Effect{Gain(x.Name)}, nil
	case ReqTokens:
		return []Effect{GainTokens(x.Type, x.Count)}, nil
	case ReqAll:
		var out []Effect
		for _, sub := range x.Subs {
			gains, err := AsGainList(sub)
			if err != nil {
				return nil, err
			}
			out = append(out, gains...)
		}
		return out, nil
	case ReqAny:
		var best []Effect
		found := false
		for _, sub := range x.Subs {
			gains, err := AsGainList(sub)
			if err != nil {
				return nil, err
			}
			if !found || len(gains) < len(best) {
				best, found = gains, true
			}
		}
		if !found {
			return nil, fmt.Errorf("cannot satisfy an empty alternation")
		}
		return best, nil
	case ReqNot:
		return nil, fmt.Errorf("cannot convert negated requirement %q into gains", x.String())
	case ReqImpossible:
		return nil, fmt.Errorf("cannot convert impossible requirement into gains")
	default:
		panic(fmt.Sprintf("unknown requirement type %T", r))
	}
}
