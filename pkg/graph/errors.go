package graph

import (
	"fmt"
	"strings"
)

// MissingDecisionError is returned when a referenced decision does not exist.
type MissingDecisionError struct {
	Decision string
}

func (e *MissingDecisionError) Error() string {
	return fmt.Sprintf("decision %q does not exist", e.Decision)
}

// MissingTransitionError is returned when a decision has no transition with
// the given name.
type MissingTransitionError struct {
	Decision   string
	Transition string
}

func (e *MissingTransitionError) Error() string {
	return fmt.Sprintf("decision %q has no transition %q", e.Decision, e.Transition)
}

// MissingZoneError is returned when a referenced zone does not exist.
type MissingZoneError struct {
	Zone string
}

func (e *MissingZoneError) Error() string {
	return fmt.Sprintf("zone %q does not exist", e.Zone)
}

// DecisionCollisionError is returned when a decision name is already taken.
type DecisionCollisionError struct {
	Decision string
}

func (e *DecisionCollisionError) Error() string {
	return fmt.Sprintf("decision %q already exists", e.Decision)
}

// TransitionCollisionError is returned when a decision already has an
// outgoing transition with the given name.
type TransitionCollisionError struct {
	Decision   string
	Transition string
}

func (e *TransitionCollisionError) Error() string {
	return fmt.Sprintf("decision %q already has a transition %q", e.Decision, e.Transition)
}

// ZoneCollisionError is returned when a zone name is already taken.
type ZoneCollisionError struct {
	Zone string
}

func (e *ZoneCollisionError) Error() string {
	return fmt.Sprintf("zone %q already exists", e.Zone)
}

// InvalidLevelError is returned when an operation would break the ordering of
// zone levels.
type InvalidLevelError struct {
	Zone   string
	Reason string
}

func (e *InvalidLevelError) Error() string {
	return fmt.Sprintf("zone %q: %s", e.Zone, e.Reason)
}

// InvalidDestinationError is returned when a transition leads somewhere the
// operation does not accept, typically a known decision where an unexplored
// placeholder was required.
type InvalidDestinationError struct {
	Decision   string
	Transition string
	Reason     string
}

func (e *InvalidDestinationError) Error() string {
	return fmt.Sprintf("transition %q at %q: %s", e.Transition, e.Decision, e.Reason)
}

// UnknownDestinationError is returned when an operation needs a transition
// with a known destination but it leads to an unexplored placeholder.
type UnknownDestinationError struct {
	Decision   string
	Transition string
}

func (e *UnknownDestinationError) Error() string {
	return fmt.Sprintf("transition %q at %q leads to an unexplored decision", e.Transition, e.Decision)
}

// AggregateError collects every invariant violation found by Validate.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d graph errors:", len(e.Errors))
	for _, err := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}
