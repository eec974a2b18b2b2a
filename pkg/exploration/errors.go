package exploration

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when an operation needs at least one step.
	ErrEmpty = errors.New("exploration has no steps")
	// ErrNoPosition is returned when an operation needs a current position.
	ErrNoPosition = errors.New("exploration has no current position")
)

// BadStartError is returned by Start when the exploration already has a
// populated graph.
type BadStartError struct {
	Decision string
	Reason   string
}

func (e *BadStartError) Error() string {
	return fmt.Sprintf("cannot start at %q: %s", e.Decision, e.Reason)
}

// StepIndexError is returned for a step index outside the history.
type StepIndexError struct {
	Index int
	Len   int
}

func (e *StepIndexError) Error() string {
	return fmt.Sprintf("step %d out of range for %d steps", e.Index, e.Len)
}
