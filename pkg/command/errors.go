package command

import (
	"errors"
	"fmt"
)

// ErrStepLimit is returned when a program executes more commands than the
// interpreter allows, which usually means a skip loop never terminates.
var ErrStepLimit = errors.New("step limit exceeded")

// CommandError wraps a failure raised while executing a command.
type CommandError struct {
	Command Command
	// Line is the 1-based source line of the command, or its position in
	// the block when the block was not built by Parse.
	Line int
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
