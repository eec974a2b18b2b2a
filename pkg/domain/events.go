package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep    EventType = "step"
	EventWarning EventType = "warning"
	EventCommand EventType = "command"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StepEvent is emitted after an exploration commits a new step.
type StepEvent struct {
	EventBase
	Op         string `json:"op"`
	Step       int    `json:"step"`
	Position   string `json:"position,omitempty"`
	Transition string `json:"transition,omitempty"`
}

// Warning describes a non-fatal condition raised while stepping. The only
// producer today is an unmet requirement on a traversed transition.
type Warning struct {
	Step        int    `json:"step"`
	From        string `json:"from"`
	Transition  string `json:"transition"`
	Requirement string `json:"requirement"`
}

func (w Warning) String() string {
	return "requirement " + w.Requirement + " for " + w.From + "/" + w.Transition + " was not met"
}

// WarningEvent carries a Warning to hooks.
type WarningEvent struct {
	EventBase
	Warning Warning `json:"warning"`
}

// CommandEvent reports one executed command block.
type CommandEvent struct {
	EventBase
	Session  string `json:"session,omitempty"`
	Commands int    `json:"commands"`
	Err      error  `json:"-"`
}

// LifecycleHooks defines callbacks for exploration observability.
type LifecycleHooks struct {
	OnStep    func(context.Context, *StepEvent)
	OnWarning func(context.Context, *WarningEvent)
	OnCommand func(context.Context, *CommandEvent)
}

// Join returns hooks that call h first and then other.
func (h LifecycleHooks) Join(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStep:    chain(h.OnStep, other.OnStep),
		OnWarning: chain(h.OnWarning, other.OnWarning),
		OnCommand: chain(h.OnCommand, other.OnCommand),
	}
}

func chain[T any](a, b func(context.Context, T)) func(context.Context, T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, ev T) {
		a(ctx, ev)
		b(ctx, ev)
	}
}
