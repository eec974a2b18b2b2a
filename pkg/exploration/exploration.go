package exploration

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/pkg/command"
	"github.com/aretw0/journey/pkg/domain"
)

// Exploration is an append-only history of situations. It is not safe for
// concurrent use; pkg/session serialises access per session.
type Exploration struct {
	steps    []*Situation
	warnings []domain.Warning

	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	stepLimit int
}

// Option configures an Exploration.
type Option func(*Exploration)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(x *Exploration) {
		x.logger = l
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(h domain.LifecycleHooks) Option {
	return func(x *Exploration) {
		x.hooks = h
	}
}

// WithStepLimit bounds how many commands an edit effect or Run may execute.
func WithStepLimit(n int) Option {
	return func(x *Exploration) {
		x.stepLimit = n
	}
}

// New creates an exploration with no steps.
func New(opts ...Option) *Exploration {
	x := &Exploration{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Restore creates an exploration from previously recorded steps, for
// decoders. The steps are used as given.
func Restore(steps []*Situation, opts ...Option) *Exploration {
	x := New(opts...)
	x.steps = steps
	return x
}

// Apply reconfigures an existing exploration, typically one just read back
// from a store.
func (x *Exploration) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(x)
	}
}

// Len returns the number of steps.
func (x *Exploration) Len() int {
	return len(x.steps)
}

// Steps returns the recorded steps. They must not be modified.
func (x *Exploration) Steps() []*Situation {
	return slices.Clone(x.steps)
}

// Situation returns step i. Negative indices count from the end, so -1 is
// the latest step.
func (x *Exploration) Situation(i int) (*Situation, error) {
	n := len(x.steps)
	if n == 0 {
		return nil, ErrEmpty
	}
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return nil, &StepIndexError{Index: i, Len: n}
	}
	return x.steps[idx], nil
}

// Current returns the latest step.
func (x *Exploration) Current() (*Situation, error) {
	return x.Situation(-1)
}

// Position returns the current decision.
func (x *Exploration) Position() (string, error) {
	cur, err := x.Current()
	if err != nil {
		return "", err
	}
	if cur.Position == "" {
		return "", ErrNoPosition
	}
	return cur.Position, nil
}

// Warnings returns every warning raised so far, oldest first.
func (x *Exploration) Warnings() []domain.Warning {
	return slices.Clone(x.warnings)
}

// TagStep sets a tag on the latest step.
func (x *Exploration) TagStep(tag string, value any) error {
	cur, err := x.Current()
	if err != nil {
		return err
	}
	cur.Tags[tag] = domain.CloneValue(value)
	return nil
}

// AnnotateStep appends annotations to the latest step.
func (x *Exploration) AnnotateStep(notes ...string) error {
	cur, err := x.Current()
	if err != nil {
		return err
	}
	cur.Annotations = append(cur.Annotations, notes...)
	return nil
}

// step is the bookkeeping of one traversal in progress.
type step struct {
	op       string
	draft    *Situation
	warnings []domain.Warning
}

// check records a warning when the requirement of (from, transition) is not
// met by the state before the step.
func (s *step) check(prev *Situation, from, transition string) error {
	t, err := s.draft.Graph.Transition(from, transition)
	if err != nil {
		return err
	}
	if domain.IsTrivial(t.Requirement) || s.draft.Graph.Satisfied(t.Requirement, prev.State) {
		return nil
	}
	s.warnings = append(s.warnings, domain.Warning{
		From:        from,
		Transition:  transition,
		Requirement: t.Requirement.String(),
	})
	return nil
}

// advance runs fn against a draft of the next step and commits it when fn
// succeeds.
func (x *Exploration) advance(ctx context.Context, op string, fn func(prev *Situation, s *step) error) error {
	prev, err := x.Current()
	if err != nil {
		return err
	}
	s := &step{op: op, draft: prev.next()}
	if err := fn(prev, s); err != nil {
		return err
	}
	x.commit(ctx, s)
	return nil
}

func (x *Exploration) commit(ctx context.Context, s *step) {
	x.steps = append(x.steps, s.draft)
	index := len(x.steps) - 1
	now := time.Now()

	for _, w := range s.warnings {
		w.Step = index
		x.warnings = append(x.warnings, w)
		x.logger.Warn("requirement not met",
			"from", w.From,
			"transition", w.Transition,
			"requirement", w.Requirement,
		)
		if x.hooks.OnWarning != nil {
			x.hooks.OnWarning(ctx, &domain.WarningEvent{
				EventBase: domain.EventBase{Timestamp: now, Type: domain.EventWarning},
				Warning:   w,
			})
		}
	}

	x.logger.Debug("step committed",
		"op", s.op,
		"step", index,
		"position", s.draft.Position,
	)
	if x.hooks.OnStep != nil {
		x.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase:  domain.EventBase{Timestamp: now, Type: domain.EventStep},
			Op:         s.op,
			Step:       index,
			Position:   s.draft.Position,
			Transition: s.draft.Transition,
		})
	}
}

func (x *Exploration) interpreter(target command.Target, extra ...command.Option) *command.Interpreter {
	opts := []command.Option{
		command.WithTarget(target),
		command.WithLogger(x.logger),
		command.WithStepLimit(x.stepLimit),
	}
	return command.New(append(opts, extra...)...)
}
