package journey

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/command"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/ports"
	"github.com/aretw0/journey/pkg/session"
)

// Engine is the high-level entry point for the library. It owns the session
// manager and runs command scripts against stored explorations.
type Engine struct {
	sessions  *session.Manager
	store     ports.ExplorationStore
	locker    ports.DistributedLocker
	lockTTL   time.Duration
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	stepLimit int
	maxScript int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets where explorations are kept (default: in memory).
func WithStore(store ports.ExplorationStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker serialises session access across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiry.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Join(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStepLimit bounds the number of commands one script may execute.
func WithStepLimit(n int) Option {
	return func(e *Engine) {
		e.stepLimit = n
	}
}

// WithMaxScriptSize bounds the size in bytes of scripts given to Exec; 0
// or less removes the bound.
func WithMaxScriptSize(n int) Option {
	return func(e *Engine) {
		e.maxScript = n
	}
}

// New initializes an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{maxScript: command.DefaultMaxScriptSize}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}

	xopts := []exploration.Option{
		exploration.WithLogger(e.logger),
		exploration.WithLifecycleHooks(e.hooks),
	}
	if e.stepLimit > 0 {
		xopts = append(xopts, exploration.WithStepLimit(e.stepLimit))
	}
	mopts := []session.Option{
		session.WithLogger(e.logger),
		session.WithExplorationOptions(xopts...),
	}
	if e.locker != nil {
		mopts = append(mopts, session.WithLocker(e.locker))
	}
	if e.lockTTL > 0 {
		mopts = append(mopts, session.WithLockTTL(e.lockTTL))
	}
	e.sessions = session.NewManager(e.store, mopts...)
	return e
}

// Sessions returns the session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Start creates a session and, unless decision is empty, starts its
// exploration there. An empty sessionID is replaced by a fresh UUID. It
// fails with domain.ErrSessionExists when the ID is taken.
func (e *Engine) Start(ctx context.Context, sessionID, decision string, opts exploration.StartOptions) (string, *exploration.Exploration, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	var events eventBuffer
	x, err := e.sessions.Create(ctx, sessionID, func(ctx context.Context, x *exploration.Exploration) error {
		if decision == "" {
			return nil
		}
		x.Apply(exploration.WithLifecycleHooks(events.hooks(e.hooks)))
		return x.Start(ctx, decision, opts)
	})
	if err != nil {
		return "", nil, err
	}
	x.Apply(exploration.WithLifecycleHooks(e.hooks))
	events.flush(ctx)
	e.logger.Info("Session started", "session_id", sessionID, "decision", decision)
	return sessionID, x, nil
}

// Result describes one executed script.
type Result struct {
	// Value is $_ once the script finished.
	Value any
	// Scope holds every variable the script left behind.
	Scope command.Scope
	// Output collects what the script printed.
	Output string
	// Steps is the exploration length afterwards.
	Steps int
	// Position is the current decision afterwards, empty before the first
	// step.
	Position string
}

// Exec parses script and runs it against the session. The session is saved
// only when the whole script succeeds.
func (e *Engine) Exec(ctx context.Context, sessionID, script string) (*Result, error) {
	script, err := command.Sanitize(script, e.maxScript)
	if err != nil {
		e.emitCommand(ctx, sessionID, 0, err)
		return nil, err
	}
	block, err := command.Parse(script)
	if err != nil {
		e.emitCommand(ctx, sessionID, 0, err)
		return nil, err
	}
	return e.Run(ctx, sessionID, block)
}

// Run executes a parsed block against the session. Step and warning hooks
// fire only once the session has been saved.
func (e *Engine) Run(ctx context.Context, sessionID string, block command.Block) (*Result, error) {
	var out bytes.Buffer
	var scope command.Scope
	var events eventBuffer
	x, err := e.sessions.Update(ctx, sessionID, func(ctx context.Context, x *exploration.Exploration) error {
		x.Apply(exploration.WithLifecycleHooks(events.hooks(e.hooks)))
		var err error
		scope, err = x.Run(ctx, block, command.WithOutput(&out))
		return err
	})
	if err == nil {
		x.Apply(exploration.WithLifecycleHooks(e.hooks))
		events.flush(ctx)
	}
	e.emitCommand(ctx, sessionID, len(block), err)
	if err != nil {
		e.logger.Debug("Script failed", "session_id", sessionID, "err", err, "dropped_events", events.len())
		return nil, err
	}

	res := &Result{
		Value:  scope.Current(),
		Scope:  scope,
		Output: out.String(),
		Steps:  x.Len(),
	}
	if x.Len() > 0 {
		res.Position, _ = x.Position()
	}
	return res, nil
}

func (e *Engine) emitCommand(ctx context.Context, sessionID string, n int, err error) {
	if e.hooks.OnCommand == nil {
		return
	}
	e.hooks.OnCommand(ctx, &domain.CommandEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCommand},
		Session:   sessionID,
		Commands:  n,
		Err:       err,
	})
}

// eventBuffer holds step and warning events raised while a session is
// being changed, so that they can be delivered after it is saved.
type eventBuffer struct {
	pending []func(context.Context)
}

func (b *eventBuffer) hooks(h domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	if h.OnStep != nil {
		out.OnStep = func(_ context.Context, ev *domain.StepEvent) {
			b.pending = append(b.pending, func(ctx context.Context) { h.OnStep(ctx, ev) })
		}
	}
	if h.OnWarning != nil {
		out.OnWarning = func(_ context.Context, ev *domain.WarningEvent) {
			b.pending = append(b.pending, func(ctx context.Context) { h.OnWarning(ctx, ev) })
		}
	}
	return out
}

func (b *eventBuffer) flush(ctx context.Context) {
	for _, emit := range b.pending {
		emit(ctx)
	}
	b.pending = nil
}

func (b *eventBuffer) len() int {
	return len(b.pending)
}

// Snapshot loads the session's exploration.
func (e *Engine) Snapshot(ctx context.Context, sessionID string) (*exploration.Exploration, error) {
	return e.sessions.Load(ctx, sessionID)
}

// Delete removes a session.
func (e *Engine) Delete(ctx context.Context, sessionID string) error {
	return e.sessions.Delete(ctx, sessionID)
}

// List returns the stored session IDs.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}
