package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
)

// DefaultStepLimit bounds how many commands one Run may execute.
const DefaultStepLimit = 100000

// Interpreter executes command blocks.
type Interpreter struct {
	target    Target
	out       io.Writer
	logger    *slog.Logger
	stepLimit int
	builtins  Methods
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithTarget exposes the methods of t to call.
func WithTarget(t Target) Option {
	return func(in *Interpreter) {
		in.target = t
	}
}

// WithOutput sets where print writes. Without it print output is logged.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

// WithLogger sets the interpreter logger.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = l
	}
}

// WithStepLimit changes the maximum number of executed commands per Run.
// Zero or negative means DefaultStepLimit.
func WithStepLimit(n int) Option {
	return func(in *Interpreter) {
		in.stepLimit = n
	}
}

// New creates an interpreter.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.stepLimit <= 0 {
		in.stepLimit = DefaultStepLimit
	}
	in.builtins = in.makeBuiltins()
	return in
}

// Run executes block against scope, which is modified in place. A failing
// command stops execution and is reported as a *CommandError.
func (in *Interpreter) Run(ctx context.Context, block Block, scope Scope) error {
	if scope == nil {
		return fmt.Errorf("nil scope")
	}
	pc, steps := 0, 0
	for pc < len(block) {
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd, line := at(block, pc)
		steps++
		if steps > in.stepLimit {
			return &CommandError{Command: cmd, Line: line, Err: ErrStepLimit}
		}
		next, err := in.exec(block, pc, scope)
		if err != nil {
			in.logger.Debug("command failed", "line", line, "command", cmd.String(), "error", err)
			return &CommandError{Command: cmd, Line: line, Err: err}
		}
		pc = next
	}
	return nil
}

// Execute runs block in a fresh scope and returns that scope.
func (in *Interpreter) Execute(ctx context.Context, block Block) (Scope, error) {
	scope := NewScope()
	err := in.Run(ctx, block, scope)
	return scope, err
}

func (in *Interpreter) exec(block Block, pc int, scope Scope) (int, error) {
	next := pc + 1
	cmd, _ := at(block, pc)
	switch c := cmd.(type) {
	case Literal:
		scope.Push(c.Value)

	case EmptyCollection:
		switch c.Kind {
		case KindList:
			scope.Push([]any{})
		case KindTuple:
			scope.Push(Tuple{})
		case KindSet:
			scope.Push(Set{})
		case KindDict:
			scope.Push(map[any]any{})
		default:
			return 0, fmt.Errorf("unknown collection kind %q", c.Kind)
		}

	case Append:
		v, err := resolve(c.Value, scope)
		if err != nil {
			return 0, err
		}
		coll, err := appendValue(scope.Current(), v)
		if err != nil {
			return 0, err
		}
		scope[Current] = coll

	case SetItem:
		loc, err := resolve(c.Location, scope)
		if err != nil {
			return 0, err
		}
		v, err := resolve(c.Value, scope)
		if err != nil {
			return 0, err
		}
		coll, err := setItem(scope.Current(), loc, v)
		if err != nil {
			return 0, err
		}
		scope[Current] = coll

	case Pop:
		list, ok := scope.Current().([]any)
		if !ok {
			return 0, fmt.Errorf("pop needs a list, got %s", TypeName(scope.Current()))
		}
		if len(list) == 0 {
			return 0, fmt.Errorf("pop from empty list")
		}
		item := list[len(list)-1]
		scope[Current] = slices.Clip(list[:len(list)-1])
		scope.Push(item)

	case GetItem:
		loc, err := resolve(c.Location, scope)
		if err != nil {
			return 0, err
		}
		v, err := getItem(scope.Current(), loc)
		if err != nil {
			return 0, err
		}
		scope.Push(v)

	case RemoveItem:
		loc, err := resolve(c.Location, scope)
		if err != nil {
			return 0, err
		}
		coll, err := removeItem(scope.Current(), loc)
		if err != nil {
			return 0, err
		}
		scope[Current] = coll

	case BinaryOp:
		l, err := resolve(c.Left, scope)
		if err != nil {
			return 0, err
		}
		r, err := resolve(c.Right, scope)
		if err != nil {
			return 0, err
		}
		v, err := Binary(c.Op, l, r)
		if err != nil {
			return 0, err
		}
		scope.Push(v)

	case UnaryOp:
		x, err := resolve(c.Value, scope)
		if err != nil {
			return 0, err
		}
		v, err := Unary(c.Op, x)
		if err != nil {
			return 0, err
		}
		scope.Push(v)

	case Assign:
		v, err := resolve(c.Value, scope)
		if err != nil {
			return 0, err
		}
		scope[c.Name] = v

	case Delete:
		if _, ok := scope[c.Name]; !ok {
			return 0, fmt.Errorf("undefined variable $%s", c.Name)
		}
		delete(scope, c.Name)

	case Load:
		v, err := resolve(Ref(c.Name), scope)
		if err != nil {
			return 0, err
		}
		scope.Push(v)

	case Call:
		fn, err := in.lookup(c.Function, scope)
		if err != nil {
			return 0, err
		}
		args, err := gather(fn, scope)
		if err != nil {
			return 0, err
		}
		result, err := fn.Fn(args)
		if err != nil {
			return 0, err
		}
		scope.Push(Normalize(result))

	case Skip:
		cond, err := resolve(c.Condition, scope)
		if err != nil {
			return 0, err
		}
		if !Truthy(cond) {
			break
		}
		target, err := resolve(c.Target, scope)
		if err != nil {
			return 0, err
		}
		switch t := target.(type) {
		case int:
			next = pc + 1 + t
			if next < 0 || next > len(block) {
				return 0, fmt.Errorf("skip %d leaves the block", t)
			}
		case string:
			idx := findLabel(block, pc, t)
			if idx < 0 {
				return 0, fmt.Errorf("unknown label %q", t)
			}
			next = idx + 1
		default:
			return 0, fmt.Errorf("skip target must be an int or a label, got %s", TypeName(target))
		}

	case Label:
		// no-op

	default:
		return 0, fmt.Errorf("unknown command %T", c)
	}
	return next, nil
}

// lookup resolves a function name: builtins first, then callables stored in
// the scope, then target methods.
func (in *Interpreter) lookup(name string, scope Scope) (Callable, error) {
	if c, ok := in.builtins[name]; ok {
		return c, nil
	}
	if v, ok := scope[name]; ok {
		if c, isCallable := v.(Callable); isCallable {
			return c, nil
		}
	}
	if in.target != nil {
		if c, ok := in.target.Method(name); ok {
			return c, nil
		}
	}
	return Callable{}, fmt.Errorf("unknown function %q", name)
}

// findLabel returns the index of the nearest label with the given name at or
// before pc, else the nearest one after it.
func findLabel(block Block, pc int, name string) int {
	for i := pc; i >= 0; i-- {
		if isLabel(block, i, name) {
			return i
		}
	}
	for i := pc + 1; i < len(block); i++ {
		if isLabel(block, i, name) {
			return i
		}
	}
	return -1
}

func isLabel(block Block, i int, name string) bool {
	cmd, _ := at(block, i)
	l, ok := cmd.(Label)
	return ok && l.Name == name
}

// at returns the command at pc with any source wrapper removed, and the line
// to report for it: the source line when known, else the 1-based position.
func at(block Block, pc int) (Command, int) {
	if s, ok := block[pc].(Sourced); ok {
		return s.Command, s.Line
	}
	return block[pc], pc + 1
}

func resolve(op Operand, scope Scope) (any, error) {
	ref, ok := op.(Ref)
	if !ok {
		return op, nil
	}
	v, ok := scope[string(ref)]
	if !ok {
		return nil, fmt.Errorf("undefined variable $%s", ref)
	}
	return v, nil
}

func index(loc any, n int) (int, error) {
	i, ok := loc.(int)
	if !ok {
		return 0, fmt.Errorf("index must be an int, got %s", TypeName(loc))
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %d out of range", loc)
	}
	return i, nil
}

// Collections are values: the mutating helpers below never write into the
// collection they are given, so variables holding the same collection stay
// independent.

func appendValue(coll, v any) (any, error) {
	switch c := coll.(type) {
	case []any:
		return append(slices.Clip(c), v), nil
	case Tuple:
		return append(slices.Clip(c), v), nil
	case Set:
		if !Hashable(v) {
			return nil, fmt.Errorf("unhashable set element %s", TypeName(v))
		}
		out := maps.Clone(c)
		if out == nil {
			out = Set{}
		}
		out[v] = struct{}{}
		return out, nil
	}
	return nil, fmt.Errorf("cannot append to %s", TypeName(coll))
}

func setItem(coll, loc, v any) (any, error) {
	switch c := coll.(type) {
	case []any:
		i, err := index(loc, len(c))
		if err != nil {
			return nil, err
		}
		out := slices.Clone(c)
		out[i] = v
		return out, nil
	case map[any]any:
		if !Hashable(loc) {
			return nil, fmt.Errorf("unhashable dict key %s", TypeName(loc))
		}
		out := maps.Clone(c)
		if out == nil {
			out = map[any]any{}
		}
		out[loc] = v
		return out, nil
	}
	return nil, fmt.Errorf("cannot set items of %s", TypeName(coll))
}

func getItem(coll, loc any) (any, error) {
	switch c := coll.(type) {
	case []any:
		i, err := index(loc, len(c))
		if err != nil {
			return nil, err
		}
		return c[i], nil
	case Tuple:
		i, err := index(loc, len(c))
		if err != nil {
			return nil, err
		}
		return c[i], nil
	case string:
		runes := []rune(c)
		i, err := index(loc, len(runes))
		if err != nil {
			return nil, err
		}
		return string(runes[i]), nil
	case map[any]any:
		if !Hashable(loc) {
			return nil, fmt.Errorf("unhashable dict key %s", TypeName(loc))
		}
		v, ok := c[loc]
		if !ok {
			return nil, fmt.Errorf("key %s not found", Display(loc))
		}
		return v, nil
	}
	return nil, fmt.Errorf("cannot get items of %s", TypeName(coll))
}

func removeItem(coll, loc any) (any, error) {
	switch c := coll.(type) {
	case []any:
		i, err := index(loc, len(c))
		if err != nil {
			return nil, err
		}
		return slices.Delete(slices.Clone(c), i, i+1), nil
	case map[any]any:
		if !Hashable(loc) {
			return nil, fmt.Errorf("unhashable dict key %s", TypeName(loc))
		}
		if _, ok := c[loc]; !ok {
			return nil, fmt.Errorf("key %s not found", Display(loc))
		}
		out := maps.Clone(c)
		delete(out, loc)
		return out, nil
	case Set:
		if !Hashable(loc) {
			return nil, fmt.Errorf("unhashable set element %s", TypeName(loc))
		}
		if _, ok := c[loc]; !ok {
			return nil, fmt.Errorf("%s not in set", Display(loc))
		}
		out := maps.Clone(c)
		delete(out, loc)
		return out, nil
	}
	return nil, fmt.Errorf("cannot remove items from %s", TypeName(coll))
}
