package exploration

import (
	"context"

	"github.com/aretw0/journey/pkg/command"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/graph"
)

// target resolves script calls: its own methods first, then those of the
// graph of the situation returned by sit.
type target struct {
	sit     func() (*Situation, error)
	methods command.Methods
}

func (t target) Method(name string) (command.Callable, bool) {
	if c, ok := t.methods[name]; ok {
		return c, true
	}
	s, err := t.sit()
	if err != nil {
		return command.Callable{}, false
	}
	return s.Graph.Method(name)
}

// draftTarget exposes a step under construction to edit effects.
func draftTarget(s *Situation) command.Target {
	get := func() (*Situation, error) { return s, nil }
	return target{sit: get, methods: situationMethods(get)}
}

// Target exposes the exploration to command scripts. Traversal calls append
// steps; graph and state calls act on the latest step in place.
func (x *Exploration) Target(ctx context.Context) command.Target {
	m := situationMethods(x.Current)
	add := func(c command.Callable) { m[c.Name] = c }

	add(command.Bind0("stepCount", func() (any, error) { return x.Len(), nil }))
	add(command.Bind("start", func(a struct {
		Decision string `mapstructure:"decision"`
	}) (any, error) {
		return nil, x.Start(ctx, a.Decision, StartOptions{})
	}))
	add(command.Bind("explore", func(a struct {
		Transition  string `mapstructure:"transition"`
		Destination string `mapstructure:"destination" cmd:"optional"`
		Reciprocal  string `mapstructure:"reciprocal" cmd:"optional"`
	}) (any, error) {
		var back []Connection
		if a.Reciprocal != "" {
			from, err := x.Position()
			if err != nil {
				return nil, err
			}
			back = append(back, Connection{Transition: a.Reciprocal, Destination: from})
		}
		return x.Explore(ctx, a.Transition, a.Destination, back...)
	}))
	add(command.Bind("returnTo", func(a struct {
		Transition  string `mapstructure:"transition"`
		Destination string `mapstructure:"destination"`
		Reciprocal  string `mapstructure:"reciprocal" cmd:"optional"`
	}) (any, error) {
		return nil, x.ReturnTo(ctx, a.Transition, a.Destination, a.Reciprocal)
	}))
	add(command.Bind("retrace", func(a struct {
		Transition string `mapstructure:"transition"`
	}) (any, error) {
		return nil, x.Retrace(ctx, a.Transition)
	}))
	add(command.Bind("takeAction", func(a struct {
		Action string `mapstructure:"action"`
	}) (any, error) {
		return nil, x.TakeAction(ctx, a.Action)
	}))
	add(command.Bind("warp", func(a struct {
		Destination string `mapstructure:"destination"`
		Zone        string `mapstructure:"zone" cmd:"optional"`
	}) (any, error) {
		return nil, x.Warp(ctx, a.Destination, a.Zone)
	}))
	add(command.Bind("observe", func(a struct {
		Transition string `mapstructure:"transition"`
		Reciprocal string `mapstructure:"reciprocal" cmd:"optional"`
	}) (any, error) {
		return x.Observe(ctx, a.Transition, graph.UnexploredOptions{Reciprocal: a.Reciprocal})
	}))
	add(command.Bind("tagStep", func(a struct {
		Tag   string `mapstructure:"tag"`
		Value any    `mapstructure:"value" cmd:"optional"`
	}) (any, error) {
		if a.Value == nil {
			a.Value = true
		}
		return nil, x.TagStep(a.Tag, a.Value)
	}))
	add(command.Bind("annotateStep", func(a struct {
		Note string `mapstructure:"note"`
	}) (any, error) {
		return nil, x.AnnotateStep(a.Note)
	}))
	return target{sit: x.Current, methods: m}
}

// Run executes a command block against the exploration with a fresh scope
// and returns the final scope. opts are applied after the exploration's own
// interpreter settings, e.g. command.WithOutput.
func (x *Exploration) Run(ctx context.Context, block command.Block, opts ...command.Option) (command.Scope, error) {
	scope := command.NewScope()
	err := x.interpreter(x.Target(ctx), opts...).Run(ctx, block, scope)
	return scope, err
}

type powerArgs struct {
	Power string `mapstructure:"power"`
}

type tokenArgs struct {
	Token string `mapstructure:"token"`
	Count int    `mapstructure:"count" cmd:"optional"`
}

// situationMethods reads and changes the position and state of one step.
func situationMethods(sit func() (*Situation, error)) command.Methods {
	m := command.Methods{}
	add := func(c command.Callable) { m[c.Name] = c }

	add(command.Bind0("position", func() (any, error) {
		s, err := sit()
		if err != nil {
			return nil, err
		}
		if s.Position == "" {
			return nil, nil
		}
		return s.Position, nil
	}))
	add(command.Bind("hasPower", func(a powerArgs) (any, error) {
		s, err := sit()
		if err != nil {
			return nil, err
		}
		return s.Graph.Satisfied(domain.ReqPower{Name: a.Power}, s.State), nil
	}))
	add(command.Bind("gainPower", func(a powerArgs) (any, error) {
		s, err := sit()
		if err != nil {
			return nil, err
		}
		s.State.GainPower(a.Power)
		return nil, nil
	}))
	add(command.Bind("losePower", func(a powerArgs) (any, error) {
		s, err := sit()
		if err != nil {
			return nil, err
		}
		s.State.LosePower(a.Power)
		return nil, nil
	}))
	add(command.Bind("tokenCount", func(a tokenArgs) (any, error) {
		s, err := sit()
		if err != nil {
			return nil, err
		}
		return s.State.TokenCount(a.Token), nil
	}))
	add(command.Bind("adjustTokens", func(a tokenArgs) (any, error) {
		s, err := sit()
		if err != nil {
			return nil, err
		}
		s.State.AdjustTokens(a.Token, a.Count)
		return s.State.TokenCount(a.Token), nil
	}))
	return m
}
