package graph

import (
	"github.com/aretw0/journey/pkg/command"
	"github.com/aretw0/journey/pkg/domain"
)

type decisionArgs struct {
	Decision string `mapstructure:"decision"`
}

type transitionArgs struct {
	From       string `mapstructure:"from"`
	Transition string `mapstructure:"transition"`
}

type zoneArgs struct {
	Zone string `mapstructure:"zone"`
}

// Method exposes graph operations to command scripts. Arguments are read from
// scope variables named after the parameters: decision, from, transition,
// destination, reciprocal, zone, level, tag, value, requires and so on.
func (g *DecisionGraph) Method(name string) (command.Callable, bool) {
	c, ok := g.methods()[name]
	return c, ok
}

// QueryMethods returns only the read-only methods.
func (g *DecisionGraph) QueryMethods() command.Methods {
	all := g.methods()
	out := command.Methods{}
	for _, name := range queryMethodNames {
		out[name] = all[name]
	}
	return out
}

var queryMethodNames = []string{
	"decisions", "hasDecision", "isUnknown", "transitions", "getDestination",
	"getReciprocal", "zonesOf", "zoneAncestors", "allDecisionsInZone",
	"unexploredTransitions", "decisionTags",
}

func (g *DecisionGraph) methods() command.Methods {
	m := command.Methods{}
	add := func(c command.Callable) { m[c.Name] = c }

	add(command.Bind0("decisions", func() (any, error) { return g.Decisions(), nil }))
	add(command.Bind("hasDecision", func(a decisionArgs) (any, error) {
		return g.HasDecision(a.Decision), nil
	}))
	add(command.Bind("isUnknown", func(a decisionArgs) (any, error) {
		return g.IsUnknown(a.Decision), nil
	}))
	add(command.Bind("transitions", func(a decisionArgs) (any, error) {
		if !g.HasDecision(a.Decision) {
			return nil, &MissingDecisionError{Decision: a.Decision}
		}
		return g.Transitions(a.Decision), nil
	}))
	add(command.Bind("unexploredTransitions", func(a decisionArgs) (any, error) {
		return g.UnexploredTransitions(a.Decision), nil
	}))
	add(command.Bind("decisionTags", func(a decisionArgs) (any, error) {
		d, err := g.Decision(a.Decision)
		if err != nil {
			return nil, err
		}
		return map[string]any(d.Tags), nil
	}))
	add(command.Bind("getDestination", func(a transitionArgs) (any, error) {
		return g.Destination(a.From, a.Transition)
	}))
	add(command.Bind("getReciprocal", func(a transitionArgs) (any, error) {
		r, err := g.Reciprocal(a.From, a.Transition)
		if r == "" {
			return nil, err
		}
		return r, err
	}))
	add(command.Bind("zonesOf", func(a decisionArgs) (any, error) {
		return g.ZonesOf(a.Decision), nil
	}))
	add(command.Bind("zoneAncestors", func(a zoneArgs) (any, error) {
		return g.ZoneAncestors(a.Zone, nil)
	}))
	add(command.Bind("allDecisionsInZone", func(a zoneArgs) (any, error) {
		return g.AllDecisionsInZone(a.Zone)
	}))

	add(command.Bind("addDecision", func(a struct {
		Decision string         `mapstructure:"decision"`
		Tags     map[string]any `mapstructure:"tags" cmd:"optional"`
	}) (any, error) {
		return nil, g.AddDecision(a.Decision, domain.Tags(a.Tags), nil)
	}))
	add(command.Bind("removeDecision", func(a decisionArgs) (any, error) {
		return nil, g.RemoveDecision(a.Decision)
	}))
	add(command.Bind("tagDecision", func(a struct {
		Decision string `mapstructure:"decision"`
		Tag      string `mapstructure:"tag"`
		Value    any    `mapstructure:"value" cmd:"optional"`
	}) (any, error) {
		value := a.Value
		if value == nil {
			value = true
		}
		return nil, g.TagDecision(a.Decision, a.Tag, value)
	}))
	add(command.Bind("untagDecision", func(a struct {
		Decision string `mapstructure:"decision"`
		Tag      string `mapstructure:"tag"`
	}) (any, error) {
		return g.UntagDecision(a.Decision, a.Tag)
	}))
	add(command.Bind("annotateDecision", func(a struct {
		Decision string `mapstructure:"decision"`
		Note     string `mapstructure:"note"`
	}) (any, error) {
		return nil, g.AnnotateDecision(a.Decision, a.Note)
	}))
	add(command.Bind("addTransition", func(a struct {
		From        string `mapstructure:"from"`
		Transition  string `mapstructure:"transition"`
		Destination string `mapstructure:"destination"`
		Reciprocal  string `mapstructure:"reciprocal" cmd:"optional"`
		Requires    string `mapstructure:"requires" cmd:"optional"`
	}) (any, error) {
		var spec TransitionSpec
		if a.Requires != "" {
			req, err := domain.ParseRequirement(a.Requires)
			if err != nil {
				return nil, err
			}
			spec.Requirement = req
		}
		if a.Reciprocal != "" {
			return nil, g.AddTransitionWithReciprocal(a.From, a.Transition, a.Destination, a.Reciprocal, spec, TransitionSpec{})
		}
		return nil, g.AddTransition(a.From, a.Transition, a.Destination, spec)
	}))
	add(command.Bind("addAction", func(a struct {
		Decision string `mapstructure:"decision"`
		Action   string `mapstructure:"action"`
	}) (any, error) {
		return nil, g.AddAction(a.Decision, a.Action, TransitionSpec{})
	}))
	add(command.Bind("addUnexploredEdge", func(a struct {
		From       string `mapstructure:"from"`
		Transition string `mapstructure:"transition"`
		Reciprocal string `mapstructure:"reciprocal" cmd:"optional"`
	}) (any, error) {
		return g.AddUnexploredEdge(a.From, a.Transition, UnexploredOptions{Reciprocal: a.Reciprocal})
	}))
	add(command.Bind("removeTransition", func(a transitionArgs) (any, error) {
		return nil, g.RemoveTransition(a.From, a.Transition, false)
	}))
	add(command.Bind("setReciprocal", func(a struct {
		From       string `mapstructure:"from"`
		Transition string `mapstructure:"transition"`
		Reciprocal string `mapstructure:"reciprocal"`
	}) (any, error) {
		return nil, g.SetReciprocal(a.From, a.Transition, a.Reciprocal)
	}))
	add(command.Bind("setRequirement", func(a struct {
		From       string `mapstructure:"from"`
		Transition string `mapstructure:"transition"`
		Requires   string `mapstructure:"requires"`
	}) (any, error) {
		req, err := domain.ParseRequirement(a.Requires)
		if err != nil {
			return nil, err
		}
		return nil, g.SetRequirement(a.From, a.Transition, req)
	}))
	add(command.Bind("renameTransition", func(a struct {
		From       string `mapstructure:"from"`
		Transition string `mapstructure:"transition"`
		NewName    string `mapstructure:"newName"`
	}) (any, error) {
		return nil, g.RenameTransition(a.From, a.Transition, a.NewName)
	}))
	add(command.Bind("retargetTransition", func(a struct {
		From        string `mapstructure:"from"`
		Transition  string `mapstructure:"transition"`
		Destination string `mapstructure:"destination"`
	}) (any, error) {
		return g.RetargetTransition(a.From, a.Transition, a.Destination, true, false)
	}))
	add(command.Bind("rebaseTransition", func(a struct {
		From       string `mapstructure:"from"`
		Transition string `mapstructure:"transition"`
		Base       string `mapstructure:"base"`
	}) (any, error) {
		return g.RebaseTransition(a.From, a.Transition, a.Base, true, false)
	}))
	add(command.Bind("mergeDecisions", func(a struct {
		Merge string `mapstructure:"merge"`
		Into  string `mapstructure:"into"`
	}) (any, error) {
		return g.MergeDecisions(a.Merge, a.Into, false)
	}))
	add(command.Bind("mergeTransitions", func(a struct {
		From  string `mapstructure:"from"`
		Merge string `mapstructure:"merge"`
		Into  string `mapstructure:"into"`
	}) (any, error) {
		return nil, g.MergeTransitions(a.From, a.Merge, a.Into, true)
	}))
	add(command.Bind("createZone", func(a struct {
		Zone  string `mapstructure:"zone"`
		Level int    `mapstructure:"level" cmd:"optional"`
	}) (any, error) {
		return nil, g.CreateZone(a.Zone, a.Level)
	}))
	add(command.Bind("deleteZone", func(a zoneArgs) (any, error) {
		return nil, g.DeleteZone(a.Zone)
	}))
	add(command.Bind("addDecisionToZone", func(a struct {
		Decision string `mapstructure:"decision"`
		Zone     string `mapstructure:"zone"`
	}) (any, error) {
		return nil, g.AddDecisionToZone(a.Decision, a.Zone)
	}))
	add(command.Bind("removeDecisionFromZone", func(a struct {
		Decision string `mapstructure:"decision"`
		Zone     string `mapstructure:"zone"`
	}) (any, error) {
		return g.RemoveDecisionFromZone(a.Decision, a.Zone)
	}))
	add(command.Bind("addZoneToZone", func(a struct {
		Zone   string `mapstructure:"zone"`
		Parent string `mapstructure:"parent"`
	}) (any, error) {
		return nil, g.AddZoneToZone(a.Zone, a.Parent)
	}))
	add(command.Bind("addEquivalence", func(a struct {
		Power    string `mapstructure:"power"`
		Requires string `mapstructure:"requires"`
	}) (any, error) {
		req, err := domain.ParseRequirement(a.Requires)
		if err != nil {
			return nil, err
		}
		g.AddEquivalence(a.Power, req)
		return nil, nil
	}))
	return m
}
