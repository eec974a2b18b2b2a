package codec

import (
	"fmt"

	"github.com/aretw0/journey/pkg/command"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/graph"
)

type graphDoc struct {
	Kind         string              `json:"^"`
	Nodes        []nodeDoc           `json:"nodes"`
	Links        []linkDoc           `json:"links"`
	Zones        []zoneDoc           `json:"zones,omitempty"`
	UnknownCount int                 `json:"unknownCount"`
	Equivalences map[string][]string `json:"equivalences,omitempty"`
}

type nodeDoc struct {
	Name        string   `json:"name"`
	Tags        any      `json:"tags,omitempty"`
	Annotations []string `json:"annotations,omitempty"`
}

type linkDoc struct {
	Source      string      `json:"source"`
	Key         string      `json:"key"`
	Target      string      `json:"target"`
	Requires    string      `json:"requires,omitempty"`
	Effects     []effectDoc `json:"effects,omitempty"`
	Tags        any         `json:"tags,omitempty"`
	Annotations []string    `json:"annotations,omitempty"`
	Reciprocal  string      `json:"reciprocal,omitempty"`
}

type effectDoc struct {
	Type    domain.EffectType `json:"type"`
	Value   any               `json:"value"`
	Charges *int              `json:"charges,omitempty"`
	Delay   *int              `json:"delay,omitempty"`
}

type zoneDoc struct {
	Name      string   `json:"name"`
	Level     int      `json:"level"`
	Parents   []string `json:"parents,omitempty"`
	Decisions []string `json:"decisions,omitempty"`
}

func encodeGraph(g *graph.DecisionGraph) (graphDoc, error) {
	doc := graphDoc{
		Kind:         kindGraph,
		Nodes:        []nodeDoc{},
		Links:        []linkDoc{},
		UnknownCount: g.UnknownCount(),
	}
	for _, name := range g.Decisions() {
		d, err := g.Decision(name)
		if err != nil {
			return doc, err
		}
		tags, err := encodeTags(d.Tags)
		if err != nil {
			return doc, fmt.Errorf("decision %q: %w", name, err)
		}
		doc.Nodes = append(doc.Nodes, nodeDoc{Name: name, Tags: tags, Annotations: d.Annotations})
	}
	for _, t := range g.AllTransitions() {
		link := linkDoc{
			Source:      t.From,
			Key:         t.Name,
			Target:      t.To,
			Annotations: t.Annotations,
			Reciprocal:  t.Reciprocal,
		}
		if t.Requirement != nil {
			link.Requires = t.Requirement.String()
		}
		tags, err := encodeTags(t.Tags)
		if err != nil {
			return doc, fmt.Errorf("transition %s/%s: %w", t.From, t.Name, err)
		}
		link.Tags = tags
		for _, e := range t.Effects {
			ed, err := encodeEffect(e)
			if err != nil {
				return doc, fmt.Errorf("transition %s/%s: %w", t.From, t.Name, err)
			}
			link.Effects = append(link.Effects, ed)
		}
		doc.Links = append(doc.Links, link)
	}
	for _, name := range g.Zones() {
		z, err := g.Zone(name)
		if err != nil {
			return doc, err
		}
		doc.Zones = append(doc.Zones, zoneDoc{
			Name:      name,
			Level:     z.Level,
			Parents:   z.Parents,
			Decisions: z.Decisions,
		})
	}
	for power, reqs := range g.Equivalences() {
		if doc.Equivalences == nil {
			doc.Equivalences = make(map[string][]string)
		}
		for _, r := range reqs {
			doc.Equivalences[power] = append(doc.Equivalences[power], r.String())
		}
	}
	return doc, nil
}

func encodeTags(tags domain.Tags) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	return encodeValue(map[string]any(tags))
}

func encodeEffect(e domain.Effect) (effectDoc, error) {
	doc := effectDoc{Type: e.Type, Charges: e.Charges, Delay: e.Delay}
	switch v := e.Value.(type) {
	case nil:
	case domain.Power:
		doc.Value = string(v)
	case domain.TokenCount:
		doc.Value = map[string]any{Discriminator: kindTuple, "values": []any{v.Type, v.Count}}
	case domain.PowerList:
		doc.Value = []string(v)
	case domain.EditBlocks:
		blocks := make([]string, len(v))
		for i, b := range v {
			blocks[i] = b.String()
		}
		doc.Value = blocks
	default:
		return doc, fmt.Errorf("cannot encode %s effect value %T", e.Type, e.Value)
	}
	return doc, nil
}

func decodeGraph(doc graphDoc) (*graph.DecisionGraph, error) {
	g := graph.New()
	for _, n := range doc.Nodes {
		tags, err := decodeTags(n.Tags)
		if err != nil {
			return nil, fmt.Errorf("decision %q: %w", n.Name, err)
		}
		if err := g.AddDecision(n.Name, tags, n.Annotations); err != nil {
			return nil, err
		}
	}
	for _, l := range doc.Links {
		spec := graph.TransitionSpec{Annotations: l.Annotations}
		if l.Requires != "" {
			req, err := domain.ParseRequirement(l.Requires)
			if err != nil {
				return nil, fmt.Errorf("transition %s/%s: %w", l.Source, l.Key, err)
			}
			spec.Requirement = req
		}
		tags, err := decodeTags(l.Tags)
		if err != nil {
			return nil, fmt.Errorf("transition %s/%s: %w", l.Source, l.Key, err)
		}
		spec.Tags = tags
		for _, ed := range l.Effects {
			e, err := decodeEffect(ed)
			if err != nil {
				return nil, fmt.Errorf("transition %s/%s: %w", l.Source, l.Key, err)
			}
			spec.Effects = append(spec.Effects, e)
		}
		if err := g.AddTransition(l.Source, l.Key, l.Target, spec); err != nil {
			return nil, err
		}
	}
	// Pointers are restored exactly as recorded, after every transition
	// exists.
	for _, l := range doc.Links {
		if l.Reciprocal == "" {
			continue
		}
		if err := g.SetReciprocal(l.Source, l.Key, l.Reciprocal, graph.OneWay(), graph.NoCleanup()); err != nil {
			return nil, err
		}
	}
	for _, z := range doc.Zones {
		if err := g.CreateZone(z.Name, z.Level); err != nil {
			return nil, err
		}
	}
	for _, z := range doc.Zones {
		for _, p := range z.Parents {
			if err := g.AddZoneToZone(z.Name, p); err != nil {
				return nil, err
			}
		}
		for _, d := range z.Decisions {
			if err := g.AddDecisionToZone(d, z.Name); err != nil {
				return nil, err
			}
		}
	}
	for power, reqs := range doc.Equivalences {
		for _, text := range reqs {
			req, err := domain.ParseRequirement(text)
			if err != nil {
				return nil, fmt.Errorf("equivalence for %q: %w", power, err)
			}
			g.AddEquivalence(power, req)
		}
	}
	g.SetUnknownCount(doc.UnknownCount)
	return g, nil
}

func decodeTags(raw any) (domain.Tags, error) {
	if raw == nil {
		return domain.Tags{}, nil
	}
	v, err := decodeValue(raw)
	if err != nil {
		return nil, err
	}
	switch m := v.(type) {
	case map[string]any:
		return domain.Tags(m), nil
	case map[any]any:
		tags := make(domain.Tags, len(m))
		for k, e := range m {
			tags[fmt.Sprint(k)] = e
		}
		return tags, nil
	}
	return nil, fmt.Errorf("tags must be an object, got %T", v)
}

func decodeEffect(doc effectDoc) (domain.Effect, error) {
	e := domain.Effect{Type: doc.Type, Charges: doc.Charges, Delay: doc.Delay}
	raw, err := decodeValue(doc.Value)
	if err != nil {
		return e, err
	}
	switch v := raw.(type) {
	case nil:
	case string:
		e.Value = domain.Power(v)
	case command.Tuple:
		if len(v) != 2 {
			return e, fmt.Errorf("token effect value must be a (type, count) pair")
		}
		name, ok1 := v[0].(string)
		count, ok2 := v[1].(int)
		if !ok1 || !ok2 {
			return e, fmt.Errorf("token effect value must be a (type, count) pair")
		}
		e.Value = domain.TokenCount{Type: name, Count: count}
	case []any:
		if doc.Type == domain.EffectEdit {
			blocks := make(domain.EditBlocks, len(v))
			for i, item := range v {
				text, ok := item.(string)
				if !ok {
					return e, fmt.Errorf("edit block %d must be text", i)
				}
				block, err := command.Parse(text)
				if err != nil {
					return e, fmt.Errorf("edit block %d: %w", i, err)
				}
				blocks[i] = block
			}
			e.Value = blocks
		} else {
			powers := make(domain.PowerList, len(v))
			for i, item := range v {
				p, ok := item.(string)
				if !ok {
					return e, fmt.Errorf("toggle power %d must be text", i)
				}
				powers[i] = p
			}
			e.Value = powers
		}
	default:
		return e, fmt.Errorf("unsupported %s effect value %T", doc.Type, raw)
	}
	return e, e.Validate()
}
