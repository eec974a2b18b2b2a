package graph

import (
	"fmt"
	"maps"
	"slices"
)

type zoneData struct {
	level     int
	parents   map[string]bool
	children  map[string]bool
	decisions map[string]bool
}

func (z *zoneData) clone() *zoneData {
	return &zoneData{
		level:     z.level,
		parents:   maps.Clone(z.parents),
		children:  maps.Clone(z.children),
		decisions: maps.Clone(z.decisions),
	}
}

// Zone is a read-only view of a zone.
type Zone struct {
	Name  string
	Level int
	// Parents, Children and Decisions are sorted direct relations.
	Parents   []string
	Children  []string
	Decisions []string
}

// EdgeRef identifies a transition.
type EdgeRef struct {
	From string
	Name string
	To   string
}

func (g *DecisionGraph) zone(name string) (*zoneData, error) {
	z, ok := g.zones[name]
	if !ok {
		return nil, &MissingZoneError{Zone: name}
	}
	return z, nil
}

// Zones returns zone names sorted.
func (g *DecisionGraph) Zones() []string {
	return slices.Sorted(maps.Keys(g.zones))
}

// HasZone reports whether the zone exists.
func (g *DecisionGraph) HasZone(name string) bool {
	_, ok := g.zones[name]
	return ok
}

// Zone returns a copy of a zone's data.
func (g *DecisionGraph) Zone(name string) (Zone, error) {
	z, err := g.zone(name)
	if err != nil {
		return Zone{}, err
	}
	return Zone{
		Name:      name,
		Level:     z.level,
		Parents:   slices.Sorted(maps.Keys(z.parents)),
		Children:  slices.Sorted(maps.Keys(z.children)),
		Decisions: slices.Sorted(maps.Keys(z.decisions)),
	}, nil
}

// CreateZone adds an empty zone at a level.
func (g *DecisionGraph) CreateZone(name string, level int) error {
	if _, ok := g.zones[name]; ok {
		return &ZoneCollisionError{Zone: name}
	}
	if level < 0 {
		return &InvalidLevelError{Zone: name, Reason: fmt.Sprintf("level %d is negative", level)}
	}
	g.zones[name] = &zoneData{
		level:     level,
		parents:   make(map[string]bool),
		children:  make(map[string]bool),
		decisions: make(map[string]bool),
	}
	return nil
}

// DeleteZone removes a zone, detaching its decisions, parents and children.
func (g *DecisionGraph) DeleteZone(name string) error {
	z, err := g.zone(name)
	if err != nil {
		return err
	}
	for d := range z.decisions {
		if data, ok := g.g.Node(d); ok {
			delete(data.zones, name)
		}
	}
	for p := range z.parents {
		delete(g.zones[p].children, name)
	}
	for c := range z.children {
		delete(g.zones[c].parents, name)
	}
	delete(g.zones, name)
	return nil
}

// ZonesOf returns the zones directly containing a decision, sorted.
func (g *DecisionGraph) ZonesOf(decision string) []string {
	d, ok := g.g.Node(decision)
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(d.zones))
}

// AddDecisionToZone makes a zone directly contain a decision.
func (g *DecisionGraph) AddDecisionToZone(decision, zone string) error {
	d, err := g.decision(decision)
	if err != nil {
		return err
	}
	z, err := g.zone(zone)
	if err != nil {
		return err
	}
	d.zones[zone] = true
	z.decisions[decision] = true
	return nil
}

// RemoveDecisionFromZone removes direct membership and reports whether the
// decision was a member.
func (g *DecisionGraph) RemoveDecisionFromZone(decision, zone string) (bool, error) {
	d, err := g.decision(decision)
	if err != nil {
		return false, err
	}
	z, err := g.zone(zone)
	if err != nil {
		return false, err
	}
	was := z.decisions[decision]
	delete(z.decisions, decision)
	delete(d.zones, zone)
	return was, nil
}

// AddZoneToZone nests child inside parent. The parent's level must be
// strictly higher.
func (g *DecisionGraph) AddZoneToZone(child, parent string) error {
	c, err := g.zone(child)
	if err != nil {
		return err
	}
	p, err := g.zone(parent)
	if err != nil {
		return err
	}
	if p.level <= c.level {
		return &InvalidLevelError{
			Zone:   child,
			Reason: fmt.Sprintf("level %d cannot be inside %q at level %d", c.level, parent, p.level),
		}
	}
	c.parents[parent] = true
	p.children[child] = true
	return nil
}

// RemoveZoneFromZone un-nests child from parent and reports whether it was
// nested there.
func (g *DecisionGraph) RemoveZoneFromZone(child, parent string) (bool, error) {
	c, err := g.zone(child)
	if err != nil {
		return false, err
	}
	p, err := g.zone(parent)
	if err != nil {
		return false, err
	}
	was := p.children[child]
	delete(p.children, child)
	delete(c.parents, parent)
	return was, nil
}

// ZoneAncestors returns every zone transitively containing zone, sorted.
// Zones in exclude are neither returned nor traversed.
func (g *DecisionGraph) ZoneAncestors(zone string, exclude map[string]bool) ([]string, error) {
	if _, err := g.zone(zone); err != nil {
		return nil, err
	}
	seen := maps.Clone(exclude)
	if seen == nil {
		seen = make(map[string]bool)
	}
	seen[zone] = true
	found := make(map[string]bool)
	stack := []string{zone}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for p := range g.zones[current].parents {
			if seen[p] {
				continue
			}
			seen[p] = true
			found[p] = true
			stack = append(stack, p)
		}
	}
	return slices.Sorted(maps.Keys(found)), nil
}

// ZoneHierarchyOf returns every zone containing a decision directly or
// through nesting, sorted.
func (g *DecisionGraph) ZoneHierarchyOf(decision string) ([]string, error) {
	d, err := g.decision(decision)
	if err != nil {
		return nil, err
	}
	all := make(map[string]bool)
	for z := range d.zones {
		all[z] = true
		ancestors, err := g.ZoneAncestors(z, all)
		if err != nil {
			return nil, err
		}
		for _, a := range ancestors {
			all[a] = true
		}
	}
	return slices.Sorted(maps.Keys(all)), nil
}

// AllDecisionsInZone returns the decisions a zone contains directly or
// through its sub-zones, sorted.
func (g *DecisionGraph) AllDecisionsInZone(zone string) ([]string, error) {
	if _, err := g.zone(zone); err != nil {
		return nil, err
	}
	decisions := make(map[string]bool)
	visited := make(map[string]bool)
	stack := []string{zone}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		z := g.zones[current]
		for d := range z.decisions {
			decisions[d] = true
		}
		for c := range z.children {
			stack = append(stack, c)
		}
	}
	return slices.Sorted(maps.Keys(decisions)), nil
}

// ZoneEdges returns the transitions crossing a zone's boundary: those leaving
// a decision inside it for one outside, and those arriving from outside.
func (g *DecisionGraph) ZoneEdges(zone string) (outgoing, incoming []EdgeRef, err error) {
	inside, err := g.AllDecisionsInZone(zone)
	if err != nil {
		return nil, nil, err
	}
	in := make(map[string]bool, len(inside))
	for _, d := range inside {
		in[d] = true
	}
	for _, e := range g.g.Edges() {
		ref := EdgeRef{From: e.From, Name: e.Key, To: e.To}
		switch {
		case in[e.From] && !in[e.To]:
			outgoing = append(outgoing, ref)
		case !in[e.From] && in[e.To]:
			incoming = append(incoming, ref)
		}
	}
	return outgoing, incoming, nil
}

// ReplaceZonesInHierarchy inserts zone into the hierarchy above decision at
// the given level, creating the zone when needed.
//
// When zones at that level already contain the decision, zone takes their
// place on the decision's path: the decision (or the sub-zones holding it)
// moves from each of them into zone, and zone joins their parents. When the
// level is empty, zone is slotted between the nearest lower and nearest
// higher levels present on the decision's path.
func (g *DecisionGraph) ReplaceZonesInHierarchy(decision, zone string, level int) error {
	d, err := g.decision(decision)
	if err != nil {
		return err
	}
	if z, ok := g.zones[zone]; ok {
		if z.level != level {
			return &InvalidLevelError{
				Zone:   zone,
				Reason: fmt.Sprintf("exists at level %d, not %d", z.level, level),
			}
		}
	} else if err := g.CreateZone(zone, level); err != nil {
		return err
	}

	path, err := g.ZoneHierarchyOf(decision)
	if err != nil {
		return err
	}
	onPath := make(map[string]bool, len(path))
	for _, p := range path {
		onPath[p] = true
	}
	delete(onPath, zone)

	var same []string
	belowLevel, aboveLevel := -1, -1
	for p := range onPath {
		l := g.zones[p].level
		switch {
		case l == level:
			same = append(same, p)
		case l < level && l > belowLevel:
			belowLevel = l
		case l > level && (aboveLevel < 0 || l < aboveLevel):
			aboveLevel = l
		}
	}
	slices.Sort(same)

	if len(same) > 0 {
		for _, old := range same {
			o := g.zones[old]
			for _, c := range slices.Sorted(maps.Keys(o.children)) {
				if !onPath[c] {
					continue
				}
				if _, err := g.RemoveZoneFromZone(c, old); err != nil {
					return err
				}
				if err := g.AddZoneToZone(c, zone); err != nil {
					return err
				}
			}
			if o.decisions[decision] {
				if _, err := g.RemoveDecisionFromZone(decision, old); err != nil {
					return err
				}
				if err := g.AddDecisionToZone(decision, zone); err != nil {
					return err
				}
			}
			for _, p := range slices.Sorted(maps.Keys(o.parents)) {
				if err := g.AddZoneToZone(zone, p); err != nil {
					return err
				}
			}
		}
		return nil
	}

	var below, above []string
	for p := range onPath {
		switch g.zones[p].level {
		case belowLevel:
			below = append(below, p)
		case aboveLevel:
			above = append(above, p)
		}
	}
	slices.Sort(below)
	slices.Sort(above)

	if len(below) == 0 {
		if err := g.AddDecisionToZone(decision, zone); err != nil {
			return err
		}
	}
	for _, b := range below {
		if err := g.AddZoneToZone(b, zone); err != nil {
			return err
		}
	}
	for _, a := range above {
		if err := g.AddZoneToZone(zone, a); err != nil {
			return err
		}
		if len(below) == 0 && d.zones[a] {
			if _, err := g.RemoveDecisionFromZone(decision, a); err != nil {
				return err
			}
		}
		for _, b := range below {
			if g.zones[a].children[b] {
				if _, err := g.RemoveZoneFromZone(b, a); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
