package graph

import (
	"errors"
	"maps"
	"slices"
	"strconv"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/multigraph"
)

// TagUnknown marks unexplored placeholder decisions.
const TagUnknown = "unknown"

// DefaultReciprocal names the way back created by AddUnexploredEdge.
const DefaultReciprocal = "return"

type decisionData struct {
	tags        domain.Tags
	annotations []string
	zones       map[string]bool
}

type transitionData struct {
	requirement domain.Requirement
	effects     []domain.Effect
	tags        domain.Tags
	annotations []string
	reciprocal  string
}

func (d *decisionData) clone() *decisionData {
	return &decisionData{
		tags:        d.tags.Clone(),
		annotations: slices.Clone(d.annotations),
		zones:       maps.Clone(d.zones),
	}
}

func (t *transitionData) clone() *transitionData {
	return &transitionData{
		requirement: t.requirement,
		effects:     domain.CloneEffects(t.effects),
		tags:        t.tags.Clone(),
		annotations: slices.Clone(t.annotations),
		reciprocal:  t.reciprocal,
	}
}

// Decision is a read-only view of a decision.
type Decision struct {
	Name        string
	Tags        domain.Tags
	Annotations []string
	// Zones lists the zones that directly contain the decision, sorted.
	Zones []string
}

// Transition is a read-only view of a transition.
type Transition struct {
	From        string
	Name        string
	To          string
	Requirement domain.Requirement
	Effects     []domain.Effect
	Tags        domain.Tags
	Annotations []string
	// Reciprocal is the name of the transition at To leading back, if any.
	Reciprocal string
}

// TransitionSpec carries the optional properties of a new transition.
type TransitionSpec struct {
	Requirement domain.Requirement
	Effects     []domain.Effect
	Tags        domain.Tags
	Annotations []string
}

func (s TransitionSpec) data() *transitionData {
	return &transitionData{
		requirement: s.Requirement,
		effects:     domain.CloneEffects(s.Effects),
		tags:        s.Tags.Clone(),
		annotations: slices.Clone(s.Annotations),
	}
}

// DecisionGraph is the graph of decisions and transitions plus the zone
// hierarchy, the unexplored-placeholder counter and power equivalences.
type DecisionGraph struct {
	g            *multigraph.Graph[*decisionData, *transitionData]
	zones        map[string]*zoneData
	unknownCount int
	equivalences domain.Equivalences
}

// New creates an empty graph.
func New() *DecisionGraph {
	return &DecisionGraph{
		g:            multigraph.New[*decisionData, *transitionData](),
		zones:        make(map[string]*zoneData),
		equivalences: make(domain.Equivalences),
	}
}

// Clone returns a deep copy. Requirements are immutable and shared.
func (g *DecisionGraph) Clone() *DecisionGraph {
	out := &DecisionGraph{
		g:            g.g.Clone((*decisionData).clone, (*transitionData).clone),
		zones:        make(map[string]*zoneData, len(g.zones)),
		unknownCount: g.unknownCount,
		equivalences: make(domain.Equivalences, len(g.equivalences)),
	}
	for name, z := range g.zones {
		out.zones[name] = z.clone()
	}
	for power, reqs := range g.equivalences {
		out.equivalences[power] = slices.Clone(reqs)
	}
	return out
}

// Len returns the number of decisions.
func (g *DecisionGraph) Len() int {
	return g.g.Len()
}

// Decisions returns decision names in creation order.
func (g *DecisionGraph) Decisions() []string {
	return g.g.Nodes()
}

// HasDecision reports whether the decision exists.
func (g *DecisionGraph) HasDecision(name string) bool {
	return g.g.HasNode(name)
}

func (g *DecisionGraph) decision(name string) (*decisionData, error) {
	d, ok := g.g.Node(name)
	if !ok {
		return nil, &MissingDecisionError{Decision: name}
	}
	return d, nil
}

func (g *DecisionGraph) transition(from, name string) (multigraph.Edge[*transitionData], error) {
	if !g.g.HasNode(from) {
		return multigraph.Edge[*transitionData]{}, &MissingDecisionError{Decision: from}
	}
	e, ok := g.g.Edge(from, name)
	if !ok {
		return e, &MissingTransitionError{Decision: from, Transition: name}
	}
	return e, nil
}

// Decision returns a copy of a decision's data.
func (g *DecisionGraph) Decision(name string) (Decision, error) {
	d, err := g.decision(name)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Name:        name,
		Tags:        d.tags.Clone(),
		Annotations: slices.Clone(d.annotations),
		Zones:       slices.Sorted(maps.Keys(d.zones)),
	}, nil
}

// AddDecision creates a decision.
func (g *DecisionGraph) AddDecision(name string, tags domain.Tags, annotations []string) error {
	d := &decisionData{
		tags:        tags.Clone(),
		annotations: slices.Clone(annotations),
		zones:       make(map[string]bool),
	}
	if err := g.g.AddNode(name, d); err != nil {
		if errors.Is(err, multigraph.ErrNodeExists) {
			return &DecisionCollisionError{Decision: name}
		}
		return err
	}
	return nil
}

// TagDecision sets a tag on a decision.
func (g *DecisionGraph) TagDecision(name, tag string, value any) error {
	d, err := g.decision(name)
	if err != nil {
		return err
	}
	d.tags[tag] = domain.CloneValue(value)
	return nil
}

// UntagDecision removes a tag and reports whether it was present.
func (g *DecisionGraph) UntagDecision(name, tag string) (bool, error) {
	d, err := g.decision(name)
	if err != nil {
		return false, err
	}
	_, ok := d.tags[tag]
	delete(d.tags, tag)
	return ok, nil
}

// AnnotateDecision appends annotations to a decision.
func (g *DecisionGraph) AnnotateDecision(name string, notes ...string) error {
	d, err := g.decision(name)
	if err != nil {
		return err
	}
	d.annotations = append(d.annotations, notes...)
	return nil
}

// IsUnknown reports whether the decision is an unexplored placeholder.
func (g *DecisionGraph) IsUnknown(name string) bool {
	d, ok := g.g.Node(name)
	if !ok {
		return false
	}
	_, unknown := d.tags[TagUnknown]
	return unknown
}

// UnknownCount returns the placeholder counter.
func (g *DecisionGraph) UnknownCount() int {
	return g.unknownCount
}

// SetUnknownCount restores the placeholder counter, for decoders.
func (g *DecisionGraph) SetUnknownCount(n int) {
	g.unknownCount = n
}

// Transitions returns the names of a decision's outgoing transitions in
// creation order.
func (g *DecisionGraph) Transitions(from string) []string {
	edges := g.g.Outgoing(from)
	names := make([]string, len(edges))
	for i, e := range edges {
		names[i] = e.Key
	}
	return names
}

// Destinations maps each outgoing transition of a decision to its
// destination.
func (g *DecisionGraph) Destinations(from string) map[string]string {
	out := make(map[string]string)
	for _, e := range g.g.Outgoing(from) {
		out[e.Key] = e.To
	}
	return out
}

// HasTransition reports whether from has an outgoing transition called name.
func (g *DecisionGraph) HasTransition(from, name string) bool {
	return g.g.HasEdge(from, name)
}

// Destination returns where a transition leads.
func (g *DecisionGraph) Destination(from, name string) (string, error) {
	e, err := g.transition(from, name)
	if err != nil {
		return "", err
	}
	return e.To, nil
}

// Transition returns a copy of a transition's data.
func (g *DecisionGraph) Transition(from, name string) (Transition, error) {
	e, err := g.transition(from, name)
	if err != nil {
		return Transition{}, err
	}
	return view(e), nil
}

// Outgoing returns copies of every transition leaving a decision.
func (g *DecisionGraph) Outgoing(from string) []Transition {
	edges := g.g.Outgoing(from)
	out := make([]Transition, len(edges))
	for i, e := range edges {
		out[i] = view(e)
	}
	return out
}

// Incoming returns copies of every transition arriving at a decision.
func (g *DecisionGraph) Incoming(to string) []Transition {
	edges := g.g.Incoming(to)
	out := make([]Transition, len(edges))
	for i, e := range edges {
		out[i] = view(e)
	}
	return out
}

// AllTransitions returns every transition in the graph.
func (g *DecisionGraph) AllTransitions() []Transition {
	edges := g.g.Edges()
	out := make([]Transition, len(edges))
	for i, e := range edges {
		out[i] = view(e)
	}
	return out
}

func view(e multigraph.Edge[*transitionData]) Transition {
	return Transition{
		From:        e.From,
		Name:        e.Key,
		To:          e.To,
		Requirement: e.Attr.requirement,
		Effects:     domain.CloneEffects(e.Attr.effects),
		Tags:        e.Attr.tags.Clone(),
		Annotations: slices.Clone(e.Attr.annotations),
		Reciprocal:  e.Attr.reciprocal,
	}
}

// AddTransition creates a transition from -> to.
func (g *DecisionGraph) AddTransition(from, name, to string, spec TransitionSpec) error {
	if !g.g.HasNode(from) {
		return &MissingDecisionError{Decision: from}
	}
	if !g.g.HasNode(to) {
		return &MissingDecisionError{Decision: to}
	}
	if g.g.HasEdge(from, name) {
		return &TransitionCollisionError{Decision: from, Transition: name}
	}
	return g.g.AddEdge(from, name, to, spec.data())
}

// AddTransitionWithReciprocal creates a transition and its way back, paired
// with each other.
func (g *DecisionGraph) AddTransitionWithReciprocal(from, name, to, reciprocal string, spec, revSpec TransitionSpec) error {
	if !g.g.HasNode(from) {
		return &MissingDecisionError{Decision: from}
	}
	if !g.g.HasNode(to) {
		return &MissingDecisionError{Decision: to}
	}
	if g.g.HasEdge(from, name) {
		return &TransitionCollisionError{Decision: from, Transition: name}
	}
	if g.g.HasEdge(to, reciprocal) || (from == to && name == reciprocal) {
		return &TransitionCollisionError{Decision: to, Transition: reciprocal}
	}
	if err := g.AddTransition(from, name, to, spec); err != nil {
		return err
	}
	if err := g.AddTransition(to, reciprocal, from, revSpec); err != nil {
		return err
	}
	return g.SetReciprocal(from, name, reciprocal)
}

// AddAction creates a self-transition: an action available at a decision.
func (g *DecisionGraph) AddAction(decision, name string, spec TransitionSpec) error {
	return g.AddTransition(decision, name, decision, spec)
}

// UnexploredOptions configures AddUnexploredEdge.
type UnexploredOptions struct {
	// Destination names the placeholder; a fresh "_u.<n>" name is generated
	// when empty.
	Destination string
	// Reciprocal names the way back; DefaultReciprocal when empty.
	Reciprocal string
	// NoReciprocal skips creating the way back.
	NoReciprocal bool
	Spec         TransitionSpec
	RevSpec      TransitionSpec
	// Tags are added to the placeholder alongside the unknown tag.
	Tags domain.Tags
}

// AddUnexploredEdge creates a transition to a new placeholder decision tagged
// unknown, plus a reciprocal back unless disabled. It returns the
// placeholder's name.
func (g *DecisionGraph) AddUnexploredEdge(from, name string, opts UnexploredOptions) (string, error) {
	if !g.g.HasNode(from) {
		return "", &MissingDecisionError{Decision: from}
	}
	if g.g.HasEdge(from, name) {
		return "", &TransitionCollisionError{Decision: from, Transition: name}
	}
	dest := opts.Destination
	if dest == "" {
		dest = g.nextUnknownName()
	}
	tags := opts.Tags.Clone()
	tags[TagUnknown] = true
	if err := g.AddDecision(dest, tags, nil); err != nil {
		return "", err
	}
	if opts.Destination == "" {
		g.unknownCount++
	}
	if opts.NoReciprocal {
		return dest, g.AddTransition(from, name, dest, opts.Spec)
	}
	reciprocal := opts.Reciprocal
	if reciprocal == "" {
		reciprocal = DefaultReciprocal
	}
	return dest, g.AddTransitionWithReciprocal(from, name, dest, reciprocal, opts.Spec, opts.RevSpec)
}

func (g *DecisionGraph) nextUnknownName() string {
	n := g.unknownCount
	for {
		name := "_u." + strconv.Itoa(n)
		if !g.g.HasNode(name) {
			g.unknownCount = n
			return name
		}
		n++
	}
}

// SetRequirement replaces a transition's requirement.
func (g *DecisionGraph) SetRequirement(from, name string, req domain.Requirement) error {
	e, err := g.transition(from, name)
	if err != nil {
		return err
	}
	e.Attr.requirement = req
	return nil
}

// SetEffects replaces a transition's effect list.
func (g *DecisionGraph) SetEffects(from, name string, effects []domain.Effect) error {
	e, err := g.transition(from, name)
	if err != nil {
		return err
	}
	e.Attr.effects = domain.CloneEffects(effects)
	return nil
}

// AddEffect appends an effect to a transition.
func (g *DecisionGraph) AddEffect(from, name string, effect domain.Effect) error {
	e, err := g.transition(from, name)
	if err != nil {
		return err
	}
	e.Attr.effects = append(e.Attr.effects, effect.Clone())
	return nil
}

// TagTransition sets a tag on a transition.
func (g *DecisionGraph) TagTransition(from, name, tag string, value any) error {
	e, err := g.transition(from, name)
	if err != nil {
		return err
	}
	e.Attr.tags[tag] = domain.CloneValue(value)
	return nil
}

// AnnotateTransition appends annotations to a transition.
func (g *DecisionGraph) AnnotateTransition(from, name string, notes ...string) error {
	e, err := g.transition(from, name)
	if err != nil {
		return err
	}
	e.Attr.annotations = append(e.Attr.annotations, notes...)
	return nil
}

// RemoveTransition deletes a transition. Pointers from other transitions
// naming it as their reciprocal are cleared. With removeReciprocal the
// paired transition is deleted too.
func (g *DecisionGraph) RemoveTransition(from, name string, removeReciprocal bool) error {
	e, err := g.transition(from, name)
	if err != nil {
		return err
	}
	reciprocal := e.Attr.reciprocal
	g.clearPointersTo(from, name, e.To)
	if err := g.g.RemoveEdge(from, name); err != nil {
		return err
	}
	if removeReciprocal && reciprocal != "" && g.g.HasEdge(e.To, reciprocal) {
		return g.RemoveTransition(e.To, reciprocal, false)
	}
	return nil
}

// RemoveDecision deletes a decision, every transition touching it and its
// zone memberships.
func (g *DecisionGraph) RemoveDecision(name string) error {
	d, err := g.decision(name)
	if err != nil {
		return err
	}
	for zone := range d.zones {
		delete(g.zones[zone].decisions, name)
	}
	// Any transition pairing with one of the removed ones leads to this
	// decision, so it is removed as well and no stale pointer survives.
	_, err = g.g.RemoveNode(name)
	return err
}

// clearPointersTo clears the reciprocal pointer of every transition at dest
// that leads back to from and names transition as its reciprocal.
func (g *DecisionGraph) clearPointersTo(from, transition, dest string) {
	for _, e := range g.g.Outgoing(dest) {
		if e.To == from && e.Attr.reciprocal == transition && !(e.From == from && e.Key == transition) {
			e.Attr.reciprocal = ""
		}
	}
}

// uniqueName returns name, or name.1, name.2, ... whichever is free at
// decision.
func (g *DecisionGraph) uniqueName(decision, name string) string {
	if !g.g.HasEdge(decision, name) {
		return name
	}
	for i := 1; ; i++ {
		candidate := name + "." + strconv.Itoa(i)
		if !g.g.HasEdge(decision, candidate) {
			return candidate
		}
	}
}
