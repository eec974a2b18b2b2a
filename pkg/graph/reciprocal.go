package graph

// ReciprocalOption modifies SetReciprocal.
type ReciprocalOption func(*reciprocalConfig)

type reciprocalConfig struct {
	oneWay    bool
	noCleanup bool
}

// OneWay sets only the forward pointer.
func OneWay() ReciprocalOption {
	return func(c *reciprocalConfig) { c.oneWay = true }
}

// NoCleanup leaves pointers that named a replaced reciprocal untouched.
func NoCleanup() ReciprocalOption {
	return func(c *reciprocalConfig) { c.noCleanup = true }
}

// Reciprocal returns the name of the transition paired with (from, name), or
// "" when there is none.
func (g *DecisionGraph) Reciprocal(from, name string) (string, error) {
	e, err := g.transition(from, name)
	if err != nil {
		return "", err
	}
	return e.Attr.reciprocal, nil
}

// SetReciprocal pairs transition (from, name) with reciprocal at its
// destination, which must lead back to from. By default the reverse pointer is
// set too and any previous partner on either side is unpaired, so pairing
// stays one-to-one. An empty reciprocal removes the pairing.
func (g *DecisionGraph) SetReciprocal(from, name, reciprocal string, opts ...ReciprocalOption) error {
	var cfg reciprocalConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	e, err := g.transition(from, name)
	if err != nil {
		return err
	}
	dest := e.To
	old := e.Attr.reciprocal

	if reciprocal == "" {
		e.Attr.reciprocal = ""
		if !cfg.oneWay && old != "" {
			if back, ok := g.g.Edge(dest, old); ok && back.To == from && back.Attr.reciprocal == name {
				back.Attr.reciprocal = ""
			}
		}
		return nil
	}

	back, ok := g.g.Edge(dest, reciprocal)
	if !ok {
		return &MissingTransitionError{Decision: dest, Transition: reciprocal}
	}
	if back.To != from {
		return &InvalidDestinationError{
			Decision:   dest,
			Transition: reciprocal,
			Reason:     "reciprocal of " + name + " at " + from + " must lead back to " + from,
		}
	}

	if !cfg.noCleanup && old != "" && old != reciprocal {
		if prev, ok := g.g.Edge(dest, old); ok && prev.To == from && prev.Attr.reciprocal == name {
			prev.Attr.reciprocal = ""
		}
	}
	e.Attr.reciprocal = reciprocal

	if cfg.oneWay {
		return nil
	}
	oldRev := back.Attr.reciprocal
	if !cfg.noCleanup && oldRev != "" && oldRev != name {
		if prev, ok := g.g.Edge(from, oldRev); ok && prev.To == dest && prev.Attr.reciprocal == reciprocal {
			prev.Attr.reciprocal = ""
		}
	}
	back.Attr.reciprocal = name
	return nil
}

// RenameTransition renames a transition in place, keeping its position and
// updating the pointer of its reciprocal.
func (g *DecisionGraph) RenameTransition(decision, name, newName string) error {
	e, err := g.transition(decision, name)
	if err != nil {
		return err
	}
	if name == newName {
		return nil
	}
	if g.g.HasEdge(decision, newName) {
		return &TransitionCollisionError{Decision: decision, Transition: newName}
	}
	for _, other := range g.g.Outgoing(e.To) {
		if other.To == decision && other.Attr.reciprocal == name {
			other.Attr.reciprocal = newName
		}
	}
	// A self-edge paired with itself is covered by the loop above.
	return g.g.RenameEdge(decision, name, newName)
}

// RetargetTransition points a transition at a new destination, keeping its
// properties. With swapReciprocal its reciprocal is rebased onto the new
// destination so the pair survives; otherwise the pairing is severed. The
// returned name is the reciprocal's name after rebasing, which differs from
// the original only when a collision forced a rename. With
// errorOnNameCollision a collision is an error instead.
func (g *DecisionGraph) RetargetTransition(from, name, newDest string, swapReciprocal, errorOnNameCollision bool) (string, error) {
	e, err := g.transition(from, name)
	if err != nil {
		return "", err
	}
	if !g.g.HasNode(newDest) {
		return "", &MissingDecisionError{Decision: newDest}
	}
	oldDest := e.To
	reciprocal := e.Attr.reciprocal
	if oldDest == newDest {
		return reciprocal, nil
	}

	if back, ok := g.g.Edge(oldDest, reciprocal); reciprocal == "" || !ok || back.To != from {
		e.Attr.reciprocal = ""
		return "", g.g.SetEdgeTarget(from, name, newDest)
	}

	if !swapReciprocal {
		if err := g.SetReciprocal(from, name, ""); err != nil {
			return "", err
		}
		return "", g.g.SetEdgeTarget(from, name, newDest)
	}

	newRec, err := g.RebaseTransition(oldDest, reciprocal, newDest, false, errorOnNameCollision)
	if err != nil {
		return "", err
	}
	// A self-edge paired with itself was moved by the rebase. It ends up as
	// a self-edge of newDest, still paired with itself.
	if from == oldDest && reciprocal == name {
		if err := g.g.SetEdgeTarget(newDest, newRec, newDest); err != nil {
			return "", err
		}
		return newRec, g.SetReciprocal(newDest, newRec, newRec)
	}
	if err := g.g.SetEdgeTarget(from, name, newDest); err != nil {
		return "", err
	}
	back, _ := g.g.Edge(newDest, newRec)
	if back.To == from {
		return newRec, g.SetReciprocal(from, name, newRec)
	}
	return newRec, nil
}

// RebaseTransition moves a transition to a new source decision, keeping its
// destination and properties, and returns its name there. On a name
// collision it fails when errorOnNameCollision is set, otherwise the name
// gets a numeric suffix. With swapReciprocal the reciprocal is retargeted to
// the new source so the pair survives; otherwise the pairing is severed. A
// self-edge paired with itself becomes a paired self-edge of newBase.
func (g *DecisionGraph) RebaseTransition(from, name, newBase string, swapReciprocal, errorOnNameCollision bool) (string, error) {
	e, err := g.transition(from, name)
	if err != nil {
		return "", err
	}
	if !g.g.HasNode(newBase) {
		return "", &MissingDecisionError{Decision: newBase}
	}
	if from == newBase {
		return name, nil
	}
	newName := name
	if g.g.HasEdge(newBase, name) {
		if errorOnNameCollision {
			return "", &TransitionCollisionError{Decision: newBase, Transition: name}
		}
		newName = g.uniqueName(newBase, name)
	}

	dest := e.To
	reciprocal := e.Attr.reciprocal
	selfPaired := dest == from && reciprocal == name

	data := e.Attr.clone()
	data.reciprocal = ""
	g.clearPointersTo(from, name, dest)
	if err := g.g.RemoveEdge(from, name); err != nil {
		return "", err
	}
	if err := g.g.AddEdge(newBase, newName, dest, data); err != nil {
		return "", err
	}

	if selfPaired && swapReciprocal {
		if err := g.g.SetEdgeTarget(newBase, newName, newBase); err != nil {
			return "", err
		}
		return newName, g.SetReciprocal(newBase, newName, newName)
	}
	if reciprocal == "" || selfPaired || !g.g.HasEdge(dest, reciprocal) {
		return newName, nil
	}
	back, _ := g.g.Edge(dest, reciprocal)
	if back.To != from {
		return newName, nil
	}
	if !swapReciprocal {
		return newName, nil
	}
	if err := g.g.SetEdgeTarget(dest, reciprocal, newBase); err != nil {
		return "", err
	}
	return newName, g.SetReciprocal(newBase, newName, reciprocal)
}
