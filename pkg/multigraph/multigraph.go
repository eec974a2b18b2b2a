// Package multigraph provides the directed multigraph storage used by the
// decision graph: named nodes carrying an attribute record, and per-source
// keyed edges carrying their own attribute record.
//
// Edge keys are unique per source node only, so two nodes may each have an
// edge called "north". Iteration order is insertion order for both nodes and
// each node's outgoing edges, which keeps rendering and merging deterministic.
package multigraph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNodeExists is returned when adding a node whose name is taken.
	ErrNodeExists = errors.New("node already exists")
	// ErrNodeNotFound is returned when a referenced node is absent.
	ErrNodeNotFound = errors.New("node not found")
	// ErrEdgeExists is returned when adding an edge whose key is taken at its source.
	ErrEdgeExists = errors.New("edge already exists")
	// ErrEdgeNotFound is returned when a referenced edge is absent.
	ErrEdgeNotFound = errors.New("edge not found")
)

// Edge is a read view of a stored edge.
type Edge[E any] struct {
	From string
	Key  string
	To   string
	Attr E
}

type edgeEntry[E any] struct {
	to   string
	attr E
}

type nodeEntry[N, E any] struct {
	attr  N
	keys  []string
	edges map[string]*edgeEntry[E]
}

// Graph is a directed multigraph with node attributes of type N and edge
// attributes of type E. It is not safe for concurrent mutation.
type Graph[N, E any] struct {
	order []string
	nodes map[string]*nodeEntry[N, E]
}

// New creates an empty graph.
func New[N, E any]() *Graph[N, E] {
	return &Graph[N, E]{
		nodes: make(map[string]*nodeEntry[N, E]),
	}
}

// Len returns the number of nodes.
func (g *Graph[N, E]) Len() int {
	return len(g.order)
}

// AddNode inserts a node.
func (g *Graph[N, E]) AddNode(name string, attr N) error {
	if _, ok := g.nodes[name]; ok {
		return fmt.Errorf("%w: %q", ErrNodeExists, name)
	}
	g.nodes[name] = &nodeEntry[N, E]{
		attr:  attr,
		edges: make(map[string]*edgeEntry[E]),
	}
	g.order = append(g.order, name)
	return nil
}

// HasNode reports whether the node exists.
func (g *Graph[N, E]) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Node returns the attribute record of a node.
func (g *Graph[N, E]) Node(name string) (N, bool) {
	n, ok := g.nodes[name]
	if !ok {
		var zero N
		return zero, false
	}
	return n.attr, true
}

// SetNode replaces the attribute record of an existing node.
func (g *Graph[N, E]) SetNode(name string, attr N) error {
	n, ok := g.nodes[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}
	n.attr = attr
	return nil
}

// Nodes returns node names in insertion order.
func (g *Graph[N, E]) Nodes() []string {
	return slices.Clone(g.order)
}

// RemoveNode deletes a node together with every edge incident to it and
// returns the removed edges.
func (g *Graph[N, E]) RemoveNode(name string) ([]Edge[E], error) {
	n, ok := g.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}
	removed := g.Incoming(name)
	for _, e := range removed {
		if e.From != name {
			_ = g.RemoveEdge(e.From, e.Key)
		}
	}
	for _, key := range n.keys {
		e := n.edges[key]
		if e.to != name {
			removed = append(removed, Edge[E]{From: name, Key: key, To: e.to, Attr: e.attr})
		}
	}
	delete(g.nodes, name)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == name })
	return removed, nil
}

// AddEdge inserts an edge from -> to under key.
func (g *Graph[N, E]) AddEdge(from, key, to string, attr E) error {
	src, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, to)
	}
	if _, ok := src.edges[key]; ok {
		return fmt.Errorf("%w: %q at %q", ErrEdgeExists, key, from)
	}
	src.edges[key] = &edgeEntry[E]{to: to, attr: attr}
	src.keys = append(src.keys, key)
	return nil
}

// HasEdge reports whether from has an outgoing edge with the given key.
func (g *Graph[N, E]) HasEdge(from, key string) bool {
	n, ok := g.nodes[from]
	if !ok {
		return false
	}
	_, ok = n.edges[key]
	return ok
}

// Edge returns the edge stored under (from, key).
func (g *Graph[N, E]) Edge(from, key string) (Edge[E], bool) {
	n, ok := g.nodes[from]
	if !ok {
		return Edge[E]{}, false
	}
	e, ok := n.edges[key]
	if !ok {
		return Edge[E]{}, false
	}
	return Edge[E]{From: from, Key: key, To: e.to, Attr: e.attr}, true
}

// SetEdgeAttr replaces the attribute record of an edge.
func (g *Graph[N, E]) SetEdgeAttr(from, key string, attr E) error {
	e, err := g.entry(from, key)
	if err != nil {
		return err
	}
	e.attr = attr
	return nil
}

// SetEdgeTarget points an existing edge at a new destination, keeping its key,
// position and attributes.
func (g *Graph[N, E]) SetEdgeTarget(from, key, to string) error {
	e, err := g.entry(from, key)
	if err != nil {
		return err
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, to)
	}
	e.to = to
	return nil
}

// RenameEdge changes the key of an edge in place.
func (g *Graph[N, E]) RenameEdge(from, key, newKey string) error {
	n, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, from)
	}
	e, ok := n.edges[key]
	if !ok {
		return fmt.Errorf("%w: %q at %q", ErrEdgeNotFound, key, from)
	}
	if key == newKey {
		return nil
	}
	if _, ok := n.edges[newKey]; ok {
		return fmt.Errorf("%w: %q at %q", ErrEdgeExists, newKey, from)
	}
	delete(n.edges, key)
	n.edges[newKey] = e
	n.keys[slices.Index(n.keys, key)] = newKey
	return nil
}

// RemoveEdge deletes the edge stored under (from, key).
func (g *Graph[N, E]) RemoveEdge(from, key string) error {
	n, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, from)
	}
	if _, ok := n.edges[key]; !ok {
		return fmt.Errorf("%w: %q at %q", ErrEdgeNotFound, key, from)
	}
	delete(n.edges, key)
	n.keys = slices.DeleteFunc(n.keys, func(k string) bool { return k == key })
	return nil
}

// Outgoing returns the edges leaving a node in insertion order.
func (g *Graph[N, E]) Outgoing(from string) []Edge[E] {
	n, ok := g.nodes[from]
	if !ok {
		return nil
	}
	out := make([]Edge[E], 0, len(n.keys))
	for _, key := range n.keys {
		e := n.edges[key]
		out = append(out, Edge[E]{From: from, Key: key, To: e.to, Attr: e.attr})
	}
	return out
}

// Incoming returns every edge whose destination is the given node, ordered by
// source insertion order then key order. Self-edges are included.
func (g *Graph[N, E]) Incoming(to string) []Edge[E] {
	var in []Edge[E]
	for _, from := range g.order {
		n := g.nodes[from]
		for _, key := range n.keys {
			e := n.edges[key]
			if e.to == to {
				in = append(in, Edge[E]{From: from, Key: key, To: to, Attr: e.attr})
			}
		}
	}
	return in
}

// Edges returns every edge in the graph.
func (g *Graph[N, E]) Edges() []Edge[E] {
	var all []Edge[E]
	for _, from := range g.order {
		all = append(all, g.Outgoing(from)...)
	}
	return all
}

// Clone returns a deep copy, using the provided functions to copy attribute
// records. Nil functions copy attributes by assignment.
func (g *Graph[N, E]) Clone(cloneNode func(N) N, cloneEdge func(E) E) *Graph[N, E] {
	out := &Graph[N, E]{
		order: slices.Clone(g.order),
		nodes: make(map[string]*nodeEntry[N, E], len(g.nodes)),
	}
	for name, n := range g.nodes {
		attr := n.attr
		if cloneNode != nil {
			attr = cloneNode(attr)
		}
		c := &nodeEntry[N, E]{
			attr:  attr,
			keys:  slices.Clone(n.keys),
			edges: make(map[string]*edgeEntry[E], len(n.edges)),
		}
		for key, e := range n.edges {
			ea := e.attr
			if cloneEdge != nil {
				ea = cloneEdge(ea)
			}
			c.edges[key] = &edgeEntry[E]{to: e.to, attr: ea}
		}
		out.nodes[name] = c
	}
	return out
}

func (g *Graph[N, E]) entry(from, key string) (*edgeEntry[E], error) {
	n, ok := g.nodes[from]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, from)
	}
	e, ok := n.edges[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q at %q", ErrEdgeNotFound, key, from)
	}
	return e, nil
}
