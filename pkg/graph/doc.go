// Package graph implements DecisionGraph, the directed multigraph of
// decisions (places) and named transitions (choices) that an exploration
// records.
//
// Transition names are unique per source decision. A transition may name a
// reciprocal: a transition at its destination that leads back. Pairing is
// kept symmetric by default. Destinations that have not been explored yet are
// placeholder decisions tagged "unknown", created by AddUnexploredEdge and
// resolved by ReplaceUnexplored.
//
// Decisions can be grouped into zones. Zones have integer levels and may sit
// inside higher-level zones, forming a hierarchy.
//
// A DecisionGraph is not safe for concurrent use. Explorations clone it
// before every step.
package graph
