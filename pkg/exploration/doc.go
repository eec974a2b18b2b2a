// Package exploration records the history of exploring a decision graph.
//
// An Exploration is an append-only list of Situations. Every traversal
// operation (Start, Explore, ReturnTo, Retrace, TakeAction, Warp, Observe)
// clones the latest situation, mutates the clone and appends it only when
// the whole operation succeeds, so a failed step never disturbs earlier
// history. Effects recorded on the traversed transition are applied to the
// new step before it is committed.
//
// Taking a transition whose requirement is not met is not an error: the step
// is recorded and a domain.Warning is raised through the logger, the
// OnWarning hook and Warnings.
package exploration
