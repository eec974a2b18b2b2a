/*
Package domain contains the value types shared by every layer of the
exploration engine.

It is kept free of I/O and of graph storage so that the graph, the
exploration stepper, the codecs and the adapters can all depend on it.

# Key Entities

  - Requirement: a boolean precondition over powers and tokens, with a small
    textual grammar (ParseRequirement / Requirement.String).
  - Effect: a mutation fired when a transition is taken (gain, lose, toggle,
    deactivate, edit), optionally delayed or limited by charges.
  - State: the powers, tokens and custom values carried between steps.
  - Tags: free-form metadata attached to decisions, transitions and steps.
  - LifecycleHooks: callbacks for step, warning and command events.
*/
package domain
