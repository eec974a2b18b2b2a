// Package command implements the small line-oriented scripting language used
// by edit effects and by callers that script graph mutation.
//
// A Block is parsed from text with one command per line:
//
//	val 5          # push a constant
//	empty list     # push an empty collection
//	append         # append $__ to the current collection
//	assign items   # store the current value in $items
//
// Execution is synchronous and uses a flat program counter. The only control
// flow is skip, which jumps by a relative offset or to a label. Operands
// starting with '$' name scope variables; $_ and $__ are the current and
// previous values. call dispatches to builtins, to callables stored in the
// scope, or to methods exposed by a Target, with arguments taken from scope
// variables named after the parameters.
package command
