package command

import (
	"fmt"
	"strings"
)

// Command is one parsed instruction. The set of implementations is closed.
type Command interface {
	// Keyword is the command's leading word.
	Keyword() string
	// String renders the command back to its one-line text form.
	String() string

	isCommand()
}

// Ref is an operand naming a scope variable. Any other operand value is a
// constant.
type Ref string

// Operand is either a Ref or a constant (string, int, float64, bool or nil).
type Operand = any

// Reserved variable names.
const (
	Current  = "_"
	Previous = "__"
)

// CollectionKind selects the collection created by EmptyCollection.
type CollectionKind string

const (
	KindList  CollectionKind = "list"
	KindTuple CollectionKind = "tuple"
	KindSet   CollectionKind = "set"
	KindDict  CollectionKind = "dict"
)

// Literal pushes a constant.
type Literal struct{ Value any }

// EmptyCollection pushes a new empty collection.
type EmptyCollection struct{ Kind CollectionKind }

// Append adds Value to the current collection.
type Append struct{ Value Operand }

// SetItem stores Value under Location in the current collection.
type SetItem struct{ Location, Value Operand }

// Pop removes the last item of the current list and pushes it.
type Pop struct{}

// GetItem pushes the item at Location in the current collection.
type GetItem struct{ Location Operand }

// RemoveItem deletes the item at Location from the current collection.
type RemoveItem struct{ Location Operand }

// BinaryOp pushes the result of Left Op Right.
type BinaryOp struct {
	Op          string
	Left, Right Operand
}

// UnaryOp pushes the result of Op applied to Value.
type UnaryOp struct {
	Op    string
	Value Operand
}

// Assign stores Value in a variable without pushing.
type Assign struct {
	Name  string
	Value Operand
}

// Delete removes a variable.
type Delete struct{ Name string }

// Load pushes the value of a variable.
type Load struct{ Name string }

// Call invokes a function and pushes its result.
type Call struct{ Function string }

// Skip jumps when Condition is truthy. Target is an int offset relative to
// the next command, or a label name.
type Skip struct{ Condition, Target Operand }

// Label marks a jump target.
type Label struct{ Name string }

func (Literal) isCommand()         {}
func (EmptyCollection) isCommand() {}
func (Append) isCommand()          {}
func (SetItem) isCommand()         {}
func (Pop) isCommand()             {}
func (GetItem) isCommand()         {}
func (RemoveItem) isCommand()      {}
func (BinaryOp) isCommand()        {}
func (UnaryOp) isCommand()         {}
func (Assign) isCommand()          {}
func (Delete) isCommand()          {}
func (Load) isCommand()            {}
func (Call) isCommand()            {}
func (Skip) isCommand()            {}
func (Label) isCommand()           {}

func (Literal) Keyword() string         { return "val" }
func (EmptyCollection) Keyword() string { return "empty" }
func (Append) Keyword() string          { return "append" }
func (SetItem) Keyword() string         { return "set" }
func (Pop) Keyword() string             { return "pop" }
func (GetItem) Keyword() string         { return "get" }
func (RemoveItem) Keyword() string      { return "remove" }
func (BinaryOp) Keyword() string        { return "op" }
func (UnaryOp) Keyword() string         { return "unary" }
func (Assign) Keyword() string          { return "assign" }
func (Delete) Keyword() string          { return "delete" }
func (Load) Keyword() string            { return "load" }
func (Call) Keyword() string            { return "call" }
func (Skip) Keyword() string            { return "skip" }
func (Label) Keyword() string           { return "label" }

func (c Literal) String() string         { return line(c, c.Value) }
func (c EmptyCollection) String() string { return line(c, string(c.Kind)) }
func (c Append) String() string          { return line(c, c.Value) }
func (c SetItem) String() string         { return line(c, c.Location, c.Value) }
func (c Pop) String() string             { return line(c) }
func (c GetItem) String() string         { return line(c, c.Location) }
func (c RemoveItem) String() string      { return line(c, c.Location) }
func (c BinaryOp) String() string        { return line(c, c.Op, c.Left, c.Right) }
func (c UnaryOp) String() string         { return line(c, c.Op, c.Value) }
func (c Assign) String() string          { return line(c, c.Name, c.Value) }
func (c Delete) String() string          { return line(c, c.Name) }
func (c Load) String() string            { return line(c, c.Name) }
func (c Call) String() string            { return line(c, c.Function) }
func (c Skip) String() string            { return line(c, c.Condition, c.Target) }
func (c Label) String() string           { return line(c, c.Name) }

func line(c Command, args ...any) string {
	parts := []string{c.Keyword()}
	for _, a := range args {
		parts = append(parts, FormatOperand(a))
	}
	return strings.Join(parts, " ")
}

// Sourced is a command together with the 1-based source line it was parsed
// from. Parse wraps every command it returns; the interpreter reports that
// line in a CommandError.
type Sourced struct {
	Command
	Line int
}

// Block is an ordered list of commands executed as one program.
type Block []Command

// String renders one command per line.
func (b Block) String() string {
	lines := make([]string, len(b))
	for i, c := range b {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}

// FormatOperand renders an operand so that the tokenizer reads it back as the
// same value.
func FormatOperand(v any) string {
	switch x := v.(type) {
	case Ref:
		return "$" + string(x)
	case nil:
		return "none"
	case string:
		if needsQuote(x) {
			return quote(x)
		}
		return x
	case CollectionKind:
		return string(x)
	default:
		s, ok := formatScalar(v)
		if !ok {
			return quote(fmt.Sprint(v))
		}
		return s
	}
}

func needsQuote(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n\"'\\#") || strings.HasPrefix(s, "$") {
		return true
	}
	_, isString := parseBare(s).(string)
	return !isString
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
