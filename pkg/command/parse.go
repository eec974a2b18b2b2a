package command

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseError reports a line that could not be turned into a command.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

type token struct {
	text   string
	quoted bool
}

// tokenize splits a line on whitespace. Quoted substrings (single or double
// quotes, backslash escapes) form one token. An unquoted '#' ends the line.
func tokenize(line string) ([]token, error) {
	var (
		tokens  []token
		current strings.Builder
		inToken bool
		quoted  bool
	)
	flush := func() {
		if inToken {
			tokens = append(tokens, token{text: current.String(), quoted: quoted})
		}
		current.Reset()
		inToken, quoted = false, false
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '#':
			flush()
			return tokens, nil
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			flush()
		case (r == '"' || r == '\'') && !inToken:
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '\\' {
					j++
					if j >= len(runes) {
						break
					}
					current.WriteRune(unescape(runes[j]))
					continue
				}
				if runes[j] == r {
					end = j
					break
				}
				current.WriteRune(runes[j])
			}
			if end < 0 {
				return nil, fmt.Errorf("unterminated quote")
			}
			inToken, quoted = true, true
			i = end
			flush()
		default:
			inToken = true
			current.WriteRune(r)
		}
	}
	flush()
	return tokens, nil
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return r
}

// parseBare converts an unquoted token into a constant: none, true, false,
// integers and floats are recognised; everything else is a string.
func parseBare(s string) any {
	switch s {
	case "none":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if strings.ContainsAny(s, ".eE") && !strings.ContainsAny(s, "nN") {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
			return f
		}
	}
	return s
}

func operand(t token) Operand {
	if t.quoted {
		return t.text
	}
	if name, ok := strings.CutPrefix(t.text, "$"); ok && name != "" {
		return Ref(name)
	}
	return parseBare(t.text)
}

func formatScalar(v any) (string, bool) {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return "", false
		}
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s, true
	}
	return "", false
}

type spec struct {
	min, max int
	build    func(args []token) (Command, error)
}

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "//": true, "%": true, "**": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"and": true, "or": true, "in": true, "&": true, "|": true, "^": true,
}

var unaryOps = map[string]bool{"-": true, "+": true, "not": true, "~": true}

var specs = map[string]spec{
	"val": {1, 1, func(a []token) (Command, error) {
		v := operand(a[0])
		if _, isRef := v.(Ref); isRef {
			return nil, fmt.Errorf("val takes a constant; use load for variables")
		}
		return Literal{Value: v}, nil
	}},
	"empty": {1, 1, func(a []token) (Command, error) {
		kind := CollectionKind(a[0].text)
		switch kind {
		case KindList, KindTuple, KindSet, KindDict:
			return EmptyCollection{Kind: kind}, nil
		}
		return nil, fmt.Errorf("unknown collection kind %q", a[0].text)
	}},
	"append": {0, 1, func(a []token) (Command, error) {
		return Append{Value: optional(a, 0, Ref(Previous))}, nil
	}},
	"set": {1, 2, func(a []token) (Command, error) {
		return SetItem{Location: operand(a[0]), Value: optional(a, 1, Ref(Previous))}, nil
	}},
	"pop": {0, 0, func([]token) (Command, error) { return Pop{}, nil }},
	"get": {1, 1, func(a []token) (Command, error) {
		return GetItem{Location: operand(a[0])}, nil
	}},
	"remove": {1, 1, func(a []token) (Command, error) {
		return RemoveItem{Location: operand(a[0])}, nil
	}},
	"op": {3, 3, func(a []token) (Command, error) {
		if !binaryOps[a[0].text] {
			return nil, fmt.Errorf("unknown operator %q", a[0].text)
		}
		return BinaryOp{Op: a[0].text, Left: operand(a[1]), Right: operand(a[2])}, nil
	}},
	"unary": {1, 2, func(a []token) (Command, error) {
		if !unaryOps[a[0].text] {
			return nil, fmt.Errorf("unknown unary operator %q", a[0].text)
		}
		return UnaryOp{Op: a[0].text, Value: optional(a, 1, Ref(Current))}, nil
	}},
	"assign": {1, 2, func(a []token) (Command, error) {
		name, err := variableName(a[0])
		if err != nil {
			return nil, err
		}
		return Assign{Name: name, Value: optional(a, 1, Ref(Current))}, nil
	}},
	"delete": {1, 1, func(a []token) (Command, error) {
		name, err := variableName(a[0])
		return Delete{Name: name}, err
	}},
	"load": {1, 1, func(a []token) (Command, error) {
		name, err := variableName(a[0])
		return Load{Name: name}, err
	}},
	"call": {1, 1, func(a []token) (Command, error) {
		name, err := variableName(a[0])
		return Call{Function: name}, err
	}},
	"skip": {2, 2, func(a []token) (Command, error) {
		target := operand(a[1])
		switch target.(type) {
		case Ref, int, string:
			return Skip{Condition: operand(a[0]), Target: target}, nil
		}
		return nil, fmt.Errorf("skip target must be an offset or a label")
	}},
	"label": {1, 1, func(a []token) (Command, error) {
		if a[0].text == "" {
			return nil, fmt.Errorf("empty label")
		}
		return Label{Name: a[0].text}, nil
	}},
}

func optional(args []token, i int, def Operand) Operand {
	if i < len(args) {
		return operand(args[i])
	}
	return def
}

// variableName accepts "name" or "$name".
func variableName(t token) (string, error) {
	name := strings.TrimPrefix(t.text, "$")
	if name == "" {
		return "", fmt.Errorf("empty name")
	}
	return name, nil
}

// ParseLine parses a single command. Blank and comment-only lines yield a
// nil command and no error.
func ParseLine(text string) (Command, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	keyword := tokens[0].text
	s, ok := specs[keyword]
	if !ok || tokens[0].quoted {
		return nil, fmt.Errorf("unknown command %q", keyword)
	}
	args := tokens[1:]
	if len(args) < s.min || len(args) > s.max {
		if s.min == s.max {
			return nil, fmt.Errorf("%s takes %d argument(s), got %d", keyword, s.min, len(args))
		}
		return nil, fmt.Errorf("%s takes %d to %d arguments, got %d", keyword, s.min, s.max, len(args))
	}
	return s.build(args)
}

// Parse parses a multi-line program. Each command is wrapped in a Sourced
// holding its line in text.
func Parse(text string) (Block, error) {
	var block Block
	for i, line := range strings.Split(text, "\n") {
		cmd, err := ParseLine(line)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: strings.TrimSpace(line), Reason: err.Error()}
		}
		if cmd != nil {
			block = append(block, Sourced{Command: cmd, Line: i + 1})
		}
	}
	return block, nil
}

// MustParse is Parse that panics on error.
func MustParse(text string) Block {
	b, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return b
}
