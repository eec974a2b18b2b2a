package command

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Binary applies a binary operator.
func Binary(op string, l, r any) (any, error) {
	switch op {
	case "and":
		if !Truthy(l) {
			return l, nil
		}
		return r, nil
	case "or":
		if Truthy(l) {
			return l, nil
		}
		return r, nil
	case "==":
		return Equal(l, r), nil
	case "!=":
		return !Equal(l, r), nil
	case "<", "<=", ">", ">=":
		return compare(op, l, r)
	case "in":
		return contains(r, l)
	case "&", "|", "^":
		return bitwise(op, l, r)
	}

	li, lInt := l.(int)
	ri, rInt := r.(int)
	if lInt && rInt {
		return intArith(op, li, ri)
	}
	lf, lNum := asFloat(l)
	rf, rNum := asFloat(r)
	if lNum && rNum {
		return floatArith(op, lf, rf)
	}
	return sequenceArith(op, l, r)
}

func intArith(op string, a, b int) (any, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return float64(a) / float64(b), nil
	case "//":
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		q := a / b
		if (a%b != 0) && ((a < 0) != (b < 0)) {
			q--
		}
		return q, nil
	case "%":
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		m := a % b
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, nil
	case "**":
		if b < 0 {
			return math.Pow(float64(a), float64(b)), nil
		}
		result := 1
		for range b {
			result *= a
		}
		return result, nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

func floatArith(op string, a, b float64) (any, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return a / b, nil
	case "//":
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return math.Floor(a / b), nil
	case "%":
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, nil
	case "**":
		return math.Pow(a, b), nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

func sequenceArith(op string, l, r any) (any, error) {
	switch op {
	case "+":
		switch x := l.(type) {
		case string:
			if y, ok := r.(string); ok {
				return x + y, nil
			}
		case []any:
			if y, ok := r.([]any); ok {
				return append(append([]any{}, x...), y...), nil
			}
		case Tuple:
			if y, ok := r.(Tuple); ok {
				return append(append(Tuple{}, x...), y...), nil
			}
		}
	case "*":
		n, ok := r.(int)
		if !ok {
			break
		}
		switch x := l.(type) {
		case string:
			return strings.Repeat(x, max(n, 0)), nil
		case []any:
			out := []any{}
			for range max(n, 0) {
				out = append(out, x...)
			}
			return out, nil
		}
	case "-":
		x, ok1 := l.(Set)
		y, ok2 := r.(Set)
		if ok1 && ok2 {
			out := Set{}
			for k := range x {
				if _, found := y[k]; !found {
					out[k] = struct{}{}
				}
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("unsupported operand types for %s: %s and %s", op, TypeName(l), TypeName(r))
}

func compare(op string, l, r any) (any, error) {
	var c int
	lf, lNum := asFloat(l)
	rf, rNum := asFloat(r)
	ls, lStr := l.(string)
	rs, rStr := r.(string)
	switch {
	case lNum && rNum:
		switch {
		case lf < rf:
			c = -1
		case lf > rf:
			c = 1
		}
	case lStr && rStr:
		c = strings.Compare(ls, rs)
	default:
		return nil, fmt.Errorf("cannot compare %s and %s", TypeName(l), TypeName(r))
	}
	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	}
	return c >= 0, nil
}

func contains(container, item any) (any, error) {
	switch c := container.(type) {
	case string:
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("'in <str>' requires a str, got %s", TypeName(item))
		}
		return strings.Contains(c, s), nil
	case []any:
		for _, e := range c {
			if Equal(e, item) {
				return true, nil
			}
		}
		return false, nil
	case Tuple:
		for _, e := range c {
			if Equal(e, item) {
				return true, nil
			}
		}
		return false, nil
	case Set:
		if !Hashable(item) {
			return false, nil
		}
		_, ok := c[item]
		return ok, nil
	case map[any]any:
		if !Hashable(item) {
			return false, nil
		}
		_, ok := c[item]
		return ok, nil
	}
	return nil, fmt.Errorf("%s is not a container", TypeName(container))
}

func bitwise(op string, l, r any) (any, error) {
	switch x := l.(type) {
	case int:
		if y, ok := r.(int); ok {
			switch op {
			case "&":
				return x & y, nil
			case "|":
				return x | y, nil
			}
			return x ^ y, nil
		}
	case bool:
		if y, ok := r.(bool); ok {
			switch op {
			case "&":
				return x && y, nil
			case "|":
				return x || y, nil
			}
			return x != y, nil
		}
	case Set:
		if y, ok := r.(Set); ok {
			out := Set{}
			for k := range x {
				_, inY := y[k]
				if op == "|" || (op == "&" && inY) || (op == "^" && !inY) {
					out[k] = struct{}{}
				}
			}
			if op != "&" {
				for k := range y {
					if _, inX := x[k]; !inX {
						out[k] = struct{}{}
					}
				}
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("unsupported operand types for %s: %s and %s", op, TypeName(l), TypeName(r))
}

// Unary applies a unary operator.
func Unary(op string, v any) (any, error) {
	switch op {
	case "not":
		return !Truthy(v), nil
	case "-":
		switch x := v.(type) {
		case int:
			return -x, nil
		case float64:
			return -x, nil
		}
	case "+":
		switch v.(type) {
		case int, float64:
			return v, nil
		}
	case "~":
		if x, ok := v.(int); ok {
			return ^x, nil
		}
	default:
		return nil, fmt.Errorf("unknown unary operator %q", op)
	}
	return nil, fmt.Errorf("bad operand type for unary %s: %s", op, TypeName(v))
}

// Display renders a value for print and str.
func Display(v any) string {
	return display(v, false)
}

func display(v any, nested bool) string {
	switch x := v.(type) {
	case nil:
		return "none"
	case string:
		if nested {
			return strconv.Quote(x)
		}
		return x
	case float64:
		if s, ok := formatScalar(x); ok {
			return s
		}
		return fmt.Sprint(x)
	case []any:
		return "[" + joinDisplay(x) + "]"
	case Tuple:
		return "(" + joinDisplay(x) + ")"
	case Set:
		return "{" + joinDisplay(x.Sorted()) + "}"
	case map[any]any:
		keys := make([]any, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareAny)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = display(k, true) + ": " + display(x[k], true)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Callable:
		return "<function " + x.Name + ">"
	}
	return fmt.Sprint(v)
}

func joinDisplay(items []any) string {
	parts := make([]string, len(items))
	for i, e := range items {
		parts[i] = display(e, true)
	}
	return strings.Join(parts, ", ")
}
