package command

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

type valueArg struct {
	Value any `mapstructure:"value"`
}

type valuesArg struct {
	Values []any `mapstructure:"values" cmd:"variadic"`
}

type roundArgs struct {
	Value  any  `mapstructure:"value"`
	Digits *int `mapstructure:"digits" cmd:"optional"`
}

type rangeArgs struct {
	Stop  int  `mapstructure:"stop"`
	Start int  `mapstructure:"start" cmd:"optional"`
	Step  *int `mapstructure:"step" cmd:"optional"`
}

func (in *Interpreter) makeBuiltins() Methods {
	m := Methods{}
	add := func(c Callable) { m[c.Name] = c }

	add(Bind("len", func(a valueArg) (any, error) {
		switch x := a.Value.(type) {
		case string:
			return len([]rune(x)), nil
		case []any:
			return len(x), nil
		case Tuple:
			return len(x), nil
		case Set:
			return len(x), nil
		case map[any]any:
			return len(x), nil
		}
		return nil, fmt.Errorf("len: %s has no length", TypeName(a.Value))
	}))
	add(Bind("min", func(a valuesArg) (any, error) { return extreme("min", a.Values, -1) }))
	add(Bind("max", func(a valuesArg) (any, error) { return extreme("max", a.Values, 1) }))
	add(Bind("sum", func(a valuesArg) (any, error) {
		var total any = 0
		for _, v := range a.Values {
			next, err := Binary("+", total, v)
			if err != nil {
				return nil, fmt.Errorf("sum: %w", err)
			}
			total = next
		}
		return total, nil
	}))
	add(Bind("abs", func(a valueArg) (any, error) {
		switch x := a.Value.(type) {
		case int:
			return max(x, -x), nil
		case float64:
			return math.Abs(x), nil
		}
		return nil, fmt.Errorf("abs: bad operand %s", TypeName(a.Value))
	}))
	add(Bind("round", func(a roundArgs) (any, error) {
		f, ok := asFloat(a.Value)
		if !ok {
			return nil, fmt.Errorf("round: bad operand %s", TypeName(a.Value))
		}
		if a.Digits == nil {
			return int(math.RoundToEven(f)), nil
		}
		scale := math.Pow(10, float64(*a.Digits))
		return math.RoundToEven(f*scale) / scale, nil
	}))
	add(Bind("range", func(a rangeArgs) (any, error) {
		step := 1
		if a.Step != nil {
			step = *a.Step
		}
		if step == 0 {
			return nil, fmt.Errorf("range: step must not be zero")
		}
		out := []any{}
		for i := a.Start; (step > 0 && i < a.Stop) || (step < 0 && i > a.Stop); i += step {
			out = append(out, i)
		}
		return out, nil
	}))
	add(Bind("sorted", func(a valuesArg) (any, error) {
		out := slices.Clone(a.Values)
		slices.SortStableFunc(out, compareAny)
		return out, nil
	}))
	add(Bind("list", func(a valuesArg) (any, error) { return append([]any{}, a.Values...), nil }))
	add(Bind("tuple", func(a valuesArg) (any, error) { return append(Tuple{}, a.Values...), nil }))
	add(Bind("set", func(a valuesArg) (any, error) { return NewSet(a.Values...) }))
	add(Bind("str", func(a valueArg) (any, error) { return Display(a.Value), nil }))
	add(Bind("bool", func(a valueArg) (any, error) { return Truthy(a.Value), nil }))
	add(Bind("int", func(a valueArg) (any, error) {
		switch x := a.Value.(type) {
		case int:
			return x, nil
		case float64:
			return int(x), nil
		case bool:
			return boolInt(x), nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(x))
			if err != nil {
				return nil, fmt.Errorf("int: invalid literal %q", x)
			}
			return n, nil
		}
		return nil, fmt.Errorf("int: bad operand %s", TypeName(a.Value))
	}))
	add(Bind("float", func(a valueArg) (any, error) {
		switch x := a.Value.(type) {
		case int:
			return float64(x), nil
		case float64:
			return x, nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return nil, fmt.Errorf("float: invalid literal %q", x)
			}
			return f, nil
		}
		return nil, fmt.Errorf("float: bad operand %s", TypeName(a.Value))
	}))
	add(Bind("print", func(a valuesArg) (any, error) {
		parts := make([]string, len(a.Values))
		for i, v := range a.Values {
			parts[i] = Display(v)
		}
		text := strings.Join(parts, " ")
		if in.out != nil {
			if _, err := fmt.Fprintln(in.out, text); err != nil {
				return nil, err
			}
		} else {
			in.logger.Info("print", "text", text)
		}
		return nil, nil
	}))
	return m
}

func extreme(name string, values []any, sign int) (any, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: empty sequence", name)
	}
	best := values[0]
	for _, v := range values[1:] {
		greater, err := compare(">", v, best)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		less, _ := compare("<", v, best)
		if (sign > 0 && greater.(bool)) || (sign < 0 && less.(bool)) {
			best = v
		}
	}
	return best, nil
}
