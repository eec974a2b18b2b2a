package command

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ParamKind controls how a parameter is filled from the scope.
type ParamKind int

const (
	// ParamRequired must be present in the scope.
	ParamRequired ParamKind = iota
	// ParamOptional is passed only when present.
	ParamOptional
	// ParamVariadic takes a list or tuple variable.
	ParamVariadic
	// ParamRemain takes a dict variable whose entries become extra arguments.
	ParamRemain
)

// Param describes one parameter of a Callable.
type Param struct {
	Name string
	Kind ParamKind
}

// Callable is a function invocable through the call command. Fn receives the
// arguments gathered from the scope, keyed by parameter name.
type Callable struct {
	Name   string
	Params []Param
	Fn     func(args map[string]any) (any, error)
}

// Target exposes methods of a host object to call.
type Target interface {
	Method(name string) (Callable, bool)
}

// Methods is a Target backed by a fixed table.
type Methods map[string]Callable

func (m Methods) Method(name string) (Callable, bool) {
	c, ok := m[name]
	return c, ok
}

// Bind wraps fn as a Callable. P must be a struct; each exported field is a
// parameter named by its mapstructure tag (or its lower-cased field name).
// A `cmd:"optional"` or `cmd:"variadic"` tag changes the kind, and a field
// tagged `mapstructure:"name,remain"` receives the entries of the dict
// variable "name". Arguments are decoded into P with mapstructure.
func Bind[P any](name string, fn func(P) (any, error)) Callable {
	return Callable{
		Name:   name,
		Params: paramsOf(reflect.TypeFor[P]()),
		Fn: func(args map[string]any) (any, error) {
			var p P
			dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				Result:           &p,
				WeaklyTypedInput: true,
			})
			if err != nil {
				return nil, err
			}
			if err := dec.Decode(args); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			return fn(p)
		},
	}
}

// Bind0 wraps a function that takes no arguments.
func Bind0(name string, fn func() (any, error)) Callable {
	return Callable{Name: name, Fn: func(map[string]any) (any, error) { return fn() }}
}

func paramsOf(t reflect.Type) []Param {
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("command: Bind parameter type must be a struct, got %s", t))
	}
	var params []Param
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		p := Param{Name: name}
		switch {
		case strings.Contains(opts, "remain"):
			p.Kind = ParamRemain
		case f.Tag.Get("cmd") == "optional":
			p.Kind = ParamOptional
		case f.Tag.Get("cmd") == "variadic":
			p.Kind = ParamVariadic
		}
		params = append(params, p)
	}
	return params
}

// gather collects arguments for c from scope variables named after its
// parameters. Entries of a remain dict are added last and may not shadow a
// named parameter.
func gather(c Callable, scope Scope) (map[string]any, error) {
	args := make(map[string]any, len(c.Params))
	var extras []map[any]any
	for _, p := range c.Params {
		v, ok := scope[p.Name]
		switch p.Kind {
		case ParamRequired:
			if !ok {
				return nil, fmt.Errorf("%s: missing argument $%s", c.Name, p.Name)
			}
			args[p.Name] = v
		case ParamOptional:
			if ok {
				args[p.Name] = v
			}
		case ParamVariadic:
			if !ok {
				continue
			}
			items, isSeq := Sequence(v)
			if !isSeq {
				return nil, fmt.Errorf("%s: $%s must be a list, got %s", c.Name, p.Name, TypeName(v))
			}
			args[p.Name] = items
		case ParamRemain:
			if !ok {
				continue
			}
			extra, isDict := v.(map[any]any)
			if !isDict {
				return nil, fmt.Errorf("%s: $%s must be a dict, got %s", c.Name, p.Name, TypeName(v))
			}
			extras = append(extras, extra)
		}
	}
	for _, extra := range extras {
		for k, e := range extra {
			key := fmt.Sprint(k)
			if _, dup := args[key]; dup {
				return nil, fmt.Errorf("%s: duplicate argument %q", c.Name, key)
			}
			args[key] = e
		}
	}
	return args, nil
}
