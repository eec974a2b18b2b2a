package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetArgs struct {
	Name   string         `mapstructure:"name"`
	Times  int            `mapstructure:"times" cmd:"optional"`
	Extras []string       `mapstructure:"extras" cmd:"variadic"`
	Rest   map[string]any `mapstructure:"opts,remain"`
}

func TestBind_Params(t *testing.T) {
	c := Bind("greet", func(a greetArgs) (any, error) { return nil, nil })
	assert.Equal(t, []Param{
		{Name: "name", Kind: ParamRequired},
		{Name: "times", Kind: ParamOptional},
		{Name: "extras", Kind: ParamVariadic},
		{Name: "opts", Kind: ParamRemain},
	}, c.Params)
}

func TestCall_TargetMethod(t *testing.T) {
	var got greetArgs
	target := Methods{
		"greet": Bind("greet", func(a greetArgs) (any, error) {
			got = a
			return []string{"hi", a.Name}, nil
		}),
	}
	block := MustParse(`
val bob
assign name
empty list
append x
append y
assign extras
empty dict
set loud true
assign opts
call greet
`)
	scope, err := New(WithTarget(target)).Execute(context.Background(), block)
	require.NoError(t, err)

	assert.Equal(t, "bob", got.Name)
	assert.Equal(t, 0, got.Times)
	assert.Equal(t, []string{"x", "y"}, got.Extras)
	assert.Equal(t, map[string]any{"loud": true}, got.Rest)
	assert.Equal(t, []any{"hi", "bob"}, scope.Current())
}

func TestCall_MissingArgument(t *testing.T) {
	target := Methods{"greet": Bind("greet", func(a greetArgs) (any, error) { return nil, nil })}
	_, err := New(WithTarget(target)).Execute(context.Background(), MustParse("call greet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing argument $name")
}

func TestCall_ScopeCallableAndBuiltinPrecedence(t *testing.T) {
	scope := NewScope()
	scope["double"] = Bind("double", func(a valueArg) (any, error) {
		return a.Value.(int) * 2, nil
	})
	scope["value"] = 21
	in := New(WithTarget(Methods{"double": Bind0("double", func() (any, error) { return "target", nil })}))

	require.NoError(t, in.Run(context.Background(), MustParse("call double"), scope))
	assert.Equal(t, 42, scope.Current())

	scope["value"] = "abc"
	require.NoError(t, in.Run(context.Background(), MustParse("call len"), scope))
	assert.Equal(t, 3, scope.Current())
}
