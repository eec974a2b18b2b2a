package codec

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/journey/pkg/command"
)

// Discriminator is the object key naming the kind of a tagged value.
const Discriminator = "^"

const (
	kindTuple       = "tuple"
	kindSet         = "set"
	kindDict        = "dict"
	kindObject      = "object"
	kindGraph       = "DecisionGraph"
	kindExploration = "Exploration"
)

// encodeValue turns a tag or custom-state value into a JSON-ready tree.
// Tuples, sets and non-string-keyed dicts become tagged objects so they
// decode back to the same kind. Floats always carry a fraction or exponent.
func encodeValue(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, int, int64, json.Number:
		return x, nil
	case float64:
		return encodeFloat(x)
	case []any:
		return encodeList(x)
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, nil
	case command.Tuple:
		values, err := encodeList(x)
		if err != nil {
			return nil, err
		}
		return map[string]any{Discriminator: kindTuple, "values": values}, nil
	case command.Set:
		values, err := encodeList(x.Sorted())
		if err != nil {
			return nil, err
		}
		return map[string]any{Discriminator: kindSet, "values": values}, nil
	case map[string]any:
		if _, clash := x[Discriminator]; clash {
			m := make(map[any]any, len(x))
			for k, e := range x {
				m[k] = e
			}
			return encodeItems(kindObject, m)
		}
		out := make(map[string]any, len(x))
		for k, e := range x {
			enc, err := encodeValue(e)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	case map[any]any:
		return encodeItems(kindDict, x)
	}
	return nil, fmt.Errorf("cannot encode value of type %T", v)
}

func encodeFloat(f float64) (json.Number, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fmt.Errorf("cannot encode %v", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return json.Number(s), nil
}

func encodeList(items []any) ([]any, error) {
	out := make([]any, len(items))
	for i, item := range items {
		enc, err := encodeValue(item)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

func encodeItems(kind string, m map[any]any) (any, error) {
	keys := slices.SortedFunc(maps.Keys(m), func(a, b any) int {
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	})
	items := make([]any, 0, len(keys))
	for _, k := range keys {
		ek, err := encodeValue(k)
		if err != nil {
			return nil, err
		}
		ev, err := encodeValue(m[k])
		if err != nil {
			return nil, err
		}
		items = append(items, []any{ek, ev})
	}
	return map[string]any{Discriminator: kind, "items": items}, nil
}

// decodeValue reverses encodeValue on a tree produced by a json.Decoder with
// UseNumber. Numbers written without a fraction or exponent become int,
// all others float64.
func decodeValue(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string:
		return x, nil
	case json.Number:
		if !strings.ContainsAny(x.String(), ".eE") {
			if i, err := x.Int64(); err == nil {
				return int(i), nil
			}
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("bad number %s: %w", x, err)
		}
		return f, nil
	case float64:
		return x, nil
	case []any:
		return decodeList(x)
	case map[string]any:
		kind, tagged := x[Discriminator]
		if !tagged {
			out := make(map[string]any, len(x))
			for k, e := range x {
				dec, err := decodeValue(e)
				if err != nil {
					return nil, err
				}
				out[k] = dec
			}
			return out, nil
		}
		switch kind {
		case kindTuple:
			values, err := listField(x, "values")
			if err != nil {
				return nil, err
			}
			return command.Tuple(values), nil
		case kindSet:
			values, err := listField(x, "values")
			if err != nil {
				return nil, err
			}
			return command.NewSet(values...)
		case kindDict:
			return decodeItems(x, func(k, v any, out map[any]any) error {
				out[k] = v
				return nil
			})
		case kindObject:
			items, err := decodeItems(x, func(k, v any, out map[any]any) error {
				if _, ok := k.(string); !ok {
					return fmt.Errorf("object key %v is not text", k)
				}
				out[k] = v
				return nil
			})
			if err != nil {
				return nil, err
			}
			out := make(map[string]any, len(items))
			for k, v := range items {
				out[k.(string)] = v
			}
			return out, nil
		}
		return nil, fmt.Errorf("unknown value kind %v", kind)
	}
	return nil, fmt.Errorf("cannot decode value of type %T", v)
}

func decodeItems(m map[string]any, put func(k, v any, out map[any]any) error) (map[any]any, error) {
	raw, _ := m["items"].([]any)
	out := make(map[any]any, len(raw))
	for _, item := range raw {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%v item must be a [key, value] pair", m[Discriminator])
		}
		k, err := decodeValue(pair[0])
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(pair[1])
		if err != nil {
			return nil, err
		}
		if err := put(k, v, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeList(items []any) ([]any, error) {
	out := make([]any, len(items))
	for i, item := range items {
		dec, err := decodeValue(item)
		if err != nil {
			return nil, err
		}
		out[i] = dec
	}
	return out, nil
}

func listField(m map[string]any, key string) ([]any, error) {
	raw, ok := m[key].([]any)
	if !ok && m[key] != nil {
		return nil, fmt.Errorf("%s %q must be a list", m[Discriminator], key)
	}
	return decodeList(raw)
}
