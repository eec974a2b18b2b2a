package domain

import (
	"maps"
	"reflect"
	"slices"

	"github.com/aretw0/journey/pkg/command"
)

// Tags maps a tag name to a value. Values are scalars (bool, int, float64,
// string, nil), lists ([]any), mappings (map[string]any) or the script
// collections of pkg/command (Tuple, Set, map[any]any).
type Tags map[string]any

// Clone deep-copies the tags.
func (t Tags) Clone() Tags {
	if t == nil {
		return Tags{}
	}
	out := make(Tags, len(t))
	for k, v := range t {
		out[k] = CloneValue(v)
	}
	return out
}

// Names returns tag names sorted.
func (t Tags) Names() []string {
	return slices.Sorted(maps.Keys(t))
}

// Merge copies entries from other that are not already present.
func (t Tags) Merge(other Tags) {
	for k, v := range other {
		if _, ok := t[k]; !ok {
			t[k] = CloneValue(v)
		}
	}
}

// CloneValue deep-copies lists and mappings built from tag-style values.
func CloneValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = CloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = CloneValue(e)
		}
		return out
	case map[any]any:
		out := make(map[any]any, len(x))
		for k, e := range x {
			out[k] = CloneValue(e)
		}
		return out
	case command.Tuple:
		out := make(command.Tuple, len(x))
		for i, e := range x {
			out[i] = CloneValue(e)
		}
		return out
	case command.Set:
		return maps.Clone(x)
	default:
		return v
	}
}

// ValuesEqual compares tag-style values, treating nil and empty containers
// alike.
func ValuesEqual(a, b any) bool {
	if isEmptyContainer(a) && isEmptyContainer(b) {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func isEmptyContainer(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		return rv.Len() == 0
	}
	return false
}
