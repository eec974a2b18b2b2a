package command

import (
	"cmp"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Runtime values are nil, bool, int, float64, string, []any (list), Tuple,
// Set, map[any]any (dict), Callable, or anything a Target method returns.

// Tuple is an immutable sequence.
type Tuple []any

// Set is an unordered collection of hashable values.
type Set map[any]struct{}

// NewSet builds a set from values, which must be hashable.
func NewSet(values ...any) (Set, error) {
	s := make(Set, len(values))
	for _, v := range values {
		if !Hashable(v) {
			return nil, fmt.Errorf("unhashable set element %s", TypeName(v))
		}
		s[v] = struct{}{}
	}
	return s, nil
}

// Sorted returns the set's elements in a deterministic order.
func (s Set) Sorted() []any {
	out := slices.Collect(maps.Keys(s))
	slices.SortFunc(out, compareAny)
	return out
}

// Hashable reports whether v may be used as a set element or dict key.
func Hashable(v any) bool {
	switch v.(type) {
	case nil, bool, int, float64, string:
		return true
	}
	return false
}

// TypeName names a runtime value's type for error messages.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "none"
	case bool:
		return "bool"
	case int:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case []any:
		return "list"
	case Tuple:
		return "tuple"
	case Set:
		return "set"
	case map[any]any:
		return "dict"
	case Callable:
		return "callable"
	}
	return fmt.Sprintf("%T", v)
}

// Truthy reports whether a value counts as true for skip conditions and
// logical operators: none, false, zero numbers and empty containers are
// false.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	}
	return true
}

// Normalize converts host values returned by Target methods into runtime
// values: typed slices become lists and string-keyed maps become dicts.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, int, float64, string, []any, Tuple, Set, map[any]any, Callable:
		return v
	case int64:
		return int(x)
	case float32:
		return float64(x)
	case map[string]any:
		out := make(map[any]any, len(x))
		for k, e := range x {
			out[k] = Normalize(e)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[any]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[Normalize(iter.Key().Interface())] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return int(rv.Int())
	}
	return v
}

// Equal compares runtime values. Numbers compare by value across int and
// float.
func Equal(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)
		return ok && fa == fb
	}
	switch x := a.(type) {
	case []any:
		y, ok := b.([]any)
		return ok && slices.EqualFunc(x, y, Equal)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && slices.EqualFunc(x, y, Equal)
	case Set:
		y, ok := b.(Set)
		if !ok || len(x) != len(y) {
			return false
		}
		for k := range x {
			if _, found := y[k]; !found {
				return false
			}
		}
		return true
	case map[any]any:
		y, ok := b.(map[any]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, found := y[k]
			if !found || !Equal(v, w) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// compareAny orders mixed values: none < bool < numbers < strings < others,
// with others ordered by their printed form.
func compareAny(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case 1:
		return cmp.Compare(boolInt(a.(bool)), boolInt(b.(bool)))
	case 2:
		fa, _ := asFloat(a)
		fb, _ := asFloat(b)
		return cmp.Compare(fa, fb)
	case 3:
		return strings.Compare(a.(string), b.(string))
	case 4:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int, float64:
		return 2
	case string:
		return 3
	}
	return 4
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Sequence returns the items of a list or tuple.
func Sequence(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case Tuple:
		return x, true
	case Set:
		return x.Sorted(), true
	}
	return nil, false
}
