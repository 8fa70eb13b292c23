package tree

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"
)

// FromNative converts the loosely typed output of a format decoder
// (map[string]any, []any, int, uint64, time.Time, ...) into a canonical value.
// Map keys are sorted; nil map values are dropped since absence is not a value.
func FromNative(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrNotCanonical)
	case bool, int8, int16, int32, int64, float32, float64, Char, string, List:
		return x, nil
	case *Tree:
		return x, nil
	case *Frozen:
		return x, nil
	case int:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		return fromUnsigned(uint64(x))
	case uint64:
		return fromUnsigned(x)
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case time.Duration:
		return x.String(), nil
	case map[string]any:
		return fromMap(x)
	case []any:
		return fromSlice(x)
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		if err != nil {
			return nil, err
		}

		return string(text), nil
	case fmt.Stringer:
		return x.String(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}

		return fromSlice(items)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}

		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}

		return fromMap(m)
	}

	return nil, fmt.Errorf("%w: %T", ErrNotCanonical, v)
}

func fromUnsigned(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", ErrNotCanonical, u)
	}

	return int64(u), nil
}

func fromMap(m map[string]any) (*Tree, error) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	out := New()
	for _, key := range keys {
		if m[key] == nil {
			continue
		}

		v, err := FromNative(m[key])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		if err := out.Put(key, v); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func fromSlice(items []any) (List, error) {
	out := make([]any, 0, len(items))
	for i, item := range items {
		v, err := FromNative(item)
		if err != nil {
			return List{}, fmt.Errorf("index %d: %w", i, err)
		}

		out = append(out, v)
	}

	return NewList(out...)
}

// ToNative converts a canonical value into plain Go values for encoders:
// trees become map[string]any, lists []any and characters strings.
func ToNative(v any) any {
	switch x := v.(type) {
	case Char:
		return string(x)
	case List:
		out := make([]any, x.Len())
		for i, item := range x.All() {
			out[i] = ToNative(item)
		}

		return out
	case Node:
		out := make(map[string]any, x.Len())
		for key, e := range x.All() {
			out[key] = ToNative(e.Value())
		}

		return out
	default:
		return v
	}
}
