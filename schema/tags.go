package schema

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"healconf/codec"
	"healconf/keypath"
	"healconf/result"
	"healconf/tree"
	"healconf/utils"
)

func parseMetadata(f reflect.StructField, t reflect.Type) (Metadata, error) {
	var meta Metadata

	meta.DefaultText = f.Tag.Get("default")

	if text, ok := f.Tag.Lookup("comment"); ok {
		meta.Comments.Above = strings.Split(text, "|")
	}

	if text, ok := f.Tag.Lookup("comment-inline"); ok {
		meta.Comments.Inline = []string{text}
	}

	if text, ok := f.Tag.Lookup("comment-below"); ok {
		meta.Comments.Below = strings.Split(text, "|")
	}

	if text, ok := f.Tag.Lookup("range"); ok {
		r, err := parseRange(text, t)
		if err != nil {
			return meta, err
		}

		meta.Range = &r
	}

	return meta, nil
}

func parseRange(text string, t reflect.Type) (Range, error) {
	if !numeric(t) {
		return Range{}, fmt.Errorf("%w: range on non-numeric type %s", codec.ErrInvalidTag, t)
	}

	if !strings.Contains(text, ",") {
		return Range{}, fmt.Errorf("%w: range %q must be \"min,max\"", codec.ErrInvalidTag, text)
	}

	lo, hi := utils.Unpack2(strings.SplitN(text, ",", 2))
	r := Range{Min: math.Inf(-1), Max: math.Inf(1)}

	var err error

	if lo = strings.TrimSpace(lo); lo != "" {
		if r.Min, err = strconv.ParseFloat(lo, 64); err != nil {
			return Range{}, fmt.Errorf("%w: range minimum %q", codec.ErrInvalidTag, lo)
		}
	}

	if hi = strings.TrimSpace(hi); hi != "" {
		if r.Max, err = strconv.ParseFloat(hi, 64); err != nil {
			return Range{}, fmt.Errorf("%w: range maximum %q", codec.ErrInvalidTag, hi)
		}
	}

	if r.Min > r.Max {
		return Range{}, fmt.Errorf("%w: empty range %q", codec.ErrInvalidTag, text)
	}

	return r, nil
}

func numeric(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// numberOf returns v as a float for range checks.
func numberOf(v any) (float64, bool) {
	rv := reflect.ValueOf(v)

	switch {
	case !rv.IsValid():
		return 0, false
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		return rv.Float(), true
	default:
		return 0, false
	}
}

// tagDefault parses a default tag as YAML and checks it decodes with c. The
// returned provider decodes again on each call so defaults are never shared.
func tagDefault(text string, c codec.Codec) (codec.Default, error) {
	var native any
	if err := yaml.Unmarshal([]byte(text), &native); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", codec.ErrInvalidDefault, text, err)
	}

	if native == nil {
		native = text
	}

	node, err := tree.FromNative(native)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", codec.ErrInvalidDefault, text, err)
	}

	decode := func() result.Result[any] {
		return codec.Deserialize(c, codec.NewSession(keypath.Identity{}, nil, nil), node)
	}

	if res := decode(); !res.OK() {
		return nil, fmt.Errorf("%w: %q: %v", codec.ErrInvalidDefault, text, res.Err())
	}

	return func() any { return decode().Value() }, nil
}

// fallback inspects the Default<Field> method of layer. Accepted shapes:
//
//	func () T
//	func () *T
//	func () (T, bool)
func fallback(layer reflect.Type, f reflect.StructField, t reflect.Type) (codec.Default, error) {
	m, ok := reflect.PointerTo(layer).MethodByName("Default" + f.Name)
	if !ok {
		return nil, nil
	}

	fn := m.Type
	if fn.NumIn() != 1 {
		return nil, fmt.Errorf("%w: %s takes parameters", codec.ErrInvalidFallback, m.Name)
	}

	out := fn.NumOut()
	if out == 0 || out > 2 || (out == 2 && fn.Out(1).Kind() != reflect.Bool) {
		return nil, fmt.Errorf("%w: %s must return T or (T, bool)", codec.ErrInvalidFallback, m.Name)
	}

	if res := fn.Out(0); res != t && res != reflect.PointerTo(t) {
		return nil, fmt.Errorf("%w: %s returns %s, want %s", codec.ErrInvalidFallback, m.Name, res, t)
	}

	return func() any {
		outs := m.Func.Call([]reflect.Value{reflect.New(layer)})
		if len(outs) == 2 && !outs[1].Bool() {
			return nil
		}

		v := outs[0]
		if v.Type() != t {
			if v.IsNil() {
				return nil
			}

			v = v.Elem()
		}

		return v.Interface()
	}, nil
}
