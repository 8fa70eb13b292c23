package codec

import (
	"encoding"
	"fmt"
	"reflect"
	"time"

	"healconf/result"
	"healconf/tree"
)

var (
	durationType        = reflect.TypeFor[time.Duration]()
	charType            = reflect.TypeFor[tree.Char]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
)

// DefaultHandlers returns the built-in handlers in priority order.
func DefaultHandlers() []Handler {
	return []Handler{
		{Name: "raw", Claims: isRaw, Build: buildRaw},
		{Name: "duration", Claims: isType(durationType), Build: buildDuration},
		{Name: "text", Claims: isText, Build: buildText},
		{Name: "set", Claims: isSet, Build: buildSet},
		{Name: "bool", Claims: isKind(reflect.Bool), Build: buildBool},
		{Name: "char", Claims: isType(charType), Build: buildChar},
		{Name: "string", Claims: isKind(reflect.String), Build: buildString},
		{Name: "int", Claims: isInteger, Build: buildInt},
		{Name: "float", Claims: isKind(reflect.Float32, reflect.Float64), Build: buildFloat},
		{Name: "pointer", Claims: isKind(reflect.Pointer), Build: buildPointer},
		{Name: "slice", Claims: isKind(reflect.Slice), Build: buildSlice},
		{Name: "map", Claims: isMap, Build: buildMap},
	}
}

func isType(want reflect.Type) func(reflect.Type) bool {
	return func(t reflect.Type) bool { return t == want }
}

func isKind(kinds ...reflect.Kind) func(reflect.Type) bool {
	return func(t reflect.Type) bool {
		for _, k := range kinds {
			if t.Kind() == k {
				return true
			}
		}

		return false
	}
}

func isRaw(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

func isText(t reflect.Type) bool {
	if t.Kind() == reflect.Interface || t.Kind() == reflect.Pointer {
		return false
	}

	pt := reflect.PointerTo(t)

	return pt.Implements(textUnmarshalerType) &&
		(t.Implements(textMarshalerType) || pt.Implements(textMarshalerType))
}

func accept(v any) result.Result[Decoded] { return result.Ok(Decoded{Value: v}) }

func rewrite(v any) result.Result[Decoded] { return result.Ok(Decoded{Value: v, Rewrite: true}) }

func wrongType(expected string) result.Result[Decoded] {
	return result.Fail[Decoded](result.Errorf("wrong type, expected %s", expected))
}

// Assign stores v into dst, converting between a named type and its
// underlying type when needed.
func Assign(dst reflect.Value, v any) {
	if v == nil {
		dst.SetZero()
		return
	}

	rv := reflect.ValueOf(v)
	if rv.Type() != dst.Type() && rv.Type().ConvertibleTo(dst.Type()) {
		rv = rv.Convert(dst.Type())
	}

	dst.Set(rv)
}

func valueOf(value any, t reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return rv, fmt.Errorf("codec: cannot encode nil as %s", t)
	}

	if rv.Type() != t {
		if !rv.Type().ConvertibleTo(t) {
			return rv, fmt.Errorf("codec: cannot encode %s as %s", rv.Type(), t)
		}

		rv = rv.Convert(t)
	}

	return rv, nil
}

// encodeReplacement returns the canonical node a rewritten element should be
// stored as.
func encodeReplacement(c Codec, s *Session, d Decoded) (any, error) {
	if d.Replacement != nil {
		return d.Replacement, nil
	}

	return c.Encode(s, d.Value)
}

type rawCodec struct{}

func buildRaw(_ *Resolution, _ reflect.Type) (Pair, error) {
	return Pair{Codec: rawCodec{}}, nil
}

func (rawCodec) Decode(_ *Session, node any) result.Result[Decoded] {
	return accept(tree.ToNative(node))
}

func (rawCodec) Encode(_ *Session, value any) (any, error) {
	return tree.FromNative(value)
}

type durationCodec struct {
	leniency Leniency
}

func buildDuration(r *Resolution, _ reflect.Type) (Pair, error) {
	return Pair{Codec: &durationCodec{leniency: r.Leniency()}}, nil
}

func (c *durationCodec) Decode(_ *Session, node any) result.Result[Decoded] {
	if text, ok := node.(string); ok {
		d, err := time.ParseDuration(text)
		if err != nil {
			return result.Fail[Decoded](result.Wrap(err, fmt.Sprintf("invalid duration %q", text)))
		}

		return result.Ok(Decoded{Value: d, Rewrite: d.String() != text})
	}

	if c.leniency.Has(LenientNumericDuration) {
		if seconds, ok := asFloat(node); ok {
			return rewrite(time.Duration(seconds * float64(time.Second)))
		}
	}

	return wrongType("duration")
}

func (c *durationCodec) Encode(_ *Session, value any) (any, error) {
	rv, err := valueOf(value, durationType)
	if err != nil {
		return nil, err
	}

	return time.Duration(rv.Int()).String(), nil
}

type textCodec struct {
	t reflect.Type
}

func buildText(_ *Resolution, t reflect.Type) (Pair, error) {
	return Pair{Codec: &textCodec{t: t}}, nil
}

func (c *textCodec) Decode(_ *Session, node any) result.Result[Decoded] {
	text, ok := node.(string)
	if !ok {
		return wrongType("text")
	}

	p := reflect.New(c.t)
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
		return result.Fail[Decoded](result.Wrap(err, fmt.Sprintf("invalid value %q: %v", text, err)))
	}

	canonical, err := c.marshal(p)
	if err != nil {
		return result.Fail[Decoded](result.Wrap(err, fmt.Sprintf("invalid value %q: %v", text, err)))
	}

	return result.Ok(Decoded{Value: p.Elem().Interface(), Rewrite: canonical != text})
}

func (c *textCodec) Encode(_ *Session, value any) (any, error) {
	rv, err := valueOf(value, c.t)
	if err != nil {
		return nil, err
	}

	p := reflect.New(c.t)
	p.Elem().Set(rv)

	return c.marshal(p)
}

func (c *textCodec) marshal(p reflect.Value) (string, error) {
	text, err := p.Interface().(encoding.TextMarshaler).MarshalText()

	return string(text), err
}
