package codec

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"healconf/result"
	"healconf/tree"
	"healconf/utils"
)

func asInt(node any) (int64, bool) {
	switch v := node.(type) {
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

func asFloat(node any) (float64, bool) {
	switch v := node.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}

	if i, ok := asInt(node); ok {
		return float64(i), true
	}

	return 0, false
}

func parseBool(text string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true", "yes", "on", "y", "1":
		return true, true
	case "false", "no", "off", "n", "0":
		return false, true
	default:
		return false, false
	}
}

type boolCodec struct {
	t        reflect.Type
	leniency Leniency
}

func buildBool(r *Resolution, t reflect.Type) (Pair, error) {
	return Pair{Codec: &boolCodec{t: t, leniency: r.Leniency()}}, nil
}

func (c *boolCodec) value(b bool) any {
	return reflect.ValueOf(b).Convert(c.t).Interface()
}

func (c *boolCodec) Decode(_ *Session, node any) result.Result[Decoded] {
	switch v := node.(type) {
	case bool:
		return accept(c.value(v))
	case string:
		if c.leniency.Has(LenientTextBool) {
			if b, ok := parseBool(v); ok {
				return rewrite(c.value(b))
			}
		}
	default:
		if i, ok := asInt(node); ok && c.leniency.Has(LenientNumericBool) && (i == 0 || i == 1) {
			return rewrite(c.value(i == 1))
		}
	}

	return wrongType("boolean")
}

func (c *boolCodec) Encode(_ *Session, value any) (any, error) {
	rv, err := valueOf(value, c.t)
	if err != nil {
		return nil, err
	}

	return rv.Bool(), nil
}

type stringCodec struct {
	t        reflect.Type
	leniency Leniency
}

func buildString(r *Resolution, t reflect.Type) (Pair, error) {
	return Pair{Codec: &stringCodec{t: t, leniency: r.Leniency()}}, nil
}

func (c *stringCodec) value(s string) any {
	return reflect.ValueOf(s).Convert(c.t).Interface()
}

func (c *stringCodec) Decode(_ *Session, node any) result.Result[Decoded] {
	if s, ok := node.(string); ok {
		return accept(c.value(s))
	}

	if !c.leniency.Has(LenientScalarText) {
		return wrongType("string")
	}

	switch v := node.(type) {
	case bool:
		return rewrite(c.value(strconv.FormatBool(v)))
	case tree.Char:
		return rewrite(c.value(string(v)))
	case float32:
		return rewrite(c.value(strconv.FormatFloat(float64(v), 'g', -1, 32)))
	case float64:
		return rewrite(c.value(strconv.FormatFloat(v, 'g', -1, 64)))
	}

	if i, ok := asInt(node); ok {
		return rewrite(c.value(strconv.FormatInt(i, 10)))
	}

	return wrongType("string")
}

func (c *stringCodec) Encode(_ *Session, value any) (any, error) {
	rv, err := valueOf(value, c.t)
	if err != nil {
		return nil, err
	}

	return rv.String(), nil
}

// charCodec accepts one-rune strings as they are: text formats have no
// character type, so asking for a rewrite would never settle.
type charCodec struct{}

func buildChar(_ *Resolution, _ reflect.Type) (Pair, error) {
	return Pair{Codec: charCodec{}}, nil
}

func (charCodec) Decode(_ *Session, node any) result.Result[Decoded] {
	switch v := node.(type) {
	case tree.Char:
		return accept(v)
	case string:
		if utf8.RuneCountInString(v) == 1 {
			r, _ := utf8.DecodeRuneInString(v)
			return accept(tree.Char(r))
		}
	}

	return wrongType("character")
}

func (charCodec) Encode(_ *Session, value any) (any, error) {
	rv, err := valueOf(value, charType)
	if err != nil {
		return nil, err
	}

	return tree.Char(rv.Int()), nil
}

func isInteger(t reflect.Type) bool {
	_, _, ok := utils.IntBounds(t.Kind())
	return ok
}

type intCodec struct {
	t        reflect.Type
	min, max int64
	leniency Leniency
}

func buildInt(r *Resolution, t reflect.Type) (Pair, error) {
	lo, hi, _ := utils.IntBounds(t.Kind())
	return Pair{Codec: &intCodec{t: t, min: lo, max: hi, leniency: r.Leniency()}}, nil
}

func (c *intCodec) signed() bool {
	return c.t.Kind() >= reflect.Int && c.t.Kind() <= reflect.Int64
}

// integer extracts an integer from node; any canonical width is accepted as
// is, coercions ask for a rewrite.
func (c *intCodec) integer(node any) (value int64, coerced, ok bool) {
	if i, isInt := asInt(node); isInt {
		return i, false, true
	}

	switch v := node.(type) {
	case float32, float64:
		f, _ := asFloat(v)
		if c.leniency.Has(LenientIntegralFloat) && f == math.Trunc(f) &&
			f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), true, true
		}
	case string:
		if c.leniency.Has(LenientTextNumber) {
			if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return i, true, true
			}
		}
	}

	return 0, false, false
}

func (c *intCodec) Decode(_ *Session, node any) result.Result[Decoded] {
	i, coerced, ok := c.integer(node)
	if !ok {
		return wrongType("integer")
	}

	if !utils.IsInRange(c.min, i, c.max) {
		return result.Fail[Decoded](result.Errorf("value %d out of range [%d, %d]", i, c.min, c.max))
	}

	v := reflect.New(c.t).Elem()
	if c.signed() {
		v.SetInt(i)
	} else {
		v.SetUint(uint64(i))
	}

	return result.Ok(Decoded{Value: v.Interface(), Rewrite: coerced})
}

// Encode keeps the width of signed types; unsigned types widen to the next
// signed width.
func (c *intCodec) Encode(_ *Session, value any) (any, error) {
	rv, err := valueOf(value, c.t)
	if err != nil {
		return nil, err
	}

	switch c.t.Kind() {
	case reflect.Int8:
		return int8(rv.Int()), nil
	case reflect.Int16:
		return int16(rv.Int()), nil
	case reflect.Int32:
		return int32(rv.Int()), nil
	case reflect.Int, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint8:
		return int16(rv.Uint()), nil
	case reflect.Uint16:
		return int32(rv.Uint()), nil
	}

	u := rv.Uint()
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("codec: %d overflows the canonical integer", u)
	}

	return int64(u), nil
}

type floatCodec struct {
	t        reflect.Type
	leniency Leniency
}

func buildFloat(r *Resolution, t reflect.Type) (Pair, error) {
	return Pair{Codec: &floatCodec{t: t, leniency: r.Leniency()}}, nil
}

func (c *floatCodec) Decode(_ *Session, node any) result.Result[Decoded] {
	f, ok := asFloat(node)
	coerced := false

	if text, isText := node.(string); isText && c.leniency.Has(LenientTextNumber) {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		f, ok, coerced = parsed, err == nil, true
	}

	if !ok {
		return wrongType("float")
	}

	if c.t.Kind() == reflect.Float32 && !math.IsInf(f, 0) && !math.IsNaN(f) &&
		!utils.IsInRange(-math.MaxFloat32, f, math.MaxFloat32) {
		return result.Fail[Decoded](result.Errorf("value %g out of range [%g, %g]", f, -math.MaxFloat32, math.MaxFloat32))
	}

	v := reflect.New(c.t).Elem()
	v.SetFloat(f)

	return result.Ok(Decoded{Value: v.Interface(), Rewrite: coerced})
}

func (c *floatCodec) Encode(_ *Session, value any) (any, error) {
	rv, err := valueOf(value, c.t)
	if err != nil {
		return nil, err
	}

	if c.t.Kind() == reflect.Float32 {
		return float32(rv.Float()), nil
	}

	return rv.Float(), nil
}
