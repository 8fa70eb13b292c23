package schema

import (
	"errors"
	"fmt"
	"reflect"

	"healconf/codec"
	"healconf/result"
)

var (
	ErrUnknownEntry = errors.New("unknown entry")
	ErrNotOptional  = errors.New("entry is not optional")
	ErrWrongTarget  = errors.New("wrong target type")
	ErrIncomplete   = errors.New("no value for required entry")
)

// Values holds the resolved value of every entry of a schema. An optional
// entry without a value is absent.
type Values struct {
	schema *Schema
	values map[*Entry]any
}

func NewValues(s *Schema) *Values {
	return &Values{schema: s, values: make(map[*Entry]any)}
}

func (v *Values) Schema() *Schema { return v.schema }

// Len returns the number of entries holding a value.
func (v *Values) Len() int { return len(v.values) }

// Get returns the value of the entry with label; false when absent.
func (v *Values) Get(label string) (any, bool) {
	e, ok := v.schema.byLabel[label]
	if !ok {
		return nil, false
	}

	value, ok := v.values[e]

	return value, ok
}

// Set stores the value of the entry with label.
func (v *Values) Set(label string, value any) error {
	e, ok := v.schema.byLabel[label]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEntry, label)
	}

	if value != nil && !reflect.TypeOf(value).ConvertibleTo(e.Type) {
		return fmt.Errorf("%w: %q wants %s, got %T", ErrWrongTarget, label, e.Type, value)
	}

	v.values[e] = value

	return nil
}

// Clear makes an optional entry absent.
func (v *Values) Clear(label string) error {
	e, ok := v.schema.byLabel[label]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEntry, label)
	}

	if !e.Optional {
		return fmt.Errorf("%w: %q", ErrNotOptional, label)
	}

	delete(v.values, e)

	return nil
}

// Loaded is the outcome of a successful read.
type Loaded struct {
	Values  *Values
	Updates []result.Update
}

// Changed reports whether anything was defaulted, rewritten or migrated.
func (l *Loaded) Changed() bool { return len(l.Updates) > 0 }

// Bind stores the loaded values into target, a pointer to the contract.
func (l *Loaded) Bind(target any) error {
	return l.Values.schema.Bind(l.Values, target)
}

// Bind instantiates the contract: it stores every value into target, a
// pointer to the contract type, through every path reaching its layer.
func (s *Schema) Bind(vals *Values, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Type() != s.Type {
		return fmt.Errorf("%w: want *%s, got %T", ErrWrongTarget, s.Type, target)
	}

	return s.bind(vals, rv.Elem())
}

func (s *Schema) bind(vals *Values, root reflect.Value) error {
	for _, layer := range s.Layers {
		for _, e := range layer.Entries {
			value, present := vals.values[e]

			for _, path := range layer.Paths {
				if err := e.store(root, path, e.Index, value, present); err != nil {
					return err
				}
			}

			for _, a := range e.aliases {
				for _, path := range s.layer(a.layer).Paths {
					if err := e.store(root, path, a.index, value, present); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

func (e *Entry) store(root reflect.Value, path, index []int, value any, present bool) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: entry %q: %v", ErrWrongTarget, e.Label, rec)
		}
	}()

	field := fieldAlloc(root, append(append([]int(nil), path...), index...))

	switch {
	case !present:
		field.SetZero()
	case e.pointer:
		p := reflect.New(e.Type)
		codec.Assign(p.Elem(), value)
		field.Set(p)
	default:
		codec.Assign(field, value)
	}

	return nil
}

// fieldAlloc walks index from v, allocating nil embedded pointers.
func fieldAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v
}

// fieldRead walks index from v; false when a nil embedded pointer is met.
func fieldRead(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return v, false
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v, true
}

// Extract reads the entries of v, a contract value or a pointer to one.
func (s *Schema) Extract(v any) (*Values, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	if !rv.IsValid() || rv.Type() != s.Type {
		return nil, fmt.Errorf("%w: want %s, got %T", ErrWrongTarget, s.Type, v)
	}

	return s.extract(rv), nil
}

func (s *Schema) extract(root reflect.Value) *Values {
	vals := NewValues(s)

	for _, layer := range s.Layers {
		for _, e := range layer.Entries {
			field, ok := fieldRead(root, append(append([]int(nil), layer.Paths[0]...), e.Index...))

			switch {
			case !ok && e.Optional:
			case !ok:
				vals.values[e] = reflect.Zero(e.Type).Interface()
			case e.pointer:
				if !field.IsNil() {
					vals.values[e] = field.Elem().Interface()
				}
			case e.Optional && field.IsZero():
			default:
				vals.values[e] = field.Interface()
			}
		}
	}

	return vals
}
