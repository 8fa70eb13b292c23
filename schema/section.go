package schema

import (
	"fmt"
	"reflect"

	"healconf/codec"
	"healconf/result"
	"healconf/tree"
)

// sectionCodec reads and writes a nested contract as a subtree. It records
// the updates of its own entries.
type sectionCodec struct {
	schema *Schema
}

func (c *sectionCodec) Decode(s *codec.Session, node any) result.Result[codec.Decoded] {
	n, ok := node.(tree.Node)
	if !ok {
		return result.Fail[codec.Decoded](result.Errorf("wrong type, expected section"))
	}

	return c.decode(s, n)
}

// DecodeMissing reads an absent section as an empty one, so every required
// entry inside reports its own error and every default is recorded.
func (c *sectionCodec) DecodeMissing(s *codec.Session) result.Result[codec.Decoded] {
	return c.decode(s, tree.Empty())
}

func (c *sectionCodec) decode(s *codec.Session, n tree.Node) result.Result[codec.Decoded] {
	before := len(s.Updates())

	res := c.schema.read(s, n)
	if !res.OK() {
		return result.From[codec.Decoded](res)
	}

	v := reflect.New(c.schema.Type).Elem()
	if err := c.schema.bind(res.Value(), v); err != nil {
		return result.Fail[codec.Decoded](result.Wrap(err, err.Error()))
	}

	return result.Ok(codec.Decoded{
		Value:   v.Interface(),
		Rewrite: len(s.Updates()) > before,
		Tracked: true,
	})
}

func (c *sectionCodec) Encode(s *codec.Session, value any) (any, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Type() != c.schema.Type {
		return nil, fmt.Errorf("%w: want %s, got %T", ErrWrongTarget, c.schema.Type, value)
	}

	out := tree.New()
	if err := c.schema.write(s, c.schema.extract(rv), out); err != nil {
		return nil, err
	}

	return out, nil
}
