package codec

import (
	"reflect"

	"healconf/result"
)

// Decoded is the outcome of an update-aware decode.
type Decoded struct {
	// Value holds a value of the requested Go type.
	Value any
	// Replacement is the canonical node to store instead of the input when
	// Rewrite is set. A nil Replacement means "encode Value again".
	Replacement any
	// Rewrite asks the caller to store the canonical form back.
	Rewrite bool
	// Tracked tells the caller the codec recorded its own updates in the
	// session, so it must not record one for the whole node.
	Tracked bool
}

// Codec converts between a Go type and canonical tree values.
type Codec interface {
	Decode(s *Session, node any) result.Result[Decoded]
	Encode(s *Session, value any) (any, error)
}

// MissingDecoder is implemented by codecs that can produce a value for an
// absent key, reporting problems per nested entry.
type MissingDecoder interface {
	DecodeMissing(s *Session) result.Result[Decoded]
}

// Deserialize is the plain decode: the value without update tracking.
func Deserialize(c Codec, s *Session, node any) result.Result[any] {
	return result.Map(c.Decode(s, node), func(d Decoded) any { return d.Value })
}

// Default provides a fresh default value on every call.
type Default func() any

// Pair is what a type resolves to.
type Pair struct {
	Default Default
	Codec   Codec
}

// Handler claims types and builds their pairs.
type Handler struct {
	Name   string
	Claims func(t reflect.Type) bool
	Build  func(r *Resolution, t reflect.Type) (Pair, error)
}

// Resolution is the handshake handed to Handler.Build.
type Resolution struct {
	registry *Registry
	// Type is the type being resolved.
	Type reflect.Type
}

// Resolve requests another type eagerly.
func (r *Resolution) Resolve(t reflect.Type) (Pair, error) {
	return r.registry.Resolve(t)
}

// Lazy returns a codec for t that resolves on first use or at the next
// Registry.CheckLazy. If t is still being
// resolved at that moment, or its resolution fails, the use panics with a
// *DefinitionError, which an enclosing Registry.Resolve reports as its error.
func (r *Resolution) Lazy(t reflect.Type) Codec {
	c := &lazyCodec{registry: r.registry, t: t}
	r.registry.lazies = append(r.registry.lazies, c)

	return c
}

func (r *Resolution) Leniency() Leniency {
	return r.registry.leniency
}

type lazyCodec struct {
	registry *Registry
	t        reflect.Type
	codec    Codec
}

func (c *lazyCodec) get() Codec {
	if c.codec != nil {
		return c.codec
	}

	pair, err := c.registry.Resolve(c.t)
	if err != nil {
		panic(asDefinitionError(c.t, err))
	}

	c.codec = pair.Codec

	return c.codec
}

func (c *lazyCodec) Decode(s *Session, node any) result.Result[Decoded] {
	return c.get().Decode(s, node)
}

func (c *lazyCodec) Encode(s *Session, value any) (any, error) {
	return c.get().Encode(s, value)
}

func (c *lazyCodec) DecodeMissing(s *Session) result.Result[Decoded] {
	if md, ok := c.get().(MissingDecoder); ok {
		return md.DecodeMissing(s)
	}

	return result.Fail[Decoded](result.Required())
}
