package schema

import (
	"reflect"

	"healconf/codec"
)

type builderConfig struct {
	handlers []codec.Handler
	leniency *codec.Leniency
}

type BuilderOption func(*builderConfig)

// WithHandlers adds codec handlers consulted before the built-in ones.
func WithHandlers(h ...codec.Handler) BuilderOption {
	return func(c *builderConfig) { c.handlers = append(c.handlers, h...) }
}

// WithLeniency sets the coercions accepted by the built-in codecs.
func WithLeniency(l codec.Leniency) BuilderOption {
	return func(c *builderConfig) { c.leniency = &l }
}

// Builder scans contracts into schemas. Schemas are kept in an arena keyed by
// type; a type being scanned is marked so a contract reaching itself is
// reported as a cycle.
type Builder struct {
	registry *codec.Registry
	schemas  map[reflect.Type]*Schema
	building map[reflect.Type]struct{}
	failed   map[reflect.Type]error
}

func NewBuilder(opts ...BuilderOption) *Builder {
	var cfg builderConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &Builder{
		schemas:  make(map[reflect.Type]*Schema),
		building: make(map[reflect.Type]struct{}),
		failed:   make(map[reflect.Type]error),
	}

	ropts := []codec.Option{
		codec.WithHandlers(cfg.handlers...),
		codec.WithFallbackHandlers(b.sectionHandler()),
	}
	if cfg.leniency != nil {
		ropts = append(ropts, codec.WithLeniency(*cfg.leniency))
	}

	b.registry = codec.NewRegistry(ropts...)

	return b
}

// Registry returns the codec registry the builder resolves entries with.
func (b *Builder) Registry() *codec.Registry { return b.registry }

// Build returns the schema of t; pointer types are dereferenced.
func (b *Builder) Build(t reflect.Type) (*Schema, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return nil, &codec.DefinitionError{Type: t, Err: codec.ErrNotContract}
	}

	s, err := b.build(t)
	if err != nil {
		return nil, err
	}

	// every lazy codec resolves before a read can use it
	if err := b.registry.CheckLazy(); err != nil {
		return nil, err
	}

	return s, nil
}

// BuildFor is Build for a type parameter.
func BuildFor[T any](b *Builder) (*Schema, error) {
	return b.Build(reflect.TypeFor[T]())
}

func (b *Builder) build(t reflect.Type) (*Schema, error) {
	if s, ok := b.schemas[t]; ok {
		return s, nil
	}

	if err, ok := b.failed[t]; ok {
		return nil, err
	}

	if _, ok := b.building[t]; ok {
		return nil, &codec.DefinitionError{Type: t, Err: codec.ErrCycle}
	}

	b.building[t] = struct{}{}
	s, err := newScanner(b, t).scan()
	delete(b.building, t)

	if err != nil {
		b.failed[t] = err
		return nil, err
	}

	b.schemas[t] = s

	return s, nil
}

func (b *Builder) sectionHandler() codec.Handler {
	return codec.Handler{
		Name:   "section",
		Claims: func(t reflect.Type) bool { return t.Kind() == reflect.Struct },
		Build: func(_ *codec.Resolution, t reflect.Type) (codec.Pair, error) {
			s, err := b.build(t)
			if err != nil {
				return codec.Pair{}, err
			}

			return codec.Pair{Codec: &sectionCodec{schema: s}}, nil
		},
	}
}
