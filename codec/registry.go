package codec

import (
	"errors"
	"reflect"
)

type config struct {
	handlers []Handler
	fallback []Handler
	leniency Leniency
}

type Option func(*config)

// WithHandlers adds handlers consulted before the built-in ones.
func WithHandlers(h ...Handler) Option {
	return func(c *config) { c.handlers = append(c.handlers, h...) }
}

// WithFallbackHandlers adds handlers consulted after the built-in ones.
func WithFallbackHandlers(h ...Handler) Option {
	return func(c *config) { c.fallback = append(c.fallback, h...) }
}

// WithLeniency sets the coercions the built-in codecs accept; LenientAll by
// default.
func WithLeniency(l Leniency) Option {
	return func(c *config) { c.leniency = l }
}

// Registry maps requested types to resolved pairs. It is built once and then
// read only; it must not be mutated while a resolution is in progress.
type Registry struct {
	handlers []Handler
	custom   int
	leniency Leniency

	resolved map[reflect.Type]Pair
	pending  map[reflect.Type]struct{}
	failed   map[reflect.Type]error
	lazies   []*lazyCodec
}

func NewRegistry(opts ...Option) *Registry {
	cfg := config{leniency: LenientAll}
	for _, opt := range opts {
		opt(&cfg)
	}

	handlers := make([]Handler, 0, len(cfg.handlers)+len(cfg.fallback)+16)
	handlers = append(handlers, cfg.handlers...)
	handlers = append(handlers, DefaultHandlers()...)
	handlers = append(handlers, cfg.fallback...)

	return &Registry{
		handlers: handlers,
		custom:   len(cfg.handlers),
		leniency: cfg.leniency,
		resolved: make(map[reflect.Type]Pair),
		pending:  make(map[reflect.Type]struct{}),
		failed:   make(map[reflect.Type]error),
	}
}

// Register adds a handler after the custom handlers already registered and
// before the built-in ones. Types resolved earlier keep their pairs.
func (r *Registry) Register(h Handler) {
	if len(r.pending) > 0 {
		panic("codec: Register called during resolution")
	}

	r.handlers = append(r.handlers[:r.custom], append([]Handler{h}, r.handlers[r.custom:]...)...)
	r.custom++
}

// Resolved reports whether t has completed resolution.
func (r *Registry) Resolved(t reflect.Type) bool {
	_, ok := r.resolved[t]
	return ok
}

// Resolve returns the pair of t, building it on first request.
func (r *Registry) Resolve(t reflect.Type) (pair Pair, err error) {
	if p, ok := r.resolved[t]; ok {
		return p, nil
	}

	if err, ok := r.failed[t]; ok {
		return Pair{}, err
	}

	if _, ok := r.pending[t]; ok {
		return Pair{}, &DefinitionError{Type: t, Err: ErrCycle}
	}

	h, ok := r.claim(t)
	if !ok {
		err = &DefinitionError{Type: t, Err: ErrUnsupported}
		r.failed[t] = err

		return Pair{}, err
	}

	r.pending[t] = struct{}{}

	defer func() {
		delete(r.pending, t)

		if rec := recover(); rec != nil {
			de, isDef := rec.(*DefinitionError)
			if !isDef {
				panic(rec)
			}

			pair, err = Pair{}, de
		}

		if err != nil {
			r.failed[t] = err
		}
	}()

	pair, err = h.Build(&Resolution{registry: r, Type: t}, t)
	if err != nil {
		return Pair{}, asDefinitionError(t, err)
	}

	if pair.Codec == nil {
		return Pair{}, &DefinitionError{Type: t, Err: ErrNoCodec}
	}

	r.resolved[t] = pair

	return pair, nil
}

// CheckLazy resolves every lazy reference handed out so far, returning the
// first failure as a *DefinitionError. It must not be called during a
// resolution.
func (r *Registry) CheckLazy() error {
	for _, c := range r.lazies {
		if c.codec != nil {
			continue
		}

		pair, err := r.Resolve(c.t)
		if err != nil {
			return asDefinitionError(c.t, err)
		}

		c.codec = pair.Codec
	}

	r.lazies = r.lazies[:0]

	return nil
}

func (r *Registry) claim(t reflect.Type) (Handler, bool) {
	for _, h := range r.handlers {
		if h.Claims(t) {
			return h, true
		}
	}

	return Handler{}, false
}

// IsCycle reports whether err was caused by a cyclic resolution.
func IsCycle(err error) bool { return errors.Is(err, ErrCycle) }
