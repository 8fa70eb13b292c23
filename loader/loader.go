package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"healconf/keypath"
	"healconf/result"
	"healconf/schema"
)

// ErrMigration wraps the failure of a migration whose data could not be read.
var ErrMigration = errors.New("migration failed")

type config struct {
	migrations []Migration
	listener   Listener
	maxErrors  int
	mapper     keypath.Mapper
	logger     *slog.Logger
	builder    *schema.Builder
}

type Option func(*config)

// WithMigrations adds migrations, tried in order before the normal read.
func WithMigrations(m ...Migration) Option {
	return func(c *config) { c.migrations = append(c.migrations, m...) }
}

func WithListener(l Listener) Option {
	return func(c *config) { c.listener = l }
}

// WithMaxErrors caps the errors reported by one read.
func WithMaxErrors(n int) Option {
	return func(c *config) { c.maxErrors = n }
}

// WithMapper overrides the key mapper recommended by the backend.
func WithMapper(m keypath.Mapper) Option {
	return func(c *config) { c.mapper = m }
}

// WithLogger sets the logger; logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithBuilder shares a schema builder, and its codec registry, between
// loaders.
func WithBuilder(b *schema.Builder) Option {
	return func(c *config) { c.builder = b }
}

// Loader configures contracts from one backend.
type Loader struct {
	backend Backend
	cfg     config
}

func New(backend Backend, opts ...Option) *Loader {
	cfg := config{maxErrors: schema.DefaultMaxErrors}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.mapper == nil {
		cfg.mapper = backend.KeyMapper()
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if cfg.builder == nil {
		cfg.builder = schema.NewBuilder()
	}

	return &Loader{backend: backend, cfg: cfg}
}

// Configure loads a *T from the loader's backend.
func Configure[T any](l *Loader) (*T, error) {
	v, err := l.Load(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}

	return v.(*T), nil
}

// Load runs the configure cycle for contract t and returns a pointer to the
// instantiated contract. Definition errors, backend failures and the report
// of a failed read are returned as errors.
func (l *Loader) Load(t reflect.Type) (any, error) {
	s, err := l.cfg.builder.Build(t)
	if err != nil {
		return nil, err
	}

	loaded, err := l.run(s)
	if err != nil {
		return nil, err
	}

	target := reflect.New(s.Type)
	if err := loaded.Bind(target.Interface()); err != nil {
		return nil, err
	}

	return target.Interface(), nil
}

func (l *Loader) run(s *schema.Schema) (*schema.Loaded, error) {
	log := l.cfg.logger.With("contract", s.Type.String())

	log.Debug("configure", "phase", PhaseMigrate, "migrations", len(l.cfg.migrations))

	loaded, migrated, err := l.migrate(s, log)
	if err != nil {
		return nil, err
	}

	if !migrated {
		log.Debug("configure", "phase", PhaseLoad)

		node, err := l.backend.Read()
		if err != nil {
			return nil, fmt.Errorf("reading configuration: %w", err)
		}

		res := schema.Read(s, node, l.readOptions()...)
		if !res.OK() {
			log.Warn("configuration rejected", "errors", len(res.Errors()), "omitted", res.Omitted())
			return nil, res.Err()
		}

		loaded = res.Value()
	}

	if loaded.Changed() {
		log.Debug("configure", "phase", PhaseWriteBack, "updates", len(loaded.Updates))

		if err := l.writeBack(s, loaded); err != nil {
			return nil, err
		}

		log.Info("configuration written back", "updates", len(loaded.Updates))
	}

	for _, u := range loaded.Updates {
		if l.cfg.listener != nil {
			l.cfg.listener(u)
		}
	}

	log.Debug("configure", "phase", PhaseDone)

	return loaded, nil
}

// migrate reads the first migration that finds data. Its updates start with
// a MIGRATED update at the root.
func (l *Loader) migrate(s *schema.Schema, log *slog.Logger) (*schema.Loaded, bool, error) {
	for i, m := range l.cfg.migrations {
		node, found, err := m.Migrate()
		if err != nil {
			log.Warn("migration failed", "index", i, "error", err)
			continue
		}

		if !found {
			continue
		}

		opts := l.readOptions()
		if km, ok := m.(KeyedMigration); ok && km.KeyMapper() != nil {
			opts = append(opts, schema.WithMapper(km.KeyMapper()))
		}

		res := schema.Read(s, node, opts...)
		if !res.OK() {
			return nil, false, fmt.Errorf("%w: migration %d: %w", ErrMigration, i, res.Err())
		}

		loaded := res.Value()
		loaded.Updates = append([]result.Update{{Reason: result.Migrated}}, loaded.Updates...)

		log.Info("configuration migrated", "index", i)

		return loaded, true, nil
	}

	return nil, false, nil
}

func (l *Loader) readOptions() []schema.Option {
	return []schema.Option{
		schema.WithMapper(l.cfg.mapper),
		schema.WithMaxErrors(l.cfg.maxErrors),
	}
}

func (l *Loader) writeBack(s *schema.Schema, loaded *schema.Loaded) error {
	out, err := schema.Write(s, loaded.Values,
		schema.WithMapper(l.cfg.mapper),
		schema.WithComments(l.backend.SupportsComments),
	)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	if err := l.backend.Write(out.Immutable()); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}

	return nil
}
