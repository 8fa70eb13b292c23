package loader

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healconf/codec"
	"healconf/keypath"
	"healconf/result"
	"healconf/tree"
)

type memBackend struct {
	stored  tree.Node
	reads   int
	written []tree.Node
}

func (b *memBackend) Read() (tree.Node, error) {
	b.reads++
	if b.stored == nil {
		return tree.Empty(), nil
	}

	return b.stored, nil
}

func (b *memBackend) Write(n tree.Node) error {
	b.written = append(b.written, n)
	b.stored = n

	return nil
}

func (b *memBackend) SupportsComments(tree.CommentPosition) bool { return false }

func (b *memBackend) KeyMapper() keypath.Mapper { return keypath.Hyphenated }

type appConfig struct {
	ListenAddr string `default:"localhost:8080"`
	Workers    int    `default:"4"`
	Debug      bool
}

func stored(t *testing.T, m map[string]any) tree.Node {
	t.Helper()

	v, err := tree.FromNative(m)
	require.NoError(t, err)

	return v.(*tree.Tree).Immutable()
}

func TestDefaultsAreWrittenBack(t *testing.T) {
	backend := &memBackend{stored: stored(t, map[string]any{"debug": true})}

	var seen []string

	cfg, err := Configure[appConfig](New(backend, WithListener(func(u result.Update) {
		seen = append(seen, u.String())
	})))
	require.NoError(t, err)

	assert.Equal(t, &appConfig{ListenAddr: "localhost:8080", Workers: 4, Debug: true}, cfg)
	assert.Equal(t, []string{"listen-addr (missing)", "workers (missing)"}, seen)

	require.Len(t, backend.written, 1)
	workers, ok := backend.written[0].Get("workers")
	require.True(t, ok)
	assert.Equal(t, int64(4), workers.Value())
}

func TestCanonicalInputIsNotWritten(t *testing.T) {
	backend := &memBackend{stored: stored(t, map[string]any{
		"listen-addr": ":9000",
		"workers":     2,
		"debug":       false,
	})}

	cfg, err := Configure[appConfig](New(backend))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Empty(t, backend.written)
}

func TestFirstFoundMigrationWins(t *testing.T) {
	backend := &memBackend{}
	calls := 0

	l := New(backend, WithMigrations(
		MigrationFunc(func() (tree.Node, bool, error) {
			calls++
			return nil, false, errors.New("old file unreadable")
		}),
		MigrationFunc(func() (tree.Node, bool, error) {
			calls++
			return nil, false, nil
		}),
		MigrationFunc(func() (tree.Node, bool, error) {
			calls++
			return stored(t, map[string]any{"listen-addr": ":7000", "workers": 1, "debug": true}), true, nil
		}),
		MigrationFunc(func() (tree.Node, bool, error) {
			calls++
			return nil, true, nil
		}),
	))

	var reasons []result.Reason

	l.cfg.listener = func(u result.Update) { reasons = append(reasons, u.Reason) }

	cfg, err := Configure[appConfig](l)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, 3, calls)
	assert.Zero(t, backend.reads)
	assert.Len(t, backend.written, 1)
	assert.Equal(t, []result.Reason{result.Migrated}, reasons)
}

func TestBadMigratedDataFails(t *testing.T) {
	l := New(&memBackend{}, WithMigrations(MigrationFunc(func() (tree.Node, bool, error) {
		return stored(t, map[string]any{"workers": "many"}), true, nil
	})))

	_, err := Configure[appConfig](l)
	assert.ErrorIs(t, err, ErrMigration)
}

func TestRejectedConfiguration(t *testing.T) {
	backend := &memBackend{stored: stored(t, map[string]any{"workers": "many", "debug": "maybe"})}

	_, err := Configure[appConfig](New(backend, WithMaxErrors(1)))
	require.Error(t, err)

	var report *result.Report
	require.ErrorAs(t, err, &report)
	assert.Len(t, report.Errors, 1)
	assert.Equal(t, 1, report.Omitted)
	assert.Empty(t, backend.written)
}

func TestDefinitionErrorsSurface(t *testing.T) {
	_, err := Configure[int](New(&memBackend{}))
	assert.ErrorIs(t, err, codec.ErrNotContract)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	backend := &memBackend{stored: stored(t, map[string]any{"debug": false})}

	_, err := Configure[appConfig](New(backend, WithLogger(logger), WithMapper(keypath.Snake)))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "phase=Load")
	assert.Contains(t, out, "phase=WriteBack")
	assert.Contains(t, out, `msg="configuration written back"`)
	assert.Contains(t, out, "contract=loader.appConfig")
}
