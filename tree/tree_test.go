package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healconf/tree"
)

func TestNewEntryRejectsNonCanonical(t *testing.T) {
	t.Parallel()

	for _, v := range []any{nil, 1, uint(3), []string{"a"}, map[string]any{}, struct{}{}, (*tree.Tree)(nil)} {
		_, err := tree.NewEntry(v)
		require.ErrorIs(t, err, tree.ErrNotCanonical, "value %#v", v)
	}

	for _, v := range []any{true, int8(1), int64(2), float32(1.5), tree.Char('x'), "s", tree.MustList("a"), tree.New()} {
		_, err := tree.NewEntry(v)
		require.NoError(t, err, "value %#v", v)
	}
}

func TestTreeKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	tr := tree.New()
	require.NoError(t, tr.Put("zeta", "z"))
	require.NoError(t, tr.Put("alpha", "a"))
	require.NoError(t, tr.Put("mid", int64(1)))
	require.NoError(t, tr.Put("zeta", "again"))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, tr.Keys())

	e, ok := tr.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, "again", e.Value())

	assert.True(t, tr.Delete("alpha"))
	assert.False(t, tr.Delete("alpha"))
	assert.Equal(t, []string{"zeta", "mid"}, tr.Keys())

	_, ok = tr.Get("alpha")
	assert.False(t, ok)
}

func TestPutKeepsMetadata(t *testing.T) {
	t.Parallel()

	tr := tree.New()
	e := tree.MustEntry("old").WithLine(7).WithComments(tree.Comments{Above: []string{"note"}})
	require.NoError(t, tr.Set("key", e))
	require.NoError(t, tr.Put("key", "new"))

	got, _ := tr.Get("key")
	assert.Equal(t, "new", got.Value())
	assert.Equal(t, 7, got.Line)
	assert.Equal(t, []string{"note"}, got.Comments.Above)
}

func TestModeConversion(t *testing.T) {
	t.Parallel()

	sub := tree.New()
	require.NoError(t, sub.Put("port", int64(80)))

	root := tree.New()
	require.NoError(t, root.Put("name", "svc"))
	require.NoError(t, root.Put("server", sub))

	assert.Same(t, root, root.Mutable())

	frozen := root.Immutable()
	assert.Same(t, frozen, frozen.Immutable())

	// the frozen copy is detached from later edits
	require.NoError(t, sub.Put("port", int64(81)))
	server, _ := frozen.Get("server")
	port, _ := server.Value().(tree.Node).Get("port")
	assert.Equal(t, int64(80), port.Value())

	// writes to a thawed copy never reach the frozen original
	thawed := frozen.Mutable()
	inner, ok := thawed.Section("server")
	require.True(t, ok)
	require.NoError(t, inner.Put("port", int64(90)))
	require.NoError(t, thawed.Put("name", "other"))

	name, _ := frozen.Get("name")
	assert.Equal(t, "svc", name.Value())
	port, _ = server.Value().(tree.Node).Get("port")
	assert.Equal(t, int64(80), port.Value())

	server, _ = thawed.Get("server")
	port, _ = server.Value().(tree.Node).Get("port")
	assert.Equal(t, int64(90), port.Value())
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a := tree.New()
	require.NoError(t, a.Put("x", int64(1)))
	require.NoError(t, a.Put("y", tree.MustList("a", "b")))

	b := tree.New()
	require.NoError(t, b.Set("y", tree.MustEntry(tree.MustList("a", "b")).WithLine(3)))
	require.NoError(t, b.Put("x", int64(1)))

	assert.True(t, tree.Equal(a, b))
	assert.True(t, tree.Equal(a, b.Immutable()))

	require.NoError(t, b.Put("x", int32(1)))
	assert.False(t, tree.Equal(a, b), "widths are part of the value")

	assert.False(t, tree.Equal(tree.MustList("a"), tree.MustList("a", "b")))
}

func TestFromNative(t *testing.T) {
	t.Parallel()

	v, err := tree.FromNative(map[string]any{
		"b":    1,
		"a":    []any{"x", uint8(2), 1.5},
		"nil":  nil,
		"nest": map[string]any{"ok": true},
	})
	require.NoError(t, err)

	tr, ok := v.(*tree.Tree)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "nest"}, tr.Keys())

	b, _ := tr.Get("b")
	assert.Equal(t, int64(1), b.Value())

	a, _ := tr.Get("a")
	assert.True(t, tree.Equal(tree.MustList("x", int64(2), 1.5), a.Value()))

	_, err = tree.FromNative(uint64(1 << 63))
	require.ErrorIs(t, err, tree.ErrNotCanonical)

	native := tree.ToNative(tr)
	assert.Equal(t, map[string]any{
		"a":    []any{"x", int64(2), 1.5},
		"b":    int64(1),
		"nest": map[string]any{"ok": true},
	}, native)
}
