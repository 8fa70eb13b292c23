package tomlfile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healconf/backend"
	"healconf/result"
	"healconf/tree"
)

func TestParse(t *testing.T) {
	doc := `
port = 8080
name = "demo"
ratio = 0.5
tags = ["a", "b"]

[server]
host = "example.org"
`

	got, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "port", "ratio", "server", "tags"}, got.Keys())

	port, _ := got.Get("port")
	assert.Equal(t, int64(8080), port.Value())

	tags, _ := got.Get("tags")
	assert.True(t, tree.Equal(tree.MustList("a", "b"), tags.Value()))

	server, ok := got.Section("server")
	require.True(t, ok)

	host, _ := server.Get("host")
	assert.Equal(t, "example.org", host.Value())
}

func TestParseDates(t *testing.T) {
	got, err := Parse([]byte("day = 2024-03-01\nat = 2024-03-01T10:00:00Z\n"))
	require.NoError(t, err)

	day, _ := got.Get("day")
	assert.Equal(t, "2024-03-01", day.Value())

	at, _ := got.Get("at")
	assert.Equal(t, "2024-03-01T10:00:00Z", at.Value())
}

func TestParseError(t *testing.T) {
	_, err := Parse([]byte("a = 1\nb = \n"))
	require.Error(t, err)

	var ve *result.ValueError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "invalid TOML", ve.Message)
	assert.Positive(t, ve.Line)
	assert.NotEmpty(t, ve.Backend)
}

func TestRoundTrip(t *testing.T) {
	mem := backend.NewMemFS()
	b := New("app.toml", WithFS(mem))

	inner := tree.New()
	require.NoError(t, inner.Put("host", "example.org"))

	in := tree.New()
	require.NoError(t, in.Put("port", int64(8080)))
	require.NoError(t, in.Put("name", "demo"))
	require.NoError(t, in.Put("initial", tree.Char('x')))
	require.NoError(t, in.Put("ratio", 2.0))
	require.NoError(t, in.Put("tags", tree.MustList("a", "b")))
	require.NoError(t, in.Put("server", inner))

	require.NoError(t, b.Write(in))
	assert.Contains(t, string(mem.Files["app.toml"]), "port = 8080")

	out, err := b.Read()
	require.NoError(t, err)

	want := in.Immutable().Mutable()
	require.NoError(t, want.Put("initial", "x"))
	assert.True(t, tree.Equal(want, out), tree.Dump(out))
	assert.Equal(t, []string{"initial", "name", "port", "ratio", "server", "tags"}, out.Keys())
}

func TestMissingFile(t *testing.T) {
	b := New("absent.toml", WithFS(backend.NewMemFS()))

	got, err := b.Read()
	require.NoError(t, err)
	assert.Zero(t, got.Len())
	assert.False(t, b.SupportsComments(tree.CommentAbove))
	assert.Equal(t, "sub_section", b.KeyMapper().Map("subSection"))
}
