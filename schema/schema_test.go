package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healconf/codec"
)

func labels(s *Schema) []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, e.Label)
	}

	return out
}

func TestBuildIsMemoized(t *testing.T) {
	b := NewBuilder()

	first, err := BuildFor[example](b)
	require.NoError(t, err)

	second, err := b.Build(reflect.TypeFor[*example]())
	require.NoError(t, err)
	assert.Same(t, first, second)

	p1, err := b.Registry().Resolve(reflect.TypeFor[subSection]())
	require.NoError(t, err)

	p2, err := b.Registry().Resolve(reflect.TypeFor[subSection]())
	require.NoError(t, err)
	assert.Same(t, p1.Codec, p2.Codec)
}

func TestEntriesKeepDeclarationOrder(t *testing.T) {
	s, err := BuildFor[example](NewBuilder())
	require.NoError(t, err)

	assert.Equal(t, []string{"Opening", "Hello", "Enabled", "SubSection"}, labels(s))
	require.Len(t, s.Layers, 1)
	assert.Equal(t, reflect.TypeFor[example](), s.Layers[0].Type)
}

func TestDiamondLayerScannedOnce(t *testing.T) {
	s, err := BuildFor[diamond](NewBuilder())
	require.NoError(t, err)

	var layers []string
	for _, layer := range s.Layers {
		layers = append(layers, layer.Type.Name())
	}

	assert.Equal(t, []string{"diamond", "left", "base", "right"}, layers)
	assert.Equal(t, []string{"Left", "ID", "Right"}, labels(s))
	assert.Equal(t, [][]int{{0, 0}, {1, 0}}, s.layer(reflect.TypeFor[base]()).Paths)
}

func TestCovariantDuplicateDropped(t *testing.T) {
	s, err := BuildFor[covariant](NewBuilder())
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "A", "B"}, labels(s))

	e, ok := s.Entry("Name")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[named](), e.Layer)
}

func TestMostDerivedEntryWins(t *testing.T) {
	s, err := BuildFor[override](NewBuilder())
	require.NoError(t, err)

	e, ok := s.Entry("ID")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[int](), e.Type)
	assert.Equal(t, 7, e.Default())
	assert.Len(t, s.Entries(), 1)
}

func TestCallablesAreSeparated(t *testing.T) {
	s, err := BuildFor[withFallback](NewBuilder())
	require.NoError(t, err)

	assert.Equal(t, []string{"Port", "Name", "Replicas"}, labels(s))

	var callables []string
	for _, c := range s.Callables {
		assert.Equal(t, EntryCallable, c.Kind)
		callables = append(callables, c.Label)
	}

	assert.Equal(t, []string{"Hook", "DefaultName", "DefaultPort", "DefaultReplicas"}, callables)
}

func TestTags(t *testing.T) {
	s, err := BuildFor[tagged](NewBuilder())
	require.NoError(t, err)

	assert.Equal(t, []string{"display-name", "Nickname", "ratio"}, labels(s))

	nick, _ := s.Entry("Nickname")
	assert.True(t, nick.Optional)

	ratio, _ := s.Entry("ratio")
	assert.True(t, ratio.Optional)
	assert.Equal(t, 0.5, ratio.Default())

	srv, err := BuildFor[server](NewBuilder())
	require.NoError(t, err)

	port, _ := srv.Entry("Port")
	meta := srv.Metadata(port)
	assert.Equal(t, "8080", meta.DefaultText)
	assert.Equal(t, "[1, 65535]", meta.Range.String())
	assert.Equal(t, []string{"tcp"}, meta.Comments.Inline)

	tags, _ := srv.Entry("Tags")
	assert.Equal(t, codec.Set[string]{}, tags.Default())

	tls, _ := srv.Entry("TLS")
	assert.True(t, tls.Optional)
	assert.Nil(t, tls.Default)
}

func TestDefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want error
	}{
		{name: "not a contract", typ: reflect.TypeFor[[]int](), want: codec.ErrNotContract},
		{name: "self reference", typ: reflect.TypeFor[linked](), want: codec.ErrCycle},
		{name: "mutual reference", typ: reflect.TypeFor[ping](), want: codec.ErrCycle},
		{name: "inaccessible", typ: reflect.TypeFor[hidden](), want: codec.ErrInaccessible},
		{name: "parameterized", typ: reflect.TypeFor[parameterized](), want: codec.ErrParameterized},
		{name: "unsupported", typ: reflect.TypeFor[unsupported](), want: codec.ErrUnsupported},
		{name: "bad default", typ: reflect.TypeFor[badDefault](), want: codec.ErrInvalidDefault},
		{name: "bad range", typ: reflect.TypeFor[badRange](), want: codec.ErrInvalidTag},
		{name: "label clash", typ: reflect.TypeFor[clash](), want: codec.ErrInvalidTag},
		{name: "bad fallback", typ: reflect.TypeFor[badFallback](), want: codec.ErrInvalidFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder().Build(tt.typ)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var de *codec.DefinitionError
			assert.ErrorAs(t, err, &de)
		})
	}
}

func TestBrokenLazyCodecFailsBuild(t *testing.T) {
	b := NewBuilder(WithHandlers(codec.Handler{
		Name:   "opaque",
		Claims: func(t reflect.Type) bool { return t == reflect.TypeFor[opaque]() },
		Build: func(r *codec.Resolution, _ reflect.Type) (codec.Pair, error) {
			return codec.Pair{Codec: r.Lazy(reflect.TypeFor[chan int]())}, nil
		},
	}))

	_, err := BuildFor[deferred](b)
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrUnsupported)

	var de *codec.DefinitionError
	assert.ErrorAs(t, err, &de)
}

func TestFailedBuildStaysFailed(t *testing.T) {
	b := NewBuilder()

	_, first := BuildFor[linked](b)
	_, second := BuildFor[linked](b)

	require.Error(t, first)
	assert.Equal(t, first.Error(), second.Error())
}
