package codec

import (
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healconf/result"
	"healconf/tree"
)

type level string

func decode[T any](t *testing.T, node any, opts ...Option) (Decoded, []string) {
	t.Helper()

	pair, err := NewRegistry(opts...).Resolve(reflect.TypeFor[T]())
	require.NoError(t, err)

	res := pair.Codec.Decode(NewSession(nil, nil, nil), node)
	if res.OK() {
		return res.Value(), nil
	}

	var messages []string
	for _, e := range res.Errors() {
		messages = append(messages, e.Error())
	}

	return Decoded{}, messages
}

func TestScalars(t *testing.T) {
	tests := []struct {
		name    string
		decode  func(t *testing.T) (Decoded, []string)
		want    any
		rewrite bool
		errs    []string
	}{
		{
			name:   "bool",
			decode: func(t *testing.T) (Decoded, []string) { return decode[bool](t, true) },
			want:   true,
		},
		{
			name:    "text bool",
			decode:  func(t *testing.T) (Decoded, []string) { return decode[bool](t, "true") },
			want:    true,
			rewrite: true,
		},
		{
			name:    "numeric bool",
			decode:  func(t *testing.T) (Decoded, []string) { return decode[bool](t, int64(0)) },
			want:    false,
			rewrite: true,
		},
		{
			name:   "broken bool",
			decode: func(t *testing.T) (Decoded, []string) { return decode[bool](t, "BROKEN") },
			errs:   []string{"wrong type, expected boolean"},
		},
		{
			name: "strict bool",
			decode: func(t *testing.T) (Decoded, []string) {
				return decode[bool](t, "true", WithLeniency(LenientNone))
			},
			errs: []string{"wrong type, expected boolean"},
		},
		{
			name:   "any integer width",
			decode: func(t *testing.T) (Decoded, []string) { return decode[int16](t, int64(300)) },
			want:   int16(300),
		},
		{
			name:   "integer out of range",
			decode: func(t *testing.T) (Decoded, []string) { return decode[uint8](t, int64(256)) },
			errs:   []string{"value 256 out of range [0, 255]"},
		},
		{
			name:    "text integer",
			decode:  func(t *testing.T) (Decoded, []string) { return decode[int](t, " 42") },
			want:    42,
			rewrite: true,
		},
		{
			name:    "integral float",
			decode:  func(t *testing.T) (Decoded, []string) { return decode[int64](t, 3.0) },
			want:    int64(3),
			rewrite: true,
		},
		{
			name:   "fractional float",
			decode: func(t *testing.T) (Decoded, []string) { return decode[int64](t, 3.5) },
			errs:   []string{"wrong type, expected integer"},
		},
		{
			name:   "integer as float",
			decode: func(t *testing.T) (Decoded, []string) { return decode[float64](t, int64(2)) },
			want:   2.0,
		},
		{
			name:   "float32 overflow",
			decode: func(t *testing.T) (Decoded, []string) { return decode[float32](t, 1e300) },
			errs:   []string{"value 1e+300 out of range [-3.4028234663852886e+38, 3.4028234663852886e+38]"},
		},
		{
			name:   "named string",
			decode: func(t *testing.T) (Decoded, []string) { return decode[level](t, "debug") },
			want:   level("debug"),
		},
		{
			name:    "number as string",
			decode:  func(t *testing.T) (Decoded, []string) { return decode[string](t, int64(8080)) },
			want:    "8080",
			rewrite: true,
		},
		{
			name:   "list as string",
			decode: func(t *testing.T) (Decoded, []string) { return decode[string](t, tree.MustList("a")) },
			errs:   []string{"wrong type, expected string"},
		},
		{
			name:   "char from text",
			decode: func(t *testing.T) (Decoded, []string) { return decode[tree.Char](t, "é") },
			want:   tree.Char('é'),
		},
		{
			name:   "char from long text",
			decode: func(t *testing.T) (Decoded, []string) { return decode[tree.Char](t, "ab") },
			errs:   []string{"wrong type, expected character"},
		},
		{
			name:   "duration",
			decode: func(t *testing.T) (Decoded, []string) { return decode[time.Duration](t, "1m30s") },
			want:   90 * time.Second,
		},
		{
			name:    "duration normalised",
			decode:  func(t *testing.T) (Decoded, []string) { return decode[time.Duration](t, "90s") },
			want:    90 * time.Second,
			rewrite: true,
		},
		{
			name:    "duration in seconds",
			decode:  func(t *testing.T) (Decoded, []string) { return decode[time.Duration](t, int64(2)) },
			want:    2 * time.Second,
			rewrite: true,
		},
		{
			name:   "text unmarshaler",
			decode: func(t *testing.T) (Decoded, []string) { return decode[netip.Addr](t, "10.0.0.1") },
			want:   netip.MustParseAddr("10.0.0.1"),
		},
		{
			name:   "bad text",
			decode: func(t *testing.T) (Decoded, []string) { return decode[netip.Addr](t, "nope") },
			errs:   []string{`invalid value "nope": ParseAddr("nope"): unable to parse IP`},
		},
		{
			name: "raw",
			decode: func(t *testing.T) (Decoded, []string) {
				return decode[any](t, tree.MustList(int64(1), "x"))
			},
			want: []any{int64(1), "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := tt.decode(t)
			if tt.errs != nil {
				assert.Equal(t, tt.errs, errs)
				return
			}

			require.Empty(t, errs)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.rewrite, got.Rewrite)
		})
	}
}

func TestSliceCollectsElementErrors(t *testing.T) {
	_, errs := decode[[]int](t, tree.MustList(int64(1), "x", true, int64(4)))
	assert.Equal(t, []string{
		"[1]: wrong type, expected integer",
		"[2]: wrong type, expected integer",
	}, errs)
}

func TestSliceRewritesChangedElements(t *testing.T) {
	got, errs := decode[[]int](t, tree.MustList(int64(1), "2"))
	require.Empty(t, errs)

	assert.Equal(t, []int{1, 2}, got.Value)
	assert.True(t, got.Rewrite)
	assert.True(t, tree.Equal(tree.MustList(int64(1), int64(2)), got.Replacement))

	got, _ = decode[[]int](t, tree.MustList(int64(1), int64(2)))
	assert.False(t, got.Rewrite)

	got, _ = decode[[]string](t, "solo")
	assert.Equal(t, []string{"solo"}, got.Value)
	assert.True(t, got.Rewrite)
}

func TestSetDropsDuplicates(t *testing.T) {
	got, errs := decode[Set[string]](t, tree.MustList("b", "a", "b", "c", "a"))
	require.Empty(t, errs)

	set := got.Value.(Set[string])
	assert.Equal(t, []string{"b", "a", "c"}, set.Items())
	assert.True(t, got.Rewrite)
	assert.True(t, tree.Equal(tree.MustList("b", "a", "c"), got.Replacement))

	got, _ = decode[Set[string]](t, tree.MustList("b", "a"))
	assert.False(t, got.Rewrite)
}

func TestMapDecode(t *testing.T) {
	n := tree.New()
	require.NoError(t, n.Set("web", tree.MustEntry(int64(80)).WithLine(3)))
	require.NoError(t, n.Set("api", tree.MustEntry("8080").WithLine(4)))
	require.NoError(t, n.Set("bad", tree.MustEntry(true).WithLine(5)))

	_, errs := decode[map[string]int](t, n)
	assert.Equal(t, []string{"bad (line 5): wrong type, expected integer"}, errs)

	require.True(t, n.Delete("bad"))

	got, errs := decode[map[string]int](t, n)
	require.Empty(t, errs)
	assert.Equal(t, map[string]int{"web": 80, "api": 8080}, got.Value)
	assert.True(t, got.Rewrite)

	replaced := got.Replacement.(*tree.Tree)
	api, _ := replaced.Get("api")
	assert.Equal(t, int64(8080), api.Value())
	assert.Equal(t, 4, api.Line)

	web, ok := replaced.Get("web")
	require.True(t, ok, "unchanged entries are carried into the replacement")
	assert.Equal(t, int64(80), web.Value())
	assert.Equal(t, 3, web.Line)
	assert.Equal(t, []string{"web", "api"}, replaced.Keys())

	_, errs = decode[map[int]string](t, tree.New())
	assert.Empty(t, errs)
}

func TestCollectionsAdmitErrorsInOrder(t *testing.T) {
	r := NewRegistry()

	list, err := r.Resolve(reflect.TypeFor[[]int]())
	require.NoError(t, err)

	budget := result.NewBudget(1)
	res := list.Codec.Decode(NewSession(nil, budget, nil), tree.MustList("x", int64(2), "y"))
	require.False(t, res.OK())
	require.Len(t, res.Errors(), 1)
	assert.Equal(t, "[0]: wrong type, expected integer", res.Errors()[0].Error())
	assert.Equal(t, 1, res.Omitted())
	assert.Equal(t, 1, budget.Omitted())

	m, err := r.Resolve(reflect.TypeFor[map[int]bool]())
	require.NoError(t, err)

	n := tree.New()
	require.NoError(t, n.Put("-x", true))
	require.NoError(t, n.Put("1", "maybe"))

	budget = result.NewBudget(1)
	res = m.Codec.Decode(NewSession(nil, budget, nil), n)
	require.Len(t, res.Errors(), 1)
	assert.Equal(t, `-x: invalid key "-x"`, res.Errors()[0].Error())
	assert.Equal(t, 1, res.Omitted())
}

func TestEncode(t *testing.T) {
	r := NewRegistry()
	s := NewSession(nil, nil, nil)

	encode := func(v any) any {
		pair, err := r.Resolve(reflect.TypeOf(v))
		require.NoError(t, err)

		node, err := pair.Codec.Encode(s, v)
		require.NoError(t, err)

		return node
	}

	assert.Equal(t, int8(-3), encode(int8(-3)))
	assert.Equal(t, int16(200), encode(uint8(200)))
	assert.Equal(t, "1m30s", encode(90*time.Second))
	assert.Equal(t, tree.Char('x'), encode(tree.Char('x')))
	assert.Equal(t, "10.0.0.1", encode(netip.MustParseAddr("10.0.0.1")))
	assert.True(t, tree.Equal(tree.MustList("a", "b"), encode(NewSet("a", "b", "a"))))

	m := encode(map[int]bool{2: true, 10: false}).(*tree.Tree)
	assert.Equal(t, []string{"10", "2"}, m.Keys())

	pair, err := r.Resolve(reflect.TypeFor[uint64]())
	require.NoError(t, err)

	_, err = pair.Codec.Encode(s, uint64(1<<63))
	assert.Error(t, err)
}

func TestCollectionDefaults(t *testing.T) {
	r := NewRegistry()

	for _, typ := range []reflect.Type{
		reflect.TypeFor[[]string](),
		reflect.TypeFor[map[string]int](),
		reflect.TypeFor[Set[int]](),
	} {
		pair, err := r.Resolve(typ)
		require.NoError(t, err)
		require.NotNil(t, pair.Default, typ.String())
		assert.Equal(t, typ, reflect.TypeOf(pair.Default()))
	}

	pair, err := r.Resolve(reflect.TypeFor[int]())
	require.NoError(t, err)
	assert.Nil(t, pair.Default)
}
