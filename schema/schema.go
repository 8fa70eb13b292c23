package schema

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"healconf/codec"
	"healconf/tree"
)

//go:generate go tool stringer -type=EntryKind -trimprefix=Entry -output=entrykind_string.go

// EntryKind separates data entries from callables.
type EntryKind int

const (
	EntryData EntryKind = iota
	EntryCallable
)

// Entry describes one entry of a layer.
type Entry struct {
	// Label is the entry name before key mapping.
	Label string
	Kind  EntryKind
	// Optional entries may be absent; Type is then the unwrapped type.
	Optional bool
	Type     reflect.Type
	// Layer is the struct type declaring the entry; Index the field index
	// within it, nil for methods.
	Layer reflect.Type
	Index []int
	// Default is nil when the entry has no default. It may also return nil
	// when a fallback method yields nothing.
	Default codec.Default
	Codec   codec.Codec

	pointer bool
	aliases []alias
}

// alias is a dropped duplicate of an entry, bound to the same value.
type alias struct {
	layer reflect.Type
	index []int
}

// Layer is the contract type itself or one of its embedded structs.
type Layer struct {
	Type reflect.Type
	// Paths holds every field index path from the contract to this layer;
	// more than one for a diamond.
	Paths   [][]int
	Entries []*Entry
}

// Range is an inclusive numeric bound; open sides are infinite.
type Range struct {
	Min, Max float64
}

func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", formatBound(r.Min), formatBound(r.Max))
}

func formatBound(f float64) string {
	if math.IsInf(f, 0) {
		return fmt.Sprint(f)
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Metadata is the declarative side data of an entry.
type Metadata struct {
	DefaultText string
	Range       *Range
	Comments    tree.Comments
}

type metaKey struct {
	layer reflect.Type
	label string
}

// Schema is the scanned form of a contract type. It is read only once built.
type Schema struct {
	Type      reflect.Type
	Layers    []Layer
	Callables []*Entry

	meta    map[metaKey]Metadata
	byLabel map[string]*Entry
	layerAt map[reflect.Type]int
}

// Entry returns the data entry with label.
func (s *Schema) Entry(label string) (*Entry, bool) {
	e, ok := s.byLabel[label]
	return e, ok
}

// Entries returns the data entries in walk order.
func (s *Schema) Entries() []*Entry {
	var out []*Entry
	for _, layer := range s.Layers {
		out = append(out, layer.Entries...)
	}

	return out
}

// Metadata returns the side data recorded for e.
func (s *Schema) Metadata(e *Entry) Metadata {
	return s.meta[metaKey{layer: e.Layer, label: e.Label}]
}

func (s *Schema) layer(t reflect.Type) *Layer {
	return &s.Layers[s.layerAt[t]]
}
