package codec

import (
	"iter"
	"reflect"
	"slices"
)

// Set is an ordered set: items keep their first-seen order and duplicates are
// dropped. It is stored as a list, so round trips never depend on hashing
// order. Copies share storage; use Clone before mutating a copy.
type Set[T comparable] struct {
	items []T
	index map[T]struct{}
}

func NewSet[T comparable](items ...T) Set[T] {
	var s Set[T]
	for _, item := range items {
		s.Add(item)
	}

	return s
}

// Add inserts v and reports whether it was new.
func (s *Set[T]) Add(v T) bool {
	if s.index == nil {
		s.index = make(map[T]struct{})
	}

	if _, ok := s.index[v]; ok {
		return false
	}

	s.index[v] = struct{}{}
	s.items = append(s.items, v)

	return true
}

func (s Set[T]) Has(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s Set[T]) Len() int { return len(s.items) }

// Items returns the items in insertion order.
func (s Set[T]) Items() []T { return slices.Clone(s.items) }

func (s Set[T]) All() iter.Seq[T] { return slices.Values(s.items) }

func (s Set[T]) Clone() Set[T] { return NewSet(s.items...) }

// reflection hooks used by the set codec
type setView interface {
	setElem() reflect.Type
	setItems() []any
}

type setBuilder interface {
	setAdd(v any) bool
}

func (Set[T]) setElem() reflect.Type { return reflect.TypeFor[T]() }

func (s Set[T]) setItems() []any {
	out := make([]any, len(s.items))
	for i, item := range s.items {
		out[i] = item
	}

	return out
}

func (s *Set[T]) setAdd(v any) bool { return s.Add(v.(T)) }

var (
	setViewType    = reflect.TypeFor[setView]()
	setBuilderType = reflect.TypeFor[setBuilder]()
)

func isSet(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Implements(setViewType) &&
		reflect.PointerTo(t).Implements(setBuilderType)
}
