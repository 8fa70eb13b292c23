package tree

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrNotCanonical is returned when a value outside the canonical union is
// stored into a tree or a list.
var ErrNotCanonical = errors.New("value is not canonical")

// Char is the character member of the canonical union.
type Char rune

func (c Char) String() string { return string(c) }

// List is an immutable ordered sequence of canonical values. Nested trees are
// frozen on construction, so a List can be shared freely.
type List struct {
	items []any
}

// NewList validates items and returns them as a List.
func NewList(items ...any) (List, error) {
	out := make([]any, len(items))
	for i, item := range items {
		if err := check(item); err != nil {
			return List{}, fmt.Errorf("list item %d: %w", i, err)
		}

		if n, ok := item.(Node); ok {
			item = n.Immutable()
		}

		out[i] = item
	}

	return List{items: out}, nil
}

// MustList is NewList that panics on a non-canonical item.
func MustList(items ...any) List {
	l, err := NewList(items...)
	if err != nil {
		panic(err)
	}

	return l
}

func (l List) Len() int { return len(l.items) }

func (l List) At(i int) any { return l.items[i] }

// Items returns a copy of the list items.
func (l List) Items() []any { return slices.Clone(l.items) }

// All iterates the list in order.
func (l List) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

func check(v any) error {
	switch n := v.(type) {
	case nil:
		return fmt.Errorf("%w: nil", ErrNotCanonical)
	case *Tree:
		if n == nil {
			return fmt.Errorf("%w: nil tree", ErrNotCanonical)
		}
	case *Frozen:
		if n == nil {
			return fmt.Errorf("%w: nil tree", ErrNotCanonical)
		}
	}

	if KindOf(v) == 0 {
		return fmt.Errorf("%w: %T", ErrNotCanonical, v)
	}

	return nil
}

// Equal deep-compares two canonical values. Trees compare as mappings: key
// order is presentation, not identity. Entry metadata is ignored.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case List:
		y, ok := b.(List)
		if !ok || x.Len() != y.Len() {
			return false
		}

		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}

		return true
	case Node:
		y, ok := b.(Node)
		if !ok || x.Len() != y.Len() {
			return false
		}

		for key, entry := range x.All() {
			other, found := y.Get(key)
			if !found || !Equal(entry.Value(), other.Value()) {
				return false
			}
		}

		return true
	default:
		return a == b
	}
}
