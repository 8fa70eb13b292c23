package tree

import (
	"iter"
	"slices"
)

// Node is the read-only view shared by both ownership modes.
type Node interface {
	// Get looks up key; the second result is false when the key is absent.
	Get(key string) (Entry, bool)
	// Keys returns the keys in insertion order.
	Keys() []string
	Len() int
	// All iterates the entries in insertion order.
	All() iter.Seq2[string, Entry]
	// Mutable returns a mutable tree; a no-op for *Tree.
	Mutable() *Tree
	// Immutable returns a read-only tree; a no-op for *Frozen.
	Immutable() *Frozen
}

type table struct {
	keys    []string
	entries map[string]Entry
}

func newTable(size int) *table {
	return &table{
		keys:    make([]string, 0, size),
		entries: make(map[string]Entry, size),
	}
}

func (t *table) get(key string) (Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

func (t *table) all() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		for _, key := range t.keys {
			if !yield(key, t.entries[key]) {
				return
			}
		}
	}
}

// thaw copies the table for writing; nested trees become lazily copied
// mutable trees.
func (t *table) thaw() *table {
	out := newTable(len(t.keys))
	out.keys = append(out.keys, t.keys...)

	for key, e := range t.entries {
		if n, ok := e.value.(Node); ok {
			e.value = n.Mutable()
		}

		out.entries[key] = e
	}

	return out
}

// freeze deep-copies the table into its read-only form.
func (t *table) freeze() *table {
	out := newTable(len(t.keys))
	out.keys = append(out.keys, t.keys...)

	for key, e := range t.entries {
		if n, ok := e.value.(Node); ok {
			e.value = n.Immutable()
		}

		e.Comments = Comments{
			Above:  slices.Clone(e.Comments.Above),
			Inline: slices.Clone(e.Comments.Inline),
			Below:  slices.Clone(e.Comments.Below),
		}
		out.entries[key] = e
	}

	return out
}

// Tree is the mutable form. It is not safe for concurrent mutation; convert
// to *Frozen before sharing across goroutines.
type Tree struct {
	data     *table
	borrowed bool
}

// New returns an empty mutable tree.
func New() *Tree {
	return &Tree{data: newTable(0)}
}

// own materialises a private table before the first write.
func (t *Tree) own() {
	if t.borrowed {
		t.data = t.data.thaw()
		t.borrowed = false
	}
}

func (t *Tree) Get(key string) (Entry, bool) { return t.data.get(key) }

func (t *Tree) Keys() []string { return slices.Clone(t.data.keys) }

func (t *Tree) Len() int { return len(t.data.keys) }

func (t *Tree) All() iter.Seq2[string, Entry] { return t.data.all() }

func (t *Tree) Mutable() *Tree { return t }

func (t *Tree) Immutable() *Frozen {
	if t.borrowed {
		return &Frozen{data: t.data}
	}

	return &Frozen{data: t.data.freeze()}
}

// Set stores e under key, appending the key when it is new and keeping its
// position otherwise.
func (t *Tree) Set(key string, e Entry) error {
	if err := check(e.value); err != nil {
		return err
	}

	t.own()

	if _, exists := t.data.entries[key]; !exists {
		t.data.keys = append(t.data.keys, key)
	}

	t.data.entries[key] = e

	return nil
}

// Put replaces the value under key, keeping the line and comments of an
// existing entry.
func (t *Tree) Put(key string, v any) error {
	e, err := NewEntry(v)
	if err != nil {
		return err
	}

	if old, ok := t.data.get(key); ok {
		e.Line = old.Line
		e.Comments = old.Comments
	}

	return t.Set(key, e)
}

// Delete removes key and reports whether it was present.
func (t *Tree) Delete(key string) bool {
	if _, ok := t.data.entries[key]; !ok {
		return false
	}

	t.own()
	delete(t.data.entries, key)
	t.data.keys = slices.DeleteFunc(t.data.keys, func(k string) bool { return k == key })

	return true
}

// Section returns the nested tree under key for in-place edits.
func (t *Tree) Section(key string) (*Tree, bool) {
	e, ok := t.data.get(key)
	if !ok {
		return nil, false
	}

	n, ok := e.value.(Node)
	if !ok {
		return nil, false
	}

	if sub, isTree := n.(*Tree); isTree && !t.borrowed {
		return sub, true
	}

	t.own()

	e = t.data.entries[key]
	sub := e.value.(Node).Mutable()
	e.value = sub
	t.data.entries[key] = e

	return sub, true
}

// Frozen is the read-only form.
type Frozen struct {
	data *table
}

// Empty returns an empty read-only tree.
func Empty() *Frozen {
	return &Frozen{data: newTable(0)}
}

func (f *Frozen) Get(key string) (Entry, bool) { return f.data.get(key) }

func (f *Frozen) Keys() []string { return slices.Clone(f.data.keys) }

func (f *Frozen) Len() int { return len(f.data.keys) }

func (f *Frozen) All() iter.Seq2[string, Entry] { return f.data.all() }

func (f *Frozen) Mutable() *Tree { return &Tree{data: f.data, borrowed: true} }

func (f *Frozen) Immutable() *Frozen { return f }
