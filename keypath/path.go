package keypath

import (
	"slices"
	"strconv"
	"strings"
)

// Segment is one step of a Path: either a tree key or a list index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a key segment.
func Key(key string) Segment { return Segment{key: key} }

// Index returns a list index segment.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

func (s Segment) IsIndex() bool { return s.isIndex }

func (s Segment) Key() string { return s.key }

func (s Segment) Index() int { return s.index }

func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}

	return s.key
}

// Path locates a value from the root of a tree. Paths are values: every
// method returns a fresh Path and never modifies the receiver.
type Path []Segment

// Root is the empty path.
func Root() Path { return nil }

// New builds a path from segments.
func New(segments ...Segment) Path {
	return slices.Clone(Path(segments))
}

// Keys builds a path of key segments.
func Keys(keys ...string) Path {
	out := make(Path, len(keys))
	for i, k := range keys {
		out[i] = Key(k)
	}

	return out
}

func (p Path) Len() int { return len(p) }

func (p Path) IsRoot() bool { return len(p) == 0 }

// Append returns p extended with segments.
func (p Path) Append(segments ...Segment) Path {
	out := make(Path, 0, len(p)+len(segments))
	out = append(out, p...)

	return append(out, segments...)
}

// Key returns p extended with a key segment.
func (p Path) Key(key string) Path { return p.Append(Key(key)) }

// Index returns p extended with an index segment.
func (p Path) Index(i int) Path { return p.Append(Index(i)) }

// Join returns p followed by q.
func (p Path) Join(q Path) Path { return p.Append(q...) }

// Last returns the final segment; ok is false for the root.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}

	return p[len(p)-1], true
}

// Parent returns p without its final segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}

	return slices.Clone(p[:len(p)-1])
}

func (p Path) Equal(q Path) bool {
	return slices.Equal(p, q)
}

// HasPrefix reports whether prefix is a leading part of p.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && slices.Equal(p[:len(prefix)], prefix)
}

func (p Path) String() string {
	var b strings.Builder

	for i, s := range p {
		switch {
		case s.isIndex:
			b.WriteString(s.String())
		case !isPlainKey(s.key):
			b.WriteString("[")
			b.WriteString(strconv.Quote(s.key))
			b.WriteString("]")
		default:
			if i > 0 {
				b.WriteByte('.')
			}

			b.WriteString(s.key)
		}
	}

	return b.String()
}

func isPlainKey(key string) bool {
	if key == "" {
		return false
	}

	for _, r := range key {
		switch r {
		case '.', '[', ']', '"', ' ':
			return false
		}
	}

	return true
}
