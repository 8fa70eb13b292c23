package tree

import "slices"

//go:generate go tool stringer -type=CommentPosition -trimprefix=Comment -linecomment -output=commentposition_string.go

// CommentPosition locates a comment group relative to its entry.
type CommentPosition int

const (
	CommentAbove  CommentPosition = iota // above
	CommentInline                        // inline
	CommentBelow                         // below
)

// Comments are the positional comment groups attached to an entry.
type Comments struct {
	Above  []string
	Inline []string
	Below  []string
}

func (c Comments) IsZero() bool {
	return len(c.Above) == 0 && len(c.Inline) == 0 && len(c.Below) == 0
}

// At returns the group stored at pos.
func (c Comments) At(pos CommentPosition) []string {
	switch pos {
	case CommentAbove:
		return c.Above
	case CommentInline:
		return c.Inline
	case CommentBelow:
		return c.Below
	default:
		return nil
	}
}

// Only keeps the groups for which keep returns true.
func (c Comments) Only(keep func(CommentPosition) bool) Comments {
	var out Comments
	if keep(CommentAbove) {
		out.Above = slices.Clone(c.Above)
	}

	if keep(CommentInline) {
		out.Inline = slices.Clone(c.Inline)
	}

	if keep(CommentBelow) {
		out.Below = slices.Clone(c.Below)
	}

	return out
}

// Entry is one canonical value plus the source metadata a backend may attach.
// Line is zero when unknown.
type Entry struct {
	value    any
	Line     int
	Comments Comments
}

// NewEntry is the validation boundary of the tree: it fails for anything
// outside the canonical union.
func NewEntry(v any) (Entry, error) {
	if err := check(v); err != nil {
		return Entry{}, err
	}

	return Entry{value: v}, nil
}

// MustEntry is NewEntry that panics on a non-canonical value.
func MustEntry(v any) Entry {
	e, err := NewEntry(v)
	if err != nil {
		panic(err)
	}

	return e
}

func (e Entry) Value() any { return e.value }

func (e Entry) Kind() Kind { return KindOf(e.value) }

// IsValid reports whether the entry was built through NewEntry.
func (e Entry) IsValid() bool { return e.value != nil }

// Equal compares values only; line numbers and comments are ignored.
func (e Entry) Equal(other Entry) bool {
	return Equal(e.value, other.value)
}

func (e Entry) WithLine(line int) Entry {
	e.Line = line
	return e
}

func (e Entry) WithComments(c Comments) Entry {
	e.Comments = c
	return e
}
