package keypath

import (
	"reflect"

	"healconf/internal/text"
)

// Mapper translates an entry label into the key spelling stored on disk.
// Mappers must be pure.
type Mapper interface {
	Map(label string) string
}

// Identity stores labels unchanged.
type Identity struct{}

func (Identity) Map(label string) string { return label }

// Delimited splits labels into words and joins them with Separator,
// lower-cased unless Upper is set.
type Delimited struct {
	Separator string
	Upper     bool
}

func (d Delimited) Map(label string) string {
	return text.Join(text.Words(label), d.Separator, d.Upper)
}

var (
	// Hyphenated maps "subSection" to "sub-section".
	Hyphenated Mapper = Delimited{Separator: "-"}
	// Snake maps "subSection" to "sub_section".
	Snake Mapper = Delimited{Separator: "_"}
	// ScreamingSnake maps "subSection" to "SUB_SECTION".
	ScreamingSnake Mapper = Delimited{Separator: "_", Upper: true}
)

// MapperFunc adapts a function to Mapper.
type MapperFunc func(label string) string

func (f MapperFunc) Map(label string) string { return f(label) }

// Same reports whether two mappers are interchangeable: same concrete type and
// same exposed settings. Mappers that cannot be compared (functions) are only
// the same as themselves when they are the identical pointer.
func Same(a, b Mapper) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	if ta.Comparable() {
		return a == b
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}

	return false
}
