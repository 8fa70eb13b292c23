package tree

//go:generate go tool stringer -type=Kind -output=kind_string.go

type Kind int

const (
	_ Kind = iota // zero is not a canonical kind

	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindChar
	KindString
	KindList
	KindTree

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

func (k Kind) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k Kind) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k Kind) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

// IsScalar reports whether the kind is neither a list nor a tree.
func (k Kind) IsScalar() bool {
	return k != 0 && k != KindList && k != KindTree
}

func (k Kind) Bits() int {
	switch k {
	default:
		panic("only numeric kinds has meaningful bits amount, but requested for: " + k.String())
	case KindInt8:
		return 8
	case KindInt16:
		return 16
	case KindInt32, KindFloat32:
		return 32
	case KindInt64, KindFloat64:
		return 64
	}
}

// KindOf returns the canonical kind of v, or zero when v is not canonical.
func KindOf(v any) Kind {
	switch v.(type) {
	default:
		return 0
	case bool:
		return KindBool
	case int8:
		return KindInt8
	case int16:
		return KindInt16
	case int32:
		return KindInt32
	case int64:
		return KindInt64
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	case Char:
		return KindChar
	case string:
		return KindString
	case List:
		return KindList
	case *Tree, *Frozen:
		return KindTree
	}
}
