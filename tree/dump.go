package tree

import "github.com/davecgh/go-spew/spew"

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders n for debugging.
func Dump(n Node) string {
	if n == nil {
		return "<nil>"
	}

	return dumper.Sdump(ToNative(n))
}
