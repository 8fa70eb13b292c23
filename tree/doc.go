// Package tree holds the canonical in-memory form of configuration data.
//
// A tree is an ordered mapping of string keys to entries. Every entry holds
// exactly one canonical value:
//
//   - bool
//   - int8, int16, int32, int64
//   - float32, float64
//   - Char
//   - string
//   - List, an immutable ordered sequence of canonical values
//   - Node, a nested tree
//
// There is no null member. Absence is a property of a lookup, never a value.
//
// Trees come in two ownership modes. *Tree is mutable and edited in place,
// *Frozen is read-only and safe to share. Converting a *Frozen into a *Tree is
// free until the first write, which copies the table; nested trees are copied
// lazily the same way while scalars and lists are shared.
package tree
