// Package schema scans configuration contracts and drives the read and write
// walks over the canonical tree.
//
// A contract is a Go struct. Its exported fields are the entries, keyed by
// field name or by the name given in a `conf:"name"` tag; embedded structs
// are ancestor layers, scanned once however many paths reach them. Pointer
// fields and fields tagged `conf:",optional"` are optional. Exported func
// fields without parameters and the methods of the contract are callables,
// kept apart from the data entries.
//
// Per-entry metadata comes from struct tags:
//
//	default:"<yaml>"        default value, decoded with the entry codec
//	range:"min,max"         inclusive numeric bounds, either side may be empty
//	comment:"a|b"           comment lines written above the entry
//	comment-inline:"x"      comment written after the entry
//	comment-below:"a|b"     comment lines written below the entry
//
// An entry without a default tag may declare a fallback method named
// Default<Field> returning the value, or the value and a bool.
package schema
