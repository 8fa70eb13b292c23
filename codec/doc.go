// Package codec resolves Go types to codecs converting between typed values
// and the canonical tree.
//
// A Registry consults its handlers in priority order; the first handler
// claiming a type builds its (default, codec) pair. Handlers may request
// other types eagerly through Resolution.Resolve or defer the request with
// Resolution.Lazy. A request for a type whose resolution is still in progress
// is a cycle and fails with ErrCycle instead of recursing.
//
// Codecs never return bad input as a Go error: decoding yields a
// result.Result carrying value errors. Definition errors, the programmer
// mistakes found while resolving, are reported as *DefinitionError.
package codec
