// Package result is the value-error model of a configuration read.
//
// Bad input data never panics and is never returned as a bare error from a
// codec. It travels upward inside a Result as an ordered list of ValueError
// contexts whose paths grow as nested calls unwind. The read walk is the only
// place that aggregates them, through a Budget shared by the whole read.
package result
