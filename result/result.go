package result

import "healconf/keypath"

// Result holds exactly one of a value (possibly itself empty) or a non-empty
// ordered list of errors.
type Result[T any] struct {
	value   T
	errs    []*ValueError
	omitted int
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps one or more errors. It panics without errors: a failed result
// always explains itself.
func Fail[T any](errs ...*ValueError) Result[T] {
	if len(errs) == 0 {
		panic("result: Fail called without errors")
	}

	return Result[T]{errs: errs}
}

// Truncated is Fail for a read that stopped recording errors at its cap. A
// nested walk whose errors were all left out still fails, with errs empty.
func Truncated[T any](errs []*ValueError, omitted int) Result[T] {
	if len(errs) == 0 && omitted == 0 {
		panic("result: Truncated called without errors")
	}

	return Result[T]{errs: errs, omitted: omitted}
}

// From propagates the errors of a failed result into another value type.
func From[T, U any](r Result[U]) Result[T] {
	return Result[T]{errs: r.errs, omitted: r.omitted}
}

func (r Result[T]) OK() bool { return len(r.errs) == 0 && r.omitted == 0 }

// Value returns the value; the zero value when the result failed.
func (r Result[T]) Value() T { return r.value }

// Get returns the value and whether the result succeeded.
func (r Result[T]) Get() (T, bool) { return r.value, r.OK() }

func (r Result[T]) Errors() []*ValueError { return r.errs }

// Omitted returns how many errors were left out by the error cap.
func (r Result[T]) Omitted() int { return r.omitted }

// Err returns nil on success and a *Report otherwise.
func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}

	return &Report{Errors: r.errs, Omitted: r.omitted}
}

// Under relocates the errors of a failed result below segments.
func (r Result[T]) Under(segments ...keypath.Segment) Result[T] {
	if r.OK() {
		return r
	}

	r.errs = Under(r.errs, segments...)

	return r
}

// Map transforms a successful value.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if !r.OK() {
		return From[U](r)
	}

	return Ok(f(r.value))
}
