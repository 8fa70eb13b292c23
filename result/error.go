package result

import (
	"errors"
	"fmt"
	"strings"

	"healconf/keypath"
)

// ErrRequired is wrapped by the error reported for an absent required entry.
var ErrRequired = errors.New("required value missing")

// ValueError is the context of one bad input value.
type ValueError struct {
	// Message is the human-readable description.
	Message string
	// Path locates the value; relative while the error is still travelling
	// upward, absolute once the read returns.
	Path keypath.Path
	// Line is the source line when the backend knows it, otherwise zero.
	Line int
	// Backend carries text supplied by a storage backend (parser output).
	Backend string
	// Err is an optional underlying cause.
	Err error

	admitted bool
}

// Errorf creates a ValueError at the current location.
func Errorf(format string, args ...any) *ValueError {
	return &ValueError{Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a ValueError with err as its cause.
func Wrap(err error, message string) *ValueError {
	return &ValueError{Message: message, Err: err}
}

// Required returns the error for an absent required entry.
func Required() *ValueError {
	return &ValueError{Message: ErrRequired.Error(), Err: ErrRequired}
}

func (e *ValueError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var prefix []string
	if !e.Path.IsRoot() {
		prefix = append(prefix, e.Path.String())
	}

	if e.Line > 0 {
		prefix = append(prefix, fmt.Sprintf("(line %d)", e.Line))
	}

	msg := e.Message
	if e.Backend != "" {
		msg = msg + ": " + e.Backend
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

func (e *ValueError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// Under returns a copy of e located below segments.
func (e *ValueError) Under(segments ...keypath.Segment) *ValueError {
	c := *e
	c.Path = keypath.New(segments...).Join(e.Path)

	return &c
}

// UnderPath returns a copy of e located below prefix.
func (e *ValueError) UnderPath(prefix keypath.Path) *ValueError {
	return e.Under(prefix...)
}

// AtLine returns a copy of e with line set, unless e already has one.
func (e *ValueError) AtLine(line int) *ValueError {
	if e.Line > 0 || line <= 0 {
		return e
	}

	c := *e
	c.Line = line

	return &c
}

// WithBackend returns a copy of e carrying backend-supplied text.
func (e *ValueError) WithBackend(text string) *ValueError {
	c := *e
	c.Backend = text

	return &c
}

// Under relocates every error below segments.
func Under(errs []*ValueError, segments ...keypath.Segment) []*ValueError {
	out := make([]*ValueError, len(errs))
	for i, e := range errs {
		out[i] = e.Under(segments...)
	}

	return out
}

// Report is the displayable outcome of a failed read: the admitted errors in
// traversal order plus the number of errors left out by the cap.
type Report struct {
	Errors  []*ValueError
	Omitted int
}

func (r *Report) Error() string {
	if len(r.Errors) == 1 && r.Omitted == 0 {
		return r.Errors[0].Error()
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%d configuration errors:", len(r.Errors)+r.Omitted)

	for _, e := range r.Errors {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}

	if r.Omitted > 0 {
		fmt.Fprintf(&b, "\n  (+%d more)", r.Omitted)
	}

	return b.String()
}

func (r *Report) Unwrap() []error {
	out := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e
	}

	return out
}
