package codec

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrCycle           = errors.New("cyclic type resolution")
	ErrUnsupported     = errors.New("no handler claims the type")
	ErrNotContract     = errors.New("type is not a configuration contract")
	ErrInaccessible    = errors.New("entry is not accessible")
	ErrParameterized   = errors.New("entry must not take parameters")
	ErrInvalidDefault  = errors.New("invalid default value")
	ErrInvalidTag      = errors.New("invalid struct tag")
	ErrInvalidFallback = errors.New("invalid fallback method")
	ErrNoCodec         = errors.New("handler built no codec")
)

// DefinitionError reports a programmer mistake found while resolving a type
// or scanning a contract. It is never collected, only returned.
type DefinitionError struct {
	Type  reflect.Type
	Entry string
	Err   error
}

func (e *DefinitionError) Error() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.String()
	}

	if e.Entry != "" {
		return fmt.Sprintf("type %s entry %q: %v", name, e.Entry, e.Err)
	}

	return fmt.Sprintf("type %s: %v", name, e.Err)
}

func (e *DefinitionError) Unwrap() error { return e.Err }

func asDefinitionError(t reflect.Type, err error) *DefinitionError {
	var de *DefinitionError
	if errors.As(err, &de) {
		return de
	}

	return &DefinitionError{Type: t, Err: err}
}
