package vectordb

import (
	"errors"
	"fmt"
)

// Common error kinds returned by Service implementations.
// Adapters wrap vendor errors in *Error so callers can match on the kind
// with errors.Is without depending on any SDK.
var (
	// ErrNotFound is returned when a collection, partition or snapshot does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadySatisfied is returned when the requested state already holds
	// (index present, collection loaded). Provisioning treats it as success.
	ErrAlreadySatisfied = errors.New("already satisfied")

	// ErrInvalidArgument is returned for malformed requests or expressions.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnavailable is returned when the database cannot be reached.
	ErrUnavailable = errors.New("unavailable")

	// ErrUnsupported is returned when the backend lacks a capability.
	ErrUnsupported = errors.New("unsupported")
)

// Kind is the stable, serialisable name of an error kind.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindAlreadySatisfied Kind = "already_satisfied"
	KindInvalidArgument  Kind = "invalid_argument"
	KindUnavailable      Kind = "unavailable"
	KindUnsupported      Kind = "unsupported"
	KindInternal         Kind = "internal"
)

// Error is a classified failure of a capability call.
type Error struct {
	// Op is the capability operation that failed, e.g. "create_index".
	Op string
	// Kind is one of the sentinel errors above.
	Kind error
	// Err is the underlying cause, usually from the vendor SDK.
	Err error
}

// NewError builds a classified error.
func NewError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	default:
		return e.Op
	}
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	var out []error
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// KindOf classifies any error. Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadySatisfied):
		return KindAlreadySatisfied
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrUnsupported):
		return KindUnsupported
	default:
		return KindInternal
	}
}

// IsNotFound checks if the error is a "does not exist" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadySatisfied checks if the error reports an already reached state.
func IsAlreadySatisfied(err error) bool {
	return errors.Is(err, ErrAlreadySatisfied)
}

// IsUnsupported checks if the backend lacks the capability.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
