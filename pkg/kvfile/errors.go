package kvfile

import (
	"errors"
	"fmt"
)

// Kind classifies a store failure.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate in kvfile.
	KindUnknown Kind = iota
	// KindIO covers file system failures: read, write, sync, rename.
	KindIO
	// KindSerialization covers encode and decode failures.
	KindSerialization
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindSerialization:
		return "serialization"
	default:
		return "unknown"
	}
}

// Error is the error type returned by fallible Store operations.
type Error struct {
	Kind Kind   // IO or serialization
	Op   string // Operation that failed (e.g., "dump", "load", "set")
	Err  error  // Underlying OS or codec error
}

// Sentinel errors for errors.Is matching by kind.
var (
	ErrIO            = &Error{Kind: KindIO}
	ErrSerialization = &Error{Kind: KindSerialization}
)

// ErrNoSuchList is reported by a ListExtender whose list does not exist.
var ErrNoSuchList = errors.New("kvfile: list does not exist")

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("kvfile: %s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("kvfile: %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("kvfile: %s failure", e.Kind)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of a kvfile error, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func ioError(op string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Err: err}
}

func serializationError(op string, err error) *Error {
	return &Error{Kind: KindSerialization, Op: op, Err: err}
}
