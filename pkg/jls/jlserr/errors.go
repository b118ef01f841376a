// Package jlserr defines the integer error kinds used throughout the JLS
// layers (spec.md §7), modeled on the teacher's structured
// Op/Entity/Cause error pattern (pkg/storage/errors.go's StorageError and
// ErrorBuilder) instead of ad hoc fmt.Errorf strings at every call site.
package jlserr

import (
	"errors"
	"fmt"
)

// Kind is one of the closed set of error kinds spec.md §7 names.
type Kind int

const (
	// None is the zero value; it is never wrapped into an Error.
	None Kind = iota
	ParameterInvalid
	NotEnoughMemory
	AlreadyExists
	NotFound
	NotSupported
	// TooBig carries the number of bytes the caller's buffer needed to be;
	// see Error.Needed.
	TooBig
	Empty
)

func (k Kind) String() string {
	switch k {
	case ParameterInvalid:
		return "PARAMETER_INVALID"
	case NotEnoughMemory:
		return "NOT_ENOUGH_MEMORY"
	case AlreadyExists:
		return "ALREADY_EXISTS"
	case NotFound:
		return "NOT_FOUND"
	case NotSupported:
		return "NOT_SUPPORTED"
	case TooBig:
		return "TOO_BIG"
	case Empty:
		return "EMPTY"
	default:
		return "NONE"
	}
}

// Sentinel errors for errors.Is-style kind checks that don't need the
// structured Op/Entity context.
var (
	ErrParameterInvalid = errors.New(ParameterInvalid.String())
	ErrNotEnoughMemory  = errors.New(NotEnoughMemory.String())
	ErrAlreadyExists    = errors.New(AlreadyExists.String())
	ErrNotFound         = errors.New(NotFound.String())
	ErrNotSupported     = errors.New(NotSupported.String())
	ErrTooBig           = errors.New(TooBig.String())
	ErrEmpty            = errors.New(Empty.String())
)

func sentinelFor(k Kind) error {
	switch k {
	case ParameterInvalid:
		return ErrParameterInvalid
	case NotEnoughMemory:
		return ErrNotEnoughMemory
	case AlreadyExists:
		return ErrAlreadyExists
	case NotFound:
		return ErrNotFound
	case NotSupported:
		return ErrNotSupported
	case TooBig:
		return ErrTooBig
	case Empty:
		return ErrEmpty
	default:
		return nil
	}
}

// Error is a structured error: the failing operation, the kind, and
// optional context, chained to its sentinel so errors.Is(err, ErrNotFound)
// works regardless of which Op produced it.
type Error struct {
	Op     string // e.g. "SignalDef", "FSRF32", "ReadHeaderAndPayload"
	Kind   Kind
	Entity string // e.g. "signal 7", "source 99"
	Needed uint32 // populated only for Kind == TooBig
	Cause  error
}

func (e *Error) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Entity)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap chains to the sentinel for this kind and to Cause, if set, so
// errors.Is matches both the kind and any wrapped lower-level error.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{sentinelFor(e.Kind), e.Cause}
	}
	return []error{sentinelFor(e.Kind)}
}

// New builds a *Error for the given op/kind with no entity context.
func New(op string, kind Kind) error {
	return &Error{Op: op, Kind: kind}
}

// Newf builds a *Error with a formatted entity description.
func Newf(op string, kind Kind, format string, args ...any) error {
	return &Error{Op: op, Kind: kind, Entity: fmt.Sprintf(format, args...)}
}

// Wrap builds a *Error carrying an underlying cause.
func Wrap(op string, kind Kind, cause error) error {
	return &Error{Op: op, Kind: kind, Cause: cause}
}

// TooBigErr builds the one kind that carries an extra payload: the byte
// count the caller's buffer needed to grow to.
func TooBigErr(op string, needed uint32) error {
	return &Error{Op: op, Kind: TooBig, Needed: needed}
}

// KindOf extracts the Kind carried by err, walking the unwrap chain. It
// returns None if err is nil or carries no recognized kind.
func KindOf(err error) Kind {
	if err == nil {
		return None
	}
	var je *Error
	if errors.As(err, &je) {
		return je.Kind
	}
	for _, k := range []Kind{ParameterInvalid, NotEnoughMemory, AlreadyExists, NotFound, NotSupported, TooBig, Empty} {
		if errors.Is(err, sentinelFor(k)) {
			return k
		}
	}
	return None
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// NeededBytes extracts the Needed field from a TooBig error, or 0 if err
// is not a TooBig error.
func NeededBytes(err error) uint32 {
	var je *Error
	if errors.As(err, &je) && je.Kind == TooBig {
		return je.Needed
	}
	return 0
}
