package pkg

import (
	"log/slog"
	"strings"
)

// Sentinel errors shared by all msc packages.
// Errors derived from a sentinel via [Error.Wrap] or [Error.With] still match
// it with [errors.Is].
var (
	// ErrIO is returned when the descriptor or cache file cannot be opened,
	// read, or written. It aborts the whole operation.
	ErrIO = NewError("i/o failure")

	// ErrMalformedDescriptor is returned for a cache file with an invalid
	// top-level shape, or an impossible state in the descriptor parser.
	ErrMalformedDescriptor = NewError("malformed descriptor")

	// ErrMalformedScript is returned when a script line does not match the
	// script grammar. It carries the offending line and column as attributes.
	ErrMalformedScript = NewError("malformed script")

	// ErrWrongArity is returned when a builtin function is called with the
	// wrong number of arguments.
	ErrWrongArity = NewError("wrong number of arguments")

	// ErrUnsupportedArgument is returned when a builtin function is called
	// with an argument form it does not implement.
	ErrUnsupportedArgument = NewError("unsupported argument shape")

	// ErrUnknownFunction is returned in strict mode when a script calls a
	// function missing from the registry. Lenient mode resolves the call to
	// the empty string instead.
	ErrUnknownFunction = NewError("unknown function")

	// ErrUnresolvedVariable describes a read of a missing path. It is never
	// returned by evaluation (the read resolves to the empty string) but is
	// reported to observers so the loss is visible.
	ErrUnresolvedVariable = NewError("unresolved variable")

	// ErrInvalidValueType is returned when a variable reference resolves to
	// a node that is not a string.
	ErrInvalidValueType = NewError("invalid value type")

	// ErrInvalidContext is returned when a script is evaluated against a
	// context whose root is not an object.
	ErrInvalidContext = NewError("context root is not an object")

	// ErrSectionNotFound is returned when a requested section path does not
	// exist in the descriptor.
	ErrSectionNotFound = NewError("section not found")

	// ErrEntryNotFound is returned when a requested entry does not exist.
	ErrEntryNotFound = NewError("entry not found")

	// ErrFileExists is returned when a command would overwrite a file.
	ErrFileExists = NewError("file exists (use --force to overwrite)")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	kind  *Error      // Sentinel this error was derived from
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
// If err itself is an *Error it is returned unchanged. Any other error is
// wrapped whole, so outer context added with fmt.Errorf is kept and an inner
// Error still matches with [errors.Is].
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	if ee, ok := err.(*Error); ok { //nolint:errorlint
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from the same sentinel as target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.kind == nil {
		return false
	}

	return e.kind == t.kind
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		kind:  e.kind,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		kind:  e.kind,
	}
}
