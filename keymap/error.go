package keymap

import (
	"log/slog"
	"strings"
)

// Diagnostics reported while converting a layout. None of them abort the
// conversion; they are logged and the offending line, record or layer is
// skipped.
var (
	ErrMissingFile           = NewError("cannot open key file")
	ErrUnresolvedName        = NewError("no unicode mapping for key name")
	ErrUnresolvedDeadKeyBase = NewError("dead key base letter has no mapping")
	ErrMalformedLine         = NewError("malformed key definition")
	ErrReadInput             = NewError("failed to read input")

	// ErrNotRecord is returned by [ParseRecord] for blank, comment and
	// directive-only lines (include, map).
	ErrNotRecord = NewError("not a key record")

	// ErrNumLock is returned by [ParseRecord] for records tagged numlock.
	// Such records never produce an [Entry].
	ErrNumLock = NewError("numlock record")
)

// Error is a conversion diagnostic with optional structured attributes.
// Derived errors created with [Error.Wrap] and [Error.With] still match
// their sentinel under errors.Is.
type Error struct {
	kind  *Error
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns a new sentinel error.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.kind != nil && e.kind == t.kind
}

// LogValue implements [slog.LogValuer].
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

// Wrap returns a copy of e with err as its cause.
func (e *Error) Wrap(err error) *Error {
	return &Error{kind: e.kind, msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	merged := make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	merged = append(merged, e.attrs...)
	merged = append(merged, attrs...)

	return &Error{kind: e.kind, msg: e.msg, err: e.err, attrs: merged}
}
