package format

import (
	"fmt"
	"strings"
)

// Kind categorizes a parse error
type Kind string

const (
	KindUnknownFormat Kind = "unknown_format" // neither MOD nor XM
	KindTruncated     Kind = "truncated"      // declared structure runs past the buffer
	KindOutOfBounds   Kind = "out_of_bounds"  // cursor read past the buffer
	KindInvalidData   Kind = "invalid_data"   // structurally impossible values
)

// Sentinels for errors.Is
var (
	ErrUnknownFormat = &Error{Kind: KindUnknownFormat, Offset: -1}
	ErrTruncated     = &Error{Kind: KindTruncated, Offset: -1}
	ErrOutOfBounds   = &Error{Kind: KindOutOfBounds, Offset: -1}
	ErrInvalidData   = &Error{Kind: KindInvalidData, Offset: -1}
)

// Error is the structured error returned by the parser
type Error struct {
	Cause  error
	Kind   Kind
	Detail string
	Offset int // -1 when not tied to a position
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(string(e.Kind), "_", " "))
	if e.Offset >= 0 && (e.Kind == KindTruncated || e.Kind == KindOutOfBounds) {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target has the same Kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func newError(kind Kind, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func unknownFormat(size int) *Error {
	return &Error{Kind: KindUnknownFormat, Offset: -1, Detail: fmt.Sprintf("unsupported or invalid module header (%d bytes)", size)}
}

func truncated(offset int, format string, args ...any) *Error {
	return newError(KindTruncated, offset, format, args...)
}

func invalidData(format string, args ...any) *Error {
	return newError(KindInvalidData, -1, format, args...)
}

// asTruncated converts cursor OutOfBounds errors into Truncated errors at a
// parse boundary, keeping the original as the cause.
func asTruncated(err error, what string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok && e.Kind == KindOutOfBounds {
		return &Error{Kind: KindTruncated, Offset: e.Offset, Detail: what, Cause: e}
	}
	return err
}

// rebase shifts the offsets of err and its causes by delta. Errors from a
// cursor over a sub-slice become absolute file offsets.
func rebase(err error, delta int) error {
	for e, ok := err.(*Error); ok; e, ok = e.Cause.(*Error) {
		if e.Offset >= 0 {
			e.Offset += delta
		}
	}
	return err
}
