package gvas

import (
	"errors"
	"fmt"
)

// Decode failure categories. Every error the decoder produces wraps exactly
// one of these sentinels, so callers can classify with errors.Is regardless
// of the formatted message.
var (
	// ErrHeaderMagic means the buffer does not start with "GVAS".
	ErrHeaderMagic = errors.New("gvas: header magic mismatch")

	// ErrUnexpectedEOF means a read would cross the end of the buffer or
	// of the active scoped limit.
	ErrUnexpectedEOF = errors.New("gvas: unexpected end of data")

	// ErrInvalidStringLength means a string length prefix is implausible
	// for the bytes remaining. Detected before allocating.
	ErrInvalidStringLength = errors.New("gvas: invalid string length")

	// ErrUnknownPropertyType means a type tag outside the dispatch table
	// with no declared size to skip by.
	ErrUnknownPropertyType = errors.New("gvas: unknown property type")

	// ErrStructBoundary means a sized construct decoded to a different
	// byte count than it declared.
	ErrStructBoundary = errors.New("gvas: struct boundary mismatch")

	// ErrRecursionLimit means property nesting exceeded the configured
	// ceiling. Scope recovery never downgrades this to a diagnostic.
	ErrRecursionLimit = errors.New("gvas: recursion limit exceeded")

	// ErrListTerminator means a property list ran out of bytes before its
	// "None"/empty-name sentinel.
	ErrListTerminator = errors.New("gvas: property list terminator missing")

	// ErrSeqConsumed means a lazy element sequence was already iterated;
	// it is single-pass.
	ErrSeqConsumed = errors.New("gvas: element sequence already consumed")

	// ErrSeqOpaque means a lazy element sequence has no decode strategy
	// (unknown element encoding, skipped with its size anchor).
	ErrSeqOpaque = errors.New("gvas: element sequence is opaque")
)

// DecodeError ties a failure to the absolute byte offset where it was
// detected.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v at 0x%X", e.Err, e.Offset)
}

// Unwrap returns the underlying category error.
func (e *DecodeError) Unwrap() error { return e.Err }

// errAt wraps err with the offset at which it was detected. An error that
// already carries an offset is returned unchanged so the innermost
// (most precise) position survives rewrapping.
func errAt(offset int64, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Offset: offset, Err: err}
}

// errAtf wraps sentinel with formatted context and the detection offset.
func errAtf(offset int64, sentinel error, format string, args ...any) error {
	return &DecodeError{
		Offset: offset,
		Err:    fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}
