package nbt

import (
	"errors"
	"fmt"
)

// Sentinel errors for the decoder's recoverable failure modes. Wrap with
// fmt.Errorf("%w: ...") for context; unwrap with errors.Is.
var (
	// ErrUnexpectedEOF is returned when the stream ends before a tag's
	// payload has been fully read.
	ErrUnexpectedEOF = errors.New("nbt: unexpected end of stream")

	// ErrMismatchedEnd is returned when an End tag appears where there is no
	// open Compound to close (including as a standalone root tag).
	ErrMismatchedEnd = errors.New("nbt: mismatched end tag")

	// ErrUnderlyingIO wraps any I/O error from the underlying reader that
	// isn't simply EOF.
	ErrUnderlyingIO = errors.New("nbt: underlying I/O error")
)

// UnknownTagError is returned when a tag id byte doesn't match any known
// Kind.
type UnknownTagError struct {
	ID byte
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("nbt: unknown tag id %d", e.ID)
}

// MalformedLengthError is returned when a ByteArray/IntArray declares a
// negative length. String lengths are read as unsigned and never produce it.
type MalformedLengthError struct {
	Length int32
	Field  string
}

func (e *MalformedLengthError) Error() string {
	return fmt.Sprintf("nbt: malformed %s length %d", e.Field, e.Length)
}
