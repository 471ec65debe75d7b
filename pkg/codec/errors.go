package codec

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Decode error kinds. Every error returned by this package wraps exactly one
// of these, so callers can branch with errors.Is.
var (
	ErrBadMagic           = errors.New("data does not start with the WPILOG magic")
	ErrUnsupportedVersion = errors.New("unsupported log version")
	ErrTruncatedData      = errors.New("data too short for declared length")
	ErrTruncatedRecord    = errors.New("record extends past end of buffer")
	ErrTrailingBytes      = errors.New("trailing bytes after last record")
	ErrUnknownControlType = errors.New("unknown control record type")
	ErrInvalidUTF8        = errors.New("string is not valid UTF-8")
)

// DecodeError identifies the first problem found in a buffer and where it was.
type DecodeError struct {
	Kind   error // one of the Err* sentinels
	Offset int   // byte offset into the full buffer
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("wpilog: offset %d: %v", e.Offset, e.Kind)
	}
	return fmt.Sprintf("wpilog: offset %d: %v: %s", e.Offset, e.Kind, e.Detail)
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

func newDecodeError(kind error, offset int, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Kind:   kind,
		Offset: offset,
		Detail: fmt.Sprintf(format, args...),
	}
}
