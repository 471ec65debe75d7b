package codec

import (
	"unicode/utf8"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// Policy selects how a Decoder surfaces invariant violations in its input.
type Policy uint8

const (
	// PolicySafe returns every violation as a *DecodeError and validates
	// decoded strings as UTF-8.
	PolicySafe Policy = iota
	// PolicyFast assumes trusted input: violations panic with an assertion
	// error and string validation is skipped.
	PolicyFast
)

func (p Policy) String() string {
	switch p {
	case PolicySafe:
		return "safe"
	case PolicyFast:
		return "fast"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a configuration value onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "safe":
		return PolicySafe, nil
	case "fast":
		return PolicyFast, nil
	default:
		return PolicySafe, errors.Newf("unknown decode policy %q", s)
	}
}

// Decoder carries the decode configuration shared by the header decoder,
// the record framer and the control classifier. The zero value is the safe,
// zero-copy configuration.
type Decoder struct {
	Policy Policy
	// CopyStrings makes decoded strings independent of the input buffer.
	CopyStrings bool
	// AllowAnyVersion disables the 1.0 version check in DecodeHeader.
	AllowAnyVersion bool
}

// Fail is the single point where a violation is either returned or turned
// into a panic, depending on the policy. Layers above the codec route their
// own decode errors through it too.
func (d Decoder) Fail(err *DecodeError) error {
	if d.Policy == PolicyFast {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "decode invariant violated"))
	}
	return err
}

// str converts a borrowed byte range into a string.
func (d Decoder) str(b []byte, offset int) (string, error) {
	if d.Policy == PolicySafe && !utf8.Valid(b) {
		return "", d.Fail(newDecodeError(ErrInvalidUTF8, offset, "%d bytes", len(b)))
	}
	if len(b) == 0 {
		return "", nil
	}
	if d.CopyStrings {
		return string(b), nil
	}
	return unsafe.String(unsafe.SliceData(b), len(b)), nil
}
