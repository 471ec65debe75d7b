package codec

import "encoding/binary"

// StringPrefixSize is the width of the length prefix in front of every string.
const StringPrefixSize = 4

// ReadUint interprets b[0:n] as a little-endian unsigned integer.
// n must be in [1, 8] and len(b) >= n; callers check bounds first.
func ReadUint(b []byte, n int) uint64 {
	_ = b[n-1]
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// ReadString decodes a length-prefixed string from the start of b using the
// default (safe, zero-copy) decoder. It returns the string and the number of
// bytes consumed.
func ReadString(b []byte) (string, int, error) {
	return Decoder{}.String(b, 0)
}

// String decodes a length-prefixed string from the start of b. base is the
// offset of b within the full buffer and is only used for error reporting.
// Unless CopyStrings is set the returned string aliases b.
func (d Decoder) String(b []byte, base int) (string, int, error) {
	if len(b) < StringPrefixSize {
		return "", 0, d.Fail(newDecodeError(ErrTruncatedData, base,
			"string length prefix needs %d bytes, have %d", StringPrefixSize, len(b)))
	}
	n := uint64(binary.LittleEndian.Uint32(b))
	if uint64(len(b)-StringPrefixSize) < n {
		return "", 0, d.Fail(newDecodeError(ErrTruncatedData, base,
			"string of %d bytes, have %d", n, len(b)-StringPrefixSize))
	}
	end := StringPrefixSize + int(n)
	s, err := d.str(b[StringPrefixSize:end], base+StringPrefixSize)
	if err != nil {
		return "", 0, err
	}
	return s, end, nil
}
