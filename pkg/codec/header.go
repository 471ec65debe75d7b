package codec

import (
	"bytes"
	"fmt"
)

// Magic is the fixed token every log starts with.
var Magic = []byte("WPILOG")

// Supported log format version.
const (
	SupportedMajor = 1
	SupportedMinor = 0
)

// Header is the decoded log header.
type Header struct {
	Major    uint8
	Minor    uint8
	Metadata string
}

// Version returns the packed version as stored on disk (major in the high byte).
func (h Header) Version() uint16 {
	return uint16(h.Major)<<8 | uint16(h.Minor)
}

func (h Header) String() string {
	return fmt.Sprintf("%d.%d", h.Major, h.Minor)
}

// DecodeHeader validates the magic and version and decodes the header
// metadata string. It returns the offset of the first record.
//
// Layout: [Magic(6)][Minor(1)][Major(1)][MetadataLen(4)][Metadata]
func (d Decoder) DecodeHeader(buf []byte) (Header, int, error) {
	if len(buf) < len(Magic) || !bytes.Equal(buf[:len(Magic)], Magic) {
		return Header{}, 0, d.Fail(newDecodeError(ErrBadMagic, 0, "%d byte input", len(buf)))
	}
	off := len(Magic)
	if len(buf)-off < 2 {
		return Header{}, 0, d.Fail(newDecodeError(ErrTruncatedData, off, "version needs 2 bytes"))
	}

	h := Header{Minor: buf[off], Major: buf[off+1]}
	if !d.AllowAnyVersion && (h.Major != SupportedMajor || h.Minor != SupportedMinor) {
		return Header{}, 0, d.Fail(newDecodeError(ErrUnsupportedVersion, off,
			"got %s, expected %d.%d", h, SupportedMajor, SupportedMinor))
	}
	off += 2

	metadata, n, err := d.String(buf[off:], off)
	if err != nil {
		return Header{}, 0, err
	}
	h.Metadata = metadata

	return h, off + n, nil
}
