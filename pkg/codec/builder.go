package codec

import (
	"encoding/binary"
	"math"
)

// Builder serializes a log: a header followed by control and data records.
// Each integer field is written with the fewest bytes that hold it.
type Builder struct {
	buf []byte
}

// NewBuilder starts a log with the supported version and the given metadata.
func NewBuilder(metadata string) *Builder {
	return NewBuilderVersion(SupportedMajor, SupportedMinor, metadata)
}

// NewBuilderVersion starts a log with an explicit version.
func NewBuilderVersion(major, minor uint8, metadata string) *Builder {
	b := &Builder{buf: make([]byte, 0, 64+len(metadata))}
	b.buf = append(b.buf, Magic...)
	b.buf = append(b.buf, minor, major)
	b.buf = appendString(b.buf, metadata)
	return b
}

// Start appends a Start control record.
func (b *Builder) Start(entryID uint32, timestamp uint64, name, typeName, metadata string) *Builder {
	p := controlPrefix(ControlStart, entryID, 3*StringPrefixSize+len(name)+len(typeName)+len(metadata))
	p = appendString(p, name)
	p = appendString(p, typeName)
	p = appendString(p, metadata)
	return b.Record(ControlEntryID, timestamp, p)
}

// Finish appends a Finish control record.
func (b *Builder) Finish(entryID uint32, timestamp uint64) *Builder {
	return b.Record(ControlEntryID, timestamp, controlPrefix(ControlFinish, entryID, 0))
}

// SetMetadata appends a SetMetadata control record.
func (b *Builder) SetMetadata(entryID uint32, timestamp uint64, metadata string) *Builder {
	p := controlPrefix(ControlSetMetadata, entryID, StringPrefixSize+len(metadata))
	p = appendString(p, metadata)
	return b.Record(ControlEntryID, timestamp, p)
}

// Int64 appends a data record holding a little-endian int64.
func (b *Builder) Int64(entryID uint32, timestamp uint64, v int64) *Builder {
	var p [8]byte
	binary.LittleEndian.PutUint64(p[:], uint64(v))
	return b.Record(entryID, timestamp, p[:])
}

// Double appends a data record holding a little-endian IEEE 754 double.
func (b *Builder) Double(entryID uint32, timestamp uint64, v float64) *Builder {
	var p [8]byte
	binary.LittleEndian.PutUint64(p[:], math.Float64bits(v))
	return b.Record(entryID, timestamp, p[:])
}

// Record appends a raw record. Payloads larger than 4 GiB are not representable.
func (b *Builder) Record(entryID uint32, timestamp uint64, payload []byte) *Builder {
	idLen := uintLen(uint64(entryID), 4)
	sizeLen := uintLen(uint64(len(payload)), 4)
	tsLen := uintLen(timestamp, 8)

	b.buf = append(b.buf, byte(NewLengths(idLen, sizeLen, tsLen)))
	b.buf = appendUint(b.buf, uint64(entryID), idLen)
	b.buf = appendUint(b.buf, uint64(len(payload)), sizeLen)
	b.buf = appendUint(b.buf, timestamp, tsLen)
	b.buf = append(b.buf, payload...)
	return b
}

// Bytes returns the encoded log. The builder must not be used afterwards.
func (b *Builder) Bytes() []byte {
	return b.buf
}

func controlPrefix(typ ControlType, entryID uint32, extra int) []byte {
	p := make([]byte, controlHeaderSize, controlHeaderSize+extra)
	p[0] = byte(typ)
	binary.LittleEndian.PutUint32(p[1:], entryID)
	return p
}

func appendString(dst []byte, s string) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}

func appendUint(dst []byte, v uint64, n int) []byte {
	for i := 0; i < n; i++ {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

// uintLen returns the minimum byte width for v, at least 1 and at most limit.
func uintLen(v uint64, limit int) int {
	n := 1
	for n < limit && v>>(8*n) != 0 {
		n++
	}
	return n
}
