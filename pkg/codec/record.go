package codec

import "fmt"

// MinRecordSize is the smallest possible record: the length bitfield plus a
// one byte entry id, payload size and timestamp.
const MinRecordSize = 4

// ControlEntryID is the reserved entry id carried by control records.
const ControlEntryID = 0

// Lengths is the bit-packed field width header that starts every record.
//
//	bit 7   | bits 6-4       | bits 3-2          | bits 1-0
//	reserved| timestamp code | payload size code | entry id code
//
// A code c means the field occupies c+1 bytes.
type Lengths uint8

// NewLengths packs field widths (in bytes) into a Lengths header.
func NewLengths(entryID, payloadSize, timestamp int) Lengths {
	return Lengths((entryID-1)&0b11 | ((payloadSize-1)&0b11)<<2 | ((timestamp-1)&0b111)<<4)
}

// EntryIDLen returns the width of the entry id field in bytes (1-4).
func (l Lengths) EntryIDLen() int { return int(l&0b11) + 1 }

// PayloadSizeLen returns the width of the payload size field in bytes (1-4).
func (l Lengths) PayloadSizeLen() int { return int(l>>2&0b11) + 1 }

// TimestampLen returns the width of the timestamp field in bytes (1-8).
func (l Lengths) TimestampLen() int { return int(l>>4&0b111) + 1 }

// Reserved reports the reserved high bit.
func (l Lengths) Reserved() bool { return l&0x80 != 0 }

// HeaderLen is the number of bytes between the start of the record and its payload.
func (l Lengths) HeaderLen() int {
	return 1 + l.EntryIDLen() + l.PayloadSizeLen() + l.TimestampLen()
}

func (l Lengths) String() string {
	return fmt.Sprintf("id=%d size=%d ts=%d", l.EntryIDLen(), l.PayloadSizeLen(), l.TimestampLen())
}

// RawRecord is one framed record. Payload aliases the input buffer and is
// only valid while that buffer is.
type RawRecord struct {
	Offset    int // offset of the length byte in the full buffer
	Lengths   Lengths
	EntryID   uint32
	Timestamp uint64
	Payload   []byte
}

// IsControl reports whether the record carries the reserved control entry id.
func (r RawRecord) IsControl() bool {
	return r.EntryID == ControlEntryID
}

// Size returns the encoded size of the record.
func (r RawRecord) Size() int {
	return r.Lengths.HeaderLen() + len(r.Payload)
}

// Framer walks the records of a buffer without interpreting them. It follows
// the Next/Record iteration style; call Err after Next returns false.
type Framer struct {
	dec   Decoder
	buf   []byte
	start int
	off   int
	rec   RawRecord
	err   error
}

// NewFramer returns a framer over buf whose first record starts at start
// (the offset returned by DecodeHeader).
func (d Decoder) NewFramer(buf []byte, start int) *Framer {
	return &Framer{dec: d, buf: buf, start: start, off: start}
}

// Next frames the next record. It returns false at the exact end of the
// buffer or on the first error.
func (f *Framer) Next() bool {
	if f.err != nil || f.off == len(f.buf) {
		return false
	}
	rec, err := f.dec.frame(f.buf, f.off)
	if err != nil {
		f.err = err
		return false
	}
	f.rec = rec
	f.off += rec.Size()
	return true
}

// Record returns the record framed by the last successful call to Next.
func (f *Framer) Record() RawRecord {
	return f.rec
}

// Err returns the error that stopped iteration, if any.
func (f *Framer) Err() error {
	return f.err
}

// Offset returns the offset of the next record to be framed.
func (f *Framer) Offset() int {
	return f.off
}

// Reset rewinds the framer to the first record.
func (f *Framer) Reset() {
	f.off = f.start
	f.rec = RawRecord{}
	f.err = nil
}

// frame decodes the record starting at buf[off].
func (d Decoder) frame(buf []byte, off int) (RawRecord, error) {
	remaining := len(buf) - off
	if remaining < MinRecordSize {
		return RawRecord{}, d.Fail(newDecodeError(ErrTrailingBytes, off, "%d bytes left", remaining))
	}

	l := Lengths(buf[off])
	hdr := l.HeaderLen()
	if remaining < hdr {
		return RawRecord{}, d.Fail(newDecodeError(ErrTruncatedRecord, off,
			"header needs %d bytes (%s), have %d", hdr, l, remaining))
	}

	p := off + 1
	id := ReadUint(buf[p:], l.EntryIDLen())
	p += l.EntryIDLen()
	size := ReadUint(buf[p:], l.PayloadSizeLen())
	p += l.PayloadSizeLen()
	ts := ReadUint(buf[p:], l.TimestampLen())
	p += l.TimestampLen()

	if uint64(len(buf)-p) < size {
		return RawRecord{}, d.Fail(newDecodeError(ErrTruncatedRecord, off,
			"payload of %d bytes, have %d", size, len(buf)-p))
	}
	end := p + int(size)

	return RawRecord{
		Offset:    off,
		Lengths:   l,
		EntryID:   uint32(id),
		Timestamp: ts,
		Payload:   buf[p:end:end],
	}, nil
}
