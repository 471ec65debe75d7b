// Package codec decodes the binary layout of WPILOG data logs.
//
// The codec package is the lowest layer of the parser. It knows how bytes are
// laid out but nothing about how entry ids map onto named entries over time;
// that correlation lives in package wpilog.
//
// # Log Format
//
// A log is a header followed by a flat sequence of variable-length records.
// All integers are little-endian.
//
//	Header: [Magic "WPILOG"(6)][Minor(1)][Major(1)][MetadataLen(4)][Metadata]
//	Record: [Lengths(1)][EntryID(1-4)][PayloadSize(1-4)][Timestamp(1-8)][Payload]
//
// The Lengths byte packs the width of the three integer fields:
//   - bits 0-1: entry id width minus one
//   - bits 2-3: payload size width minus one
//   - bits 4-6: timestamp width minus one
//   - bit 7: reserved
//
// Records with entry id 0 are control records. Their payload is
//
//	[Type(1)][TargetEntryID(4)][fields...]
//
// where Type 0 (Start) carries name, type name and metadata strings, Type 1
// (Finish) carries nothing and Type 2 (SetMetadata) carries one metadata
// string. Strings are a 4 byte length followed by UTF-8 bytes.
//
// # Usage
//
//	var dec codec.Decoder
//	hdr, off, err := dec.DecodeHeader(buf)
//	if err != nil {
//	    return err
//	}
//	f := dec.NewFramer(buf, off)
//	for f.Next() {
//	    rec := f.Record()
//	    if rec.IsControl() {
//	        ctrl, err := dec.DecodeControl(rec)
//	        ...
//	    }
//	}
//	if err := f.Err(); err != nil {
//	    return err
//	}
//
// # Zero Copy
//
// Record payloads are sub-slices of the input buffer, and unless
// Decoder.CopyStrings is set so are decoded strings. The buffer must stay
// valid and unmodified for as long as any decoded value is in use.
//
// # Error Handling
//
// Decoder.Policy picks how malformed input is surfaced. PolicySafe returns a
// *DecodeError wrapping one of the Err* sentinels. PolicyFast treats input as
// trusted: the same checks panic with an assertion error instead, and UTF-8
// validation is skipped. Both policies share one decoding path.
package codec
