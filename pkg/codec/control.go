package codec

import "encoding/binary"

// ControlType is the sub-type tag in byte 0 of a control payload.
type ControlType uint8

const (
	ControlStart       ControlType = 0
	ControlFinish      ControlType = 1
	ControlSetMetadata ControlType = 2
)

func (t ControlType) String() string {
	switch t {
	case ControlStart:
		return "start"
	case ControlFinish:
		return "finish"
	case ControlSetMetadata:
		return "set_metadata"
	default:
		return "unknown"
	}
}

// controlHeaderSize is the tag byte plus the 4 byte target entry id.
const controlHeaderSize = 5

// Control is a decoded control record: one of Start, Finish or SetMetadata.
// The set is closed; switch on the concrete type.
type Control interface {
	Type() ControlType
	Target() uint32
	control()
}

// Start opens a validity window for Name under EntryID.
type Start struct {
	EntryID  uint32
	Name     string
	TypeName string
	Metadata string
}

// Finish closes the open window of EntryID.
type Finish struct {
	EntryID uint32
}

// SetMetadata replaces the metadata of the entry active under EntryID.
type SetMetadata struct {
	EntryID  uint32
	Metadata string
}

func (Start) Type() ControlType       { return ControlStart }
func (Finish) Type() ControlType      { return ControlFinish }
func (SetMetadata) Type() ControlType { return ControlSetMetadata }

func (s Start) Target() uint32       { return s.EntryID }
func (f Finish) Target() uint32      { return f.EntryID }
func (m SetMetadata) Target() uint32 { return m.EntryID }

func (Start) control()       {}
func (Finish) control()      {}
func (SetMetadata) control() {}

// DecodeControl classifies the payload of a record whose entry id is 0.
//
// Layout: [Type(1)][TargetEntryID(4)][fields...]
//
//	Start:       name, type name, metadata (length-prefixed strings)
//	Finish:      nothing
//	SetMetadata: metadata (length-prefixed string)
func (d Decoder) DecodeControl(rec RawRecord) (Control, error) {
	payload := rec.Payload
	base := rec.Offset + rec.Lengths.HeaderLen()

	if len(payload) < controlHeaderSize {
		return nil, d.Fail(newDecodeError(ErrTruncatedData, base,
			"control payload needs %d bytes, have %d", controlHeaderSize, len(payload)))
	}
	typ := ControlType(payload[0])
	target := binary.LittleEndian.Uint32(payload[1:controlHeaderSize])
	rest := payload[controlHeaderSize:]
	base += controlHeaderSize

	switch typ {
	case ControlStart:
		var fields [3]string
		for i := range fields {
			s, n, err := d.String(rest, base)
			if err != nil {
				return nil, err
			}
			fields[i] = s
			rest = rest[n:]
			base += n
		}
		return Start{EntryID: target, Name: fields[0], TypeName: fields[1], Metadata: fields[2]}, nil
	case ControlFinish:
		return Finish{EntryID: target}, nil
	case ControlSetMetadata:
		s, _, err := d.String(rest, base)
		if err != nil {
			return nil, err
		}
		return SetMetadata{EntryID: target, Metadata: s}, nil
	default:
		return nil, d.Fail(newDecodeError(ErrUnknownControlType, rec.Offset, "tag %d", uint8(typ)))
	}
}
