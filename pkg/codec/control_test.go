package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeControl(t *testing.T) {
	buf := NewBuilder("").
		Start(7, 100, "/drive/speed", "double", `{"source":"nt"}`).
		SetMetadata(7, 150, "units=m/s").
		Finish(7, 200).
		Bytes()

	recs, err := frameAll(t, Decoder{}, buf)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	var controls []Control
	for _, rec := range recs {
		require.True(t, rec.IsControl())
		c, err := Decoder{}.DecodeControl(rec)
		require.NoError(t, err)
		controls = append(controls, c)
	}

	assert.Equal(t, Start{EntryID: 7, Name: "/drive/speed", TypeName: "double", Metadata: `{"source":"nt"}`}, controls[0])
	assert.Equal(t, SetMetadata{EntryID: 7, Metadata: "units=m/s"}, controls[1])
	assert.Equal(t, Finish{EntryID: 7}, controls[2])

	for _, c := range controls {
		assert.Equal(t, uint32(7), c.Target())
	}
	assert.Equal(t, ControlStart, controls[0].Type())
	assert.Equal(t, ControlSetMetadata, controls[1].Type())
	assert.Equal(t, ControlFinish, controls[2].Type())
}

func TestDecodeControl_Malformed(t *testing.T) {
	testCases := []struct {
		name    string
		payload []byte
		err     error
	}{
		{
			name:    "empty payload",
			payload: []byte{},
			err:     ErrTruncatedData,
		},
		{
			name:    "missing target id bytes",
			payload: []byte{1, 7, 0},
			err:     ErrTruncatedData,
		},
		{
			name:    "unknown type",
			payload: []byte{3, 1, 0, 0, 0},
			err:     ErrUnknownControlType,
		},
		{
			name:    "start without strings",
			payload: []byte{0, 1, 0, 0, 0},
			err:     ErrTruncatedData,
		},
		{
			name:    "start missing metadata",
			payload: concat([]byte{0, 1, 0, 0, 0}, []byte{1, 0, 0, 0, 'a'}, []byte{0, 0, 0, 0}),
			err:     ErrTruncatedData,
		},
		{
			name:    "set metadata string too long",
			payload: concat([]byte{2, 1, 0, 0, 0}, []byte{10, 0, 0, 0, 'x'}),
			err:     ErrTruncatedData,
		},
		{
			name:    "start name not utf8",
			payload: concat([]byte{0, 1, 0, 0, 0}, []byte{1, 0, 0, 0, 0xff}, []byte{0, 0, 0, 0}, []byte{0, 0, 0, 0}),
			err:     ErrInvalidUTF8,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := NewBuilder("").Record(ControlEntryID, 1, tc.payload).Bytes()
			recs, err := frameAll(t, Decoder{}, buf)
			require.NoError(t, err)
			require.Len(t, recs, 1)

			_, err = Decoder{}.DecodeControl(recs[0])
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestDecodeControl_FinishIgnoresExtraBytes(t *testing.T) {
	buf := NewBuilder("").Record(ControlEntryID, 1, []byte{1, 4, 0, 0, 0, 0xaa, 0xbb}).Bytes()
	recs, err := frameAll(t, Decoder{}, buf)
	require.NoError(t, err)

	c, err := Decoder{}.DecodeControl(recs[0])
	require.NoError(t, err)
	assert.Equal(t, Finish{EntryID: 4}, c)
}

func TestDecodeControl_FastPolicyPanicsOnUnknownType(t *testing.T) {
	buf := NewBuilder("").Record(ControlEntryID, 1, []byte{9, 1, 0, 0, 0}).Bytes()
	recs, err := frameAll(t, Decoder{}, buf)
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = Decoder{Policy: PolicyFast}.DecodeControl(recs[0])
	})
}

func TestControlType_String(t *testing.T) {
	assert.Equal(t, "start", ControlStart.String())
	assert.Equal(t, "finish", ControlFinish.String())
	assert.Equal(t, "set_metadata", ControlSetMetadata.String())
	assert.Equal(t, "unknown", ControlType(9).String())
}
