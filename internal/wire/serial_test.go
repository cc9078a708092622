package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sqlitediff/internal/core"
)

func TestValueRoundTrip(t *testing.T) {
	values := []core.Value{
		core.Null,
		core.NewInteger(0),
		core.NewInteger(1),
		core.NewInteger(-1),
		core.NewInteger(127),
		core.NewInteger(128),
		core.NewInteger(1 << 40),
		core.NewInteger(-(1 << 40)),
		core.NewReal(3.14),
		core.NewText("hello"),
		core.NewText(""),
		core.NewBlob([]byte{0x01, 0x02, 0x03}),
		core.NewBlob(nil),
	}
	for _, v := range values {
		encoded := EncodeValue(nil, v)
		got, n, err := DecodeValue(encoded)
		require.NoError(t, err)
		assert.True(t, v.Equal(got), "round trip mismatch for %+v, got %+v", v, got)
		assert.Equal(t, len(encoded), n)
	}
}

func TestEncodeValuePicksNarrowestIntegerWidth(t *testing.T) {
	// 300 needs 2 bytes -> serial type 2, tag varint is 1 byte, payload 2 bytes.
	encoded := EncodeValue(nil, core.NewInteger(300))
	assert.Equal(t, []byte{serialInt16, 0x01, 0x2c}, encoded)
}

func TestSlotRoundTripUndefined(t *testing.T) {
	encoded := EncodeSlot(nil, core.Undefined)
	assert.Equal(t, []byte{serialNullOrUndefined}, encoded)

	s, n, err := DecodeSlot(encoded)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), n)
	assert.False(t, s.Defined)
}

func TestSlotRoundTripDefined(t *testing.T) {
	s := core.Defined(core.NewText("abc"))
	encoded := EncodeSlot(nil, s)
	got, n, err := DecodeSlot(encoded)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), n)
	assert.True(t, got.Defined)
	assert.True(t, s.Value.Equal(got.Value))
}

func TestDecodeValueRejectsReservedTag(t *testing.T) {
	_, _, err := DecodeValue(EncodeVarint(10))
	assert.ErrorIs(t, err, ErrUnknownSerialType)
}

func TestDecodeValueRejectsInvalidUTF8(t *testing.T) {
	tag := blobTextBase + 1 + 2*1 // text, length 1
	data := append(EncodeVarint(uint64(tag)), 0xff)
	_, _, err := DecodeValue(data)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestDecodeValueTruncatedPayload(t *testing.T) {
	tag := blobTextBase + 1 + 2*5 // text, length 5, but no payload bytes follow
	data := EncodeVarint(uint64(tag))
	_, _, err := DecodeValue(data)
	assert.Error(t, err)
}
