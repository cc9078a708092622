package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"sqlitediff/internal/core"
)

// ErrUnknownSerialType covers a serial-type tag the codec doesn't
// recognize, and the two explicitly-reserved tags (10, 11) that must
// never be emitted or accepted (spec.md §4.B, §6).
var ErrUnknownSerialType = errors.New("wire: unknown or reserved serial type")

// ErrInvalidUTF8 is returned when a Text payload is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("wire: text payload is not valid UTF-8")

// EncodeSlot appends the wire encoding of a column slot (the serial-type
// varint followed by its payload) to dst, and returns the extended slice.
// Both Null and Undefined encode to serial type 0 with no payload — the
// record shape surrounding the slot disambiguates the two on decode, per
// spec.md §4.B.
func EncodeSlot(dst []byte, s core.Slot) []byte {
	if !s.Defined {
		return append(dst, EncodeVarint(serialNullOrUndefined)...)
	}
	return EncodeValue(dst, s.Value)
}

// EncodeValue appends the wire encoding of a defined value to dst.
func EncodeValue(dst []byte, v core.Value) []byte {
	switch v.Kind {
	case core.KindNull:
		return append(dst, EncodeVarint(serialNullOrUndefined)...)
	case core.KindInteger:
		return encodeInteger(dst, v.Integer)
	case core.KindReal:
		dst = append(dst, EncodeVarint(serialReal)...)
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v.Real))
		return append(dst, buf[:]...)
	case core.KindText:
		tag := blobTextBase + 1 + 2*uint64(len(v.Text))
		dst = append(dst, EncodeVarint(tag)...)
		return append(dst, v.Text...)
	case core.KindBlob:
		tag := blobTextBase + 2*uint64(len(v.Blob))
		dst = append(dst, EncodeVarint(tag)...)
		return append(dst, v.Blob...)
	default:
		return append(dst, EncodeVarint(serialNullOrUndefined)...)
	}
}

// encodeInteger picks the smallest serial type able to hold v, per
// spec.md §4.B: 0 and 1 always use the literal serial types 8/9; every
// other value picks the narrowest of the 1/2/3/4/6/8-byte big-endian
// signed widths.
func encodeInteger(dst []byte, v int64) []byte {
	switch v {
	case 0:
		return append(dst, EncodeVarint(serialIntZero)...)
	case 1:
		return append(dst, EncodeVarint(serialIntOne)...)
	}

	width, serialType := integerWidth(v)
	dst = append(dst, EncodeVarint(uint64(serialType))...)
	return appendBigEndianSigned(dst, v, width)
}

// integerWidth returns the smallest byte width (and its serial type) that
// represents v when sign-extended back out.
func integerWidth(v int64) (width int, serialType byte) {
	switch {
	case v >= -1<<7 && v < 1<<7:
		return 1, serialInt8
	case v >= -1<<15 && v < 1<<15:
		return 2, serialInt16
	case v >= -1<<23 && v < 1<<23:
		return 3, serialInt24
	case v >= -1<<31 && v < 1<<31:
		return 4, serialInt32
	case v >= -1<<47 && v < 1<<47:
		return 6, serialInt48
	default:
		return 8, serialInt64
	}
}

func appendBigEndianSigned(dst []byte, v int64, width int) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return append(dst, buf[8-width:]...)
}

// DecodeSlot reads one column slot (serial-type tag + payload) from the
// start of data. When the slot's serial type is 0 (Null/Undefined), the
// caller must decide — from the surrounding record shape — whether that
// means Null or Undefined; DecodeSlot itself reports it as Undefined,
// since that is the more common meaning in UPDATE/patchset records.
// Callers decoding an INSERT or changeset-DELETE full image, which never
// carries Undefined, use DecodeValue instead, which reads it as Null.
func DecodeSlot(data []byte) (core.Slot, int, error) {
	tag, n, err := DecodeVarint(data)
	if err != nil {
		return core.Slot{}, 0, err
	}
	if tag == serialNullOrUndefined {
		return core.Undefined, n, nil
	}
	v, payloadLen, err := decodeValuePayload(data[n:], tag)
	if err != nil {
		return core.Slot{}, 0, err
	}
	return core.Defined(v), n + payloadLen, nil
}

// DecodeValue reads one value, treating a bare serial type 0 as Null
// rather than Undefined — used for INSERT and changeset-DELETE slots,
// which spec.md guarantees never contain Undefined.
func DecodeValue(data []byte) (core.Value, int, error) {
	tag, n, err := DecodeVarint(data)
	if err != nil {
		return core.Value{}, 0, err
	}
	if tag == serialNullOrUndefined {
		return core.Null, n, nil
	}
	v, payloadLen, err := decodeValuePayload(data[n:], tag)
	if err != nil {
		return core.Value{}, 0, err
	}
	return v, n + payloadLen, nil
}

func decodeValuePayload(data []byte, tag uint64) (core.Value, int, error) {
	switch {
	case tag == serialIntZero:
		return core.NewInteger(0), 0, nil
	case tag == serialIntOne:
		return core.NewInteger(1), 0, nil
	case tag == 10 || tag == 11:
		return core.Value{}, 0, fmt.Errorf("%w: tag %d is reserved", ErrUnknownSerialType, tag)
	case tag >= serialInt8 && tag <= serialInt64 && tag != serialReal:
		width := integerSerialWidth(byte(tag))
		if len(data) < width {
			return core.Value{}, 0, ErrTruncatedRecord
		}
		return core.NewInteger(decodeBigEndianSigned(data[:width], width)), width, nil
	case tag == serialReal:
		if len(data) < 8 {
			return core.Value{}, 0, ErrTruncatedRecord
		}
		bits := binary.BigEndian.Uint64(data[:8])
		return core.NewReal(math.Float64frombits(bits)), 8, nil
	case tag >= blobTextBase && tag%2 == 0:
		length := int((tag - blobTextBase) / 2)
		if len(data) < length {
			return core.Value{}, 0, ErrTruncatedRecord
		}
		blob := make([]byte, length)
		copy(blob, data[:length])
		return core.NewBlob(blob), length, nil
	case tag >= blobTextBase+1 && tag%2 == 1:
		length := int((tag - blobTextBase - 1) / 2)
		if len(data) < length {
			return core.Value{}, 0, ErrTruncatedRecord
		}
		if !utf8.Valid(data[:length]) {
			return core.Value{}, 0, ErrInvalidUTF8
		}
		return core.NewText(string(data[:length])), length, nil
	default:
		return core.Value{}, 0, fmt.Errorf("%w: tag %d", ErrUnknownSerialType, tag)
	}
}

func integerSerialWidth(tag byte) int {
	switch tag {
	case serialInt8:
		return 1
	case serialInt16:
		return 2
	case serialInt24:
		return 3
	case serialInt32:
		return 4
	case serialInt48:
		return 6
	case serialInt64:
		return 8
	default:
		return 0
	}
}

func decodeBigEndianSigned(b []byte, width int) int64 {
	var buf [8]byte
	signExtend := byte(0)
	if b[0]&0x80 != 0 {
		signExtend = 0xff
	}
	for i := 0; i < 8-width; i++ {
		buf[i] = signExtend
	}
	copy(buf[8-width:], b)
	return int64(binary.BigEndian.Uint64(buf[:]))
}
