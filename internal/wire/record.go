package wire

import (
	"errors"
	"fmt"

	"sqlitediff/internal/core"
)

// ErrUnknownOpCode is returned when a record's op-code byte matches none
// of INSERT/UPDATE/DELETE.
var ErrUnknownOpCode = errors.New("wire: unknown op-code")

// EncodeRecord appends one row record to dst: op-code, indirect flag
// (always 0 on write — spec.md §4.D, §9), then the record's value slots
// in the shape its Kind and Format demand.
func EncodeRecord(dst []byte, format core.Format, r *core.Record) ([]byte, error) {
	switch r.Kind {
	case core.KindInsert:
		dst = append(dst, OpInsert, 0)
		return encodeSlots(dst, r.Values)
	case core.KindDelete:
		dst = append(dst, OpDelete, 0)
		return encodeSlots(dst, r.Values)
	case core.KindUpdate:
		dst = append(dst, OpUpdate, 0)
		if format == core.FormatPatchSet {
			return encodeSlots(dst, r.New)
		}
		// Changeset UPDATE: old block then new block, each NumColumns
		// long — not interleaved. spec.md §4.D's own text contradicts
		// itself here; its Errata section names this layout as the
		// correct one, and it is what this codec emits.
		dst, err := encodeSlots(dst, r.Old)
		if err != nil {
			return nil, err
		}
		return encodeSlots(dst, r.New)
	default:
		return nil, fmt.Errorf("wire: record has unknown kind %d", r.Kind)
	}
}

func encodeSlots(dst []byte, slots []core.Slot) ([]byte, error) {
	for _, s := range slots {
		dst = EncodeSlot(dst, s)
	}
	return dst, nil
}

// DecodeRecord reads one row record from the start of data, given the
// table schema already established by the enclosing section header and
// the stream format. It returns the record and the number of bytes
// consumed. indirectNonZero reports whether the indirect-flag byte was
// non-zero, so callers can track spec.md §9's open question without
// failing the parse over it.
func DecodeRecord(data []byte, format core.Format, schema *core.TableSchema) (rec *core.Record, consumed int, indirectNonZero bool, err error) {
	if len(data) < 2 {
		return nil, 0, false, ErrTruncatedRecord
	}
	opCode := data[0]
	indirectNonZero = data[1] != 0
	pos := 2
	n := schema.NumColumns()

	switch opCode {
	case OpInsert:
		values, consumedSlots, derr := decodeValueSlots(data[pos:], n)
		if derr != nil {
			return nil, 0, indirectNonZero, derr
		}
		return &core.Record{Schema: schema, Kind: core.KindInsert, Values: values}, pos + consumedSlots, indirectNonZero, nil

	case OpDelete:
		if format == core.FormatPatchSet {
			slots, consumedSlots, derr := decodeRawSlots(data[pos:], n)
			if derr != nil {
				return nil, 0, indirectNonZero, derr
			}
			return &core.Record{Schema: schema, Kind: core.KindDelete, Values: slots}, pos + consumedSlots, indirectNonZero, nil
		}
		values, consumedSlots, derr := decodeValueSlots(data[pos:], n)
		if derr != nil {
			return nil, 0, indirectNonZero, derr
		}
		return &core.Record{Schema: schema, Kind: core.KindDelete, Values: values}, pos + consumedSlots, indirectNonZero, nil

	case OpUpdate:
		if format == core.FormatPatchSet {
			slots, consumedSlots, derr := decodeRawSlots(data[pos:], n)
			if derr != nil {
				return nil, 0, indirectNonZero, derr
			}
			return &core.Record{Schema: schema, Kind: core.KindUpdate, New: slots}, pos + consumedSlots, indirectNonZero, nil
		}
		old, oldLen, derr := decodeRawSlots(data[pos:], n)
		if derr != nil {
			return nil, 0, indirectNonZero, derr
		}
		pos += oldLen
		newV, newLen, derr := decodeRawSlots(data[pos:], n)
		if derr != nil {
			return nil, 0, indirectNonZero, derr
		}
		pos += newLen
		return &core.Record{Schema: schema, Kind: core.KindUpdate, Old: old, New: newV}, pos, indirectNonZero, nil

	default:
		return nil, 0, indirectNonZero, fmt.Errorf("%w: 0x%02x", ErrUnknownOpCode, opCode)
	}
}

// ErrTruncatedRecord is returned when fewer than 2 bytes remain for the
// op-code/indirect-flag pair, or a value's payload runs past the end of
// input.
var ErrTruncatedRecord = errors.New("wire: truncated record")

func decodeValueSlots(data []byte, n int) ([]core.Slot, int, error) {
	out := make([]core.Slot, n)
	pos := 0
	for i := 0; i < n; i++ {
		v, l, err := DecodeValue(data[pos:])
		if err != nil {
			return nil, 0, err
		}
		out[i] = core.Defined(v)
		pos += l
	}
	return out, pos, nil
}

func decodeRawSlots(data []byte, n int) ([]core.Slot, int, error) {
	out := make([]core.Slot, n)
	pos := 0
	for i := 0; i < n; i++ {
		s, l, err := DecodeSlot(data[pos:])
		if err != nil {
			return nil, 0, err
		}
		out[i] = s
		pos += l
	}
	return out, pos, nil
}
