package wire

import (
	"errors"
	"fmt"

	"sqlitediff/internal/core"
)

// ErrUnknownMarker is returned when a section header's first byte is
// neither 'T' nor 'P'.
var ErrUnknownMarker = errors.New("wire: unknown table section marker")

// ErrMixedFormat is returned when a stream's first marker fixes one
// format but a later section's marker names the other.
var ErrMixedFormat = errors.New("wire: stream mixes changeset and patchset markers")

// ErrMissingPK is returned when a section header's PK-flag vector has no
// column flagged, violating spec.md §4.C. DecodeSectionHeader also reports
// the header's other schema violations (an empty name, a zero column
// count) under this error.
var ErrMissingPK = errors.New("wire: table section has no primary key column")

// ErrNameMissingNUL is returned when a section header's name isn't
// NUL-terminated before the input runs out.
var ErrNameMissingNUL = errors.New("wire: table name missing NUL terminator")

// EncodeSectionHeader appends a TableSection's header (marker, column
// count, PK-flag bytes, NUL-terminated name) to dst.
func EncodeSectionHeader(dst []byte, format core.Format, schema *core.TableSchema) []byte {
	dst = append(dst, format.Marker())
	dst = append(dst, EncodeVarint(uint64(schema.NumColumns()))...)
	for _, pk := range schema.PKFlags() {
		if pk {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	}
	dst = append(dst, schema.Name()...)
	return append(dst, 0x00)
}

// DecodeSectionHeader reads one section header from the start of data. It
// returns the inferred format, a TableSchema built from the header's
// column count/PK vector/name, and the number of bytes consumed.
func DecodeSectionHeader(data []byte) (format core.Format, schema *core.TableSchema, consumed int, err error) {
	if len(data) < 1 {
		return 0, nil, 0, ErrTruncatedRecord
	}

	switch data[0] {
	case MarkerChangeSet:
		format = core.FormatChangeSet
	case MarkerPatchSet:
		format = core.FormatPatchSet
	default:
		return 0, nil, 0, fmt.Errorf("%w: 0x%02x", ErrUnknownMarker, data[0])
	}
	pos := 1

	n, l, err := DecodeVarint(data[pos:])
	if err != nil {
		return 0, nil, 0, err
	}
	pos += l

	if uint64(len(data[pos:])) < n {
		return 0, nil, 0, ErrTruncatedRecord
	}
	pk := make([]bool, n)
	for i := uint64(0); i < n; i++ {
		pk[i] = data[pos] != 0
		pos++
	}

	nameEnd := -1
	for i := pos; i < len(data); i++ {
		if data[i] == 0 {
			nameEnd = i
			break
		}
	}
	if nameEnd < 0 {
		return 0, nil, 0, ErrNameMissingNUL
	}
	name := string(data[pos:nameEnd])
	pos = nameEnd + 1

	schema, err = core.NewTableSchema(name, int(n), pk)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("%w: %v", ErrMissingPK, err)
	}

	return format, schema, pos, nil
}
