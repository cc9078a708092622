// Package parser implements spec.md's binary parser (component G): a
// single left-to-right pass over a changeset or patchset byte stream,
// rebuilding the table-section/record tree that internal/wire's codec
// primitives serialize.
package parser

import (
	"errors"
	"fmt"

	"sqlitediff/internal/core"
	"sqlitediff/internal/wire"
)

// ErrUnexpectedEOF is returned when the stream ends mid-section-header or
// mid-record — a genuinely truncated stream, as opposed to a stream that
// simply ends after its last section's last record, which is the
// ordinary, non-error way a changeset or patchset stream terminates.
var ErrUnexpectedEOF = errors.New("parser: unexpected end of stream")

// Parse reads an entire changeset or patchset from data and returns its
// parsed form. Every error condition spec.md §4.G documents is surfaced,
// either as one of this package's own sentinels or — for conditions that
// already have one — a wrapped wire.Err*.
func Parse(data []byte) (*core.ParsedDiffSet, error) {
	d := &core.DiffSet{}
	parsed := &core.ParsedDiffSet{DiffSet: d}

	formatFixed := false
	pos := 0
	for pos < len(data) {
		format, schema, headerLen, err := wire.DecodeSectionHeader(data[pos:])
		if err != nil {
			if errors.Is(err, wire.ErrTruncatedRecord) || errors.Is(err, wire.ErrVarintTruncated) || errors.Is(err, wire.ErrNameMissingNUL) {
				return nil, fmt.Errorf("parser: section at offset %d: %w", pos, ErrUnexpectedEOF)
			}
			return nil, fmt.Errorf("parser: section at offset %d: %w", pos, err)
		}
		pos += headerLen

		if !formatFixed {
			d.Format = format
			formatFixed = true
		} else if format != d.Format {
			return nil, fmt.Errorf("parser: section at offset %d: %w", pos, wire.ErrMixedFormat)
		}

		section := &core.TableSection{Schema: schema}
		for pos < len(data) && !isNextSectionMarker(data[pos]) {
			rec, recLen, indirect, err := wire.DecodeRecord(data[pos:], d.Format, schema)
			if err != nil {
				if errors.Is(err, wire.ErrTruncatedRecord) || errors.Is(err, wire.ErrVarintTruncated) {
					return nil, fmt.Errorf("parser: table %q, record at offset %d: %w", schema.Name(), pos, ErrUnexpectedEOF)
				}
				return nil, fmt.Errorf("parser: table %q, record at offset %d: %w", schema.Name(), pos, err)
			}
			if indirect {
				parsed.IndirectSeen = true
			}
			section.Records = append(section.Records, rec)
			pos += recLen
		}
		d.Sections = append(d.Sections, section)
	}

	return parsed, nil
}

func isNextSectionMarker(b byte) bool {
	return b == wire.MarkerChangeSet || b == wire.MarkerPatchSet
}
