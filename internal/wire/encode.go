package wire

import "sqlitediff/internal/core"

// Serialize renders a DiffSet to its binary form. An empty diff-set (or
// one whose every section was pruned) serializes to zero bytes
// (spec.md §3 invariants 3, 4). Sections with no records are skipped
// entirely — they contribute no header and no terminator, matching
// SQLite's own behavior of simply never having started that section.
func Serialize(d *core.DiffSet) ([]byte, error) {
	var out []byte
	for _, section := range d.Sections {
		if len(section.Records) == 0 {
			continue
		}
		out = EncodeSectionHeader(out, d.Format, section.Schema)
		for _, rec := range section.Records {
			var err error
			out, err = EncodeRecord(out, d.Format, rec)
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
