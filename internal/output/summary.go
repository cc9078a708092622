package output

import (
	"fmt"
	"strings"

	"sqlitediff/internal/core"
)

type summaryFormatter struct{}

// Format renders a compact summary, e.g.:
//
//	changeset, 2 table(s)
//	Inserts: 3, Updates: 1, Deletes: 0
//
//	Tables:
//	  users: 3 record(s)
//	  orders: 1 record(s)
func (summaryFormatter) Format(d *core.ParsedDiffSet) (string, error) {
	if d == nil || d.DiffSet == nil || len(d.DiffSet.Sections) == 0 {
		return "No changes.\n", nil
	}

	inserts, updates, deletes := recordCounts(d)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s, %d table(s)\n", d.DiffSet.Format, len(d.DiffSet.Sections))
	fmt.Fprintf(&sb, "Inserts: %d, Updates: %d, Deletes: %d\n", inserts, updates, deletes)

	sb.WriteString("\nTables:\n")
	for _, section := range d.DiffSet.Sections {
		fmt.Fprintf(&sb, "  %s: %d record(s)\n", section.Schema.Name(), len(section.Records))
	}
	return sb.String(), nil
}
