package output

import (
	"fmt"
	"strings"

	"sqlitediff/internal/core"
)

type humanFormatter struct{}

func (humanFormatter) Format(d *core.ParsedDiffSet) (string, error) {
	if d == nil || d.DiffSet == nil || len(d.DiffSet.Sections) == 0 {
		return "No changes.\n", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s, %d table(s)\n", d.DiffSet.Format, len(d.DiffSet.Sections))
	for _, section := range d.DiffSet.Sections {
		fmt.Fprintf(&sb, "\n%s (%d column(s)):\n", section.Schema.Name(), section.Schema.NumColumns())
		for _, rec := range section.Records {
			writeRecord(&sb, rec)
		}
	}
	if d.IndirectSeen {
		sb.WriteString("\n(stream contains at least one record with the indirect flag set)\n")
	}
	return sb.String(), nil
}

func writeRecord(sb *strings.Builder, rec *core.Record) {
	switch rec.Kind {
	case core.KindInsert:
		fmt.Fprintf(sb, "  INSERT %s\n", formatSlots(rec.Values))
	case core.KindDelete:
		fmt.Fprintf(sb, "  DELETE %s\n", formatSlots(rec.Values))
	case core.KindUpdate:
		fmt.Fprintf(sb, "  UPDATE %s -> %s\n", formatSlots(rec.Old), formatSlots(rec.New))
	}
}

func formatSlots(slots []core.Slot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		if !s.Defined {
			parts[i] = "·"
			continue
		}
		parts[i] = s.Value.SQLLiteral()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
