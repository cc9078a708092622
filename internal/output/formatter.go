// Package output formats a parsed diff-set for human consumption.
// Grounded on the teacher's internal/output package — same Format enum
// and NewFormatter factory shape — retargeted from core.SchemaDiff/
// migration.Migration to a *core.ParsedDiffSet.
package output

import (
	"fmt"
	"strings"

	"sqlitediff/internal/core"
)

type Format string

const (
	FormatHuman   Format = "human"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Formatter renders a parsed diff-set as text.
type Formatter interface {
	Format(*core.ParsedDiffSet) (string, error)
}

// NewFormatter creates a Formatter for name. An empty name defaults to
// human-readable output.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatHuman:
		return humanFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSummary:
		return summaryFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use 'human', 'json', or 'summary'", name)
	}
}

func recordCounts(d *core.ParsedDiffSet) (inserts, updates, deletes int) {
	if d == nil || d.DiffSet == nil {
		return
	}
	for _, section := range d.DiffSet.Sections {
		for _, rec := range section.Records {
			switch rec.Kind {
			case core.KindInsert:
				inserts++
			case core.KindUpdate:
				updates++
			case core.KindDelete:
				deletes++
			}
		}
	}
	return
}
