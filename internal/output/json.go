package output

import (
	"encoding/json"

	"sqlitediff/internal/core"
)

type jsonFormatter struct{}

type payload struct {
	Format  string         `json:"format"`
	Summary summary        `json:"summary"`
	Tables  []tablePayload `json:"tables,omitempty"`
}

type summary struct {
	Tables  int `json:"tables"`
	Inserts int `json:"inserts"`
	Updates int `json:"updates"`
	Deletes int `json:"deletes"`
}

type tablePayload struct {
	Name    string          `json:"name"`
	Columns int             `json:"columns"`
	Records []recordPayload `json:"records"`
}

type recordPayload struct {
	Kind   string   `json:"kind"`
	Values []string `json:"values,omitempty"`
	Old    []string `json:"old,omitempty"`
	New    []string `json:"new,omitempty"`
}

func (jsonFormatter) Format(d *core.ParsedDiffSet) (string, error) {
	p := payload{Format: "changeset"}
	if d != nil && d.DiffSet != nil {
		p.Format = d.DiffSet.Format.String()
		inserts, updates, deletes := recordCounts(d)
		p.Summary = summary{Tables: len(d.DiffSet.Sections), Inserts: inserts, Updates: updates, Deletes: deletes}
		for _, section := range d.DiffSet.Sections {
			tp := tablePayload{Name: section.Schema.Name(), Columns: section.Schema.NumColumns()}
			for _, rec := range section.Records {
				tp.Records = append(tp.Records, recordToPayload(rec))
			}
			p.Tables = append(p.Tables, tp)
		}
	}

	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

func recordToPayload(rec *core.Record) recordPayload {
	rp := recordPayload{Kind: rec.Kind.String()}
	switch rec.Kind {
	case core.KindInsert, core.KindDelete:
		rp.Values = slotsToStrings(rec.Values)
	case core.KindUpdate:
		rp.Old = slotsToStrings(rec.Old)
		rp.New = slotsToStrings(rec.New)
	}
	return rp
}

func slotsToStrings(slots []core.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		if !s.Defined {
			out[i] = ""
			continue
		}
		out[i] = s.Value.SQLLiteral()
	}
	return out
}
