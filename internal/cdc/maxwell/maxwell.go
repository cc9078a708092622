// Package maxwell decodes Maxwell's daemon JSON row-event format
// (component J) into diff-set operations via cdcdriver.Apply.
package maxwell

import (
	"encoding/json"
	"fmt"

	"sqlitediff/internal/builder"
	"sqlitediff/internal/cdc"
	"sqlitediff/internal/cdc/cdcdriver"
	"sqlitediff/internal/core"
	"sqlitediff/internal/sqladapter"
)

func init() {
	cdc.Register("maxwell", FromEvent)
}

type event struct {
	Database string         `json:"database"`
	Table    string         `json:"table"`
	Type     string         `json:"type"`
	Data     map[string]any `json:"data"`
	Old      map[string]any `json:"old"`
}

// FromEvent decodes one Maxwell row event. Type "insert" becomes INSERT,
// "update" becomes UPDATE (Old carries only the columns Maxwell found
// changed — everything else stays Undefined, same as the wire format's
// own unchanged-column convention), "delete" becomes DELETE.
func FromEvent(b *builder.DiffSetBuilder, event_ []byte, schemas sqladapter.SchemaProvider) error {
	var e event
	if err := json.Unmarshal(event_, &e); err != nil {
		return fmt.Errorf("maxwell: %w", err)
	}

	switch e.Type {
	case "insert":
		return cdcdriver.Apply(b, schemas, e.Table, core.KindInsert, nil, e.Data)
	case "update":
		return cdcdriver.Apply(b, schemas, e.Table, core.KindUpdate, e.Old, e.Data)
	case "delete":
		return cdcdriver.Apply(b, schemas, e.Table, core.KindDelete, e.Data, nil)
	default:
		return fmt.Errorf("maxwell: unknown type %q", e.Type)
	}
}
