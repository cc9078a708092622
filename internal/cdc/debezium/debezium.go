// Package debezium decodes Debezium's change-event envelope (component
// J) into diff-set operations via cdcdriver.Apply.
package debezium

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
	cdc.Register("debezium", FromEvent)
}

type envelope struct {
	Payload payload `json:"payload"`
}

type payload struct {
	Before map[string]any `json:"before"`
	After  map[string]any `json:"after"`
	Source source         `json:"source"`
	Op     string         `json:"op"`
}

type source struct {
	Table string `json:"table"`
}

// FromEvent decodes one Debezium change event. Op "c" and "r" (create,
// snapshot read) are treated as INSERT, "u" as UPDATE, "d" as DELETE;
// any other op is an error.
func FromEvent(b *builder.DiffSetBuilder, event []byte, schemas sqladapter.SchemaProvider) error {
	var env envelope
	if err := json.Unmarshal(event, &env); err != nil {
		return fmt.Errorf("debezium: %w", err)
	}

	var kind core.RecordKind
	switch env.Payload.Op {
	case "c", "r":
		kind = core.KindInsert
	case "u":
		kind = core.KindUpdate
	case "d":
		kind = core.KindDelete
	default:
		return fmt.Errorf("debezium: unknown op %q", env.Payload.Op)
	}

	return cdcdriver.Apply(b, schemas, env.Payload.Source.Table, kind, env.Payload.Before, env.Payload.After)
}
