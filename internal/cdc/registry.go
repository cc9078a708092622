// Package cdc registers the CDC source adapters (component J) by name,
// so callers — chiefly the CLI's `convert` subcommand — can select one
// at runtime from a string flag instead of importing each source
// package directly.
//
// Grounded on the teacher's internal/introspect.Register/NewIntrospecter
// pair, generalized from dialect-keyed DB introspecters to name-keyed
// CDC event decoders.
package cdc

import (
	"fmt"
	"sync"

	"sqlitediff/internal/builder"
	"sqlitediff/internal/sqladapter"
)

// Source decodes one CDC event into b. schemas resolves the event's
// table name to the column layout needed to place values by column
// index.
type Source func(b *builder.DiffSetBuilder, event []byte, schemas sqladapter.SchemaProvider) error

var (
	mu       sync.RWMutex
	registry = make(map[string]Source)
)

// Register makes a CDC source adapter available under name. Called from
// each source package's init.
func Register(name string, fn Source) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = fn
}

// Lookup returns the registered Source for name, or an error if none was
// registered.
func Lookup(name string) (Source, error) {
	mu.RLock()
	fn, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cdc: unknown source %q", name)
	}
	return fn, nil
}
