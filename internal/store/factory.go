package store

import (
	"fmt"

	"github.com/bitjr/site/internal/db"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open builds the configured backend.
func Open(backend, dataDir, databasePath string) (Store, error) {
	switch backend {
	case "", BackendJSON:
		return NewJSONStore(dataDir)
	case BackendSQLite:
		gdb, err := db.Open(databasePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return NewSQLStore(gdb), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q (supported: %s, %s)", backend, BackendJSON, BackendSQLite)
	}
}
