// Package store provides the storage backends exercised by the benchmark
// behind one minimal capability: initialize, point-get, point-set.
package store

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Store is the contract the benchmark engine requires from a backend.
// Get and Set must be safe for concurrent use: the run phase shares one
// Store across all workers.
type Store interface {
	// Init performs idempotent preparation, such as creating a table.
	// It may be a no-op.
	Init() error

	// Get looks up key. The value is discarded by the engine, which
	// only cares about latency and success; a missing key is success.
	Get(key []byte) error

	// Set upserts key to value.
	Set(key, value []byte) error

	// Close releases backend resources.
	Close() error
}

// Kinds returns the backend names selectable from the CLI.
func Kinds() []string {
	return []string{"membtree", "sqlite", "leveldb"}
}

// Open constructs the named backend. Embedded stores keep their files
// under dir; the in-memory store ignores it.
func Open(kind, dir string) (Store, error) {
	switch kind {
	case "membtree":
		return NewMemBTree(), nil
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, "kv.sqlite"))
	case "leveldb":
		return OpenLevelDB(filepath.Join(dir, "leveldb"))
	default:
		return nil, fmt.Errorf("unknown store %q (known: %s)",
			kind, strings.Join(Kinds(), ", "))
	}
}
