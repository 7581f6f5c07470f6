package badgerdb

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Open opens (or creates) the embedded store under path.
func Open(path string) (*badger.DB, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create badger dir: %w", err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return db, nil
}

func Close(db *badger.DB) error {
	if db != nil {
		return db.Close()
	}

	return nil
}
