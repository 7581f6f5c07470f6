package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"myBrandStore/domain"
	"myBrandStore/internal/repository/blob"
	"myBrandStore/pkg/logger"

	"github.com/dgraph-io/badger/v4"
)

const maxConflictRetries = 5

// MetricsRepository keeps the whole metrics mapping under a single key.
type MetricsRepository struct {
	db  *badger.DB
	key []byte
}

func NewMetricsRepository(db *badger.DB, key string) *MetricsRepository {
	return &MetricsRepository{db: db, key: []byte(key)}
}

func (r *MetricsRepository) Load(ctx context.Context) (domain.MetricsMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var metrics domain.MetricsMap
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		metrics, err = r.read(txn)
		return err
	})
	if err != nil {
		return nil, err
	}

	return metrics, nil
}

func (r *MetricsRepository) Save(ctx context.Context, metrics domain.MetricsMap) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := blob.Encode(metrics)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(r.key, raw); err != nil {
			return fmt.Errorf("set product metrics: %w", err)
		}
		return nil
	})
}

// Update runs mutate inside a read-write transaction and retries when another
// writer commits the key first. An unreadable blob is replaced.
func (r *MetricsRepository) Update(ctx context.Context, mutate func(domain.MetricsMap)) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("context error: %w", ctxErr)
		}

		err = r.db.Update(func(txn *badger.Txn) error {
			metrics, readErr := r.read(txn)
			if readErr != nil {
				logger.Warn("discarding unreadable product metrics", "error", readErr)
				metrics = domain.MetricsMap{}
			}

			mutate(metrics)

			raw, encErr := blob.Encode(metrics)
			if encErr != nil {
				return encErr
			}
			return txn.Set(r.key, raw)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}

	return fmt.Errorf("update product metrics: %w", err)
}

func (r *MetricsRepository) read(txn *badger.Txn) (domain.MetricsMap, error) {
	item, err := txn.Get(r.key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.MetricsMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product metrics: %w", err)
	}

	var metrics domain.MetricsMap
	err = item.Value(func(val []byte) error {
		var decErr error
		metrics, decErr = blob.Decode(val)
		return decErr
	})
	if err != nil {
		return nil, err
	}

	return metrics, nil
}
