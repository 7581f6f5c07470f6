package redis

import (
	"context"
	"errors"
	"fmt"
	"myBrandStore/domain"
	"myBrandStore/internal/repository/blob"
	"myBrandStore/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const maxWatchRetries = 5

// MetricsRepository stores the metrics mapping as one string value.
type MetricsRepository struct {
	client *redis.Client
	key    string
}

func NewMetricsRepository(client *redis.Client, key string) *MetricsRepository {
	return &MetricsRepository{
		client: client,
		key:    key,
	}
}

func (r *MetricsRepository) Load(ctx context.Context) (domain.MetricsMap, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.MetricsMap{}, nil
		}
		return nil, fmt.Errorf("failed to get product metrics from Redis: %w", err)
	}

	return blob.Decode(raw)
}

func (r *MetricsRepository) Save(ctx context.Context, metrics domain.MetricsMap) error {
	raw, err := blob.Encode(metrics)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to store product metrics in Redis: %w", err)
	}

	return nil
}

// Update is an optimistic WATCH/MULTI cycle, retried when another client
// writes the key between read and exec.
func (r *MetricsRepository) Update(ctx context.Context, mutate func(domain.MetricsMap)) error {
	txf := func(tx *redis.Tx) error {
		metrics := domain.MetricsMap{}

		raw, err := tx.Get(ctx, r.key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("failed to get product metrics from Redis: %w", err)
		default:
			decoded, decErr := blob.Decode(raw)
			if decErr != nil {
				logger.Warn("discarding unreadable product metrics", "key", r.key, "error", decErr)
			} else {
				metrics = decoded
			}
		}

		mutate(metrics)

		out, err := blob.Encode(metrics)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, out, 0)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxWatchRetries; i++ {
		err = r.client.Watch(ctx, txf, r.key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}

	return fmt.Errorf("failed to update product metrics: %w", err)
}
