package postgres

import (
	"context"
	"errors"
	"fmt"
	"myBrandStore/domain"
	"myBrandStore/internal/repository/blob"
	"myBrandStore/pkg/logger"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CREATE TABLE public.product_metrics_state (
//     key           TEXT PRIMARY KEY,
//     metrics_json  BYTEA,
//     updated_at    TIMESTAMPTZ DEFAULT NOW()
// );

type metricsStateRow struct {
	Key         string    `gorm:"column:key;primaryKey"`
	MetricsJSON []byte    `gorm:"column:metrics_json"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (metricsStateRow) TableName() string {
	return "product_metrics_state"
}

type MetricsRepository struct {
	DB  *gorm.DB
	key string
}

func NewMetricsRepository(db *gorm.DB, key string) *MetricsRepository {
	return &MetricsRepository{DB: db, key: key}
}

func (r *MetricsRepository) Load(ctx context.Context) (domain.MetricsMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row metricsStateRow
	err := r.DB.WithContext(ctx).First(&row, "key = ?", r.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.MetricsMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product_metrics_state: %w", err)
	}

	return blob.Decode(row.MetricsJSON)
}

func (r *MetricsRepository) Save(ctx context.Context, metrics domain.MetricsMap) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := blob.Encode(metrics)
	if err != nil {
		return err
	}

	return upsertState(r.DB.WithContext(ctx), r.key, raw)
}

// Update locks the state row for the duration of the mutation.
func (r *MetricsRepository) Update(ctx context.Context, mutate func(domain.MetricsMap)) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// make sure there is a row to lock
		seed := metricsStateRow{Key: r.key, MetricsJSON: []byte("{}"), UpdatedAt: time.Now()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return fmt.Errorf("failed to seed product_metrics_state: %w", err)
		}

		var row metricsStateRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, "key = ?", r.key).Error; err != nil {
			return fmt.Errorf("failed to lock product_metrics_state: %w", err)
		}

		metrics, err := blob.Decode(row.MetricsJSON)
		if err != nil {
			logger.Warn("discarding unreadable product metrics", "key", r.key, "error", err)
			metrics = domain.MetricsMap{}
		}

		mutate(metrics)

		raw, err := blob.Encode(metrics)
		if err != nil {
			return err
		}

		return upsertState(tx, r.key, raw)
	})
}

func upsertState(db *gorm.DB, key string, raw []byte) error {
	row := metricsStateRow{
		Key:         key,
		MetricsJSON: raw,
		UpdatedAt:   time.Now(),
	}

	if err := db.Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert product_metrics_state: %w", err)
	}

	return nil
}
