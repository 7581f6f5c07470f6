package postgres

import (
	"context"
	"fmt"
	"myBrandStore/domain"

	"gorm.io/gorm"
)

// TelemetryRepository appends recorded events to telemetry_events.
type TelemetryRepository struct {
	DB *gorm.DB
}

func NewTelemetryRepository(db *gorm.DB) *TelemetryRepository {
	return &TelemetryRepository{DB: db}
}

func (r *TelemetryRepository) Track(ctx context.Context, event domain.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save telemetry event: %w", err)
	}

	return nil
}
