package postgres

import (
	"myBrandStore/domain"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&metricsStateRow{},
		&domain.TelemetryEvent{},
		&domain.Product{},
	)
}
