package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventProductView  = "product_view"
	EventProductClick = "product_click"
	EventAddToCart    = "add_to_cart"
	EventPurchase     = "purchase"
)

// CREATE TABLE public.telemetry_events (
//     id          UUID PRIMARY KEY,
//     event_name  TEXT NOT NULL,
//     product_id  TEXT NOT NULL,
//     payload     JSONB,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

type TelemetryEvent struct {
	ID        string            `gorm:"column:id;primaryKey" json:"id"`
	EventName string            `gorm:"column:event_name;not null" json:"event_name"`
	ProductID string            `gorm:"column:product_id;not null" json:"product_id"`
	Payload   datatypes.JSONMap `gorm:"column:payload;type:jsonb" json:"payload"`
	Timestamp time.Time         `gorm:"column:created_at" json:"timestamp"`
}

func (TelemetryEvent) TableName() string {
	return "telemetry_events"
}
