package performance

import (
	"myBrandStore/domain"
	"time"
)

const (
	defaultMinViews               = 50
	defaultMinConversionRate      = 0.02
	defaultStaleDays              = 30
	defaultTopPerformerPercentile = 0.20
	defaultVariationsPerProduct   = 3
	defaultTelemetryTimeout       = 3 * time.Second
	defaultInsightsTopN           = 5

	// products scoring below this are flagged regardless of thresholds
	scoreFloor = 20
)

type Config struct {
	Thresholds           domain.PerformanceThresholds
	VariationsPerProduct int

	// delete metrics records of products the catalog accepted for removal
	PurgeRemovedMetrics bool

	TelemetryTimeout time.Duration

	// optional optimizer run report recipient
	ReportEmail string
	ReportName  string
}

func DefaultThresholds() domain.PerformanceThresholds {
	return domain.PerformanceThresholds{
		MinViews:               defaultMinViews,
		MinConversionRate:      defaultMinConversionRate,
		StaleDays:              defaultStaleDays,
		TopPerformerPercentile: defaultTopPerformerPercentile,
	}
}

func DefaultConfig() Config {
	return Config{
		Thresholds:           DefaultThresholds(),
		VariationsPerProduct: defaultVariationsPerProduct,
		PurgeRemovedMetrics:  false,
		TelemetryTimeout:     defaultTelemetryTimeout,
	}
}
