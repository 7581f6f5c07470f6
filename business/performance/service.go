package performance

import (
	"context"
	"myBrandStore/domain"
	"sync"
	"time"
)

// TelemetrySink receives every recorded event. Delivery is best effort.
type TelemetrySink interface {
	Track(ctx context.Context, event domain.TelemetryEvent) error
}

// CatalogService mutates the external product catalog. runID identifies
// the optimizer run so a retried call can be recognised and not applied twice.
// RemoveProducts returns how many products the catalog actually removed.
type CatalogService interface {
	RemoveProducts(ctx context.Context, runID string, productIDs []string) (int, error)
	ReplicateProducts(ctx context.Context, runID string, productIDs []string, variationsPerProduct int) (int, error)
}

// NotificationRepository sends the optimizer run report.
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

type Service struct {
	metricsRepo MetricsRepository
	telemetry   TelemetrySink
	catalog     CatalogService
	notifRepo   NotificationRepository
	cfg         Config
	now         func() time.Time

	// serializes read-modify-write cycles on the store
	mu sync.Mutex
	// in-flight telemetry deliveries
	inflight sync.WaitGroup
}

// NewService wires the engine. A nil metricsRepo turns every recording
// operation into a no-op; nil telemetry, catalog or notifRepo disable
// the matching side effect.
func NewService(
	metricsRepo MetricsRepository,
	telemetry TelemetrySink,
	catalog CatalogService,
	notifRepo NotificationRepository,
	cfg Config,
) *Service {
	if cfg.VariationsPerProduct <= 0 {
		cfg.VariationsPerProduct = defaultVariationsPerProduct
	}
	if cfg.TelemetryTimeout <= 0 {
		cfg.TelemetryTimeout = defaultTelemetryTimeout
	}

	return &Service{
		metricsRepo: metricsRepo,
		telemetry:   telemetry,
		catalog:     catalog,
		notifRepo:   notifRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Thresholds returns the configured classifier thresholds.
func (s *Service) Thresholds() domain.PerformanceThresholds {
	return s.cfg.Thresholds
}

// Wait blocks until all pending telemetry deliveries have finished.
func (s *Service) Wait() {
	s.inflight.Wait()
}
