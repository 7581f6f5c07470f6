package performance

import (
	"context"
	"myBrandStore/domain"
	"myBrandStore/pkg/logger"
	"time"
)

// MetricsRepository persists the whole metrics mapping as one blob.
type MetricsRepository interface {
	Load(ctx context.Context) (domain.MetricsMap, error)
	Save(ctx context.Context, metrics domain.MetricsMap) error
}

// AtomicMetricsRepository is implemented by backends that can run a
// read-modify-write cycle without losing concurrent updates.
type AtomicMetricsRepository interface {
	MetricsRepository
	Update(ctx context.Context, mutate func(domain.MetricsMap)) error
}

// Load returns the full mapping. Missing or unreadable data yields an empty map.
func (s *Service) Load(ctx context.Context) domain.MetricsMap {
	if s.metricsRepo == nil {
		return domain.MetricsMap{}
	}

	metrics, err := s.metricsRepo.Load(ctx)
	if err != nil {
		logger.Warn("failed to load product metrics, using empty store", "error", err)
		StorageFailuresTotal.WithLabelValues("load").Inc()
		return domain.MetricsMap{}
	}
	if metrics == nil {
		return domain.MetricsMap{}
	}

	return metrics
}

// Save persists the full mapping. Failures are logged and dropped.
func (s *Service) Save(ctx context.Context, metrics domain.MetricsMap) {
	if s.metricsRepo == nil {
		return
	}

	if err := s.metricsRepo.Save(ctx, metrics); err != nil {
		logger.Warn("failed to save product metrics", "error", err, "products", len(metrics))
		StorageFailuresTotal.WithLabelValues("save").Inc()
	}
}

// GetOrCreate returns the record for productID, inserting a zeroed one if needed.
func GetOrCreate(metrics domain.MetricsMap, productID string, now time.Time) *domain.ProductMetrics {
	if rec, ok := metrics[productID]; ok && rec != nil {
		return rec
	}

	rec := &domain.ProductMetrics{
		ProductID:  productID,
		FirstSeen:  now,
		LastViewed: now,
	}
	metrics[productID] = rec

	return rec
}

// Product returns a copy of one record.
func (s *Service) Product(ctx context.Context, productID string) (domain.ProductMetrics, bool) {
	rec, ok := s.Load(ctx)[productID]
	if !ok || rec == nil {
		return domain.ProductMetrics{}, false
	}
	return *rec, true
}

// mutate runs one serialized load -> mutate -> save cycle.
func (s *Service) mutate(ctx context.Context, fn func(domain.MetricsMap)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if atomicRepo, ok := s.metricsRepo.(AtomicMetricsRepository); ok {
		if err := atomicRepo.Update(ctx, fn); err != nil {
			logger.Warn("failed to update product metrics", "error", err)
			StorageFailuresTotal.WithLabelValues("update").Inc()
		}
		return
	}

	metrics := s.Load(ctx)
	fn(metrics)
	s.Save(ctx, metrics)
}
