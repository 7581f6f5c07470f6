package performance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"myBrandStore/domain"
	"myBrandStore/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrInvalidProductID = errors.New("product id is required")
	ErrInvalidAmount    = errors.New("amount must be a non-negative number")
)

func (s *Service) RecordView(ctx context.Context, productID string) error {
	return s.record(ctx, productID, domain.EventProductView, nil, func(m *domain.ProductMetrics, now time.Time) {
		m.Views++
		m.LastViewed = now
	})
}

func (s *Service) RecordClick(ctx context.Context, productID string) error {
	return s.record(ctx, productID, domain.EventProductClick, nil, func(m *domain.ProductMetrics, _ time.Time) {
		m.Clicks++
	})
}

func (s *Service) RecordAddToCart(ctx context.Context, productID string, price float64) error {
	if !validAmount(price) {
		return ErrInvalidAmount
	}

	payload := map[string]any{"price": price}
	return s.record(ctx, productID, domain.EventAddToCart, payload, func(m *domain.ProductMetrics, _ time.Time) {
		m.AddedToCart++
	})
}

func (s *Service) RecordPurchase(ctx context.Context, productID string, revenue float64) error {
	if !validAmount(revenue) {
		return ErrInvalidAmount
	}

	payload := map[string]any{"revenue": revenue}
	return s.record(ctx, productID, domain.EventPurchase, payload, func(m *domain.ProductMetrics, _ time.Time) {
		m.Purchased++
		m.Revenue += revenue
	})
}

// record is the shared load -> get-or-create -> mutate -> rescore -> save -> emit path.
func (s *Service) record(
	ctx context.Context,
	productID string,
	eventName string,
	payload map[string]any,
	apply func(m *domain.ProductMetrics, now time.Time),
) error {
	if strings.TrimSpace(productID) == "" {
		return ErrInvalidProductID
	}
	if s.metricsRepo == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	now := s.now()

	s.mutate(ctx, func(metrics domain.MetricsMap) {
		rec := GetOrCreate(metrics, productID, now)
		apply(rec, now)
		refreshDerived(rec)
	})

	RecordedEventsTotal.WithLabelValues(eventName).Inc()

	s.emit(eventName, productID, payload, now)

	return nil
}

// emit delivers the event on its own goroutine and deadline so a slow sink
// never holds up the caller.
func (s *Service) emit(eventName, productID string, payload map[string]any, now time.Time) {
	if s.telemetry == nil {
		return
	}

	body := datatypes.JSONMap{"product_id": productID}
	for k, v := range payload {
		body[k] = v
	}

	event := domain.TelemetryEvent{
		ID:        uuid.New().String(),
		EventName: eventName,
		ProductID: productID,
		Payload:   body,
		Timestamp: now,
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.TelemetryTimeout)
		defer cancel()

		if err := s.telemetry.Track(ctx, event); err != nil {
			TelemetryFailuresTotal.WithLabelValues(eventName).Inc()
			logger.Debug("telemetry delivery failed", "event", eventName, "product_id", productID, "error", err)
		}
	}()
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
