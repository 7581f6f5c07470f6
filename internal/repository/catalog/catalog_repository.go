package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"myBrandStore/domain"
	"myBrandStore/pkg/logger"
	"myBrandStore/pkg/metrics"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	removePath    = "/products/remove"
	replicatePath = "/products/replicate"

	idempotencyHeader = "Idempotency-Key"
)

type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	BaseBackoff time.Duration
	// requests per second, 0 disables limiting
	RateLimit float64
}

// StatusError is a non-2xx answer from the catalog service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog service returned %d: %s", e.Code, e.Body)
}

func (e *StatusError) retryable() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

type CatalogRepository struct {
	cfg     Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	limiter *rate.Limiter
}

func NewCatalogRepository(cfg Config) *CatalogRepository {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 200 * time.Millisecond
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "catalog-service",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// client errors are the caller's fault, not the service's
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return !statusErr.retryable()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CatalogBreakerState.Set(stateValue(to))
		},
	})

	return &CatalogRepository{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		limiter: limiter,
	}
}

// RemoveProducts reports the service's removed count, or len(productIDs)
// when the service answers without a body.
func (r *CatalogRepository) RemoveProducts(ctx context.Context, runID string, productIDs []string) (int, error) {
	body, err := r.post(ctx, "remove", removePath, runID, domain.RemoveRequest{ProductIDs: productIDs})
	if err != nil {
		return 0, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return len(productIDs), nil
	}

	var resp domain.RemoveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("failed to unmarshal remove response: %w", err)
	}
	if resp.Removed == nil {
		return len(productIDs), nil
	}

	return *resp.Removed, nil
}

func (r *CatalogRepository) ReplicateProducts(ctx context.Context, runID string, productIDs []string, variationsPerProduct int) (int, error) {
	body, err := r.post(ctx, "replicate", replicatePath, runID, domain.ReplicateRequest{
		ProductIDs:           productIDs,
		VariationsPerProduct: variationsPerProduct,
	})
	if err != nil {
		return 0, err
	}

	var resp domain.ReplicateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("failed to unmarshal replicate response: %w", err)
	}

	return resp.Created, nil
}

// post sends the same Idempotency-Key on every attempt, so the service can
// answer a retry with the stored result instead of applying it again.
func (r *CatalogRepository) post(ctx context.Context, op, path, runID string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json payload: %w", err)
	}
	key := idempotencyKey(runID, op)

	body, err := r.breaker.Execute(func() ([]byte, error) {
		return r.withRetry(ctx, op, func() ([]byte, error) {
			return r.send(ctx, path, key, raw)
		})
	})
	if err != nil {
		outcome := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "rejected"
		}
		metrics.CatalogRequests.WithLabelValues(op, outcome).Inc()
		return nil, fmt.Errorf("catalog %s: %w", op, err)
	}

	metrics.CatalogRequests.WithLabelValues(op, "success").Inc()
	return body, nil
}

// withRetry retries network errors, 5xx and 429 with exponential backoff.
func (r *CatalogRepository) withRetry(ctx context.Context, op string, fn func() ([]byte, error)) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 1 {
			backoff := r.cfg.BaseBackoff * time.Duration(1<<(attempt-2))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		body, err := fn()
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(ctx, err) {
			return nil, err
		}

		logger.Debug("catalog request failed, retrying", "op", op, "attempt", attempt, "error", err)
	}

	return nil, fmt.Errorf("after %d attempts: %w", r.cfg.MaxRetries, lastErr)
}

func (r *CatalogRepository) send(ctx context.Context, path, key string, raw []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

// idempotencyKey scopes the run id to one operation so remove and
// replicate of the same run never share a key.
func idempotencyKey(runID, op string) string {
	if runID == "" {
		return ""
	}
	return runID + ":" + op
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.retryable()
	}

	return true
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
