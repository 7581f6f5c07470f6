package telemetry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"myBrandStore/domain"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// HTTPSink posts each event as JSON to an analytics collector.
type HTTPSink struct {
	url    string
	client *http.Client
}

func NewHTTPSink(url string, timeout time.Duration) *HTTPSink {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &HTTPSink{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type eventBody struct {
	Event      string         `json:"event"`
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
	Timestamp  time.Time      `json:"timestamp"`
}

func (s *HTTPSink) Track(ctx context.Context, event domain.TelemetryEvent) error {
	raw, err := json.Marshal(eventBody{
		Event:      event.EventName,
		ID:         event.ID,
		Properties: event.Payload,
		Timestamp:  event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}

	return fmt.Errorf("telemetry collector returned negative response %v", res.StatusCode)
}
