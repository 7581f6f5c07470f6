package performance

import (
	"context"
	"errors"
	"myBrandStore/domain"
)

// MultiSink fans an event out to every sink and joins their errors.
type MultiSink []TelemetrySink

func (m MultiSink) Track(ctx context.Context, event domain.TelemetryEvent) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Track(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
