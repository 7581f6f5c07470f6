package performance

import (
	"context"
	"myBrandStore/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiSink(t *testing.T) {
	ok := &fakeSink{}
	failing := &fakeSink{err: errBoom}

	sinks := MultiSink{ok, nil, failing}
	err := sinks.Track(context.Background(), domain.TelemetryEvent{EventName: domain.EventProductView})

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{domain.EventProductView}, ok.names())
	assert.Equal(t, []string{domain.EventProductView}, failing.names())

	assert.NoError(t, MultiSink{}.Track(context.Background(), domain.TelemetryEvent{}))
}
