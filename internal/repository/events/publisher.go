package events

import (
	"context"
	"fmt"
	"myBrandStore/domain"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"
)

// TelemetryPublisher forwards recorded events to a message broker topic.
type TelemetryPublisher struct {
	publisher message.Publisher
	topic     string
}

func NewTelemetryPublisher(publisher message.Publisher, topic string) *TelemetryPublisher {
	return &TelemetryPublisher{publisher: publisher, topic: topic}
}

func (p *TelemetryPublisher) Track(ctx context.Context, event domain.TelemetryEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry event: %w", err)
	}

	msg := message.NewMessage(event.ID, raw)
	msg.Metadata.Set("event_name", event.EventName)
	msg.Metadata.Set("product_id", event.ProductID)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish telemetry event: %w", err)
	}

	return nil
}

func (p *TelemetryPublisher) Close() error {
	return p.publisher.Close()
}

// NewNatsPublisher connects a core NATS publisher. Telemetry is fire and
// forget so JetStream is not used.
func NewNatsPublisher(url string, logger watermill.LoggerAdapter) (message.Publisher, error) {
	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled: true,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	return pub, nil
}
