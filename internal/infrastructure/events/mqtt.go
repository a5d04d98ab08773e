package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bootcamp-directory/internal/config"
	domainEvents "bootcamp-directory/internal/domain/events"
	"bootcamp-directory/internal/logger"
	"bootcamp-directory/internal/metrics"
	"bootcamp-directory/pkg/mqtt"

	"go.uber.org/zap"
)

const (
	atLeastOnce    = 1
	publishTimeout = 5 * time.Second
)

type broker interface {
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error
}

// MQTTPublisher fans resource changes out on <topic>/<event type>.
type MQTTPublisher struct {
	client broker
	topic  string
}

func NewMQTTPublisher(client broker, topic string) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic}
}

// Connect dials the broker described by cfg.
func Connect(cfg *config.MQTTConfig) (*mqtt.Client, error) {
	client := mqtt.NewClient(&mqtt.Config{
		Broker:               cfg.Broker,
		ClientID:             cfg.ClientID,
		Username:             cfg.Username,
		Password:             cfg.Password,
		CleanSession:         true,
		KeepAlive:            30 * time.Second,
		ConnectTimeout:       10 * time.Second,
		AutoReconnect:        true,
		MaxReconnectInterval: time.Minute,
	})
	if err := client.Connect(); err != nil {
		return nil, err
	}
	return client, nil
}

func (p *MQTTPublisher) Publish(ctx context.Context, event domainEvents.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	topic := p.topic + "/" + string(event.Type)
	err = p.client.Publish(ctx, topic, atLeastOnce, false, payload)
	metrics.RecordEventPublish(string(event.Type), err)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	logger.FromContext(ctx).Debug("Event published",
		zap.String("topic", topic),
		zap.String("resource_id", event.ResourceID),
	)
	return nil
}

// Noop drops events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, domainEvents.Event) error { return nil }
