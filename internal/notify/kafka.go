// Package notify publishes forecast update events.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cicconee/marine-forecast/internal/forecast"
	kafkago "github.com/segmentio/kafka-go"
)

// EventForecastUpdate is the event type of every message published.
const EventForecastUpdate = "forecast_update"

// Update is the payload of a forecast_update message.
type Update struct {
	ZoneID    string    `json:"zone_id"`
	Layer     string    `json:"layer"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher publishes one message per replaced forecast, keyed by
// zone ID so updates of a zone stay ordered within a partition.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher creates a producer for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &KafkaPublisher{writer: w}
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Notify(ctx context.Context, r forecast.Record) error {
	msg, err := serializeToMessage(r)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish forecast update (zoneID=%s): %w", r.ZoneID, err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func serializeToMessage(r forecast.Record) (kafkago.Message, error) {
	data, err := json.Marshal(Update{
		ZoneID:    r.ZoneID,
		Layer:     string(r.Layer),
		IssuedAt:  r.IssuedAt,
		ExpiresAt: r.ExpiresAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast update: %w", err)
	}

	return kafkago.Message{
		Key:   []byte(r.ZoneID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventForecastUpdate)},
		},
	}, nil
}
