// Package notification delivers storefront events to the external sink.
// Delivery is best-effort: callers treat failures as log-and-continue.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/nikolayk812/storefront/internal/domain"
)

type KafkaSink struct {
	writer *kafka.Writer
}

func NewKafka(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

type event struct {
	Kind      string            `json:"kind"`
	Recipient string            `json:"recipient"`
	Payload   map[string]string `json:"payload,omitempty"`
	At        time.Time         `json:"at"`
}

func (s *KafkaSink) Notify(ctx context.Context, n domain.Notification) error {
	value, err := json.Marshal(event{
		Kind:      string(n.Kind),
		Recipient: n.Recipient,
		Payload:   n.Payload,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(n.Recipient),
		Value: value,
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writer.WriteMessages: %w", err)
	}

	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
