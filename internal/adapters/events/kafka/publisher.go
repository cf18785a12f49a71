package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/arap_ledger/internal/core/domain"
	"github.com/SscSPs/arap_ledger/internal/core/ports/events"
	"github.com/segmentio/kafka-go"
)

const (
	// DefaultPaymentTopic receives one message per committed payment.
	DefaultPaymentTopic = "ledger.payment_recorded"

	writeTimeout = 3 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes payment events as JSON, keyed by account so every event of
// one account lands on the same partition in commit order.
type Publisher struct {
	writer messageWriter
}

var _ events.PaymentEventPublisher = (*Publisher)(nil)

func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultPaymentTopic
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: writeTimeout,
		},
	}
}

func (p *Publisher) PublishPaymentRecorded(ctx context.Context, event domain.PaymentRecordedEvent) error {
	msg, err := encodePaymentRecorded(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish payment %s: %w", event.EntryID, err)
	}
	return nil
}

// Close flushes pending writes and releases the broker connections.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func encodePaymentRecorded(event domain.PaymentRecordedEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode payment event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(string(event.Kind) + "/" + event.AccountID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("payment_recorded")},
			{Key: "idempotency-key", Value: []byte(event.IdempotencyKey)},
		},
	}, nil
}
