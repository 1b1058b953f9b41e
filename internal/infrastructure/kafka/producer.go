package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventType     = "event-type"
	HeaderAggregateType = "aggregate-type"
)

// Producer publishes catalog events keyed by aggregate id, so every event
// of one product lands on the same partition in order
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: writer}
}

// Publish implements store.Publisher
func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	msg, err := newMessage(key, event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

// newMessage serializes event. Store events also carry their type in
// headers so consumers can route without decoding the body.
func newMessage(key string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encoding event %s: %w", key, err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if e, ok := event.(store.Event); ok {
		msg.Headers = []kafka.Header{
			{Key: HeaderEventType, Value: []byte(e.EventType)},
			{Key: HeaderAggregateType, Value: []byte(e.AggregateType)},
		}
		msg.Time = e.Timestamp
	}
	return msg, nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
