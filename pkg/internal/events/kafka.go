package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each event as one JSON message keyed by the record ID,
// so every event for a record lands on the same partition.
type KafkaPublisher struct {
	w     MessageWriter
	topic string
}

// NewKafkaPublisher wraps w. topic is set per message only when the writer has none.
func NewKafkaPublisher(w MessageWriter, topic string) (*KafkaPublisher, error) {
	if w == nil {
		return nil, errors.New("events: kafka writer is required")
	}
	topic = strings.TrimSpace(topic)
	if kw, ok := w.(*kafka.Writer); ok && strings.TrimSpace(kw.Topic) != "" {
		topic = ""
	}
	return &KafkaPublisher{w: w, topic: topic}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt types.CompressionEvent) error {
	val, err := encode(evt)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(evt.ID),
		Value: val,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte(ContentType)},
			{Key: "event-type", Value: []byte(EventType)},
		},
		Time: evt.Timestamp,
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish %s: %w", evt.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// NewKafkaWriter builds a synchronous writer with hash balancing. codec is one of
// gzip, snappy, lz4, zstd or empty for none.
func NewKafkaWriter(brokers []string, topic, codec string) (*kafka.Writer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("events: at least one kafka broker is required")
	}
	c, err := ParseKafkaCompression(codec)
	if err != nil {
		return nil, err
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  strings.TrimSpace(topic),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		BatchBytes:             int64(1 << 20),
		RequiredAcks:           kafka.RequireAll,
		Compression:            c,
		AllowAutoTopicCreation: true,
	}, nil
}

// ParseKafkaCompression maps a codec name to the kafka-go constant.
func ParseKafkaCompression(name string) (kafka.Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return 0, nil
	case "gzip":
		return kafka.Gzip, nil
	case "snappy":
		return kafka.Snappy, nil
	case "lz4":
		return kafka.Lz4, nil
	case "zstd":
		return kafka.Zstd, nil
	default:
		return 0, fmt.Errorf("events: unknown kafka compression %q", name)
	}
}
