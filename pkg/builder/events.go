package builder

import (
	"github.com/joeydtaylor/condenser/pkg/internal/events"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

type (
	EventPublisher   = types.EventPublisher
	CompressionEvent = types.CompressionEvent
)

// NewKafkaPublisher publishes events to topic on brokers. codec is the kafka batch
// compression: gzip, snappy, lz4, zstd or empty.
func NewKafkaPublisher(brokers []string, topic, codec string) (types.EventPublisher, error) {
	w, err := events.NewKafkaWriter(brokers, topic, codec)
	if err != nil {
		return nil, err
	}
	p, err := events.NewKafkaPublisher(w, "")
	if err != nil {
		return nil, err
	}
	return p, nil
}

// NewNATSPublisher connects to url and publishes events on subject.
func NewNATSPublisher(url, subject, clientName string) (types.EventPublisher, error) {
	conn, err := events.DialNATS(url, clientName)
	if err != nil {
		return nil, err
	}
	p, err := events.NewNATSPublisher(conn, subject)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

// NewMultiPublisher fans events out to every non-nil publisher.
func NewMultiPublisher(pubs ...types.EventPublisher) types.EventPublisher {
	return events.NewMulti(pubs...)
}
