package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"github.com/nats-io/nats.go"
)

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// NATSPublisher publishes JSON events on a single subject.
type NATSPublisher struct {
	conn    Conn
	subject string
}

func NewNATSPublisher(conn Conn, subject string) (*NATSPublisher, error) {
	if conn == nil {
		return nil, errors.New("events: nats connection is required")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, errors.New("events: nats subject is required")
	}
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Publish flushes after every event so server-side errors surface to the caller.
func (p *NATSPublisher) Publish(ctx context.Context, evt types.CompressionEvent) error {
	b, err := encode(evt)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, b); err != nil {
		return fmt.Errorf("nats publish %s: %w", p.subject, err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("nats flush %s: %w", p.subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error { return p.conn.Drain() }

// DialNATS connects with unlimited reconnects under the given client name.
func DialNATS(url, name string) (*nats.Conn, error) {
	if strings.TrimSpace(url) == "" {
		url = nats.DefaultURL
	}
	return nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
}
