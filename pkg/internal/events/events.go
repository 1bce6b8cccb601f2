// Package events delivers compression events to downstream systems.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// ContentType is set on every message that carries a header slot for it.
const ContentType = "application/json"

// EventType identifies completion events on the wire.
const EventType = "compression.completed"

// Multi fans one event out to several publishers.
type Multi struct {
	pubs []types.EventPublisher
}

// NewMulti drops nil publishers.
func NewMulti(pubs ...types.EventPublisher) *Multi {
	m := &Multi{}
	for _, p := range pubs {
		if p != nil {
			m.pubs = append(m.pubs, p)
		}
	}
	return m
}

// Len reports the number of attached publishers.
func (m *Multi) Len() int { return len(m.pubs) }

// Publish delivers to every publisher, even after a failure, and joins the errors.
func (m *Multi) Publish(ctx context.Context, evt types.CompressionEvent) error {
	var errs []error
	for _, p := range m.pubs {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) Close() error {
	var errs []error
	for _, p := range m.pubs {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func encode(evt types.CompressionEvent) ([]byte, error) {
	b, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", evt.ID, err)
	}
	return b, nil
}
