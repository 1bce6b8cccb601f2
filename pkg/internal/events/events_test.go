package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"github.com/segmentio/kafka-go"
)

func sampleEvent() types.CompressionEvent {
	return types.CompressionEvent{
		ID:               "rec-1",
		FileName:         "notes.txt",
		FileType:         types.FileTypeText,
		Method:           types.MethodDictionary,
		OriginalSize:     1000,
		CompressedSize:   400,
		CompressionRatio: 60,
		Timestamp:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

type stubPublisher struct {
	got      []types.CompressionEvent
	err      error
	closeErr error
	closed   bool
}

func (s *stubPublisher) Publish(_ context.Context, evt types.CompressionEvent) error {
	s.got = append(s.got, evt)
	return s.err
}

func (s *stubPublisher) Close() error {
	s.closed = true
	return s.closeErr
}

func TestMulti_PublishesToAllAndJoinsErrors(t *testing.T) {
	errA := errors.New("a down")
	a := &stubPublisher{err: errA}
	b := &stubPublisher{}
	m := NewMulti(a, nil, b)
	if m.Len() != 2 {
		t.Fatalf("expected nil publisher dropped, got %d", m.Len())
	}

	err := m.Publish(context.Background(), sampleEvent())
	if !errors.Is(err, errA) {
		t.Fatalf("expected joined error to contain errA, got %v", err)
	}
	if len(b.got) != 1 {
		t.Fatalf("expected second publisher to receive event after first failed")
	}

	b.closeErr = errors.New("close failed")
	if err := m.Close(); err == nil || !a.closed || !b.closed {
		t.Fatalf("expected both closed and error returned, got %v", err)
	}
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Message(t *testing.T) {
	w := &fakeWriter{}
	p, err := NewKafkaPublisher(w, " compressions ")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	evt := sampleEvent()
	if err := p.Publish(context.Background(), evt); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "rec-1" || msg.Topic != "compressions" {
		t.Fatalf("unexpected key/topic %q/%q", msg.Key, msg.Topic)
	}
	var decoded types.CompressionEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != evt.ID || decoded.CompressionRatio != 60 || !decoded.Timestamp.Equal(evt.Timestamp) {
		t.Fatalf("expected %+v, got %+v", evt, decoded)
	}
	if len(msg.Headers) != 2 || string(msg.Headers[1].Value) != EventType {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}
	if !msg.Time.Equal(evt.Timestamp) {
		t.Fatalf("expected message time from event, got %v", msg.Time)
	}

	_ = p.Close()
	if !w.closed {
		t.Fatalf("expected writer closed")
	}
}

func TestKafkaPublisher_WriterTopicWins(t *testing.T) {
	w := &kafka.Writer{Topic: "fixed"}
	p, err := NewKafkaPublisher(w, "other")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if p.topic != "" {
		t.Fatalf("expected per-message topic to be empty when writer has one, got %q", p.topic)
	}
}

func TestKafkaPublisher_Errors(t *testing.T) {
	if _, err := NewKafkaPublisher(nil, "t"); err == nil {
		t.Fatalf("expected error for nil writer")
	}
	boom := errors.New("broker gone")
	p, _ := NewKafkaPublisher(&fakeWriter{err: boom}, "t")
	if err := p.Publish(context.Background(), sampleEvent()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}

func TestNewKafkaWriter(t *testing.T) {
	w, err := NewKafkaWriter([]string{"localhost:9092"}, "compressions", "snappy")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if w.Compression != kafka.Snappy || w.Topic != "compressions" {
		t.Fatalf("unexpected writer %+v", w)
	}
	if _, ok := w.Balancer.(*kafka.Hash); !ok {
		t.Fatalf("expected hash balancer, got %T", w.Balancer)
	}
	if _, err := NewKafkaWriter(nil, "t", ""); err == nil {
		t.Fatalf("expected error without brokers")
	}
	if _, err := NewKafkaWriter([]string{"b"}, "t", "bzip2"); err == nil {
		t.Fatalf("expected error for unknown codec")
	}
}

type fakeConn struct {
	subject  string
	data     []byte
	flushed  bool
	drained  bool
	flushErr error
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	f.subject, f.data = subj, data
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error {
	f.flushed = true
	return f.flushErr
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestNATSPublisher(t *testing.T) {
	c := &fakeConn{}
	p, err := NewNATSPublisher(c, "condenser.events")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if c.subject != "condenser.events" || !c.flushed {
		t.Fatalf("expected publish and flush on subject, got %+v", c)
	}
	var decoded types.CompressionEvent
	if err := json.Unmarshal(c.data, &decoded); err != nil || decoded.ID != "rec-1" {
		t.Fatalf("expected JSON event, got %s (%v)", c.data, err)
	}
	_ = p.Close()
	if !c.drained {
		t.Fatalf("expected drain on close")
	}
}

func TestNATSPublisher_Errors(t *testing.T) {
	if _, err := NewNATSPublisher(nil, "s"); err == nil {
		t.Fatalf("expected error for nil connection")
	}
	if _, err := NewNATSPublisher(&fakeConn{}, " "); err == nil {
		t.Fatalf("expected error for empty subject")
	}
	flushErr := errors.New("no responders")
	p, _ := NewNATSPublisher(&fakeConn{flushErr: flushErr}, "s")
	if err := p.Publish(context.Background(), sampleEvent()); !errors.Is(err, flushErr) {
		t.Fatalf("expected flush error, got %v", err)
	}
}
