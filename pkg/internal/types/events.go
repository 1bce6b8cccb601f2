package types

import (
	"context"
	"time"
)

// CompressionEvent is broadcast after each completed compression.
type CompressionEvent struct {
	ID               string            `json:"id"`
	FileName         string            `json:"fileName"`
	FileType         FileType          `json:"fileType"`
	Method           CompressionMethod `json:"compressionMethod"`
	OriginalSize     int64             `json:"originalSize"`
	CompressedSize   int64             `json:"compressedSize"`
	CompressionRatio int               `json:"compressionRatio"`
	Timestamp        time.Time         `json:"timestamp"`
}

// EventPublisher delivers compression events to a downstream system.
type EventPublisher interface {
	Publish(ctx context.Context, evt CompressionEvent) error
	Close() error
}
