package types

import (
	"context"
	"time"
)

// HistoryRecord is the persisted projection of a CompressionResult.
// Payload holds the compressed content and is omitted from listings.
type HistoryRecord struct {
	ID               string            `json:"id"`
	FileName         string            `json:"fileName"`
	FileType         FileType          `json:"fileType"`
	Method           CompressionMethod `json:"compressionMethod"`
	OriginalSize     int64             `json:"originalSize"`
	CompressedSize   int64             `json:"compressedSize"`
	CompressionRatio int               `json:"compressionRatio"`
	Expanded         bool              `json:"expanded"`
	Payload          []byte            `json:"payload,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// Stats aggregates a set of history records.
type Stats struct {
	TotalFiles          int     `json:"totalFiles"`
	AverageRatio        float64 `json:"averageRatio"`
	TotalOriginalSize   int64   `json:"totalOriginalSize"`
	TotalCompressedSize int64   `json:"totalCompressedSize"`
	TotalSpaceSaved     int64   `json:"totalSpaceSaved"`
	SavedPercent        float64 `json:"savedPercent"`
}

// HistoryStore persists compression history.
type HistoryStore interface {
	Save(ctx context.Context, rec HistoryRecord) error
	Get(ctx context.Context, id string) (HistoryRecord, error)
	// List returns records newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]HistoryRecord, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
