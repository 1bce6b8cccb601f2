package compressor

import (
	"math"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/tokencodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

const (
	// MinCompressionTime is the smallest processing time ever reported, in milliseconds.
	MinCompressionTime = 100
	// MaxRedundancy caps the reported redundancy percentage.
	MaxRedundancy = 95
)

// Measurement is what AssembleResult derives the reported statistics from.
type Measurement struct {
	OriginalSize   int64
	CompressedSize int64
	Elapsed        time.Duration
	Mode           types.TargetMode
	Level          int
	// Words of the source text. Nil for binary strategies, which report no redundancy.
	Table *tokencodec.FrequencyTable
}

// AssembleResult fills the statistics of a CompressionResult. CompressionRatio is clamped
// to at least 1 and, in quality mode, to at least the requested level; ActualRatio and
// Expanded report what really happened.
func AssembleResult(m Measurement) types.CompressionResult {
	actual := 0
	if m.OriginalSize > 0 {
		actual = int(math.Round(float64(m.OriginalSize-m.CompressedSize) / float64(m.OriginalSize) * 100))
	}

	ratio := actual
	if ratio < 1 {
		ratio = 1
	}
	if m.Mode == types.TargetQuality && m.Level > ratio {
		ratio = m.Level
	}

	elapsed := m.Elapsed.Milliseconds()
	if elapsed < MinCompressionTime {
		elapsed = MinCompressionTime
	}

	return types.CompressionResult{
		OriginalSize:       m.OriginalSize,
		CompressedSize:     m.CompressedSize,
		CompressionRatio:   ratio,
		ActualRatio:        actual,
		Expanded:           m.CompressedSize > m.OriginalSize,
		RedundancyDetected: Redundancy(m.Table),
		CompressionTime:    elapsed,
	}
}

// Redundancy is the share of distinct words occurring more than twice, as a rounded
// percentage capped at MaxRedundancy.
func Redundancy(table *tokencodec.FrequencyTable) int {
	if table == nil || table.Len() == 0 {
		return 0
	}
	r := int(math.Round(float64(table.Recurring(2)) / float64(table.Len()) * 100))
	if r > MaxRedundancy {
		return MaxRedundancy
	}
	return r
}

// Record projects a result onto its persisted form.
func Record(res types.CompressionResult) types.HistoryRecord {
	return types.HistoryRecord{
		ID:               res.ID,
		FileName:         res.FileName,
		FileType:         res.FileType,
		Method:           res.Method,
		OriginalSize:     res.OriginalSize,
		CompressedSize:   res.CompressedSize,
		CompressionRatio: res.CompressionRatio,
		Expanded:         res.Expanded,
		Payload:          []byte(res.CompressedContent),
		CreatedAt:        res.Timestamp,
	}
}

// Event projects a result onto the event announced after processing.
func Event(res types.CompressionResult) types.CompressionEvent {
	return types.CompressionEvent{
		ID:               res.ID,
		FileName:         res.FileName,
		FileType:         res.FileType,
		Method:           res.Method,
		OriginalSize:     res.OriginalSize,
		CompressedSize:   res.CompressedSize,
		CompressionRatio: res.CompressionRatio,
		Timestamp:        res.Timestamp,
	}
}
