// pkg/internal/types/compression.go
package types

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// PayloadVersion is the only payload schema version the codec produces and accepts.
const PayloadVersion = "1.0"

// TargetMode selects how the size target of a compression is derived.
type TargetMode string

const (
	TargetQuality TargetMode = "quality" // reduce by Level percent of the original size
	TargetSize    TargetMode = "size"    // aim for an absolute byte count
)

// Target describes the caller's size goal.
//
//	{"mode":"quality","level":70}
//	{"mode":"size","bytes":10240}
type Target struct {
	Mode  TargetMode `json:"mode"`
	Level int        `json:"level,omitempty"`
	Bytes int64      `json:"bytes,omitempty"`
}

// FileType is the coarse category a file name maps to.
type FileType string

const (
	FileTypeImage    FileType = "image"
	FileTypeVideo    FileType = "video"
	FileTypeAudio    FileType = "audio"
	FileTypeDocument FileType = "document"
	FileTypeText     FileType = "text"
	FileTypeArchive  FileType = "archive"
	FileTypeOther    FileType = "other"
)

// CompressionMethod names the strategy that produced a result.
type CompressionMethod string

const (
	MethodDictionary  CompressionMethod = "dictionary"
	MethodImage       CompressionMethod = "image"
	MethodSubsample   CompressionMethod = "subsample"
	MethodRunLength   CompressionMethod = "rle"
	MethodNone        CompressionMethod = "none"
	MethodPassthrough CompressionMethod = "passthrough"
)

// DictionaryEntry is one (word, code) pair. It serializes as a two element array.
type DictionaryEntry struct {
	Word string
	Code string
}

// MarshalJSON encodes the entry as ["word","code"].
func (e DictionaryEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.Word, e.Code})
}

// UnmarshalJSON accepts exactly ["word","code"].
func (e *DictionaryEntry) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return errors.New("dictionary entry must be a [word, code] pair")
	}
	e.Word, e.Code = pair[0], pair[1]
	return nil
}

// Dictionary is an ordered, rank-indexed list of substitutions.
type Dictionary []DictionaryEntry

// PayloadMetadata travels with every dictionary payload.
type PayloadMetadata struct {
	OriginalFileName string    `json:"originalFileName"`
	CompressionLevel int       `json:"compressionLevel"`
	TargetSize       *int64    `json:"targetSize,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
	ContentEncoding  string    `json:"contentEncoding,omitempty"` // "base64" when the source was binary
}

// Payload is the serialized output of the dictionary codec and the input of its reverse.
type Payload struct {
	Version    string          `json:"version"`
	Dictionary Dictionary      `json:"dictionary"`
	Compressed string          `json:"compressed"`
	Metadata   PayloadMetadata `json:"metadata"`
}

// CompressionRequest is one uploaded file plus the caller's target.
// Content is base64 on the wire.
type CompressionRequest struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType,omitempty"`
	Content  []byte `json:"content"`
	Target   Target `json:"target"`
}

// Baseline is what a real block codec achieves on the same input.
type Baseline struct {
	Algorithm string `json:"algorithm"`
	Size      int64  `json:"size"`
	Ratio     int    `json:"ratio"`
}

// CompressionResult is the immutable record produced per upload.
type CompressionResult struct {
	ID                 string            `json:"id"`
	FileName           string            `json:"fileName"`
	FileType           FileType          `json:"fileType"`
	MimeType           string            `json:"mimeType,omitempty"`
	Method             CompressionMethod `json:"compressionMethod"`
	OriginalSize       int64             `json:"originalSize"`
	CompressedSize     int64             `json:"compressedSize"`
	CompressionRatio   int               `json:"compressionRatio"`
	ActualRatio        int               `json:"actualRatio"`
	Expanded           bool              `json:"expanded"`
	RedundancyDetected int               `json:"redundancyDetected"`
	CompressionTime    int64             `json:"compressionTime"`
	TargetSize         int64             `json:"targetSize"`
	Iterations         int               `json:"iterations"`
	Converged          bool              `json:"converged"`
	Truncated          bool              `json:"truncated,omitempty"` // coded content was cut to fit the target
	Padded             bool              `json:"padded,omitempty"`    // trailing spaces were added to reach the target
	CompressedContent  string            `json:"compressedContent"`
	OriginalContent    string            `json:"originalContent,omitempty"`
	Baseline           *Baseline         `json:"baseline,omitempty"`
	Timestamp          time.Time         `json:"timestamp"`
}

// DecompressionResult is the restored content of a payload.
type DecompressionResult struct {
	FileName string `json:"fileName"`
	Content  []byte `json:"content"`
	Legacy   bool   `json:"legacy,omitempty"`
}

// Compressor runs the compression pipeline and hands results to its collaborators.
type Compressor interface {
	// Compress computes a result. It has no side effects beyond logging.
	Compress(ctx context.Context, req CompressionRequest) (CompressionResult, error)

	// Process compresses, then records the result in the connected history store and
	// publishes a completion event. Collaborator failures are logged, not returned.
	Process(ctx context.Context, req CompressionRequest) (CompressionResult, error)

	// Decompress restores the original content of a dictionary payload.
	Decompress(ctx context.Context, payload []byte) (DecompressionResult, error)

	// Restore reverses any lossless result: dictionary payloads, run-length documents and
	// untouched passthrough bytes. Image results return ErrLossyResult from the compressor package.
	Restore(ctx context.Context, res CompressionResult) (DecompressionResult, error)

	ConnectLogger(...Logger)
	ConnectHistory(HistoryStore)
	ConnectPublisher(...EventPublisher)

	SetDictionarySize(n int)
	SetConvergence(cfg ConvergenceSettings)
	SetRouting(enabled bool)
	SetBaselineAlgorithm(name string)
	SetIncludeOriginal(include bool)
	SetImageFormat(format string)

	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
	NotifyLoggers(level LogLevel, msg string, keysAndValues ...interface{})
}

// ConvergenceSettings tunes the size fitting loop. Zero values keep the defaults.
type ConvergenceSettings struct {
	AbsoluteTolerance int64
	RelativeTolerance float64
	MaxIterations     int
	MinContentLength  int
	OvershootFactor   float64
	PaddingFactor     float64
	MaxPadding        int
}
