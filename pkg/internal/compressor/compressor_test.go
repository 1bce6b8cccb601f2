package compressor

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/mediacodec"
	"github.com/joeydtaylor/condenser/pkg/internal/tokencodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

const sentence = "the quick brown fox jumps over the lazy dog "

var sampleText = strings.Repeat(sentence, 50) + "end"

type recordingStore struct {
	mu      sync.Mutex
	records []types.HistoryRecord
	err     error
}

func (s *recordingStore) Save(_ context.Context, rec types.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}
func (s *recordingStore) Get(context.Context, string) (types.HistoryRecord, error) {
	return types.HistoryRecord{}, errors.New("not implemented")
}
func (s *recordingStore) List(context.Context, int) ([]types.HistoryRecord, error) { return nil, nil }
func (s *recordingStore) Delete(context.Context, string) error                     { return nil }
func (s *recordingStore) Close() error                                             { return nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []types.CompressionEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt types.CompressionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}
func (p *recordingPublisher) Close() error { return nil }

func TestResolveTarget(t *testing.T) {
	cases := []struct {
		name      string
		target    types.Target
		orig      int64
		wantBytes int64
		wantLevel int
	}{
		{"quality 50", types.Target{Mode: types.TargetQuality, Level: 50}, 1000, 500, 50},
		{"no target", types.Target{}, 1000, 500, 50},
		{"rounds half up", types.Target{Mode: types.TargetQuality, Level: 50}, 7, 4, 50},
		{"quality 0", types.Target{Mode: types.TargetQuality, Level: 0}, 1000, 1000, 0},
		{"quality 100", types.Target{Mode: types.TargetQuality, Level: 100}, 1000, 0, 100},
		{"size", types.Target{Mode: types.TargetSize, Bytes: 300}, 1000, 300, 70},
		{"size inferred", types.Target{Bytes: 250}, 1000, 250, 75},
		{"size larger than input", types.Target{Mode: types.TargetSize, Bytes: 2000}, 1000, 2000, 0},
		{"size of empty input", types.Target{Mode: types.TargetSize, Bytes: 10}, 0, 10, 0},
	}

	for _, tc := range cases {
		got, level, err := ResolveTarget(tc.target, tc.orig)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.wantBytes || level != tc.wantLevel {
			t.Fatalf("%s: expected (%d, %d), got (%d, %d)", tc.name, tc.wantBytes, tc.wantLevel, got, level)
		}
	}
}

func TestResolveTarget_Invalid(t *testing.T) {
	bad := []types.Target{
		{Mode: types.TargetQuality, Level: 101},
		{Mode: types.TargetQuality, Level: -1},
		{Mode: types.TargetSize},
		{Mode: types.TargetSize, Bytes: -5},
		{Mode: "ratio", Level: 10},
	}
	for _, tgt := range bad {
		if _, _, err := ResolveTarget(tgt, 100); !errors.Is(err, ErrInvalidTarget) {
			t.Fatalf("expected ErrInvalidTarget for %+v, got %v", tgt, err)
		}
	}
}

func TestAssembleResult(t *testing.T) {
	empty := AssembleResult(Measurement{OriginalSize: 0, CompressedSize: 120, Mode: types.TargetSize})
	if empty.CompressionRatio != 1 || empty.ActualRatio != 0 {
		t.Fatalf("expected ratio 1 / actual 0 for empty input, got %d / %d", empty.CompressionRatio, empty.ActualRatio)
	}

	expanded := AssembleResult(Measurement{OriginalSize: 100, CompressedSize: 150, Mode: types.TargetSize})
	if expanded.CompressionRatio != 1 || expanded.ActualRatio != -50 || !expanded.Expanded {
		t.Fatalf("unexpected expanded result %+v", expanded)
	}

	quality := AssembleResult(Measurement{OriginalSize: 100, CompressedSize: 60, Mode: types.TargetQuality, Level: 70})
	if quality.CompressionRatio != 70 || quality.ActualRatio != 40 {
		t.Fatalf("expected reported 70 / actual 40, got %d / %d", quality.CompressionRatio, quality.ActualRatio)
	}

	size := AssembleResult(Measurement{OriginalSize: 100, CompressedSize: 60, Mode: types.TargetSize, Level: 70})
	if size.CompressionRatio != 40 {
		t.Fatalf("expected 40 in size mode, got %d", size.CompressionRatio)
	}

	if got := AssembleResult(Measurement{Elapsed: 5 * time.Millisecond}).CompressionTime; got != MinCompressionTime {
		t.Fatalf("expected time floored to %d, got %d", MinCompressionTime, got)
	}
	if got := AssembleResult(Measurement{Elapsed: 250 * time.Millisecond}).CompressionTime; got != 250 {
		t.Fatalf("expected 250ms, got %d", got)
	}
}

func TestRedundancy(t *testing.T) {
	mixed := tokencodec.Analyze("a a a b b c")
	if got := Redundancy(&mixed); got != 33 {
		t.Fatalf("expected 33, got %d", got)
	}
	all := tokencodec.Analyze("a a a")
	if got := Redundancy(&all); got != MaxRedundancy {
		t.Fatalf("expected cap %d, got %d", MaxRedundancy, got)
	}
	empty := tokencodec.Analyze("")
	if Redundancy(&empty) != 0 || Redundancy(nil) != 0 {
		t.Fatalf("expected 0 redundancy without words")
	}
}

func TestCompress_TextQualityLevel(t *testing.T) {
	c := NewCompressor(context.Background())
	res, err := c.Compress(context.Background(), types.CompressionRequest{
		FileName: "notes.txt",
		Content:  []byte(sampleText),
		Target:   types.Target{Mode: types.TargetQuality, Level: 50},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	orig := int64(len(sampleText))
	if res.TargetSize != (orig+1)/2 {
		t.Fatalf("expected target %d, got %d", (orig+1)/2, res.TargetSize)
	}
	if res.Method != types.MethodDictionary || res.FileType != types.FileTypeText {
		t.Fatalf("expected dictionary method for text, got %s / %s", res.Method, res.FileType)
	}
	if !res.Converged {
		t.Fatalf("expected convergence, size %d target %d", res.CompressedSize, res.TargetSize)
	}
	if res.CompressionRatio < 50 {
		t.Fatalf("expected reported ratio of at least the level, got %d", res.CompressionRatio)
	}
	if res.CompressedSize != int64(len(res.CompressedContent)) {
		t.Fatalf("compressed size %d does not match payload length %d", res.CompressedSize, len(res.CompressedContent))
	}
	if res.RedundancyDetected != 89 {
		t.Fatalf("expected 8 of 9 words recurring (89), got %d", res.RedundancyDetected)
	}
	if res.ID == "" || res.Timestamp.IsZero() {
		t.Fatalf("expected id and timestamp to be set")
	}
	if res.CompressionTime < MinCompressionTime {
		t.Fatalf("expected time >= %d, got %d", MinCompressionTime, res.CompressionTime)
	}

	if _, err := tokencodec.ParsePayload([]byte(res.CompressedContent)); err != nil {
		t.Fatalf("result is not a valid payload: %v", err)
	}
}

func TestCompress_RoundTripWithPadding(t *testing.T) {
	c := NewCompressor(context.Background())
	ctx := context.Background()
	res, err := c.Compress(ctx, types.CompressionRequest{
		FileName: "notes.txt",
		Content:  []byte(sampleText),
		Target:   types.Target{Mode: types.TargetSize, Bytes: int64(len(sampleText)) * 2},
	})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if !res.Expanded || res.CompressionRatio != 1 || res.ActualRatio >= 0 {
		t.Fatalf("expected an honest expansion report, got %+v", res)
	}

	dec, err := c.Decompress(ctx, []byte(res.CompressedContent))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if got := strings.TrimRight(string(dec.Content), " "); got != sampleText {
		t.Fatalf("round trip mismatch")
	}
	if dec.FileName != "notes.txt" {
		t.Fatalf("expected file name from metadata, got %q", dec.FileName)
	}
}

func TestCompress_BinaryThroughDictionary(t *testing.T) {
	content := make([]byte, 512)
	for i := range content {
		content[i] = byte(255 - i%256)
	}

	c := NewCompressor(context.Background(), WithRouting(false))
	res, err := c.Compress(context.Background(), types.CompressionRequest{
		FileName: "blob.bin",
		Content:  content,
		Target:   types.Target{Mode: types.TargetSize, Bytes: 4096},
	})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	p, err := tokencodec.ParsePayload([]byte(res.CompressedContent))
	if err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if p.Metadata.ContentEncoding != "base64" {
		t.Fatalf("expected base64 content encoding, got %q", p.Metadata.ContentEncoding)
	}

	dec, err := c.Decompress(context.Background(), []byte(res.CompressedContent))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(dec.Content, content) {
		t.Fatalf("binary round trip mismatch")
	}
}

func TestCompress_EmptyContent(t *testing.T) {
	c := NewCompressor(context.Background())
	res, err := c.Compress(context.Background(), types.CompressionRequest{FileName: "empty.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OriginalSize != 0 || res.CompressionRatio < 1 || res.RedundancyDetected != 0 {
		t.Fatalf("unexpected result for empty input %+v", res)
	}
}

func TestCompress_DocumentRunLength(t *testing.T) {
	content := bytes.Repeat([]byte("A"), 1000)
	c := NewCompressor(context.Background())
	res, err := c.Compress(context.Background(), types.CompressionRequest{
		FileName: "report.pdf",
		Content:  content,
		Target:   types.Target{Mode: types.TargetQuality, Level: 50},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != types.MethodRunLength {
		t.Fatalf("expected rle, got %s", res.Method)
	}
	raw, err := base64.StdEncoding.DecodeString(res.CompressedContent)
	if err != nil {
		t.Fatalf("content is not base64: %v", err)
	}
	restored, err := mediacodec.ExpandRunLength(raw)
	if err != nil || !bytes.Equal(restored, content) {
		t.Fatalf("rle round trip failed: %v", err)
	}
}

func TestCompress_VideoPassthrough(t *testing.T) {
	content := []byte("pretend this is an mp4 stream")
	c := NewCompressor(context.Background())
	res, err := c.Compress(context.Background(), types.CompressionRequest{
		FileName: "clip.mp4",
		Content:  content,
		Target:   types.Target{Mode: types.TargetSize, Bytes: 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != types.MethodPassthrough || res.CompressedSize != int64(len(content)) {
		t.Fatalf("expected passthrough, got %+v", res)
	}
	if res.ActualRatio != 0 || res.CompressionRatio != 1 || res.Expanded {
		t.Fatalf("unexpected ratios %d / %d", res.ActualRatio, res.CompressionRatio)
	}
}

func TestCompress_Image(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 4), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("fixture: %v", err)
	}

	c := NewCompressor(context.Background())
	res, err := c.Compress(context.Background(), types.CompressionRequest{
		FileName: "pic.png",
		Content:  buf.Bytes(),
		Target:   types.Target{Mode: types.TargetQuality, Level: 60},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != types.MethodImage || res.MimeType != "image/jpeg" {
		t.Fatalf("expected jpeg image output, got %s / %s", res.Method, res.MimeType)
	}
}

func TestCompress_InvalidTarget(t *testing.T) {
	c := NewCompressor(context.Background())
	_, err := c.Compress(context.Background(), types.CompressionRequest{
		FileName: "a.txt",
		Content:  []byte("x"),
		Target:   types.Target{Mode: types.TargetQuality, Level: 150},
	})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestCompress_Baseline(t *testing.T) {
	c := NewCompressor(context.Background(), WithBaseline("zstd"), WithIncludeOriginal(true))
	res, err := c.Compress(context.Background(), types.CompressionRequest{FileName: "a.txt", Content: []byte(sampleText)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Baseline == nil || res.Baseline.Algorithm != "zstd" || res.Baseline.Size <= 0 {
		t.Fatalf("expected zstd baseline, got %+v", res.Baseline)
	}
	if res.OriginalContent != base64.StdEncoding.EncodeToString([]byte(sampleText)) {
		t.Fatalf("expected original content to be included")
	}
}

func TestProcess_SavesAndPublishes(t *testing.T) {
	store := &recordingStore{}
	good := &recordingPublisher{}
	bad := &recordingPublisher{err: errors.New("broker down")}

	c := NewCompressor(context.Background(), WithHistory(store), WithPublisher(good, nil, bad))
	res, err := c.Process(context.Background(), types.CompressionRequest{FileName: "a.txt", Content: []byte(sampleText)})
	if err != nil {
		t.Fatalf("publisher failure must not fail processing: %v", err)
	}

	if len(store.records) != 1 || store.records[0].ID != res.ID {
		t.Fatalf("expected record %s to be saved, got %+v", res.ID, store.records)
	}
	if string(store.records[0].Payload) != res.CompressedContent {
		t.Fatalf("expected payload to be stored")
	}
	if len(good.events) != 1 || good.events[0].ID != res.ID {
		t.Fatalf("expected one event for %s, got %+v", res.ID, good.events)
	}
	if len(bad.events) != 1 {
		t.Fatalf("expected failing publisher to still be called")
	}
}

func TestProcess_StoreFailureIsNotFatal(t *testing.T) {
	store := &recordingStore{err: errors.New("disk full")}
	c := NewCompressor(context.Background(), WithHistory(store))
	if _, err := c.Process(context.Background(), types.CompressionRequest{FileName: "a.txt", Content: []byte("hi")}); err != nil {
		t.Fatalf("store failure must not fail processing: %v", err)
	}
}

func TestDecompress_InvalidPayload(t *testing.T) {
	c := NewCompressor(context.Background())
	_, err := c.Decompress(context.Background(), []byte(`{"compressed":"x"}`))
	var fe *tokencodec.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %v", err)
	}
	if err.Error() != "invalid compressed file format" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestDecompress_BadBase64Content(t *testing.T) {
	c := NewCompressor(context.Background())
	payload := `{"version":"1.0","dictionary":[],"compressed":"!!!!","metadata":{"originalFileName":"a","compressionLevel":0,"timestamp":"2026-01-01T00:00:00Z","contentEncoding":"base64"}}`
	_, err := c.Decompress(context.Background(), []byte(payload))
	if !errors.Is(err, tokencodec.ErrInvalidFormat) {
		t.Fatalf("expected invalid format, got %v", err)
	}
}

func TestFrozenAfterUse(t *testing.T) {
	c := NewCompressor(context.Background())
	if _, err := c.Compress(context.Background(), types.CompressionRequest{FileName: "a.txt", Content: []byte("x")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when configuring a started compressor")
		}
	}()
	c.SetDictionarySize(10)
}
