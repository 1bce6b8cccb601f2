package compressor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joeydtaylor/condenser/pkg/internal/tokencodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// proseText has a long tail of words that miss the dictionary so truncation cuts real text.
func proseText() string {
	words := strings.Fields("alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima " +
		"mike november oscar papa quebec romeo sierra tango uniform victor whiskey xray yankee zulu")
	var b strings.Builder
	for i := 0; b.Len() < 10000; i++ {
		b.WriteString(words[(i*7+i/5)%len(words)])
		b.WriteString(strings.Repeat("x", i%4))
		if i%13 == 12 {
			b.WriteString(".\n")
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func TestRestore_DictionaryAtQualityLevels(t *testing.T) {
	ctx := context.Background()
	for _, text := range []string{sampleText, proseText()} {
		for _, level := range []int{0, 50, 90} {
			c := NewCompressor(ctx)
			res, err := c.Compress(ctx, types.CompressionRequest{
				FileName: "notes.txt",
				Content:  []byte(text),
				Target:   types.Target{Mode: types.TargetQuality, Level: level},
			})
			if err != nil {
				t.Fatalf("level %d: compress: %v", level, err)
			}
			if level == 50 && !res.Truncated {
				t.Fatalf("level 50: expected the size fit to truncate, got %+v", res)
			}

			restored, err := c.Restore(ctx, res)
			if err != nil {
				t.Fatalf("level %d: restore: %v", level, err)
			}
			if err := CheckRestored([]byte(text), restored.Content, res); err != nil {
				t.Fatalf("level %d: expected restored content to check out (truncated=%v padded=%v), got %v",
					level, res.Truncated, res.Padded, err)
			}
		}
	}
}

func TestRestore_PaddedIsExactAfterTrim(t *testing.T) {
	ctx := context.Background()
	c := NewCompressor(ctx)
	res, err := c.Compress(ctx, types.CompressionRequest{
		FileName: "notes.txt",
		Content:  []byte(sampleText),
		Target:   types.Target{Mode: types.TargetSize, Bytes: int64(len(sampleText)) * 3},
	})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if !res.Padded || res.Truncated {
		t.Fatalf("expected padding only, got truncated=%v padded=%v", res.Truncated, res.Padded)
	}
	restored, err := c.Restore(ctx, res)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if string(bytes.TrimRight(restored.Content, " ")) != sampleText {
		t.Fatalf("expected exact content after trimming padding")
	}
}

func TestCheckRestored(t *testing.T) {
	original := []byte("the quick brown fox")
	exact := types.CompressionResult{Method: types.MethodDictionary}
	cut := types.CompressionResult{Method: types.MethodDictionary, Truncated: true}
	rle := types.CompressionResult{Method: types.MethodRunLength}

	cases := []struct {
		name     string
		restored string
		res      types.CompressionResult
		ok       bool
	}{
		{"exact", "the quick brown fox", exact, true},
		{"padded", "the quick brown fox   ", exact, true},
		{"missing tail", "the quick brown", exact, false},
		{"truncated prefix", "the quick ", cut, true},
		{"truncated mid token", "the quick br[1", cut, true},
		{"truncated foreign text", "a quick brown", cut, false},
		{"binary exact", "the quick brown fox", rle, true},
		{"binary padded", "the quick brown fox ", rle, false},
	}
	for _, tc := range cases {
		err := CheckRestored(original, []byte(tc.restored), tc.res)
		if tc.ok && err != nil {
			t.Fatalf("%s: expected ok, got %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrRoundTripMismatch) {
			t.Fatalf("%s: expected ErrRoundTripMismatch, got %v", tc.name, err)
		}
	}
}

func TestRestore_RunLengthDocument(t *testing.T) {
	ctx := context.Background()
	content := append(bytes.Repeat([]byte("A"), 600), []byte("tail\xff\xff")...)
	c := NewCompressor(ctx)
	res, err := c.Compress(ctx, types.CompressionRequest{FileName: "report.pdf", Content: content})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if res.Method != types.MethodRunLength {
		t.Fatalf("expected rle, got %s", res.Method)
	}
	restored, err := c.Restore(ctx, res)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !bytes.Equal(restored.Content, content) || restored.FileName != "report.pdf" {
		t.Fatalf("expected rle document restored exactly")
	}
}

func TestRestore_PassthroughAndLossy(t *testing.T) {
	ctx := context.Background()
	c := NewCompressor(ctx)
	content := []byte("pretend this is an mp4 stream")
	res, err := c.Compress(ctx, types.CompressionRequest{FileName: "clip.mp4", Content: content})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	restored, err := c.Restore(ctx, res)
	if err != nil || !bytes.Equal(restored.Content, content) {
		t.Fatalf("expected passthrough restored, got %v", err)
	}

	if _, err := c.Restore(ctx, types.CompressionResult{Method: types.MethodImage}); !errors.Is(err, ErrLossyResult) {
		t.Fatalf("expected ErrLossyResult for images, got %v", err)
	}
	if _, err := c.Restore(ctx, types.CompressionResult{Method: types.MethodRunLength, CompressedContent: "!!"}); !errors.Is(err, tokencodec.ErrInvalidFormat) {
		t.Fatalf("expected invalid format for bad content, got %v", err)
	}
}

func TestCompress_BinaryIsSplitIntoLines(t *testing.T) {
	ctx := context.Background()
	content := make([]byte, 4096)
	for i := range content {
		content[i] = byte(255 - (i*31+i/7)%256)
	}

	c := NewCompressor(ctx, WithRouting(false))
	res, err := c.Compress(ctx, types.CompressionRequest{
		FileName: "blob.bin",
		Content:  content,
		Target:   types.Target{Mode: types.TargetQuality, Level: 90},
	})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	p, err := tokencodec.ParsePayload([]byte(res.CompressedContent))
	if err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if len(p.Dictionary) < 2 {
		t.Fatalf("expected base64 lines to become separate dictionary words, got %d entries", len(p.Dictionary))
	}
	if !res.Truncated {
		t.Fatalf("expected a 90%% target to truncate the coded lines")
	}

	restored, err := c.Restore(ctx, res)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(restored.Content) >= len(content) {
		t.Fatalf("expected a truncated prefix, got %d of %d bytes", len(restored.Content), len(content))
	}
	if err := CheckRestored(content, restored.Content, res); err != nil {
		t.Fatalf("expected restored bytes to be a prefix of the upload: %v", err)
	}
}

func TestDecodeBase64Content_DropsCutCode(t *testing.T) {
	got, err := decodeBase64Content("aGVsbG8g\nd29ybGQ=\n[1")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got) != "hello world" {
		t.Fatalf("expected %q, got %q", "hello world", got)
	}
}

func TestCompressor_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCompressor(ctx)
	cancel()

	if _, err := c.Compress(context.Background(), types.CompressionRequest{FileName: "a.txt", Content: []byte("x")}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if _, err := c.Decompress(context.Background(), []byte(`{}`)); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped from Decompress, got %v", err)
	}
}
