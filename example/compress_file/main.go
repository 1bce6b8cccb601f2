package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joeydtaylor/condenser/pkg/builder"
)

func main() {
	var (
		level    = flag.Int("level", 50, "target compression level (1-100)")
		size     = flag.Int64("size", 0, "target output size in bytes; overrides -level")
		baseline = flag.String("baseline", "zstd", "block codec to compare against (none, deflate, snappy, zstd, brotli, lz4)")
		out      = flag.String("out", "", "write the compressed payload to this file")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: compress_file [flags] <file>")
	}
	path := flag.Arg(0)

	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	ctx := context.Background()
	logger := builder.NewLogger(builder.LoggerWithLevel("warn"), builder.LoggerWithDevelopment(true))

	compressor := builder.NewCompressor(ctx,
		builder.CompressorWithLogger(logger),
		builder.CompressorWithBaseline(*baseline),
	)

	target := builder.QualityTarget(*level)
	if *size > 0 {
		target = builder.SizeTarget(*size)
	}

	res, err := compressor.Compress(ctx, builder.CompressionRequest{
		FileName: filepath.Base(path),
		Content:  content,
		Target:   target,
	})
	if err != nil {
		log.Fatalf("compress: %v", err)
	}

	fmt.Printf("file:        %s (%s)\n", res.FileName, res.FileType)
	fmt.Printf("method:      %s\n", res.Method)
	fmt.Printf("size:        %d -> %d bytes\n", res.OriginalSize, res.CompressedSize)
	fmt.Printf("ratio:       %d%% (actual %d%%, expanded=%v)\n", res.CompressionRatio, res.ActualRatio, res.Expanded)
	fmt.Printf("redundancy:  %d%%\n", res.RedundancyDetected)
	fmt.Printf("iterations:  %d (converged=%v)\n", res.Iterations, res.Converged)
	if res.Baseline != nil {
		fmt.Printf("baseline:    %s %d bytes (%d%%)\n", res.Baseline.Algorithm, res.Baseline.Size, res.Baseline.Ratio)
	}

	if *out != "" {
		if err := os.WriteFile(*out, []byte(res.CompressedContent), 0o644); err != nil {
			log.Fatalf("write %s: %v", *out, err)
		}
	}

	restored, err := compressor.Restore(ctx, res)
	if errors.Is(err, builder.ErrLossyResult) {
		fmt.Printf("round trip:  skipped (%s is lossy)\n", res.Method)
		return
	}
	if err != nil {
		log.Fatalf("restore: %v", err)
	}
	if err := builder.CheckRestored(content, restored.Content, res); err != nil {
		log.Fatalf("round trip: %v (restored %d bytes, original %d)", err, len(restored.Content), len(content))
	}
	switch {
	case res.Truncated:
		fmt.Printf("round trip:  ok, %d of %d bytes kept by the size fit\n", len(bytes.TrimRight(restored.Content, " ")), len(content))
	case res.Padded:
		fmt.Printf("round trip:  ok, exact after trimming padding\n")
	default:
		fmt.Printf("round trip:  ok, exact\n")
	}

	if res.Method != builder.MethodDictionary {
		return
	}
	if payload, err := builder.ParsePayload([]byte(res.CompressedContent)); err == nil {
		fmt.Printf("dictionary:  %d entries\n", len(payload.Dictionary))
	}
}
