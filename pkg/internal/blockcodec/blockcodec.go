// Package blockcodec wraps the general purpose block compressors used to store payloads at
// rest and to measure how a real codec does on an upload.
package blockcodec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Algorithm names a block codec.
type Algorithm string

const (
	None    Algorithm = "none"
	Deflate Algorithm = "deflate"
	Snappy  Algorithm = "snappy"
	Zstd    Algorithm = "zstd"
	Brotli  Algorithm = "brotli"
	LZ4     Algorithm = "lz4"
)

// frame tags, one leading byte per sealed blob.
var tags = map[Algorithm]byte{None: 0, Deflate: 1, Snappy: 2, Zstd: 3, Brotli: 4, LZ4: 5}

var (
	ErrUnknownAlgorithm = errors.New("blockcodec: unknown algorithm")
	ErrEmptyFrame       = errors.New("blockcodec: empty frame")
)

// Algorithms lists every supported codec except None.
func Algorithms() []Algorithm {
	return []Algorithm{Deflate, Snappy, Zstd, Brotli, LZ4}
}

// ParseAlgorithm maps a user supplied name onto an Algorithm. "" and "none" are None,
// "gzip" is an alias of Deflate.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "deflate", "gzip":
		return Deflate, nil
	case "snappy":
		return Snappy, nil
	case "zstd":
		return Zstd, nil
	case "brotli":
		return Brotli, nil
	case "lz4":
		return LZ4, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Compress encodes data with alg. None returns data as is.
func Compress(data []byte, alg Algorithm) ([]byte, error) {
	var b bytes.Buffer
	var w io.WriteCloser

	switch alg {
	case None:
		return data, nil
	case Deflate:
		w = gzip.NewWriter(&b)
	case Snappy:
		w = snappy.NewBufferedWriter(&b)
	case Zstd:
		var err error
		w, err = zstd.NewWriter(&b)
		if err != nil {
			return nil, err
		}
	case Brotli:
		w = brotli.NewWriterLevel(&b, brotli.BestCompression)
	case LZ4:
		w = lz4.NewWriter(&b)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte, alg Algorithm) ([]byte, error) {
	var r io.Reader

	switch alg {
	case None:
		return data, nil
	case Deflate:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		r = gr
	case Snappy:
		r = snappy.NewReader(bytes.NewReader(data))
	case Zstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case Brotli:
		r = brotli.NewReader(bytes.NewReader(data))
	case LZ4:
		r = lz4.NewReader(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}

	var b bytes.Buffer
	if _, err := io.Copy(&b, r); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Seal compresses data and prefixes the algorithm tag so Open needs no configuration.
func Seal(data []byte, alg Algorithm) ([]byte, error) {
	tag, ok := tags[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
	body, err := Compress(data, alg)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, tag)
	return append(out, body...), nil
}

// Open reverses Seal.
func Open(frame []byte) ([]byte, error) {
	if len(frame) == 0 {
		return nil, ErrEmptyFrame
	}
	for alg, tag := range tags {
		if tag == frame[0] {
			return Decompress(frame[1:], alg)
		}
	}
	return nil, fmt.Errorf("%w: tag %d", ErrUnknownAlgorithm, frame[0])
}

// Baseline compresses data with alg and reports the size it reached. Ratio is the signed
// percentage saved; an empty input reports 0.
func Baseline(data []byte, alg Algorithm) (types.Baseline, error) {
	out, err := Compress(data, alg)
	if err != nil {
		return types.Baseline{}, err
	}
	b := types.Baseline{Algorithm: string(alg), Size: int64(len(out))}
	if len(data) > 0 {
		b.Ratio = int(math.Round(float64(len(data)-len(out)) / float64(len(data)) * 100))
	}
	return b, nil
}
