package blockcodec

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

var sample = []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200))

func TestCompressDecompress_AllAlgorithms(t *testing.T) {
	for _, alg := range append(Algorithms(), None) {
		enc, err := Compress(sample, alg)
		if err != nil {
			t.Fatalf("%s compress: %v", alg, err)
		}
		if alg != None && len(enc) >= len(sample) {
			t.Fatalf("%s: expected smaller output, got %d >= %d", alg, len(enc), len(sample))
		}
		dec, err := Decompress(enc, alg)
		if err != nil {
			t.Fatalf("%s decompress: %v", alg, err)
		}
		if !bytes.Equal(dec, sample) {
			t.Fatalf("%s: round trip mismatch", alg)
		}
	}
}

func TestCompress_UnknownAlgorithm(t *testing.T) {
	if _, err := Compress(sample, Algorithm("rot13")); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
	if _, err := Decompress(sample, Algorithm("rot13")); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestDecompress_CorruptInput(t *testing.T) {
	if _, err := Decompress([]byte("definitely not gzip"), Deflate); err == nil {
		t.Fatalf("expected an error for corrupt gzip input")
	}
}

func TestParseAlgorithm(t *testing.T) {
	cases := map[string]Algorithm{
		"":        None,
		"none":    None,
		" GZIP ":  Deflate,
		"deflate": Deflate,
		"snappy":  Snappy,
		"Zstd":    Zstd,
		"brotli":  Brotli,
		"lz4":     LZ4,
	}
	for in, want := range cases {
		got, err := ParseAlgorithm(in)
		if err != nil || got != want {
			t.Fatalf("ParseAlgorithm(%q): expected %s, got %s (%v)", in, want, got, err)
		}
	}
	if _, err := ParseAlgorithm("bzip2"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestSealOpen(t *testing.T) {
	for _, alg := range append(Algorithms(), None) {
		frame, err := Seal(sample, alg)
		if err != nil {
			t.Fatalf("%s seal: %v", alg, err)
		}
		if frame[0] != tags[alg] {
			t.Fatalf("%s: expected tag %d, got %d", alg, tags[alg], frame[0])
		}
		got, err := Open(frame)
		if err != nil {
			t.Fatalf("%s open: %v", alg, err)
		}
		if !bytes.Equal(got, sample) {
			t.Fatalf("%s: sealed round trip mismatch", alg)
		}
	}

	if _, err := Open(nil); !errors.Is(err, ErrEmptyFrame) {
		t.Fatalf("expected ErrEmptyFrame, got %v", err)
	}
	if _, err := Open([]byte{42, 1, 2}); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm for bad tag, got %v", err)
	}
}

func TestBaseline(t *testing.T) {
	b, err := Baseline(sample, Zstd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Algorithm != "zstd" || b.Size <= 0 || b.Ratio <= 50 {
		t.Fatalf("unexpected baseline %+v", b)
	}

	empty, err := Baseline(nil, Snappy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Ratio != 0 {
		t.Fatalf("expected ratio 0 for empty input, got %d", empty.Ratio)
	}
}
