// Package mediacodec holds the byte-level strategies used for images and documents.
package mediacodec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
)

const (
	DefaultMaxDimension   = 4096
	DefaultImageTolerance = 1024
	MaxImageIterations    = 10
	MinImageQuality       = 0.1
	MaxImageQuality       = 1.0
)

// Output formats accepted by CompressImage.
const (
	FormatJPEG     = "jpeg"
	FormatPNG      = "png"
	FormatOriginal = "original"
)

var ErrUnsupportedFormat = errors.New("mediacodec: unsupported image format")

// ImageOptions controls CompressImage. Quality is in [0.1, 1]; TargetBytes <= 0 disables
// the quality search.
type ImageOptions struct {
	Quality      float64
	TargetBytes  int64
	Format       string
	MaxWidth     int
	MaxHeight    int
	OriginalMime string
}

// ImageResult is the re-encoded image, or the subsampled bytes when decoding failed.
type ImageResult struct {
	Data       []byte
	MimeType   string
	Width      int
	Height     int
	Quality    float64
	Iterations int
	Subsampled bool
}

// CompressImage decodes data, shrinks it to fit the maximum dimensions and re-encodes it.
// With a byte target the JPEG quality is searched: x0.8 when over, x1.1 when under, until
// within DefaultImageTolerance bytes or MaxImageIterations. Undecodable input is stride
// subsampled instead.
func CompressImage(ctx context.Context, data []byte, opts ImageOptions) (ImageResult, error) {
	q := ClampQuality(opts.Quality)

	img, srcFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ImageResult{
			Data:       Subsample(data, q),
			MimeType:   opts.OriginalMime,
			Quality:    q,
			Subsampled: true,
		}, nil
	}

	maxW, maxH := opts.MaxWidth, opts.MaxHeight
	if maxW <= 0 {
		maxW = DefaultMaxDimension
	}
	if maxH <= 0 {
		maxH = DefaultMaxDimension
	}
	img = fit(img, maxW, maxH)
	b := img.Bounds()

	format := opts.Format
	if format == "" {
		format = FormatJPEG
	}
	if format == FormatOriginal {
		format = srcFormat
	}

	res := ImageResult{Width: b.Dx(), Height: b.Dy(), Quality: q}

	switch format {
	case FormatJPEG:
		res.MimeType = "image/jpeg"
		out, err := encodeJPEG(img, q)
		if err != nil {
			return ImageResult{}, err
		}
		for opts.TargetBytes > 0 && res.Iterations < MaxImageIterations {
			size := int64(len(out))
			if abs64(size-opts.TargetBytes) < DefaultImageTolerance {
				break
			}
			if err := ctx.Err(); err != nil {
				return ImageResult{}, err
			}
			next := q * 1.1
			if size > opts.TargetBytes {
				next = q * 0.8
			}
			next = ClampQuality(next)
			if next == q {
				break
			}
			q = next
			if out, err = encodeJPEG(img, q); err != nil {
				return ImageResult{}, err
			}
			res.Iterations++
		}
		res.Data, res.Quality = out, q

	case FormatPNG:
		res.MimeType = "image/png"
		var buf bytes.Buffer
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return ImageResult{}, fmt.Errorf("encode png: %w", err)
		}
		res.Data = buf.Bytes()

	case "gif":
		res.MimeType = "image/gif"
		var buf bytes.Buffer
		if err := gif.Encode(&buf, img, nil); err != nil {
			return ImageResult{}, fmt.Errorf("encode gif: %w", err)
		}
		res.Data = buf.Bytes()

	default:
		return ImageResult{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return res, nil
}

// ClampQuality limits q to [MinImageQuality, MaxImageQuality]. NaN maps to the maximum.
func ClampQuality(q float64) float64 {
	if math.IsNaN(q) || q > MaxImageQuality {
		return MaxImageQuality
	}
	if q < MinImageQuality {
		return MinImageQuality
	}
	return q
}

// Subsample keeps round(len*(0.3+0.7q)) bytes sampled at an even stride.
func Subsample(data []byte, q float64) []byte {
	q = ClampQuality(q)
	n := int(math.Round(float64(len(data)) * (0.3 + q*0.7)))
	if n >= len(data) {
		out := make([]byte, len(data))
		copy(out, data)
		return out
	}
	out := make([]byte, n)
	step := float64(len(data)) / float64(n)
	for i := range out {
		out[i] = data[int(math.Floor(float64(i)*step))]
	}
	return out
}

func encodeJPEG(img image.Image, q float64) ([]byte, error) {
	quality := int(math.Round(q * 100))
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales img down with nearest-neighbour sampling so it fits within maxW x maxH.
func fit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return img
	}
	ratio := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := int(math.Max(1, math.Round(float64(w)*ratio)))
	nh := int(math.Max(1, math.Round(float64(h)*ratio)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	for y := 0; y < nh; y++ {
		sy := b.Min.Y + y*h/nh
		for x := 0; x < nw; x++ {
			sx := b.Min.X + x*w/nw
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
