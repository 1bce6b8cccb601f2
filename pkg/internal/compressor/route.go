package compressor

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/joeydtaylor/condenser/pkg/internal/convergence"
	"github.com/joeydtaylor/condenser/pkg/internal/mediacodec"
	"github.com/joeydtaylor/condenser/pkg/internal/tokencodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// job is one request after validation and target resolution.
type job struct {
	fileName string
	fileType types.FileType
	mimeType string
	content  []byte
	mode     types.TargetMode
	level    int
	target   int64
}

// encoded is the output of a strategy before statistics are assembled.
type encoded struct {
	method     types.CompressionMethod
	content    string // delivered form: payload JSON or base64 bytes
	size       int64
	mimeType   string
	table      *tokencodec.FrequencyTable
	iterations int
	converged  bool
	truncated  bool
	padded     bool
}

func (c *compressor) route(ctx context.Context, cfg pipelineConfig, j job) (encoded, error) {
	if !cfg.routing {
		return c.encodeDictionary(ctx, cfg, j)
	}
	switch j.fileType {
	case types.FileTypeImage:
		return c.encodeImage(ctx, cfg, j)
	case types.FileTypeDocument:
		return encodeRunLength(j), nil
	case types.FileTypeVideo, types.FileTypeAudio:
		return encodeBinary(j, types.MethodPassthrough, j.content, j.mimeType), nil
	default:
		return c.encodeDictionary(ctx, cfg, j)
	}
}

// base64LineLength splits base64 text into MIME-sized lines so the word codec sees tokens
// it can rank and the size fit has line boundaries to cut at.
const base64LineLength = 76

func chunkLines(s string, n int) string {
	if len(s) <= n {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/n)
	for len(s) > n {
		b.WriteString(s[:n])
		b.WriteByte('\n')
		s = s[n:]
	}
	b.WriteString(s)
	return b.String()
}

// encodeDictionary runs the word codec over the text, or over its base64 form when the
// bytes are not UTF-8, and fits the serialized payload to the target.
func (c *compressor) encodeDictionary(ctx context.Context, cfg pipelineConfig, j job) (encoded, error) {
	text := string(j.content)
	encoding := ""
	if !utf8.Valid(j.content) {
		text = chunkLines(base64.StdEncoding.EncodeToString(j.content), base64LineLength)
		encoding = "base64"
	}

	table := tokencodec.Analyze(text)
	dict := tokencodec.BuildDictionary(table, cfg.dictionarySize)
	coded := tokencodec.Encode(text, dict)

	meta := types.PayloadMetadata{
		OriginalFileName: j.fileName,
		CompressionLevel: j.level,
		Timestamp:        c.now().UTC(),
		ContentEncoding:  encoding,
	}
	if j.mode == types.TargetSize {
		target := j.target
		meta.TargetSize = &target
	}

	render := func(content string) ([]byte, error) {
		return tokencodec.MarshalPayload(tokencodec.NewPayload(dict, content, meta))
	}

	out, err := convergence.Fit(ctx, coded, j.target, render, convergence.FromSettings(cfg.convergence)...)
	if err != nil {
		return encoded{}, fmt.Errorf("fit payload to %d bytes: %w", j.target, err)
	}

	if !out.Converged {
		c.NotifyLoggers(types.DebugLevel, "Payload did not reach target size",
			"component", c.componentMetadata,
			"event", "Convergence",
			"file", j.fileName,
			"target", j.target,
			"size", out.Size,
			"iterations", out.Iterations,
			"hit_floor", out.HitFloor,
			"hit_pad_cap", out.HitPadCap,
		)
	}

	return encoded{
		method:     types.MethodDictionary,
		content:    string(out.Serialized),
		size:       out.Size,
		mimeType:   "application/json",
		table:      &table,
		iterations: out.Iterations,
		converged:  out.Converged,
		truncated:  out.Truncated,
		padded:     out.Padded,
	}, nil
}

func (c *compressor) encodeImage(ctx context.Context, cfg pipelineConfig, j job) (encoded, error) {
	opts := mediacodec.ImageOptions{
		Quality:      mediacodec.ClampQuality(1 - float64(j.level)/100),
		Format:       cfg.imageFormat,
		OriginalMime: j.mimeType,
	}
	if j.mode == types.TargetSize {
		opts.TargetBytes = j.target
	}

	res, err := mediacodec.CompressImage(ctx, j.content, opts)
	if err != nil {
		return encoded{}, fmt.Errorf("compress image: %w", err)
	}

	method := types.MethodImage
	if res.Subsampled {
		method = types.MethodSubsample
		c.NotifyLoggers(types.WarnLevel, "Image could not be decoded, subsampled instead",
			"component", c.componentMetadata, "event", "ImageFallback", "file", j.fileName)
	}
	out := encodeBinary(j, method, res.Data, res.MimeType)
	out.iterations = res.Iterations
	return out, nil
}

func encodeRunLength(j job) encoded {
	data, applied := mediacodec.RunLength(j.content)
	method := types.MethodRunLength
	if !applied {
		method = types.MethodNone
	}
	return encodeBinary(j, method, data, j.mimeType)
}

func encodeBinary(j job, method types.CompressionMethod, data []byte, mimeType string) encoded {
	size := int64(len(data))
	return encoded{
		method:    method,
		content:   base64.StdEncoding.EncodeToString(data),
		size:      size,
		mimeType:  mimeType,
		converged: convergence.Within(size, j.target),
	}
}
