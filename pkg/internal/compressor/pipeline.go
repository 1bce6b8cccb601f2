package compressor

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
	"github.com/joeydtaylor/condenser/pkg/internal/blockcodec"
	"github.com/joeydtaylor/condenser/pkg/internal/filetype"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// DefaultFileName names uploads that arrive without one.
const DefaultFileName = "untitled"

// Compress produces the result for req. It only logs; nothing is stored or published.
func (c *compressor) Compress(ctx context.Context, req types.CompressionRequest) (types.CompressionResult, error) {
	c.freeze()
	if err := c.checkRunning(); err != nil {
		return types.CompressionResult{}, err
	}
	cfg := c.snapshotConfig()
	start := c.now()

	j, err := c.prepare(req)
	if err != nil {
		c.NotifyLoggers(types.WarnLevel, "Rejected compression request",
			"component", c.componentMetadata, "event", "Compress", "result", "rejected", "error", err)
		return types.CompressionResult{}, err
	}

	enc, err := c.route(ctx, cfg, j)
	if err != nil {
		c.NotifyLoggers(types.ErrorLevel, "Compression failed",
			"component", c.componentMetadata, "event", "Compress", "result", "failed",
			"file", j.fileName, "error", err)
		return types.CompressionResult{}, err
	}

	res := AssembleResult(Measurement{
		OriginalSize:   int64(len(j.content)),
		CompressedSize: enc.size,
		Elapsed:        c.now().Sub(start),
		Mode:           j.mode,
		Level:          j.level,
		Table:          enc.table,
	})
	res.ID = uuid.NewString()
	res.FileName = j.fileName
	res.FileType = j.fileType
	res.MimeType = enc.mimeType
	res.Method = enc.method
	res.TargetSize = j.target
	res.Iterations = enc.iterations
	res.Converged = enc.converged
	res.Truncated = enc.truncated
	res.Padded = enc.padded
	res.CompressedContent = enc.content
	res.Timestamp = c.now().UTC()
	if cfg.includeOriginal {
		res.OriginalContent = base64.StdEncoding.EncodeToString(j.content)
	}

	if cfg.baseline != blockcodec.None {
		b, err := blockcodec.Baseline(j.content, cfg.baseline)
		if err != nil {
			c.NotifyLoggers(types.WarnLevel, "Baseline codec failed",
				"component", c.componentMetadata, "event", "Baseline", "error", err)
		} else {
			res.Baseline = &b
		}
	}

	c.NotifyLoggers(types.InfoLevel, "Compressed file",
		"component", c.componentMetadata,
		"event", "Compress",
		"result", "ok",
		"file", res.FileName,
		"request_id", res.ID,
		"method", string(res.Method),
		"original_size", res.OriginalSize,
		"compressed_size", res.CompressedSize,
		"ratio", res.CompressionRatio,
		"actual_ratio", res.ActualRatio,
		"converged", res.Converged,
	)
	return res, nil
}

// Process compresses req, saves the record and publishes the event. Store and publisher
// failures are logged and do not fail the call.
func (c *compressor) Process(ctx context.Context, req types.CompressionRequest) (types.CompressionResult, error) {
	res, err := c.Compress(ctx, req)
	if err != nil {
		return res, err
	}

	store, publishers := c.snapshotCollaborators()

	if store != nil {
		if err := store.Save(ctx, Record(res)); err != nil {
			c.NotifyLoggers(types.ErrorLevel, "Failed to save history record",
				"component", c.componentMetadata, "event", "SaveHistory", "request_id", res.ID, "error", err)
		}
	}

	evt := Event(res)
	for _, p := range publishers {
		if err := p.Publish(ctx, evt); err != nil {
			c.NotifyLoggers(types.ErrorLevel, "Failed to publish compression event",
				"component", c.componentMetadata, "event", "Publish", "request_id", res.ID, "error", err)
		}
	}

	return res, nil
}

func (c *compressor) prepare(req types.CompressionRequest) (job, error) {
	name := strings.TrimSpace(req.FileName)
	if name == "" {
		name = DefaultFileName
	}
	mimeType := strings.TrimSpace(req.MimeType)
	if mimeType == "" {
		mimeType = filetype.MimeType(name)
	}

	target, level, err := ResolveTarget(req.Target, int64(len(req.Content)))
	if err != nil {
		return job{}, err
	}
	mode := req.Target.Mode
	if mode == "" {
		mode = types.TargetQuality
		if req.Target.Bytes > 0 {
			mode = types.TargetSize
		}
	}

	return job{
		fileName: name,
		fileType: filetype.Detect(name, req.MimeType),
		mimeType: mimeType,
		content:  req.Content,
		mode:     mode,
		level:    level,
		target:   target,
	}, nil
}
