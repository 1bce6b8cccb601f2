package compressor

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/joeydtaylor/condenser/pkg/internal/tokencodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// Decompress restores the content of a dictionary payload. Malformed payloads yield a
// *tokencodec.FormatError.
func (c *compressor) Decompress(ctx context.Context, payload []byte) (types.DecompressionResult, error) {
	c.freeze()
	if err := c.checkRunning(); err != nil {
		return types.DecompressionResult{}, err
	}

	if err := ctx.Err(); err != nil {
		return types.DecompressionResult{}, err
	}

	text, p, legacy, err := tokencodec.Unpack(payload)
	if err != nil {
		c.NotifyLoggers(types.WarnLevel, "Rejected payload",
			"component", c.componentMetadata, "event", "Decompress", "result", "rejected", "error", err)
		return types.DecompressionResult{}, err
	}

	content := []byte(text)
	if p.Metadata.ContentEncoding == "base64" {
		content, err = decodeBase64Content(text)
		if err != nil {
			ferr := tokencodec.NewFormatError("content is not valid base64", err)
			c.NotifyLoggers(types.WarnLevel, "Rejected payload",
				"component", c.componentMetadata, "event", "Decompress", "result", "rejected", "error", ferr)
			return types.DecompressionResult{}, ferr
		}
	}

	c.NotifyLoggers(types.DebugLevel, "Decompressed payload",
		"component", c.componentMetadata,
		"event", "Decompress",
		"result", "ok",
		"file", p.Metadata.OriginalFileName,
		"legacy", legacy,
		"size", len(content),
	)

	return types.DecompressionResult{
		FileName: p.Metadata.OriginalFileName,
		Content:  content,
		Legacy:   legacy,
	}, nil
}

// decodeBase64Content reverses the line-split base64 form a binary upload was coded in.
// Padding spaces, a final line left holding a cut dictionary code and a partial trailing
// quantum are all products of size fitting and are dropped.
func decodeBase64Content(text string) ([]byte, error) {
	lines := strings.Split(strings.TrimRight(text, " "), "\n")
	if strings.HasPrefix(lines[len(lines)-1], "[") {
		lines = lines[:len(lines)-1]
	}
	joined := strings.Join(lines, "")
	joined = joined[:len(joined)/4*4]
	return base64.StdEncoding.DecodeString(joined)
}
