package history

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"github.com/parquet-go/parquet-go"
)

// ExportRow is the parquet schema of a history export. Payloads are not exported.
type ExportRow struct {
	ID               string `parquet:"id"`
	FileName         string `parquet:"file_name"`
	FileType         string `parquet:"file_type"`
	Method           string `parquet:"compression_method"`
	OriginalSize     int64  `parquet:"original_size"`
	CompressedSize   int64  `parquet:"compressed_size"`
	CompressionRatio int64  `parquet:"compression_ratio"`
	Expanded         bool   `parquet:"expanded"`
	CreatedAtMillis  int64  `parquet:"created_at_ms"`
}

func toRow(r types.HistoryRecord) ExportRow {
	return ExportRow{
		ID:               r.ID,
		FileName:         r.FileName,
		FileType:         string(r.FileType),
		Method:           string(r.Method),
		OriginalSize:     r.OriginalSize,
		CompressedSize:   r.CompressedSize,
		CompressionRatio: int64(r.CompressionRatio),
		Expanded:         r.Expanded,
		CreatedAtMillis:  r.CreatedAt.UnixMilli(),
	}
}

// Record converts a row back to a record without payload.
func (row ExportRow) Record() types.HistoryRecord {
	return types.HistoryRecord{
		ID:               row.ID,
		FileName:         row.FileName,
		FileType:         types.FileType(row.FileType),
		Method:           types.CompressionMethod(row.Method),
		OriginalSize:     row.OriginalSize,
		CompressedSize:   row.CompressedSize,
		CompressionRatio: int(row.CompressionRatio),
		Expanded:         row.Expanded,
		CreatedAt:        time.UnixMilli(row.CreatedAtMillis).UTC(),
	}
}

// ExportParquet writes recs to w as a snappy-compressed parquet file.
func ExportParquet(w io.Writer, recs []types.HistoryRecord) error {
	pw := parquet.NewGenericWriter[ExportRow](w, parquet.Compression(&parquet.Snappy))

	rows := make([]ExportRow, len(recs))
	for i, r := range recs {
		rows[i] = toRow(r)
	}
	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			_ = pw.Close()
			return fmt.Errorf("parquet write: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("parquet close: %w", err)
	}
	return nil
}

// ReadParquet reads an export produced by ExportParquet.
func ReadParquet(ra io.ReaderAt) ([]ExportRow, error) {
	gr := parquet.NewGenericReader[ExportRow](ra)
	defer gr.Close()

	out := make([]ExportRow, 0, 256)
	batch := make([]ExportRow, 256)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			out = append(out, batch[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
