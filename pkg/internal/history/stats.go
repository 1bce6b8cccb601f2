package history

import (
	"math"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ComputeStats aggregates recs. Space saved is signed: expanded files count against it.
func ComputeStats(recs []types.HistoryRecord) types.Stats {
	if len(recs) == 0 {
		return types.Stats{}
	}

	ratios := make([]float64, len(recs))
	orig := make([]float64, len(recs))
	comp := make([]float64, len(recs))
	for i, r := range recs {
		ratios[i] = float64(r.CompressionRatio)
		orig[i] = float64(r.OriginalSize)
		comp[i] = float64(r.CompressedSize)
	}

	st := types.Stats{
		TotalFiles:          len(recs),
		AverageRatio:        math.Round(stat.Mean(ratios, nil)*10) / 10,
		TotalOriginalSize:   int64(floats.Sum(orig)),
		TotalCompressedSize: int64(floats.Sum(comp)),
	}
	st.TotalSpaceSaved = st.TotalOriginalSize - st.TotalCompressedSize
	if st.TotalOriginalSize > 0 {
		st.SavedPercent = math.Round(float64(st.TotalSpaceSaved) / float64(st.TotalOriginalSize) * 100)
	}
	return st
}
