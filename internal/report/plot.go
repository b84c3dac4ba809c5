package report

import (
	"math"
	"time"

	"github.com/skysupport/temp-qc/internal/domain"
)

// PlotSeries is the numeric material handed to an external plotting
// collaborator: one aligned sample per record, before and after cleaning.
// Slots without an original value carry NaN in Original.
type PlotSeries struct {
	Timestamps []time.Time
	Original   []float64
	Cleaned    []float64
}

// BuildPlotSeries aligns the post-detection snapshot with the final record
// set. Both sets come from the same run, so they share length and order.
func BuildPlotSeries(flagged, final *domain.RecordSet) PlotSeries {
	n := flagged.Len()
	ps := PlotSeries{
		Timestamps: make([]time.Time, n),
		Original:   make([]float64, n),
		Cleaned:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		ps.Timestamps[i] = flagged.Records[i].Timestamp
		if flagged.Records[i].HasValue() {
			ps.Original[i] = flagged.Records[i].Value
		} else {
			ps.Original[i] = math.NaN()
		}
		ps.Cleaned[i] = final.Records[i].Value
	}
	return ps
}
