package report_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysupport/temp-qc/internal/domain"
	"github.com/skysupport/temp-qc/internal/report"
)

const testRunID = "run-0001"

// cleanedSets runs detection and imputation over a fixture series and returns
// the post-detection snapshot plus the final set.
func cleanedSets(t *testing.T) (flagged, final *domain.RecordSet, thr domain.Thresholds, gaps domain.GapStats) {
	t.Helper()

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	records := make([]domain.Record, 8)
	vals := []float64{10, 12, 11, 1000, 13, 9, math.NaN(), 8}
	for i, v := range vals {
		records[i] = domain.Record{Timestamp: start.Add(time.Duration(i) * time.Hour)}
		if !math.IsNaN(v) {
			records[i].Value = v
			records[i].Valid = true
		}
	}
	rs := domain.NewRecordSet("temperature", records)

	det, err := domain.NewThreeSigmaDetector(3)
	require.NoError(t, err)
	thr = det.Detect(rs)
	flagged = rs.Clone()

	imp, err := domain.NewLinearImputer(domain.MethodLinear)
	require.NoError(t, err)
	gaps, err = imp.Impute(rs)
	require.NoError(t, err)

	norm, err := domain.NewNormalizer(domain.MethodZScore)
	require.NoError(t, err)
	norm.Normalize(rs)

	return flagged, rs, thr, gaps
}

func TestNewGenerator(t *testing.T) {
	for _, format := range []string{"text", "json", "markdown"} {
		t.Run(format, func(t *testing.T) {
			g, err := report.NewGenerator(format)
			require.NoError(t, err)
			assert.Equal(t, report.Format(format), g.Format())
		})
	}

	t.Run("unknown format rejected", func(t *testing.T) {
		_, err := report.NewGenerator("pdf")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}

func TestGenerator_Report_Text(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.March, 1, 8, 30, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	flagged, final, thr, gaps := cleanedSets(t)
	g, err := report.NewGenerator("text")
	require.NoError(t, err)

	m, text, err := g.Report(testRunID, flagged, final, thr, gaps)
	require.NoError(t, err)

	assert.Equal(t, testRunID, m.RunID)
	assert.Equal(t, 8, m.TotalCount)
	assert.Equal(t, 1, m.OutlierCount)
	assert.Equal(t, 1, m.MissingCount)
	assert.Equal(t, 2, m.ImputedCount)

	assert.Contains(t, text, "run id:       run-0001")
	assert.Contains(t, text, "generated at: 2025-03-01T08:30:00Z")
	assert.Contains(t, text, "total:        8")
	assert.Contains(t, text, "outliers:     1")
	assert.Contains(t, text, "missing:      1")
	assert.Contains(t, text, "imputed:      2")
	assert.Contains(t, text, "anomaly rate: 25.00%")
	assert.Contains(t, text, "values before cleaning")
	assert.Contains(t, text, "values after cleaning")

	// The envelope section prints whole-series bounds, which an outlier on a
	// short series can fall inside. The note keeps that from reading as a
	// contradiction with the outlier count above it.
	assert.Contains(t, text, "note: whole-series bounds; flagging tests each value against the statistics of its peers")

	// Stable field order: counts come before the envelope, before the stats.
	assert.Less(t, strings.Index(text, "records"), strings.Index(text, "detection envelope"))
	assert.Less(t, strings.Index(text, "detection envelope"), strings.Index(text, "gap runs"))

	// Deterministic: the same metrics render identically.
	_, again, err := g.Report(testRunID, flagged, final, thr, gaps)
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestGenerator_Report_JSON(t *testing.T) {
	flagged, final, thr, gaps := cleanedSets(t)
	g, err := report.NewGenerator("json")
	require.NoError(t, err)

	m, text, err := g.Report(testRunID, flagged, final, thr, gaps)
	require.NoError(t, err)

	var decoded domain.QualityMetrics
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	assert.Equal(t, m.TotalCount, decoded.TotalCount)
	assert.Equal(t, m.OutlierCount, decoded.OutlierCount)
	assert.Equal(t, m.RunID, decoded.RunID)
	assert.InDelta(t, m.AnomalyRate, decoded.AnomalyRate, 1e-12)
}

func TestGenerator_Report_Markdown(t *testing.T) {
	flagged, final, thr, gaps := cleanedSets(t)
	g, err := report.NewGenerator("markdown")
	require.NoError(t, err)

	_, text, err := g.Report(testRunID, flagged, final, thr, gaps)
	require.NoError(t, err)

	assert.Contains(t, text, "# Data quality report")
	assert.Contains(t, text, "| total | 8 |")
	assert.Contains(t, text, "| outliers | 1 |")
	assert.Contains(t, text, "| anomaly rate | 25.00% |")
}

func TestGenerator_Report_EmptyRun(t *testing.T) {
	empty := domain.NewRecordSet("temperature", nil)
	g, err := report.NewGenerator("text")
	require.NoError(t, err)

	m, text, err := g.Report(testRunID, empty, empty, domain.Thresholds{}, domain.GapStats{})
	require.NoError(t, err)

	assert.Zero(t, m.TotalCount)
	assert.Zero(t, m.AnomalyRate)
	assert.Contains(t, text, "total:        0")
	assert.Contains(t, text, "undefined (too few valid values)")
}

func TestBuildPlotSeries(t *testing.T) {
	flagged, final, _, _ := cleanedSets(t)

	ps := report.BuildPlotSeries(flagged, final)
	require.Len(t, ps.Timestamps, 8)
	require.Len(t, ps.Original, 8)
	require.Len(t, ps.Cleaned, 8)

	assert.Equal(t, 1000.0, ps.Original[3]) // outlier keeps its raw value in the "before" trace
	assert.True(t, math.IsNaN(ps.Original[6]))
	for i, v := range ps.Cleaned {
		assert.False(t, math.IsNaN(v), "cleaned sample %d", i)
	}
}
