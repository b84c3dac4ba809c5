package domain

import "time"

// QualityMetrics is the immutable summary of one pipeline run, computed once
// after all stages complete and never mutated afterward.
//
// Before summarizes the values present in the input (including the ones later
// flagged as outliers); After summarizes the final normalized values. Counts
// refer to the post-detection flags: OutlierCount + MissingCount + clean raw
// records always equals TotalCount.
type QualityMetrics struct {
	RunID  string `json:"run_id"`
	Series string `json:"series"`

	TotalCount   int     `json:"total_count"`
	OutlierCount int     `json:"outlier_count"`
	MissingCount int     `json:"missing_count"`
	ImputedCount int     `json:"imputed_count"`
	AnomalyRate  float64 `json:"anomaly_rate"`

	Before DistributionStats `json:"before"`
	After  DistributionStats `json:"after"`

	Thresholds Thresholds `json:"thresholds"`
	Gaps       GapStats   `json:"gaps"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ComputeMetrics derives the run summary from the post-detection snapshot
// (original values plus outlier/missing flags) and the final record set.
func ComputeMetrics(flagged, final *RecordSet, thr Thresholds, gaps GapStats) QualityMetrics {
	outliers := flagged.CountStatus(StatusOutlier)
	missing := flagged.CountStatus(StatusMissing)

	m := QualityMetrics{
		Series:       flagged.Series,
		TotalCount:   flagged.Len(),
		OutlierCount: outliers,
		MissingCount: missing,
		ImputedCount: final.CountStatus(StatusImputed),
		Before:       summarize(flagged.Values()),
		After:        summarize(final.Values()),
		Thresholds:   thr,
		Gaps:         gaps,
		GeneratedAt:  clock.Now().UTC(),
	}
	if m.TotalCount > 0 {
		m.AnomalyRate = float64(outliers+missing) / float64(m.TotalCount)
	}
	return m
}
