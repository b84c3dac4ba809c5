package domain

import "fmt"

// MethodLinear is the only defined imputation method selector.
const MethodLinear = "linear"

// GapStats summarizes the runs of consecutive flagged or missing records that
// imputation had to fill, kept for the quality report.
type GapStats struct {
	Count     int     `json:"count"`
	MaxLength int     `json:"max_length"`
	AvgLength float64 `json:"avg_length"`
}

// LinearImputer fills outlier and missing slots by linear interpolation
// between the nearest valid neighbors, weighted by elapsed time. A run of
// gaps at either end of the series has a valid neighbor on only one side and
// is filled with that neighbor's value.
type LinearImputer struct{}

// NewLinearImputer returns an imputer for the given method selector.
// Only MethodLinear is defined; anything else is a configuration error.
func NewLinearImputer(method string) (*LinearImputer, error) {
	if method != MethodLinear {
		return nil, fmt.Errorf("%w: unknown imputation method %q", ErrInvalidConfig, method)
	}
	return &LinearImputer{}, nil
}

// Impute replaces the value of every outlier and missing record and promotes
// its status to imputed. Interpolation anchors are the values that survived
// detection (or were imputed by an earlier pass), captured before any fill,
// so the result does not depend on fill order.
//
// A non-empty series without a single valid value cannot be imputed and
// returns ErrInsufficientData.
func (im *LinearImputer) Impute(rs *RecordSet) (GapStats, error) {
	if rs.Len() == 0 {
		return GapStats{}, nil
	}

	prev, next := anchorIndices(rs)
	stats := gapRuns(rs)

	if stats.Count > 0 && prev[len(prev)-1] < 0 {
		return GapStats{}, fmt.Errorf("%w: series %q has no valid value to interpolate from", ErrInsufficientData, rs.Series)
	}

	for i := range rs.Records {
		r := &rs.Records[i]
		if r.Status != StatusOutlier && r.Status != StatusMissing {
			continue
		}
		lo, hi := prev[i], next[i]
		switch {
		case lo >= 0 && hi >= 0:
			r.Value = interpolate(rs.Records[lo], rs.Records[hi], rs.Records[i], i, lo, hi)
		case lo >= 0:
			r.Value = rs.Records[lo].Value
		default:
			r.Value = rs.Records[hi].Value
		}
		r.Valid = true
		r.Status = StatusImputed
	}
	return stats, nil
}

// interpolate blends the two anchor values by elapsed time. If the anchors
// are not separated in time (Validate rules this out for loaded input) the
// blend falls back to sequence position so it stays total.
func interpolate(lo, hi, at Record, i, loIdx, hiIdx int) float64 {
	span := hi.Timestamp.Sub(lo.Timestamp)
	var w float64
	if span > 0 {
		w = float64(at.Timestamp.Sub(lo.Timestamp)) / float64(span)
	} else {
		w = float64(i-loIdx) / float64(hiIdx-loIdx)
	}
	return lo.Value + w*(hi.Value-lo.Value)
}

// anchorIndices returns, for every position, the index of the nearest anchor
// record at or before it and at or after it (-1 when that side has none).
// Anchors are records that already carry a trustworthy value: raw survivors
// of detection and previously imputed records.
func anchorIndices(rs *RecordSet) (prev, next []int) {
	n := len(rs.Records)
	prev = make([]int, n)
	next = make([]int, n)

	last := -1
	for i := 0; i < n; i++ {
		if isAnchor(rs.Records[i]) {
			last = i
		}
		prev[i] = last
	}

	last = -1
	for i := n - 1; i >= 0; i-- {
		if isAnchor(rs.Records[i]) {
			last = i
		}
		next[i] = last
	}
	return prev, next
}

func isAnchor(r Record) bool {
	return (r.Status == StatusRaw || r.Status == StatusImputed) && r.HasValue()
}

// gapRuns measures the runs of consecutive records awaiting a fill.
func gapRuns(rs *RecordSet) GapStats {
	var stats GapStats
	run, total := 0, 0
	flush := func() {
		if run == 0 {
			return
		}
		stats.Count++
		total += run
		if run > stats.MaxLength {
			stats.MaxLength = run
		}
		run = 0
	}

	for i := range rs.Records {
		s := rs.Records[i].Status
		if s == StatusOutlier || s == StatusMissing {
			run++
			continue
		}
		flush()
	}
	flush()

	if stats.Count > 0 {
		stats.AvgLength = float64(total) / float64(stats.Count)
	}
	return stats
}
