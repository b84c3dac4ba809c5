package domain

import (
	"math"
	"sort"
)

// mean returns the arithmetic mean of vals, or 0 for an empty slice.
func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStd returns the sample standard deviation (n-1 denominator) of vals.
// It is undefined for fewer than two values and returns 0 in that case;
// callers that need to distinguish check len(vals) themselves.
func sampleStd(vals []float64, mu float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		d := v - mu
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

// minMax returns the smallest and largest value. ok is false for an empty slice.
func minMax(vals []float64) (lo, hi float64, ok bool) {
	if len(vals) == 0 {
		return 0, 0, false
	}
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}

// quantile returns the p-quantile (0 <= p <= 1) of vals using linear
// interpolation between closest ranks, matching the default behavior of
// most table libraries. vals must not be empty.
func quantile(vals []float64, p float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// DistributionStats summarizes a value distribution for the quality report.
type DistributionStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	P25   float64 `json:"p25"`
	P50   float64 `json:"p50"`
	P75   float64 `json:"p75"`
}

// summarize computes DistributionStats over vals. An empty slice yields the
// zero value, which renders as an all-zero block in the report.
func summarize(vals []float64) DistributionStats {
	if len(vals) == 0 {
		return DistributionStats{}
	}
	mu := mean(vals)
	lo, hi, _ := minMax(vals)
	return DistributionStats{
		Count: len(vals),
		Mean:  mu,
		Std:   sampleStd(vals, mu),
		Min:   lo,
		Max:   hi,
		P25:   quantile(vals, 0.25),
		P50:   quantile(vals, 0.50),
		P75:   quantile(vals, 0.75),
	}
}
