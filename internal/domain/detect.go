package domain

import (
	"fmt"
	"math"
)

// DefaultSigma is the default outlier threshold multiplier.
const DefaultSigma = 3.0

// Thresholds captures the whole-series statistical envelope of one detection
// pass, kept for the quality report. Flagging itself compares each value
// against the statistics of its peers, so a flagged value can still sit
// inside these bounds. Defined is false when the series had too few valid
// values for a standard deviation.
type Thresholds struct {
	Mean    float64 `json:"mean"`
	Std     float64 `json:"std"`
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Defined bool    `json:"defined"`
}

// ThreeSigmaDetector flags values outside a sigma-multiple envelope around
// the series mean. Each value is evaluated against the mean and sample
// standard deviation of the *other* valid raw values: on short series a
// single extreme value inflates a global sigma enough to mask itself, so the
// envelope must exclude the candidate under test.
type ThreeSigmaDetector struct {
	sigma float64
}

// NewThreeSigmaDetector returns a detector with the given threshold
// multiplier. The multiplier must be positive.
func NewThreeSigmaDetector(sigma float64) (*ThreeSigmaDetector, error) {
	if sigma <= 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: sigma threshold must be > 0, got %g", ErrInvalidConfig, sigma)
	}
	return &ThreeSigmaDetector{sigma: sigma}, nil
}

// Sigma returns the configured threshold multiplier.
func (d *ThreeSigmaDetector) Sigma() float64 { return d.sigma }

// Detect marks records without a usable value as missing and raw values
// outside the envelope as outliers. Values are never altered. Detection is
// deterministic: running it again on the same input yields the same flags.
//
// Fewer than three valid values leave every peer envelope undefined, so
// outlier flagging is skipped entirely and only missing records are marked.
func (d *ThreeSigmaDetector) Detect(rs *RecordSet) Thresholds {
	var (
		sum, sumSq float64
		n          int
	)
	for i := range rs.Records {
		r := &rs.Records[i]
		if r.Status != StatusRaw {
			continue
		}
		if !r.HasValue() {
			r.Status = StatusMissing
			continue
		}
		sum += r.Value
		sumSq += r.Value * r.Value
		n++
	}

	thr := d.envelope(sum, sumSq, n)
	if n < 3 {
		return thr
	}

	for i := range rs.Records {
		r := &rs.Records[i]
		if r.Status != StatusRaw {
			continue
		}
		if d.outsidePeerEnvelope(r.Value, sum, sumSq, n) {
			r.Status = StatusOutlier
		}
	}
	return thr
}

// envelope computes the whole-series thresholds reported to the user.
func (d *ThreeSigmaDetector) envelope(sum, sumSq float64, n int) Thresholds {
	if n < 2 {
		return Thresholds{}
	}
	mu := sum / float64(n)
	std := math.Sqrt(positive(sumSq-float64(n)*mu*mu) / float64(n-1))
	return Thresholds{
		Mean:    mu,
		Std:     std,
		Lower:   mu - d.sigma*std,
		Upper:   mu + d.sigma*std,
		Defined: true,
	}
}

// outsidePeerEnvelope tests v against the mean and sample standard deviation
// of the remaining n-1 valid values.
func (d *ThreeSigmaDetector) outsidePeerEnvelope(v, sum, sumSq float64, n int) bool {
	peers := float64(n - 1)
	mu := (sum - v) / peers
	variance := positive(sumSq-v*v-peers*mu*mu) / (peers - 1)
	return math.Abs(v-mu) > d.sigma*math.Sqrt(variance)
}

// positive clamps tiny negative values produced by floating point cancellation.
func positive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
