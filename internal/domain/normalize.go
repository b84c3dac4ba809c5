package domain

import "fmt"

// Normalization method selectors.
const (
	MethodZScore = "zscore"
	MethodMinMax = "minmax"
)

// Normalizer rescales the final, fully imputed values to a standard
// distribution. Statuses are untouched.
type Normalizer struct {
	method string
}

// NewNormalizer returns a normalizer for the given method selector.
func NewNormalizer(method string) (*Normalizer, error) {
	switch method {
	case MethodZScore, MethodMinMax:
		return &Normalizer{method: method}, nil
	default:
		return nil, fmt.Errorf("%w: unknown normalization method %q", ErrInvalidConfig, method)
	}
}

// Method returns the configured method selector.
func (n *Normalizer) Method() string { return n.method }

// Normalize rescales every value in place. A degenerate distribution
// (zero standard deviation or zero range) maps every value to 0 rather than
// dividing by zero; that is defined behavior, not an error.
func (n *Normalizer) Normalize(rs *RecordSet) {
	vals := rs.Values()
	if len(vals) == 0 {
		return
	}

	var shift, scale float64
	switch n.method {
	case MethodMinMax:
		lo, hi, _ := minMax(vals)
		shift, scale = lo, hi-lo
	default:
		mu := mean(vals)
		shift, scale = mu, sampleStd(vals, mu)
	}

	for i := range rs.Records {
		r := &rs.Records[i]
		if !r.HasValue() {
			continue
		}
		if scale == 0 {
			r.Value = 0
			continue
		}
		r.Value = (r.Value - shift) / scale
	}
}
