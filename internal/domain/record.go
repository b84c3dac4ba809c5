package domain

import (
	"fmt"
	"math"
	"time"
)

// Status tracks what the pipeline knows about a single observation.
// Transitions are monotonic: a record starts as StatusRaw, may be demoted to
// StatusOutlier or StatusMissing by detection, and ends as StatusImputed once
// a replacement value has been filled in. No stage ever reverses a transition.
type Status uint8

const (
	StatusRaw Status = iota
	StatusOutlier
	StatusMissing
	StatusImputed
)

// String returns the lowercase label used in CSV output and reports.
func (s Status) String() string {
	switch s {
	case StatusRaw:
		return "raw"
	case StatusOutlier:
		return "outlier"
	case StatusMissing:
		return "missing"
	case StatusImputed:
		return "imputed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Record is one timestamped observation of the series.
// Valid is false when the source had no usable value for this timestamp;
// in that case Value is meaningless and must not be read.
type Record struct {
	Timestamp time.Time
	Value     float64
	Valid     bool
	Status    Status
}

// HasValue reports whether the record carries a usable, finite value.
func (r Record) HasValue() bool {
	return r.Valid && !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0)
}

// RecordSet is the ordered series a single pipeline run operates on.
// Stages mutate it in place but never reorder, insert, or delete records.
type RecordSet struct {
	Series  string
	Records []Record
}

// NewRecordSet wraps records in a RecordSet named after the source column.
func NewRecordSet(series string, records []Record) *RecordSet {
	return &RecordSet{Series: series, Records: records}
}

// Len returns the number of records.
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Records)
}

// Validate checks the RecordSet invariant: timestamps are unique and strictly
// increasing. Violations are reported as ErrInvalidInput before any stage runs.
func (rs *RecordSet) Validate() error {
	for i := 1; i < len(rs.Records); i++ {
		prev, cur := rs.Records[i-1].Timestamp, rs.Records[i].Timestamp
		if cur.Equal(prev) {
			return fmt.Errorf("%w: duplicate timestamp %s at row %d", ErrInvalidInput, cur.Format(time.RFC3339), i)
		}
		if cur.Before(prev) {
			return fmt.Errorf("%w: timestamp %s at row %d is not after %s", ErrInvalidInput, cur.Format(time.RFC3339), i, prev.Format(time.RFC3339))
		}
	}
	return nil
}

// Clone returns a deep copy. The pipeline snapshots the set after detection so
// the reporter can compare pre-imputation values and flags against the final
// output.
func (rs *RecordSet) Clone() *RecordSet {
	records := make([]Record, len(rs.Records))
	copy(records, rs.Records)
	return &RecordSet{Series: rs.Series, Records: records}
}

// CountStatus returns how many records currently carry the given status.
func (rs *RecordSet) CountStatus(s Status) int {
	n := 0
	for i := range rs.Records {
		if rs.Records[i].Status == s {
			n++
		}
	}
	return n
}

// Values returns the values of all records that carry one, in series order.
func (rs *RecordSet) Values() []float64 {
	vals := make([]float64, 0, len(rs.Records))
	for i := range rs.Records {
		if rs.Records[i].HasValue() {
			vals = append(vals, rs.Records[i].Value)
		}
	}
	return vals
}
