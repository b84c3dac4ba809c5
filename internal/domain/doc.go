// Package domain models a single-station temperature time series and the
// decision logic that cleans it: anomaly detection, gap imputation,
// normalization, and the quality metrics derived from a run.
//
// # Series Conventions
//
// A series is an ordered table of (timestamp, temperature) observations with
// unique, strictly increasing timestamps. Input cells may be empty or carry
// the sentinels "NA", "NaN", or "null"; all of them mean the sensor produced
// no usable reading for that slot. Non-finite numeric values are treated the
// same way.
//
// # Record Status
//
// Every record carries exactly one status at any time:
//
//	raw      value as loaded, not (yet) contested
//	outlier  value present but outside the statistical envelope
//	missing  no usable value
//	imputed  value replaced by interpolation
//
// Transitions are monotonic: raw → {outlier|missing} → imputed. Detection
// only changes statuses, imputation only fills flagged slots, normalization
// only rescales values. No stage reorders or deletes records.
//
// # Sigma Envelope
//
// A value is anomalous when it deviates from the mean by more than k sample
// standard deviations (k = 3 by default). Each value is tested against the
// statistics of the other valid values: on short series a single extreme
// reading inflates a whole-series sigma enough to hide itself. The
// whole-series envelope is still computed and reported in [Thresholds].
//
// With fewer than three valid values no peer envelope is defined and
// flagging is skipped. A zero standard deviation (constant series) flags
// nothing; both are defined behaviors, not errors.
//
// # Imputation Policy
//
// Gaps are filled by linear interpolation between the nearest valid
// neighbors, weighted by elapsed time. Runs touching either end of the
// series have a neighbor on one side only and take that neighbor's value.
// A series with no valid value at all cannot be imputed and the run fails
// with [ErrInsufficientData] instead of inventing zeros.
package domain
