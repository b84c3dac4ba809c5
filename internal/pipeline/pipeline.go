// Package pipeline orchestrates the four cleaning stages over one RecordSet:
// anomaly detection, imputation, normalization, and quality reporting. Stages
// run sequentially; the first error aborts the run and no partial output is
// returned.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/skysupport/temp-qc/internal/domain"
	"github.com/skysupport/temp-qc/internal/observability"
)

// Detector flags values outside the statistical envelope and marks records
// without a value as missing.
type Detector interface {
	Detect(rs *domain.RecordSet) domain.Thresholds
}

// Imputer fills flagged and missing slots.
type Imputer interface {
	Impute(rs *domain.RecordSet) (domain.GapStats, error)
}

// Normalizer rescales the fully imputed values.
type Normalizer interface {
	Normalize(rs *domain.RecordSet)
}

// Reporter derives and renders the run summary.
type Reporter interface {
	Report(runID string, flagged, final *domain.RecordSet, thr domain.Thresholds, gaps domain.GapStats) (domain.QualityMetrics, string, error)
}

// Result is the output of a completed run: the cleaned records, the metrics
// snapshot, and its rendered report.
type Result struct {
	RunID   string
	Records *domain.RecordSet
	Metrics domain.QualityMetrics
	Report  string
}

// Pipeline runs the cleaning stages in fixed order. The RecordSet is owned
// exclusively by the pipeline for the duration of a run and mutated in place.
type Pipeline struct {
	detector   Detector
	imputer    Imputer
	normalizer Normalizer
	reporter   Reporter
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Pipeline with the given stages and observability.
func New(d Detector, i Imputer, n Normalizer, r Reporter, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		detector:   d,
		imputer:    i,
		normalizer: n,
		reporter:   r,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run validates the input and executes detect, impute, normalize, and report
// over it. A zero-record set is a valid run that completes with all-zero
// metrics.
func (p *Pipeline) Run(ctx context.Context, rs *domain.RecordSet) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID, "series", rs.Series, "records", rs.Len())

	if err := rs.Validate(); err != nil {
		p.metrics.Runs.WithLabelValues("invalid_input").Inc()
		logger.Error("input validation failed", "error", err)
		return nil, err
	}

	logger.Info("pipeline started")
	p.metrics.RecordsProcessed.Add(float64(rs.Len()))

	if err := p.checkContext(ctx); err != nil {
		return nil, err
	}
	thr, flagged := p.detect(rs, logger)

	if err := p.checkContext(ctx); err != nil {
		return nil, err
	}
	gaps, err := p.impute(rs, logger)
	if err != nil {
		return nil, err
	}

	if err := p.checkContext(ctx); err != nil {
		return nil, err
	}
	p.normalize(rs, logger)

	metrics, text, err := p.report(runID, flagged, rs, thr, gaps, logger)
	if err != nil {
		return nil, err
	}

	p.metrics.AnomalyRate.Set(metrics.AnomalyRate)
	p.metrics.Runs.WithLabelValues("success").Inc()
	logger.Info("pipeline complete",
		"outliers", metrics.OutlierCount,
		"missing", metrics.MissingCount,
		"imputed", metrics.ImputedCount,
		"anomaly_rate", metrics.AnomalyRate,
	)

	return &Result{
		RunID:   runID,
		Records: rs,
		Metrics: metrics,
		Report:  text,
	}, nil
}

func (p *Pipeline) detect(rs *domain.RecordSet, logger *slog.Logger) (domain.Thresholds, *domain.RecordSet) {
	start := time.Now()
	thr := p.detector.Detect(rs)
	p.metrics.StageDuration.WithLabelValues("detect").Observe(time.Since(start).Seconds())

	// Snapshot after detection: it carries the original values plus the
	// outlier/missing flags the reporter compares against the final output.
	flagged := rs.Clone()

	outliers := flagged.CountStatus(domain.StatusOutlier)
	missing := flagged.CountStatus(domain.StatusMissing)
	p.metrics.OutliersDetected.Add(float64(outliers))
	p.metrics.MissingDetected.Add(float64(missing))
	logger.Info("anomaly detection complete", "outliers", outliers, "missing", missing)

	return thr, flagged
}

func (p *Pipeline) impute(rs *domain.RecordSet, logger *slog.Logger) (domain.GapStats, error) {
	start := time.Now()
	gaps, err := p.imputer.Impute(rs)
	p.metrics.StageDuration.WithLabelValues("impute").Observe(time.Since(start).Seconds())
	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrInsufficientData) {
			outcome = "insufficient_data"
		}
		p.metrics.Runs.WithLabelValues(outcome).Inc()
		logger.Error("imputation failed", "error", err)
		return domain.GapStats{}, fmt.Errorf("impute: %w", err)
	}

	imputed := rs.CountStatus(domain.StatusImputed)
	p.metrics.ValuesImputed.Add(float64(imputed))
	logger.Info("imputation complete", "imputed", imputed, "gap_runs", gaps.Count)
	return gaps, nil
}

func (p *Pipeline) normalize(rs *domain.RecordSet, logger *slog.Logger) {
	start := time.Now()
	p.normalizer.Normalize(rs)
	p.metrics.StageDuration.WithLabelValues("normalize").Observe(time.Since(start).Seconds())
	logger.Info("normalization complete")
}

func (p *Pipeline) report(runID string, flagged, final *domain.RecordSet, thr domain.Thresholds, gaps domain.GapStats, logger *slog.Logger) (domain.QualityMetrics, string, error) {
	start := time.Now()
	metrics, text, err := p.reporter.Report(runID, flagged, final, thr, gaps)
	p.metrics.StageDuration.WithLabelValues("report").Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.Runs.WithLabelValues("error").Inc()
		logger.Error("report generation failed", "error", err)
		return domain.QualityMetrics{}, "", fmt.Errorf("report: %w", err)
	}
	return metrics, text, nil
}

func (p *Pipeline) checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		p.metrics.Runs.WithLabelValues("canceled").Inc()
		return err
	}
	return nil
}
