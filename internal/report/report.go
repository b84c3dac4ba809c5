// Package report turns the metrics of a pipeline run into human- and
// machine-readable summaries. Rendering is deterministic: identical metrics
// produce byte-identical output.
package report

import (
	"fmt"

	"github.com/skysupport/temp-qc/internal/domain"
)

// Format selects a report rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Generator computes QualityMetrics for a run and renders them in the
// configured format.
type Generator struct {
	format Format
}

// NewGenerator returns a Generator for the given format selector.
func NewGenerator(format string) (*Generator, error) {
	switch Format(format) {
	case FormatText, FormatJSON, FormatMarkdown:
		return &Generator{format: Format(format)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", domain.ErrInvalidConfig, format)
	}
}

// Format returns the configured rendering format.
func (g *Generator) Format() Format { return g.format }

// Report derives the run metrics from the post-detection snapshot and the
// final record set, then renders them.
func (g *Generator) Report(runID string, flagged, final *domain.RecordSet, thr domain.Thresholds, gaps domain.GapStats) (domain.QualityMetrics, string, error) {
	m := domain.ComputeMetrics(flagged, final, thr, gaps)
	m.RunID = runID

	text, err := g.render(m)
	if err != nil {
		return domain.QualityMetrics{}, "", err
	}
	return m, text, nil
}

func (g *Generator) render(m domain.QualityMetrics) (string, error) {
	switch g.format {
	case FormatJSON:
		return renderJSON(m)
	case FormatMarkdown:
		return renderMarkdown(m), nil
	default:
		return renderText(m), nil
	}
}
