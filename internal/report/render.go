package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/skysupport/temp-qc/internal/domain"
)

// renderText produces the plain-text report with a stable field order.
func renderText(m domain.QualityMetrics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "data quality report\n")
	fmt.Fprintf(&b, "===================\n")
	fmt.Fprintf(&b, "run id:       %s\n", m.RunID)
	fmt.Fprintf(&b, "series:       %s\n", m.Series)
	fmt.Fprintf(&b, "generated at: %s\n", m.GeneratedAt.Format(time.RFC3339))
	b.WriteString("\n")

	fmt.Fprintf(&b, "records\n")
	fmt.Fprintf(&b, "-------\n")
	fmt.Fprintf(&b, "total:        %d\n", m.TotalCount)
	fmt.Fprintf(&b, "outliers:     %d\n", m.OutlierCount)
	fmt.Fprintf(&b, "missing:      %d\n", m.MissingCount)
	fmt.Fprintf(&b, "imputed:      %d\n", m.ImputedCount)
	fmt.Fprintf(&b, "anomaly rate: %.2f%%\n", m.AnomalyRate*100)
	b.WriteString("\n")

	fmt.Fprintf(&b, "detection envelope\n")
	fmt.Fprintf(&b, "------------------\n")
	if m.Thresholds.Defined {
		fmt.Fprintf(&b, "mean:  %.4f\n", m.Thresholds.Mean)
		fmt.Fprintf(&b, "std:   %.4f\n", m.Thresholds.Std)
		fmt.Fprintf(&b, "bounds: [%.4f, %.4f]\n", m.Thresholds.Lower, m.Thresholds.Upper)
		b.WriteString("note: whole-series bounds; flagging tests each value against the statistics of its peers\n")
	} else {
		b.WriteString("undefined (too few valid values)\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "gap runs\n")
	fmt.Fprintf(&b, "--------\n")
	fmt.Fprintf(&b, "count:      %d\n", m.Gaps.Count)
	fmt.Fprintf(&b, "max length: %d\n", m.Gaps.MaxLength)
	fmt.Fprintf(&b, "avg length: %.2f\n", m.Gaps.AvgLength)
	b.WriteString("\n")

	writeDistText(&b, "values before cleaning", m.Before)
	b.WriteString("\n")
	writeDistText(&b, "values after cleaning", m.After)

	return b.String()
}

func writeDistText(b *strings.Builder, title string, d domain.DistributionStats) {
	fmt.Fprintf(b, "%s\n", title)
	fmt.Fprintf(b, "%s\n", strings.Repeat("-", len(title)))
	fmt.Fprintf(b, "count: %d\n", d.Count)
	fmt.Fprintf(b, "mean:  %.4f\n", d.Mean)
	fmt.Fprintf(b, "std:   %.4f\n", d.Std)
	fmt.Fprintf(b, "min:   %.4f\n", d.Min)
	fmt.Fprintf(b, "p25:   %.4f\n", d.P25)
	fmt.Fprintf(b, "p50:   %.4f\n", d.P50)
	fmt.Fprintf(b, "p75:   %.4f\n", d.P75)
	fmt.Fprintf(b, "max:   %.4f\n", d.Max)
}

// renderJSON emits the metrics snapshot as indented JSON.
func renderJSON(m domain.QualityMetrics) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render report json: %w", err)
	}
	return string(data) + "\n", nil
}

// renderMarkdown produces a report suitable for pasting into an issue or wiki.
func renderMarkdown(m domain.QualityMetrics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Data quality report\n\n")
	fmt.Fprintf(&b, "- **Run:** %s\n", m.RunID)
	fmt.Fprintf(&b, "- **Series:** %s\n", m.Series)
	fmt.Fprintf(&b, "- **Generated:** %s\n\n", m.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "## Records\n\n")
	fmt.Fprintf(&b, "| metric | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| total | %d |\n", m.TotalCount)
	fmt.Fprintf(&b, "| outliers | %d |\n", m.OutlierCount)
	fmt.Fprintf(&b, "| missing | %d |\n", m.MissingCount)
	fmt.Fprintf(&b, "| imputed | %d |\n", m.ImputedCount)
	fmt.Fprintf(&b, "| anomaly rate | %.2f%% |\n\n", m.AnomalyRate*100)

	fmt.Fprintf(&b, "## Gap runs\n\n")
	fmt.Fprintf(&b, "| metric | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| count | %d |\n", m.Gaps.Count)
	fmt.Fprintf(&b, "| max length | %d |\n", m.Gaps.MaxLength)
	fmt.Fprintf(&b, "| avg length | %.2f |\n\n", m.Gaps.AvgLength)

	fmt.Fprintf(&b, "## Distributions\n\n")
	fmt.Fprintf(&b, "| stat | before | after |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| count | %d | %d |\n", m.Before.Count, m.After.Count)
	fmt.Fprintf(&b, "| mean | %.4f | %.4f |\n", m.Before.Mean, m.After.Mean)
	fmt.Fprintf(&b, "| std | %.4f | %.4f |\n", m.Before.Std, m.After.Std)
	fmt.Fprintf(&b, "| min | %.4f | %.4f |\n", m.Before.Min, m.After.Min)
	fmt.Fprintf(&b, "| max | %.4f | %.4f |\n", m.Before.Max, m.After.Max)

	return b.String()
}
