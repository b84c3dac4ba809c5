// Command validate performs cross-artifact integrity checks on a pipeline
// run: the cleaned CSV and the JSON quality report. It verifies row counts,
// record statuses, count identities inside the report, and that the report's
// output distribution matches what the CSV actually contains.
//
// Usage:
//
//	go run ./cmd/validate -cleaned cleaned.csv -report report.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/skysupport/temp-qc/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	cleanedPath := flag.String("cleaned", "", "path to the cleaned CSV")
	reportPath := flag.String("report", "", "path to the JSON quality report")
	flag.Parse()

	if *cleanedPath == "" || *reportPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*cleanedPath, *reportPath); code != 0 {
		os.Exit(code)
	}
}

func run(cleanedPath, reportPath string) int {
	fmt.Println("=== Temperature QC Output Validation ===")
	fmt.Println()

	rows, err := loadCleaned(cleanedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load cleaned CSV: %v\n", err)
		return 1
	}

	metrics, err := loadReport(reportPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load report: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateOutputIntegrity(rows),
		validateCountIdentities(metrics, rows),
		validateOutputDistribution(metrics, rows),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d cleaned CSV, %d reported (run %s)\n",
		len(rows), metrics.TotalCount, metrics.RunID)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

type cleanedRow struct {
	lineNum   int
	timestamp time.Time
	value     float64
	hasValue  bool
	status    string
}

func loadCleaned(path string) ([]cleanedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 1 {
		return nil, fmt.Errorf("empty file %s", path)
	}

	colIdx := map[string]int{}
	for i, h := range all[0] {
		colIdx[h] = i
	}
	for _, col := range []string{"timestamp", "temperature", "status"} {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	rows := make([]cleanedRow, 0, len(all)-1)
	for i, rec := range all[1:] {
		row := cleanedRow{lineNum: i + 2, status: strings.TrimSpace(rec[colIdx["status"]])}
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(rec[colIdx["timestamp"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.lineNum, err)
		}
		row.timestamp = ts

		cell := strings.TrimSpace(rec[colIdx["temperature"]])
		if !strings.EqualFold(cell, "NA") && cell != "" {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: temperature %q: %w", row.lineNum, cell, err)
			}
			row.value = v
			row.hasValue = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func loadReport(path string) (domain.QualityMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.QualityMetrics{}, err
	}
	var m domain.QualityMetrics
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.QualityMetrics{}, err
	}
	return m, nil
}

// ── Phase 1: Output Integrity ──
// Every cleaned row carries a value, statuses are terminal, timestamps ascend.

func validateOutputIntegrity(rows []cleanedRow) *phase {
	p := &phase{name: "Phase 1: Output Integrity (cleaned CSV)"}

	for i := range rows {
		row := &rows[i]
		if !row.hasValue {
			p.errorf("line %d: cleaned output has no value", row.lineNum)
		}
		if row.status != "raw" && row.status != "imputed" {
			p.errorf("line %d: status %q (cleaned output allows only raw or imputed)", row.lineNum, row.status)
		}
		if i > 0 && !rows[i-1].timestamp.Before(row.timestamp) {
			p.errorf("line %d: timestamp %s not after previous %s",
				row.lineNum, row.timestamp.Format(time.RFC3339), rows[i-1].timestamp.Format(time.RFC3339))
		}
	}
	return p
}

// ── Phase 2: Count Identities ──
// Report counts must be internally consistent and match the CSV.

func validateCountIdentities(m domain.QualityMetrics, rows []cleanedRow) *phase {
	p := &phase{name: "Phase 2: Count Identities (report vs CSV)"}

	if m.TotalCount != len(rows) {
		p.errorf("total count: report says %d, CSV has %d rows", m.TotalCount, len(rows))
	}

	imputedCSV := 0
	for i := range rows {
		if rows[i].status == "imputed" {
			imputedCSV++
		}
	}
	if m.ImputedCount != imputedCSV {
		p.errorf("imputed count: report says %d, CSV has %d", m.ImputedCount, imputedCSV)
	}

	flagged := m.OutlierCount + m.MissingCount
	if m.ImputedCount != flagged {
		p.errorf("imputed count %d does not equal outliers+missing %d", m.ImputedCount, flagged)
	}

	if m.TotalCount > 0 {
		want := float64(flagged) / float64(m.TotalCount)
		if !floatEq(m.AnomalyRate, want) {
			p.errorf("anomaly rate: report says %g, expected %g", m.AnomalyRate, want)
		}
	} else if m.AnomalyRate != 0 {
		p.errorf("anomaly rate %g on an empty run", m.AnomalyRate)
	}
	return p
}

// ── Phase 3: Output Distribution ──
// The report's After stats must match the values actually written.

func validateOutputDistribution(m domain.QualityMetrics, rows []cleanedRow) *phase {
	p := &phase{name: "Phase 3: Output Distribution (report vs CSV)"}

	var values []float64
	for i := range rows {
		if rows[i].hasValue {
			values = append(values, rows[i].value)
		}
	}
	if len(values) == 0 {
		if m.After.Count != 0 {
			p.errorf("report After.count %d but CSV has no values", m.After.Count)
		}
		return p
	}

	if m.After.Count != len(values) {
		p.errorf("After.count: report says %d, CSV has %d values", m.After.Count, len(values))
	}

	mu, sd := meanStd(values)
	if !closeTo(m.After.Mean, mu, 1e-6) {
		p.errorf("After.mean: report says %g, recomputed %g", m.After.Mean, mu)
	}
	if !closeTo(m.After.Std, sd, 1e-6) {
		p.errorf("After.std: report says %g, recomputed %g", m.After.Std, sd)
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !closeTo(m.After.Min, lo, 1e-6) {
		p.errorf("After.min: report says %g, recomputed %g", m.After.Min, lo)
	}
	if !closeTo(m.After.Max, hi, 1e-6) {
		p.errorf("After.max: report says %g, recomputed %g", m.After.Max, hi)
	}
	return p
}

// ── Helpers ──

func meanStd(values []float64) (float64, float64) {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mu := sum / float64(len(values))
	if len(values) < 2 {
		return mu, 0
	}
	ss := 0.0
	for _, v := range values {
		d := v - mu
		ss += d * d
	}
	return mu, math.Sqrt(ss / float64(len(values)-1))
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func closeTo(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}
