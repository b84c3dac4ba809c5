package csvfile

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/skysupport/temp-qc/internal/domain"
)

const timestampColumn = "timestamp"

// timestampLayouts are tried in order when parsing the timestamp column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// missingMarkers are cell values that denote an absent reading.
var missingMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"null": true,
	"none": true,
}

// Reader loads a temperature series from a CSV file. It expects a header
// row with a timestamp column and a value column named after the series.
type Reader struct {
	series string
	logger *slog.Logger
}

// NewReader creates a CSV reader producing records for the named series.
func NewReader(seriesName string, logger *slog.Logger) *Reader {
	return &Reader{series: seriesName, logger: logger}
}

// ReadFile parses the CSV at path into a record set. Cells holding a
// missing marker become records without a value; a timestamp that fits
// no known layout or a temperature that is not a number fails the read.
func (r *Reader) ReadFile(path string) (*domain.RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(map[string]series.Type{
			timestampColumn: series.String,
			r.series:        series.String,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}
	if err := requireColumns(df, r.series); err != nil {
		return nil, err
	}

	timestamps := df.Col(timestampColumn).Records()
	values := df.Col(r.series).Records()

	records := make([]domain.Record, 0, df.Nrow())
	for i := range timestamps {
		ts, err := parseTimestamp(timestamps[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rec := domain.Record{Timestamp: ts}
		cell := strings.TrimSpace(values[i])
		if !missingMarkers[strings.ToLower(cell)] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: temperature %q: %w", i+1, cell, domain.ErrInvalidInput)
			}
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				rec.Value = v
				rec.Valid = true
			}
		}
		records = append(records, rec)
	}

	r.logger.Info("loaded input series",
		"path", path,
		"series", r.series,
		"records", len(records))

	return domain.NewRecordSet(r.series, records), nil
}

func requireColumns(df dataframe.DataFrame, valueColumn string) error {
	have := map[string]bool{}
	for _, name := range df.Names() {
		have[name] = true
	}
	for _, name := range []string{timestampColumn, valueColumn} {
		if !have[name] {
			return fmt.Errorf("missing column %q: %w", name, domain.ErrInvalidInput)
		}
	}
	return nil
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q: %w", raw, domain.ErrInvalidInput)
}
