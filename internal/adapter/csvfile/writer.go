package csvfile

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/skysupport/temp-qc/internal/domain"
)

const statusColumn = "status"

// Writer persists a cleaned series as a CSV file with a status column.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a CSV writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// WriteFile renders the record set to path. Records without a value are
// written as NA; timestamps use RFC3339.
func (w *Writer) WriteFile(path string, rs *domain.RecordSet) error {
	n := rs.Len()
	timestamps := make([]string, n)
	values := make([]string, n)
	statuses := make([]string, n)
	for i := range rs.Records {
		rec := rs.Records[i]
		timestamps[i] = rec.Timestamp.UTC().Format(time.RFC3339)
		if rec.HasValue() {
			values[i] = strconv.FormatFloat(rec.Value, 'g', -1, 64)
		} else {
			values[i] = "NA"
		}
		statuses[i] = rec.Status.String()
	}

	df := dataframe.New(
		series.New(timestamps, series.String, timestampColumn),
		series.New(values, series.String, rs.Series),
		series.New(statuses, series.String, statusColumn),
	)
	if df.Err != nil {
		return fmt.Errorf("build output frame: %w", df.Err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	w.logger.Info("wrote cleaned series", "path", path, "records", n)
	return nil
}
