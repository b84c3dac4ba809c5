package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/skysupport/temp-qc/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	series        TEXT NOT NULL,
	total_count   INTEGER NOT NULL,
	outlier_count INTEGER NOT NULL,
	missing_count INTEGER NOT NULL,
	imputed_count INTEGER NOT NULL,
	anomaly_rate  REAL NOT NULL,
	metrics       TEXT NOT NULL,
	generated_at  DATETIME NOT NULL
);
`

// Store keeps quality metrics of past runs in a SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens the database at path and creates the runs table if needed.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Record inserts the metrics of a finished run.
func (s *Store) Record(ctx context.Context, m domain.QualityMetrics) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs
			(run_id, series, total_count, outlier_count, missing_count, imputed_count, anomaly_rate, metrics, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID, m.Series, m.TotalCount, m.OutlierCount, m.MissingCount,
		m.ImputedCount, m.AnomalyRate, payload, m.GeneratedAt)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	s.logger.Info("recorded run", "run_id", m.RunID, "series", m.Series)
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.QualityMetrics, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT metrics FROM runs ORDER BY generated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []domain.QualityMetrics
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		var m domain.QualityMetrics
		if err := json.Unmarshal(payload, &m); err != nil {
			return nil, fmt.Errorf("decode metrics: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
