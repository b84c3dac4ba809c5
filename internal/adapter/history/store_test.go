package history_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysupport/temp-qc/internal/adapter/history"
	"github.com/skysupport/temp-qc/internal/domain"
)

func testMetrics(runID string, generatedAt time.Time) domain.QualityMetrics {
	return domain.QualityMetrics{
		RunID:        runID,
		Series:       "temperature",
		TotalCount:   8,
		OutlierCount: 1,
		MissingCount: 1,
		ImputedCount: 2,
		AnomalyRate:  0.25,
		GeneratedAt:  generatedAt,
	}
}

func TestStore_RecordAndRecent(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "runs.db"), slog.Default())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, testMetrics("run-1", base)))
	require.NoError(t, store.Record(ctx, testMetrics("run-2", base.Add(time.Hour))))

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, "run-1", runs[1].RunID)
	assert.Equal(t, 8, runs[0].TotalCount)
	assert.Equal(t, 0.25, runs[0].AnomalyRate)
}

func TestStore_RecentLimit(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "runs.db"), slog.Default())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		require.NoError(t, store.Record(ctx, testMetrics("run-"+id, base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
	assert.Equal(t, "run-e", runs[0].RunID)
}

func TestStore_DuplicateRunID(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "runs.db"), slog.Default())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	m := testMetrics("run-1", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.Record(ctx, m))
	assert.Error(t, store.Record(ctx, m))
}
