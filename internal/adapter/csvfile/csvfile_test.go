package csvfile_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysupport/temp-qc/internal/adapter/csvfile"
	"github.com/skysupport/temp-qc/internal/domain"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReader_ReadFile(t *testing.T) {
	reader := csvfile.NewReader("temperature", slog.Default())

	t.Run("parses values and missing markers", func(t *testing.T) {
		path := writeTempCSV(t, strings.Join([]string{
			"timestamp,temperature",
			"2025-01-01T00:00:00Z,10.5",
			"2025-01-01T01:00:00Z,NA",
			"2025-01-01T02:00:00Z,",
			"2025-01-01T03:00:00Z,-3.25",
		}, "\n"))

		rs, err := reader.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, 4, rs.Len())

		assert.Equal(t, "temperature", rs.Series)
		assert.True(t, rs.Records[0].HasValue())
		assert.Equal(t, 10.5, rs.Records[0].Value)
		assert.False(t, rs.Records[1].HasValue())
		assert.False(t, rs.Records[2].HasValue())
		assert.Equal(t, -3.25, rs.Records[3].Value)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), rs.Records[0].Timestamp)
	})

	t.Run("accepts space separated timestamps", func(t *testing.T) {
		path := writeTempCSV(t, strings.Join([]string{
			"timestamp,temperature",
			"2025-01-01 06:00:00,12.1",
		}, "\n"))

		rs, err := reader.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC), rs.Records[0].Timestamp)
	})

	t.Run("rejects unparseable timestamp", func(t *testing.T) {
		path := writeTempCSV(t, strings.Join([]string{
			"timestamp,temperature",
			"yesterday,10",
		}, "\n"))

		_, err := reader.ReadFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects non numeric temperature", func(t *testing.T) {
		path := writeTempCSV(t, strings.Join([]string{
			"timestamp,temperature",
			"2025-01-01T00:00:00Z,warm",
		}, "\n"))

		_, err := reader.ReadFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects missing column", func(t *testing.T) {
		path := writeTempCSV(t, strings.Join([]string{
			"timestamp,reading",
			"2025-01-01T00:00:00Z,10",
		}, "\n"))

		_, err := reader.ReadFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := reader.ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
	})
}

func TestWriter_RoundTrip(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rs := domain.NewRecordSet("temperature", []domain.Record{
		{Timestamp: start, Value: 10, Valid: true, Status: domain.StatusRaw},
		{Timestamp: start.Add(time.Hour), Value: 12.5, Valid: true, Status: domain.StatusImputed},
	})

	path := filepath.Join(t.TempDir(), "cleaned.csv")
	require.NoError(t, csvfile.NewWriter(slog.Default()).WriteFile(path, rs))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "timestamp,temperature,status")
	assert.Contains(t, string(raw), "imputed")

	// The written file parses back into the same values.
	got, err := csvfile.NewReader("temperature", slog.Default()).ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, rs.Len(), got.Len())
	for i := range rs.Records {
		assert.Equal(t, rs.Records[i].Timestamp, got.Records[i].Timestamp)
		assert.Equal(t, rs.Records[i].Value, got.Records[i].Value)
	}
}
