package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/skysupport/temp-qc/internal/adapter/http"
	"github.com/skysupport/temp-qc/internal/domain"
)

type mockRunLister struct {
	runs []domain.QualityMetrics
	err  error

	gotLimit int
}

func (m *mockRunLister) Recent(_ context.Context, limit int) ([]domain.QualityMetrics, error) {
	m.gotLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func newTestServer(runs httpadapter.RunLister) *httpadapter.Server {
	return httpadapter.NewServer(":0", runs, slog.Default())
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Runs(t *testing.T) {
	lister := &mockRunLister{
		runs: []domain.QualityMetrics{
			{RunID: "run-2", Series: "temperature", TotalCount: 8, GeneratedAt: time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)},
			{RunID: "run-1", Series: "temperature", TotalCount: 4, GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		},
	}
	srv := newTestServer(lister)

	t.Run("default limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 20, lister.gotLimit)

		var got []domain.QualityMetrics
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "run-2", got[0].RunID)
	})

	t.Run("explicit limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs?limit=1", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var got []domain.QualityMetrics
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 1)
	})

	t.Run("bad limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs?limit=zero", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("lister failure", func(t *testing.T) {
		broken := &mockRunLister{err: fmt.Errorf("db locked")}
		rec := httptest.NewRecorder()
		newTestServer(broken).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(&mockRunLister{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestServer_RunsNotRegisteredWithoutLister(t *testing.T) {
	srv := newTestServer(nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
