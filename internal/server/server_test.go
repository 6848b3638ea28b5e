package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"readlog/internal/bootstrap"
	"readlog/internal/platform/clock"
	"readlog/internal/platform/config"
	apperrors "readlog/internal/platform/errors"
	"readlog/internal/platform/logger"
	"readlog/internal/server"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		DataDir:         dir,
		DBPath:          filepath.Join(dir, "readlog.db"),
		DefaultTimezone: "UTC",
	}
	app, err := bootstrap.New(context.Background(), cfg,
		bootstrap.WithClock(clock.Fixed(time.Date(2026, 4, 12, 15, 0, 0, 0, time.UTC))),
		bootstrap.WithLogger(logger.Discard()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return server.NewRouter(server.Deps{
		Books:    app.Books,
		Sessions: app.Sessions,
		Progress: app.Progress,
		Streak:   app.Streak,
		Metrics:  app.MetricsHandler(),
		Logger:   logger.Discard(),
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestReadingFlowOverHTTP(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	rec, added := do(t, h, http.MethodPost, "/api/books", map[string]any{"title": "Dune", "total_pages": 400})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, "to-read", added["session_status"])
	book := added["book"].(map[string]any)
	bookID := book["id"].(string)
	sessionID := added["session_id"].(string)

	rec, status := do(t, h, http.MethodPost, "/api/books/"+bookID+"/status", map[string]any{"status": "reading", "started_date": "2026-04-11"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "reading", status["session"].(map[string]any)["status"])

	rec, entry := do(t, h, http.MethodPost, "/api/sessions/"+sessionID+"/progress", map[string]any{"current_page": 100})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.InDelta(t, 25.0, entry["current_percentage"], 0.001)
	require.Equal(t, "2026-04-12", entry["progress_date"])

	rec, streak := do(t, h, http.MethodGet, "/api/streak", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 1, streak["current_streak"])
	require.EqualValues(t, 100, streak["today_pages"])

	rec, pages := do(t, h, http.MethodGet, "/api/stats/pages?start=2026-04-01&end=2026-04-30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 100, pages["pages_read"])

	rec, _ = do(t, h, http.MethodGet, "/api/books/"+bookID+"/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
}

func TestErrorStatusMapping(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	rec, body := do(t, h, http.MethodGet, "/api/books/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, apperrors.CodeNotFound, body["code"])

	rec, body = do(t, h, http.MethodPost, "/api/books", map[string]any{"title": "Dune", "pages": 10})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, apperrors.CodeInvalidRequest, body["code"])

	rec, body = do(t, h, http.MethodPut, "/api/streak/threshold", map[string]any{"value": "0"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, apperrors.CodeThresholdRange, body["code"])
	require.Contains(t, body["message"], "at least 1")

	for _, value := range []any{2.5, 0, "ten"} {
		rec, body = do(t, h, http.MethodPut, "/api/streak/threshold", map[string]any{"value": value})
		require.Equal(t, http.StatusBadRequest, rec.Code, value)
		require.Equal(t, apperrors.CodeThresholdRange, body["code"], value)
	}
	for _, value := range []any{20, "20"} {
		rec, body = do(t, h, http.MethodPut, "/api/streak/threshold", map[string]any{"value": value})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.EqualValues(t, 20, body["daily_threshold"])
	}

	_, added := do(t, h, http.MethodPost, "/api/books", map[string]any{"title": "Dune", "total_pages": 400})
	bookID := added["book"].(map[string]any)["id"].(string)

	rec, body = do(t, h, http.MethodPost, "/api/books/"+bookID+"/reread", nil)
	require.Equal(t, http.StatusPreconditionFailed, rec.Code)
	require.Equal(t, apperrors.CodeNoCompletedReads, body["code"])

	rec, _ = do(t, h, http.MethodPost, "/api/books/"+bookID+"/dnf", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	rec, body := do(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", body["status"])

	rec, _ = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
