package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReport(t *testing.T, dir, backend, name string, mtime time.Time) {
	t.Helper()
	sub := filepath.Join(dir, backend)
	require.NoError(t, os.MkdirAll(sub, 0o755))
	path := filepath.Join(sub, name)
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestIndexRedirectsToNewestReport(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeReport(t, dir, "openai", "solar-energy-20240301-103000.html", now.Add(-time.Hour))
	writeReport(t, dir, "ollama", "wind-power-20240302-090000.html", now)

	s := NewWithConfig(Config{ReportsDir: dir})
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/reports/ollama/wind-power-20240302-090000.html", rec.Header().Get("Location"))
}

func TestIndexWithoutReports(t *testing.T) {
	s := NewWithConfig(Config{ReportsDir: t.TempDir()})
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No reports generated yet")
}

func TestAPIListsReportsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeReport(t, dir, "openai", "solar-energy-20240301-103000.html", now.Add(-time.Hour))
	writeReport(t, dir, "openai", "wind-power-20240302-090000.html", now)

	s := NewWithConfig(Config{ReportsDir: dir})
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []reportEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "wind-power-20240302-090000.html", entries[0].Name)
	assert.Equal(t, "openai", entries[0].Backend)
	assert.Equal(t, "solar-energy-20240301-103000.html", entries[1].Name)
}

func TestStaticFileServing(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "openai", "solar-energy-20240301-103000.html", time.Now())

	s := NewWithConfig(Config{ReportsDir: dir})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/openai/solar-energy-20240301-103000.html", nil)
	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html></html>", rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := NewWithConfig(Config{ReportsDir: t.TempDir()})
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
