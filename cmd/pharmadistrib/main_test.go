package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/pharmadistrib/internal/app"
	"github.com/tair/pharmadistrib/internal/config"
	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fileBackend(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("STORAGE_BACKEND", config.BackendFile)
	t.Setenv("STORAGE_DIR", dir)
	return dir
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pharmadistrib version "+Version)
}

func TestSnapshot_ImportThenExport(t *testing.T) {
	dir := fileBackend(t)

	state := domain.Seed()
	state.Products = state.Products[:1]
	data, err := store.Encode(state)
	require.NoError(t, err)
	input := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(input, data, 0o644))

	_, err = run(t, "snapshot", "import", input)
	require.NoError(t, err)

	output := filepath.Join(dir, "out.json")
	_, err = run(t, "snapshot", "export", output)
	require.NoError(t, err)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	exported, err := store.Decode(written)
	require.NoError(t, err)
	assert.Len(t, exported.Products, 1)
	assert.Len(t, exported.Users, len(state.Users))
}

func TestSnapshot_ImportRejectsGarbage(t *testing.T) {
	dir := fileBackend(t)
	input := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(input, []byte("not json"), 0o644))

	_, err := run(t, "snapshot", "import", input)
	assert.ErrorContains(t, err, "invalid snapshot")
}

func TestExport(t *testing.T) {
	fileBackend(t)

	out, err := run(t, "export", "products")
	require.NoError(t, err)

	var data struct {
		Headers []string `json:"headers"`
		Rows    [][]any  `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out[bytes.IndexByte([]byte(out), '{'):]), &data))
	assert.Len(t, data.Rows, 3)
	assert.NotEmpty(t, data.Headers)

	_, err = run(t, "export", "pets")
	assert.ErrorContains(t, err, "unknown entity")
}

func TestNewRouter(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = config.BackendMemory
	cfg.Notifications.Enabled = false
	cfg.Payment.Latency = 0

	reg := prometheus.NewRegistry()
	application, cleanup, err := app.InitializeApp(context.Background(), cfg, reg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	router := newRouter(application, reg)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{name: "health", method: "GET", path: "/health", status: http.StatusOK},
		{name: "metrics", method: "GET", path: "/metrics", status: http.StatusOK},
		{name: "swagger", method: "GET", path: "/swagger/doc.json", status: http.StatusOK},
		{name: "guarded", method: "GET", path: "/api/products", status: http.StatusUnauthorized},
		{name: "payments", method: "POST", path: "/api/payments/confirm", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, w.Body.String(), "pharmadistrib_store_")
}
