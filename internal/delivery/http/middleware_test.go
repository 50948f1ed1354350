package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/pharmadistrib/pkg/logger"
)

func middlewareRouter(t *testing.T) *mux.Router {
	t.Helper()
	router := mux.NewRouter()
	RegisterMiddlewares(router, DefaultMiddlewareConfig(time.Second, nil))
	router.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, Response{Success: true})
	})
	router.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	router.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Ressource introuvable")
	})
	return router
}

func TestRequestIDMiddleware(t *testing.T) {
	router := middlewareRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := middlewareRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Erreur interne", resp.Error)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := middlewareRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
}

func TestTimeoutMiddleware(t *testing.T) {
	handler := TimeoutMiddleware(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Délai de requête dépassé")
}

func TestSetupCORS(t *testing.T) {
	config := DefaultMiddlewareConfig(0, []string{"http://localhost:5173"})
	assert.Equal(t, 30*time.Second, config.TimeoutDuration)

	handler := SetupCORS(config)(middlewareRouter(t))

	req := httptest.NewRequest(http.MethodOptions, "/ok", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	config.EnableCORS = false
	handler = SetupCORS(config)(middlewareRouter(t))
	req = httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggingMiddleware_LevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter("pharmadistrib-test", false, &buf)
	t.Cleanup(func() { logger.Logger = zerolog.Nop() })

	router := middlewareRouter(t)

	tests := []struct {
		path  string
		level string
	}{
		{path: "/ok", level: "info"},
		{path: "/missing", level: "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(UserHeader, "2")
			router.ServeHTTP(httptest.NewRecorder(), req)

			var completed map[string]any
			for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
				var entry map[string]any
				require.NoError(t, json.Unmarshal(line, &entry))
				if entry["message"] == "HTTP request completed" {
					completed = entry
				}
			}
			require.NotNil(t, completed)
			assert.Equal(t, tt.level, completed["level"])
			assert.Equal(t, "2", completed["user_id"])
			assert.NotEmpty(t, completed["request_id"])
		})
	}
}
