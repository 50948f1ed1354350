package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/store"
	"github.com/tair/pharmadistrib/internal/views"
	"github.com/tair/pharmadistrib/pkg/logger"
)

// Store is the part of *store.Store the HTTP layer uses
type Store interface {
	Execute(ctx context.Context, cmd store.Command) error
	State() domain.State
}

// Handler serves the PharmaDistrib REST API over the store
type Handler struct {
	store        Store
	clock        func() time.Time
	guardEnabled bool

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
}

// Options configures a Handler
type Options struct {
	// GuardEnabled turns on role gating; when off every route is open
	GuardEnabled bool
	Clock        func() time.Time
}

// NewHandler creates the handler and registers its metrics on reg
func NewHandler(s Store, reg prometheus.Registerer, opts Options) *Handler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmadistrib_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pharmadistrib_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Summary metric for percentile calculation (p50, p90, p95, p99)
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "pharmadistrib_http_request_duration_summary",
			Help: "Summary of request durations with percentiles",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	reg.MustRegister(requestCounter, requestLatency, requestSummary)

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Handler{
		store:          s,
		clock:          clock,
		guardEnabled:   opts.GuardEnabled,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		requestSummary: requestSummary,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *Handler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// route registers path with metrics and the access rule
func (h *Handler) route(router *mux.Router, method, path string, access Access, fn http.HandlerFunc) {
	router.HandleFunc(path, h.metricsMiddleware(path, h.guard(access, fn))).Methods(method)
}

// RegisterRoutes registers every REST route
func (h *Handler) RegisterRoutes(router *mux.Router) {
	h.registerCatalogRoutes(router)
	h.registerOrderRoutes(router)
	h.registerAccountRoutes(router)
	h.registerOperationsRoutes(router)
	h.registerInsightRoutes(router)
}

// RegisterHealthCheck registers health check endpoint
func (h *Handler) RegisterHealthCheck(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		state := h.store.State()
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "PharmaDistrib service is healthy",
			Data: map[string]int{
				"products": len(state.Products),
				"orders":   len(state.Orders),
				"users":    len(state.Users),
			},
		})
	}).Methods("GET")
}

// execute runs cmd and writes the error response when it fails
func (h *Handler) execute(w http.ResponseWriter, r *http.Request, cmd store.Command) bool {
	err := h.store.Execute(r.Context(), cmd)
	if err == nil {
		return true
	}

	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).Err(err).Str("command", cmd.Name()).Msg("Command failed")
	}
	respondError(w, status, message)
	return false
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrEmptyCart):
		return http.StatusBadRequest, store.ErrEmptyCart.Error()
	case errors.Is(err, store.ErrInvalidQuantity):
		return http.StatusBadRequest, "Quantité invalide"
	case errors.Is(err, store.ErrInvalidPatch):
		return http.StatusBadRequest, "Données de mise à jour invalides"
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound, "Utilisateur introuvable"
	case errors.Is(err, store.ErrPersist):
		return http.StatusServiceUnavailable, "Échec de l'enregistrement des données"
	default:
		return http.StatusInternalServerError, "Erreur interne"
	}
}

// recordFilter reads the ?search, ?status, ?type and ?category listing filters
func recordFilter(r *http.Request) views.RecordFilter {
	q := r.URL.Query()
	return views.RecordFilter{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Type:     q.Get("type"),
		Category: q.Get("category"),
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return false
	}
	return true
}

func respondCreated(w http.ResponseWriter, message string, data any) {
	respondJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func respondOK(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// create decodes an entity, runs add and returns the stored value
func create[T any](h *Handler, w http.ResponseWriter, r *http.Request, add func(T) *store.Add[T], message string) {
	var entity T
	if !decodeBody(w, r, &entity) {
		return
	}
	cmd := add(entity)
	if !h.execute(w, r, cmd) {
		return
	}
	respondCreated(w, message, cmd.Entity)
}

// patch decodes a field patch and applies it to the entity named by {id}
func patch[T any](h *Handler, w http.ResponseWriter, r *http.Request, update func(string, store.Patch) *store.Modify[T], message string) {
	var p store.Patch
	if !decodeBody(w, r, &p) {
		return
	}
	modify(h, w, r, update(mux.Vars(r)["id"], p), message)
}

// modify runs cmd and answers 404 when its target does not exist
func modify[T any](h *Handler, w http.ResponseWriter, r *http.Request, cmd *store.Modify[T], message string) {
	if !h.execute(w, r, cmd) {
		return
	}
	if !cmd.Found {
		respondError(w, http.StatusNotFound, "Ressource introuvable")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: cmd.Entity})
}

func remove[T any](h *Handler, w http.ResponseWriter, r *http.Request, del func(string) *store.Delete[T], message string) {
	cmd := del(mux.Vars(r)["id"])
	if !h.execute(w, r, cmd) {
		return
	}
	if !cmd.Found {
		respondError(w, http.StatusNotFound, "Ressource introuvable")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Helper function for error responses
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{
		Success: false,
		Error:   message,
	})
}
