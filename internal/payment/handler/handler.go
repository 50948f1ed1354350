package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/pharmadistrib/internal/payment/domain"
	"github.com/tair/pharmadistrib/internal/payment/usecase/command"
	"github.com/tair/pharmadistrib/pkg/logger"
)

// Intent outcomes recorded by the intents counter
const (
	outcomeCreated   = "created"
	outcomeConfirmed = "confirmed"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

// PaymentHandler serves the mock payment endpoints. Their wire format is the
// one the checkout form expects: plain objects with an "error" field on failure.
type PaymentHandler struct {
	createHandler  *command.CreateIntentHandler
	confirmHandler *command.ConfirmIntentHandler

	intentsTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestCounter *prometheus.CounterVec
}

// NewPaymentHandler creates the handler and registers its metrics on reg
func NewPaymentHandler(
	createHandler *command.CreateIntentHandler,
	confirmHandler *command.ConfirmIntentHandler,
	reg prometheus.Registerer,
) *PaymentHandler {
	intentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmadistrib_payment_intents_total",
			Help: "Total number of payment intent operations by outcome",
		},
		[]string{"outcome"},
	)

	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmadistrib_payment_requests_total",
			Help: "Total number of requests to the payment endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pharmadistrib_payment_request_duration_seconds",
			Help:    "Duration of payment requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	reg.MustRegister(intentsTotal, requestCounter, requestLatency)

	return &PaymentHandler{
		createHandler:  createHandler,
		confirmHandler: confirmHandler,
		intentsTotal:   intentsTotal,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type createIntentRequest struct {
	OrderID     string         `json:"orderId"`
	Amount      float64        `json:"amount"`
	Currency    string         `json:"currency"`
	CustomerID  string         `json:"customerId"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

type createIntentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
}

type confirmRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

type confirmResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
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

func (h *PaymentHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// RegisterRoutes registers the payment routes
func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/payments/create-intent", h.metricsMiddleware("/api/payments/create-intent", h.CreateIntent)).Methods("POST")
	router.HandleFunc("/api/payments/confirm", h.metricsMiddleware("/api/payments/confirm", h.Confirm)).Methods("POST")
}

// CreateIntent handles POST /api/payments/create-intent
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.intentsTotal.WithLabelValues(outcomeRejected).Inc()
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Requête invalide"})
		return
	}

	intent, err := h.createHandler.Handle(ctx, command.CreateIntentCommand{
		OrderID:     req.OrderID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		CustomerID:  req.CustomerID,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		if isValidationError(err) {
			h.intentsTotal.WithLabelValues(outcomeRejected).Inc()
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.intentsTotal.WithLabelValues(outcomeFailed).Inc()
		logger.Error(ctx).Err(err).Str("order_id", req.OrderID).Msg("Error creating payment intent")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Erreur lors de la création du paiement"})
		return
	}

	h.intentsTotal.WithLabelValues(outcomeCreated).Inc()
	logger.Info(ctx).
		Str("order_id", req.OrderID).
		Str("payment_intent_id", intent.ID).
		Int64("amount_cents", intent.Amount).
		Msg("Payment intent created")

	respondJSON(w, http.StatusOK, createIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
	})
}

// Confirm handles POST /api/payments/confirm
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.intentsTotal.WithLabelValues(outcomeRejected).Inc()
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: domain.ErrPaymentIDRequired.Error()})
		return
	}

	result, err := h.confirmHandler.Handle(ctx, command.ConfirmIntentCommand{PaymentIntentID: req.PaymentIntentID})
	if err != nil {
		if isValidationError(err) {
			h.intentsTotal.WithLabelValues(outcomeRejected).Inc()
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.intentsTotal.WithLabelValues(outcomeFailed).Inc()
		logger.Error(ctx).Err(err).Str("payment_intent_id", req.PaymentIntentID).Msg("Error confirming payment")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Erreur lors de la confirmation du paiement"})
		return
	}

	if !result.Success {
		h.intentsTotal.WithLabelValues(outcomeFailed).Inc()
		respondJSON(w, http.StatusOK, confirmResponse{
			Success: false,
			Status:  result.Status,
			Error:   "Le paiement n'a pas été confirmé",
		})
		return
	}

	h.intentsTotal.WithLabelValues(outcomeConfirmed).Inc()
	logger.Info(ctx).Str("payment_intent_id", req.PaymentIntentID).Msg("Payment confirmed")
	respondJSON(w, http.StatusOK, confirmResponse{Success: true, Status: result.Status})
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrOrderIDRequired) ||
		errors.Is(err, domain.ErrPaymentIDRequired)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
