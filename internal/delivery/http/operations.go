package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/pharmadistrib/internal/store"
	"github.com/tair/pharmadistrib/internal/views"
)

// OperationsSummary tallies the logistics and quality workflows per status
type OperationsSummary struct {
	Deliveries         views.StatusCounts `json:"deliveries"`
	QualityControls    views.StatusCounts `json:"qualityControls"`
	Returns            views.StatusCounts `json:"returns"`
	ComplianceRecords  views.StatusCounts `json:"complianceRecords"`
	ExpiringCompliance int                `json:"expiringCompliance"`
}

func (h *Handler) registerOperationsRoutes(router *mux.Router) {
	h.route(router, "GET", "/api/quality-controls", BackOffice, h.ListQualityControls)
	h.route(router, "POST", "/api/quality-controls", BackOffice, h.CreateQualityControl)
	h.route(router, "PATCH", "/api/quality-controls/{id}", BackOffice, h.UpdateQualityControl)

	h.route(router, "GET", "/api/compliance-records", BackOffice, h.ListComplianceRecords)
	h.route(router, "POST", "/api/compliance-records", BackOffice, h.CreateComplianceRecord)
	h.route(router, "PATCH", "/api/compliance-records/{id}", BackOffice, h.UpdateComplianceRecord)

	h.route(router, "GET", "/api/operations/summary", BackOffice, h.OperationsSummary)
}

// ListQualityControls handles GET /api/quality-controls, filtered by
// ?search (product or batch), ?type and ?status
func (h *Handler) ListQualityControls(w http.ResponseWriter, r *http.Request) {
	respondOK(w, views.FilterQualityControls(h.store.State().QualityControls, recordFilter(r)))
}

// CreateQualityControl handles POST /api/quality-controls
func (h *Handler) CreateQualityControl(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, store.AddQualityControl, "Contrôle qualité enregistré")
}

// UpdateQualityControl handles PATCH /api/quality-controls/{id}
func (h *Handler) UpdateQualityControl(w http.ResponseWriter, r *http.Request) {
	patch(h, w, r, store.UpdateQualityControl, "Contrôle qualité mis à jour")
}

// ListComplianceRecords handles GET /api/compliance-records. With
// ?expiringWithin=N only records expiring in the next N days are returned.
func (h *Handler) ListComplianceRecords(w http.ResponseWriter, r *http.Request) {
	records := h.store.State().ComplianceRecords
	raw := r.URL.Query().Get("expiringWithin")
	if raw == "" {
		respondOK(w, records)
		return
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Paramètre expiringWithin invalide")
		return
	}
	respondOK(w, views.ExpiringCompliance(records, h.clock(), days))
}

// CreateComplianceRecord handles POST /api/compliance-records
func (h *Handler) CreateComplianceRecord(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, store.AddComplianceRecord, "Enregistrement de conformité créé")
}

// UpdateComplianceRecord handles PATCH /api/compliance-records/{id}
func (h *Handler) UpdateComplianceRecord(w http.ResponseWriter, r *http.Request) {
	patch(h, w, r, store.UpdateComplianceRecord, "Enregistrement de conformité mis à jour")
}

// OperationsSummary handles GET /api/operations/summary
func (h *Handler) OperationsSummary(w http.ResponseWriter, r *http.Request) {
	state := h.store.State()
	respondOK(w, OperationsSummary{
		Deliveries:         views.DeliveryStatusCounts(state.Deliveries),
		QualityControls:    views.QualityStatusCounts(state.QualityControls),
		Returns:            views.ReturnStatusCounts(state.Returns),
		ComplianceRecords:  views.ComplianceStatusCounts(state.ComplianceRecords),
		ExpiringCompliance: len(views.ExpiringCompliance(state.ComplianceRecords, h.clock(), views.DefaultExpiryHorizonDays)),
	})
}
