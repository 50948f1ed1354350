package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/export"
	"github.com/tair/pharmadistrib/internal/views"
)

func (h *Handler) registerInsightRoutes(router *mux.Router) {
	h.route(router, "GET", "/api/dashboard", Authenticated, h.Dashboard)
	h.route(router, "GET", "/api/finance/summary", BackOffice, h.FinanceSummary)
	h.route(router, "GET", "/api/finance/clients", BackOffice, h.ClientRevenue)
	h.route(router, "GET", "/api/analytics", AdminArea, h.Analytics)
	h.route(router, "GET", "/api/search", Authenticated, h.Search)
	h.route(router, "GET", "/api/export/{entity}", BackOffice, h.Export)
}

// Dashboard handles GET /api/dashboard with the view matching the acting
// user's role. Without an acting user the admin overview is returned.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	state := h.store.State()
	user := actingUser(r)
	switch {
	case domain.HasRole(user, domain.RoleClient):
		respondOK(w, views.BuildClientDashboard(state, user, h.clock()))
	case domain.HasRole(user, domain.RoleSupplier):
		respondOK(w, views.BuildSupplierDashboard(state, user, h.clock()))
	default:
		respondOK(w, views.BuildAnalytics(state))
	}
}

// FinanceSummary handles GET /api/finance/summary
func (h *Handler) FinanceSummary(w http.ResponseWriter, r *http.Request) {
	respondOK(w, views.SummarizeFinance(h.store.State().Invoices, h.clock()))
}

// ClientRevenue handles GET /api/finance/clients
func (h *Handler) ClientRevenue(w http.ResponseWriter, r *http.Request) {
	state := h.store.State()
	respondOK(w, views.RevenueByClient(state.Users, state.Invoices))
}

// Analytics handles GET /api/analytics
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	respondOK(w, views.BuildAnalytics(h.store.State()))
}

// Search handles GET /api/search?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	state := h.store.State()
	results := views.QuickSearch(r.URL.Query().Get("q"), state.Products, visibleOrders(state, actingUser(r)), state.Users)
	respondOK(w, results)
}

// Export handles GET /api/export/{entity}, returning the tabular shape
// consumed by spreadsheet and document writers
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	prepare, ok := export.Lookup(mux.Vars(r)["entity"])
	if !ok {
		respondError(w, http.StatusNotFound, "Type d'export inconnu")
		return
	}
	respondOK(w, prepare(h.store.State(), h.clock()))
}
