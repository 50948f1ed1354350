package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/store"
	"github.com/tair/pharmadistrib/internal/views"
)

func (h *Handler) registerOrderRoutes(router *mux.Router) {
	h.route(router, "GET", "/api/orders", Authenticated, h.ListOrders)
	h.route(router, "POST", "/api/orders", Authenticated, h.CreateOrder)
	h.route(router, "PATCH", "/api/orders/{id}", Authenticated, h.UpdateOrder)

	h.route(router, "GET", "/api/returns", Authenticated, h.ListReturns)
	h.route(router, "POST", "/api/returns", Authenticated, h.CreateReturn)
	h.route(router, "PATCH", "/api/returns/{id}", BackOffice, h.UpdateReturn)

	h.route(router, "GET", "/api/invoices", Authenticated, h.ListInvoices)
	h.route(router, "POST", "/api/invoices", BackOffice, h.CreateInvoice)
	h.route(router, "PATCH", "/api/invoices/{id}", BackOffice, h.UpdateInvoice)

	h.route(router, "GET", "/api/deliveries", Authenticated, h.ListDeliveries)
	h.route(router, "POST", "/api/deliveries", BackOffice, h.CreateDelivery)
	h.route(router, "PATCH", "/api/deliveries/{id}", BackOffice, h.UpdateDelivery)
}

// visibleOrders scopes orders to the acting user. Without one (guard
// disabled) every order is visible.
func visibleOrders(state domain.State, user *domain.User) []domain.Order {
	if user == nil {
		return state.Orders
	}
	return views.OrdersForUser(state.Orders, state.Products, user)
}

// clientScoped reports whether listings must be narrowed to the user's pharmacy
func clientScoped(user *domain.User) bool {
	return user != nil && user.Role == domain.RoleClient
}

// ListOrders handles GET /api/orders, optionally filtered by ?status
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := visibleOrders(h.store.State(), actingUser(r))
	status := r.URL.Query().Get("status")
	if status == "" || status == views.AllFilter {
		respondOK(w, orders)
		return
	}

	filtered := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if string(o.Status) == status {
			filtered = append(filtered, o)
		}
	}
	respondOK(w, filtered)
}

// CreateOrder handles POST /api/orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, store.AddOrder, "Commande créée")
}

// UpdateOrder handles PATCH /api/orders/{id}
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	patch(h, w, r, store.UpdateOrder, "Commande mise à jour")
}

// ListReturns handles GET /api/returns. Clients only see returns on their
// own orders.
func (h *Handler) ListReturns(w http.ResponseWriter, r *http.Request) {
	state := h.store.State()
	user := actingUser(r)
	if !clientScoped(user) {
		respondOK(w, state.Returns)
		return
	}

	own := make(map[string]bool)
	for _, o := range visibleOrders(state, user) {
		own[o.ID] = true
	}
	out := make([]domain.Return, 0)
	for _, ret := range state.Returns {
		if own[ret.OrderID] {
			out = append(out, ret)
		}
	}
	respondOK(w, out)
}

// CreateReturn handles POST /api/returns
func (h *Handler) CreateReturn(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, store.AddReturn, "Demande de retour enregistrée")
}

// UpdateReturn handles PATCH /api/returns/{id}
func (h *Handler) UpdateReturn(w http.ResponseWriter, r *http.Request) {
	patch(h, w, r, store.UpdateReturn, "Retour mis à jour")
}

// ListInvoices handles GET /api/invoices, filtered by ?search (client or
// invoice id) and ?status
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices := h.store.State().Invoices
	if user := actingUser(r); clientScoped(user) {
		own := make([]domain.Invoice, 0)
		for _, inv := range invoices {
			if inv.ClientID == user.ID || inv.ClientName == user.PharmacyName {
				own = append(own, inv)
			}
		}
		invoices = own
	}
	respondOK(w, views.FilterInvoices(invoices, recordFilter(r)))
}

// CreateInvoice handles POST /api/invoices
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, store.AddInvoice, "Facture créée")
}

// UpdateInvoice handles PATCH /api/invoices/{id}
func (h *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	patch(h, w, r, store.UpdateInvoice, "Facture mise à jour")
}

// ListDeliveries handles GET /api/deliveries, filtered by ?search (client or
// delivery id) and ?status
func (h *Handler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	deliveries := h.store.State().Deliveries
	if user := actingUser(r); clientScoped(user) {
		own := make([]domain.Delivery, 0)
		for _, d := range deliveries {
			if d.ClientID == user.ID || d.ClientName == user.PharmacyName {
				own = append(own, d)
			}
		}
		deliveries = own
	}
	respondOK(w, views.FilterDeliveries(deliveries, recordFilter(r)))
}

// CreateDelivery handles POST /api/deliveries
func (h *Handler) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, store.AddDelivery, "Livraison planifiée")
}

// UpdateDelivery handles PATCH /api/deliveries/{id}
func (h *Handler) UpdateDelivery(w http.ResponseWriter, r *http.Request) {
	patch(h, w, r, store.UpdateDelivery, "Livraison mise à jour")
}
