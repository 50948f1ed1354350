package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/store"
	"github.com/tair/pharmadistrib/internal/views"
)

// StockAlerts lists the products that need restocking
type StockAlerts struct {
	LowStock      []domain.Product `json:"lowStock"`
	CriticalStock []domain.Product `json:"criticalStock"`
	Expiring      []domain.Product `json:"expiring"`
}

func (h *Handler) registerCatalogRoutes(router *mux.Router) {
	h.route(router, "GET", "/api/products", Authenticated, h.ListProducts)
	h.route(router, "POST", "/api/products", BackOffice, h.CreateProduct)
	h.route(router, "GET", "/api/products/alerts", BackOffice, h.ProductAlerts)
	h.route(router, "PATCH", "/api/products/{id}", BackOffice, h.UpdateProduct)
	h.route(router, "DELETE", "/api/products/{id}", BackOffice, h.DeleteProduct)
	h.route(router, "GET", "/api/inventory/summary", BackOffice, h.InventorySummary)

	h.route(router, "GET", "/api/cart", ClientArea, h.GetCart)
	h.route(router, "DELETE", "/api/cart", ClientArea, h.ClearCart)
	h.route(router, "POST", "/api/cart/items", ClientArea, h.AddCartItem)
	h.route(router, "PUT", "/api/cart/items/{productId}", ClientArea, h.UpdateCartItem)
	h.route(router, "DELETE", "/api/cart/items/{productId}", ClientArea, h.RemoveCartItem)
	h.route(router, "POST", "/api/cart/checkout", ClientArea, h.Checkout)
}

// ListProducts handles GET /api/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := views.InventoryFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Supplier: q.Get("supplier"),
		Stock:    q.Get("stock"),
	}
	respondOK(w, views.FilterInventory(h.store.State().Products, filter))
}

// CreateProduct handles POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, store.AddProduct, "Produit ajouté")
}

// UpdateProduct handles PATCH /api/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	patch(h, w, r, store.UpdateProduct, "Produit mis à jour")
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	remove(h, w, r, store.DeleteProduct, "Produit supprimé")
}

// ProductAlerts handles GET /api/products/alerts
func (h *Handler) ProductAlerts(w http.ResponseWriter, r *http.Request) {
	products := h.store.State().Products
	respondOK(w, StockAlerts{
		LowStock:      views.LowStockProducts(products),
		CriticalStock: views.CriticalStockProducts(products),
		Expiring:      views.ExpiringProducts(products, h.clock(), views.DefaultExpiryHorizonDays),
	})
}

// InventorySummary handles GET /api/inventory/summary
func (h *Handler) InventorySummary(w http.ResponseWriter, r *http.Request) {
	respondOK(w, views.SummarizeInventory(h.store.State().Products, h.clock()))
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type checkoutRequest struct {
	UserID string `json:"userId"`
	Notes  string `json:"notes"`
}

func (h *Handler) respondCart(w http.ResponseWriter, status int, message string) {
	state := h.store.State()
	respondJSON(w, status, Response{
		Success: true,
		Message: message,
		Data:    views.ResolveCart(state.Cart, state.Products),
	})
}

// GetCart handles GET /api/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, http.StatusOK, "")
}

// AddCartItem handles POST /api/cart/items
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "ID produit requis")
		return
	}
	if !h.execute(w, r, &store.AddToCart{ProductID: req.ProductID, Quantity: req.Quantity}) {
		return
	}
	h.respondCart(w, http.StatusOK, "Produit ajouté au panier")
}

// UpdateCartItem handles PUT /api/cart/items/{productId}. A quantity of
// zero or less removes the line.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cmd := &store.UpdateCartQuantity{ProductID: mux.Vars(r)["productId"], Quantity: req.Quantity}
	if !h.execute(w, r, cmd) {
		return
	}
	h.respondCart(w, http.StatusOK, "Panier mis à jour")
}

// RemoveCartItem handles DELETE /api/cart/items/{productId}
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	if !h.execute(w, r, &store.RemoveFromCart{ProductID: mux.Vars(r)["productId"]}) {
		return
	}
	h.respondCart(w, http.StatusOK, "Produit retiré du panier")
}

// ClearCart handles DELETE /api/cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if !h.execute(w, r, &store.ClearCart{}) {
		return
	}
	h.respondCart(w, http.StatusOK, "Panier vidé")
}

// Checkout handles POST /api/cart/checkout. The order is placed for the
// acting user, or for the body userId when no user header was sent.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	userID := req.UserID
	if u := actingUser(r); u != nil {
		userID = u.ID
	}
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "Authentification requise")
		return
	}

	cmd := &store.Checkout{UserID: userID, Notes: req.Notes}
	if !h.execute(w, r, cmd) {
		return
	}
	respondCreated(w, "Commande passée avec succès", cmd.Order)
}
