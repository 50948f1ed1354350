package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/storage"
	"github.com/tair/pharmadistrib/internal/store"
	"github.com/tair/pharmadistrib/internal/views"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// Seeded accounts
const (
	centreClient = "1"
	adminUser    = "2"
	pharmaLab    = "3"
	lilasClient  = "4"
)

type fixture struct {
	router  *mux.Router
	handler *Handler
	store   *store.Store
	slot    *storage.MemorySlot
}

func setup(t *testing.T, guard bool) *fixture {
	t.Helper()
	slot := storage.NewMemorySlot()
	s, err := store.Open(context.Background(), slot,
		store.WithIDGenerator(store.SequenceGenerator(100)),
		store.WithClock(func() time.Time { return testNow }),
	)
	require.NoError(t, err)

	h := NewHandler(s, prometheus.NewRegistry(), Options{
		GuardEnabled: guard,
		Clock:        func() time.Time { return testNow },
	})
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	h.RegisterHealthCheck(router)
	return &fixture{router: router, handler: h, store: s, slot: slot}
}

func (f *fixture) do(method, path, userID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(UserHeader, userID)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestGuard(t *testing.T) {
	f := setup(t, true)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		status int
		error  string
	}{
		{name: "missing user", method: "GET", path: "/api/products", status: http.StatusUnauthorized, error: "Authentification requise"},
		{name: "unknown user", method: "GET", path: "/api/products", user: "999", status: http.StatusUnauthorized, error: "Authentification requise"},
		{name: "client reads catalogue", method: "GET", path: "/api/products", user: centreClient, status: http.StatusOK},
		{name: "client on admin area", method: "GET", path: "/api/users", user: centreClient, status: http.StatusForbidden, error: "Accès non autorisé"},
		{name: "supplier on admin area", method: "GET", path: "/api/audit-logs", user: pharmaLab, status: http.StatusForbidden, error: "Accès non autorisé"},
		{name: "admin on admin area", method: "GET", path: "/api/users", user: adminUser, status: http.StatusOK},
		{name: "supplier on back office", method: "GET", path: "/api/finance/summary", user: pharmaLab, status: http.StatusOK},
		{name: "client on back office", method: "GET", path: "/api/inventory/summary", user: centreClient, status: http.StatusForbidden, error: "Accès non autorisé"},
		{name: "supplier on cart", method: "GET", path: "/api/cart", user: pharmaLab, status: http.StatusForbidden, error: "Accès non autorisé"},
		{name: "admin on cart", method: "GET", path: "/api/cart", user: adminUser, status: http.StatusOK},
		{name: "health is open", method: "GET", path: "/health", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(tt.method, tt.path, tt.user, "")
			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w, nil)
			assert.Equal(t, tt.error, env.Error)
			assert.Equal(t, tt.error == "", env.Success)
		})
	}
}

func TestGuardDisabled_AllowsAnonymous(t *testing.T) {
	f := setup(t, false)

	w := f.do("GET", "/api/users", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var users []domain.User
	decode(t, w, &users)
	assert.Len(t, users, 4)
}

func TestListProducts_Filters(t *testing.T) {
	f := setup(t, false)

	tests := []struct {
		query string
		ids   []string
	}{
		{query: "", ids: []string{"1", "2", "3"}},
		{query: "?stock=low", ids: []string{"2"}},
		{query: "?supplier=PharmaLab", ids: []string{"1"}},
		{query: "?category=all&search=ANTI", ids: []string{"1", "2", "3"}},
		{query: "?search=amox", ids: []string{"3"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := f.do("GET", "/api/products"+tt.query, "", "")
			require.Equal(t, http.StatusOK, w.Code)

			var products []domain.Product
			decode(t, w, &products)
			ids := make([]string, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestProductCRUD(t *testing.T) {
	f := setup(t, true)

	w := f.do("POST", "/api/products", pharmaLab, `{"name":"Doliprane 1g","price":2.1,"stock":40,"minStock":20,"supplier":"PharmaLab"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.Product
	decode(t, w, &created)
	assert.Equal(t, "101", created.ID)
	assert.Equal(t, "Doliprane 1g", created.Name)

	w = f.do("PATCH", "/api/products/"+created.ID, pharmaLab, `{"stock":5,"id":"hijack"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated domain.Product
	decode(t, w, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 5, updated.Stock)
	assert.Equal(t, "Doliprane 1g", updated.Name)

	w = f.do("DELETE", "/api/products/"+created.ID, adminUser, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do("DELETE", "/api/products/"+created.ID, adminUser, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do("PATCH", "/api/products/missing", adminUser, `{"stock":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductUpdate_BadInput(t *testing.T) {
	f := setup(t, false)

	w := f.do("PATCH", "/api/products/1", "", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Requête invalide", decode(t, w, nil).Error)

	w = f.do("PATCH", "/api/products/1", "", `{"stock":"many"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Données de mise à jour invalides", decode(t, w, nil).Error)
}

func TestProductAlerts(t *testing.T) {
	f := setup(t, false)

	w := f.do("GET", "/api/products/alerts", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var alerts StockAlerts
	decode(t, w, &alerts)
	require.Len(t, alerts.LowStock, 1)
	assert.Equal(t, "2", alerts.LowStock[0].ID)
	assert.Empty(t, alerts.CriticalStock)

	// Amoxicilline expires 2025-06-30, Ibuprofène 2025-08-15
	require.Len(t, alerts.Expiring, 1)
	assert.Equal(t, "3", alerts.Expiring[0].ID)
}

func TestCartFlow(t *testing.T) {
	f := setup(t, true)

	w := f.do("POST", "/api/cart/items", centreClient, `{"productId":"1","quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do("POST", "/api/cart/items", centreClient, `{"productId":"1","quantity":3}`)
	require.Equal(t, http.StatusOK, w.Code)

	var cart views.CartView
	decode(t, w, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Quantity)
	assert.InDelta(t, 17.5, cart.Total, 1e-9)

	w = f.do("PUT", "/api/cart/items/1", centreClient, `{"quantity":10}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &cart)
	assert.InDelta(t, 35.0, cart.Total, 1e-9)

	w = f.do("POST", "/api/cart/checkout", centreClient, `{"notes":"Livrer avant midi"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var order domain.Order
	decode(t, w, &order)
	assert.Equal(t, "ORD-101", order.ID)
	assert.Equal(t, centreClient, order.ClientID)
	assert.Equal(t, "Pharmacie du Centre", order.ClientName)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.InDelta(t, 35.0, order.Total, 1e-9)
	assert.Equal(t, "Livrer avant midi", order.Notes)

	assert.Empty(t, f.store.State().Cart)
}

func TestCart_Errors(t *testing.T) {
	f := setup(t, false)

	w := f.do("POST", "/api/cart/checkout", centreClient, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Panier vide", decode(t, w, nil).Error)

	w = f.do("POST", "/api/cart/items", "", `{"productId":"1","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Quantité invalide", decode(t, w, nil).Error)

	w = f.do("POST", "/api/cart/items", "", `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.do("POST", "/api/cart/items", "", `{"productId":"1","quantity":1}`)
	w = f.do("POST", "/api/cart/checkout", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do("POST", "/api/cart/checkout", "", `{"userId":"999"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do("PUT", "/api/cart/items/1", "", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.store.State().Cart)
}

func TestCheckout_BodyUserWhenAnonymous(t *testing.T) {
	f := setup(t, false)

	f.do("POST", "/api/cart/items", "", `{"productId":"3","quantity":1}`)
	w := f.do("POST", "/api/cart/checkout", "", `{"userId":"4"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var order domain.Order
	decode(t, w, &order)
	assert.Equal(t, "Pharmacie des Lilas", order.ClientName)
}

func TestListOrders_ScopedByRole(t *testing.T) {
	f := setup(t, true)

	tests := []struct {
		user  string
		count int
	}{
		{user: centreClient, count: 1},
		{user: lilasClient, count: 0},
		{user: pharmaLab, count: 1},
		{user: adminUser, count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			w := f.do("GET", "/api/orders", tt.user, "")
			require.Equal(t, http.StatusOK, w.Code)
			var orders []domain.Order
			decode(t, w, &orders)
			assert.Len(t, orders, tt.count)
		})
	}

	w := f.do("GET", "/api/orders?status=pending", adminUser, "")
	var orders []domain.Order
	decode(t, w, &orders)
	assert.Empty(t, orders)
}

func TestInvoicesAndDeliveries_ScopedForClients(t *testing.T) {
	f := setup(t, true)
	w := f.do("POST", "/api/returns", centreClient, `{"orderId":"ORD-2024-001","productId":"1","quantity":2,"reason":"Emballage abîmé"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	for _, path := range []string{"/api/invoices", "/api/deliveries", "/api/returns"} {
		t.Run(path, func(t *testing.T) {
			var own, other []json.RawMessage
			decode(t, f.do("GET", path, centreClient, ""), &own)
			decode(t, f.do("GET", path, lilasClient, ""), &other)

			all := f.do("GET", path, adminUser, "")
			var every []json.RawMessage
			decode(t, all, &every)

			assert.Empty(t, other)
			assert.Len(t, every, 1)
			assert.Len(t, own, 1)
		})
	}
}

func TestUpdateInvoice_ClientForbidden(t *testing.T) {
	f := setup(t, true)

	w := f.do("PATCH", "/api/invoices/INV-2024-001", centreClient, `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do("PATCH", "/api/invoices/INV-2024-001", adminUser, `{"status":"overdue"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var inv domain.Invoice
	decode(t, w, &inv)
	assert.Equal(t, domain.InvoiceStatus("overdue"), inv.Status)
}

func TestListings_SearchAndFilters(t *testing.T) {
	f := setup(t, true)
	for _, body := range []string{
		`{"productId":"1","productName":"Paracétamol 500mg","batchNumber":"LOT-A1","testType":"incoming","status":"passed"}`,
		`{"productId":"3","productName":"Amoxicilline 1g","batchNumber":"LOT-B7","testType":"periodic","status":"quarantine"}`,
	} {
		require.Equal(t, http.StatusCreated, f.do("POST", "/api/quality-controls", adminUser, body).Code)
	}
	for _, body := range []string{
		`{"name":"Contrat PharmaLab","description":"Accord cadre annuel","type":"contract","category":"Fournisseurs"}`,
		`{"name":"Rapport qualité","description":"Audit BPD","type":"report","category":"Qualité"}`,
	} {
		require.Equal(t, http.StatusCreated, f.do("POST", "/api/documents", adminUser, body).Code)
	}

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "invoices by id", path: "/api/invoices?search=inv-2024-001", want: 1},
		{name: "invoices by client", path: "/api/invoices?search=CENTRE", want: 1},
		{name: "invoices status mismatch", path: "/api/invoices?status=overdue", want: 0},
		{name: "invoices all status", path: "/api/invoices?status=all", want: 1},
		{name: "deliveries by id", path: "/api/deliveries?search=del-2024", want: 1},
		{name: "deliveries status mismatch", path: "/api/deliveries?status=in_transit", want: 0},
		{name: "quality controls by batch", path: "/api/quality-controls?search=lot-b7", want: 1},
		{name: "quality controls by type", path: "/api/quality-controls?type=incoming&status=passed", want: 1},
		{name: "quality controls unfiltered", path: "/api/quality-controls", want: 2},
		{name: "documents by description", path: "/api/documents?search=audit", want: 1},
		{name: "documents by category", path: "/api/documents?category=Fournisseurs&type=contract", want: 1},
		{name: "documents type mismatch", path: "/api/documents?category=Fournisseurs&type=report", want: 0},
		{name: "users by email", path: "/api/users?search=pharmalab.fr", want: 1},
		{name: "users by role and status", path: "/api/users?role=client&status=active", want: 1},
		{name: "users search and role", path: "/api/users?search=pharmacie&role=client", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do("GET", tt.path, adminUser, "")
			require.Equal(t, http.StatusOK, w.Code)
			var items []json.RawMessage
			decode(t, w, &items)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestListInvoices_SearchKeepsClientScope(t *testing.T) {
	f := setup(t, true)

	var items []json.RawMessage
	decode(t, f.do("GET", "/api/invoices?search=centre", lilasClient, ""), &items)
	assert.Empty(t, items)

	decode(t, f.do("GET", "/api/invoices?search=centre", centreClient, ""), &items)
	assert.Len(t, items, 1)
}

func TestNotifications(t *testing.T) {
	f := setup(t, true)

	w := f.do("POST", "/api/notifications", adminUser, `{"userId":"1","title":"Stock faible","message":"Réapprovisionner","type":"warning"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var n domain.Notification
	decode(t, w, &n)
	assert.False(t, n.Read)

	var list struct {
		Notifications []domain.Notification `json:"notifications"`
		Unread        int                   `json:"unread"`
	}
	decode(t, f.do("GET", "/api/notifications", centreClient, ""), &list)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, 1, list.Unread)

	w = f.do("POST", "/api/notifications/"+n.ID+"/read", centreClient, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, f.do("GET", "/api/notifications?userId=1", adminUser, ""), &list)
	assert.Equal(t, 0, list.Unread)

	w = f.do("POST", "/api/notifications/missing/read", centreClient, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var cleared struct {
		Removed int `json:"removed"`
	}
	decode(t, f.do("DELETE", "/api/notifications", centreClient, ""), &cleared)
	assert.Equal(t, 1, cleared.Removed)
}

func TestSendMessage_DefaultsSender(t *testing.T) {
	f := setup(t, true)

	w := f.do("POST", "/api/messages", centreClient, `{"recipientId":"3","subject":"Commande","content":"Bonjour"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var msg domain.Message
	decode(t, w, &msg)
	assert.Equal(t, centreClient, msg.SenderID)

	var inbox struct {
		Messages []domain.Message `json:"messages"`
		Unread   int              `json:"unread"`
	}
	decode(t, f.do("GET", "/api/messages", pharmaLab, ""), &inbox)
	assert.Equal(t, 1, inbox.Unread)

	require.Equal(t, http.StatusOK, f.do("POST", "/api/messages/"+msg.ID+"/read", pharmaLab, "").Code)
	decode(t, f.do("GET", "/api/messages", pharmaLab, ""), &inbox)
	assert.Equal(t, 0, inbox.Unread)
}

func TestCreateAuditLog_AttributesActingUser(t *testing.T) {
	f := setup(t, true)

	w := f.do("POST", "/api/audit-logs", adminUser, `{"action":"update","resource":"product","resourceId":"1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var entry domain.AuditLog
	decode(t, w, &entry)
	assert.Equal(t, adminUser, entry.UserID)
	assert.NotEmpty(t, entry.UserName)
	assert.NotEmpty(t, entry.IPAddress)
}

func TestComplianceRecords_ExpiringWithin(t *testing.T) {
	f := setup(t, false)

	w := f.do("GET", "/api/compliance-records?expiringWithin=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do("POST", "/api/compliance-records", "", `{"type":"license","title":"Licence de distribution","expiryDate":"2025-07-01"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		query string
		count int
	}{
		{query: "", count: 1},
		{query: "?expiringWithin=30", count: 1},
		{query: "?expiringWithin=5", count: 0},
	}
	for _, tt := range tests {
		var records []domain.ComplianceRecord
		decode(t, f.do("GET", "/api/compliance-records"+tt.query, "", ""), &records)
		assert.Len(t, records, tt.count, tt.query)
	}
}

func TestDashboard_ByRole(t *testing.T) {
	f := setup(t, true)

	tests := []struct {
		user string
		key  string
	}{
		{user: centreClient, key: "urgentNeeds"},
		{user: pharmaLab, key: "topProducts"},
		{user: adminUser, key: "activeUsers"},
	}

	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			w := f.do("GET", "/api/dashboard", tt.user, "")
			require.Equal(t, http.StatusOK, w.Code)
			var fields map[string]json.RawMessage
			decode(t, w, &fields)
			assert.Contains(t, fields, tt.key)
		})
	}
}

func TestSearch(t *testing.T) {
	f := setup(t, false)

	var results []struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}
	decode(t, f.do("GET", "/api/search?q=centre", "", ""), &results)
	require.NotEmpty(t, results)
	assert.Equal(t, "order", results[0].Type)
	assert.Equal(t, "ORD-2024-001", results[0].ID)

	w := f.do("GET", "/api/search?q=c", "", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestExport(t *testing.T) {
	f := setup(t, true)

	w := f.do("GET", "/api/export/products", pharmaLab, "")
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Headers  []string `json:"headers"`
		Rows     [][]any  `json:"rows"`
		Filename string   `json:"filename"`
	}
	decode(t, w, &data)
	assert.Len(t, data.Rows, 3)
	assert.Equal(t, "produits_2025-06-15", data.Filename)

	w = f.do("GET", "/api/export/unknown", pharmaLab, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do("GET", "/api/export/orders", centreClient, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPersistFailure_Returns503(t *testing.T) {
	f := setup(t, false)
	f.slot.FailWith(errors.New("disk full"))

	w := f.do("POST", "/api/cart/items", "", `{"productId":"1","quantity":1}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, f.store.State().Cart)
}

func TestMetricsMiddleware_CountsRequests(t *testing.T) {
	f := setup(t, false)

	f.do("GET", "/api/products", "", "")
	f.do("GET", "/api/products", "", "")
	f.do("PATCH", "/api/products/missing", "", `{}`)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.handler.requestCounter.WithLabelValues("GET", "/api/products", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.handler.requestCounter.WithLabelValues("PATCH", "/api/products/{id}", "404")))
}

func TestHealthCheck(t *testing.T) {
	f := setup(t, true)

	w := f.do("GET", "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var counts map[string]int
	decode(t, w, &counts)
	assert.Equal(t, 3, counts["products"])
	assert.Equal(t, 4, counts["users"])
}
