package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/storage"
	"github.com/tair/pharmadistrib/internal/views"
	"github.com/tair/pharmadistrib/pkg/logger"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events []Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *storage.MemorySlot) {
	t.Helper()
	slot := storage.NewMemorySlot()
	opts = append([]Option{
		WithIDGenerator(SequenceGenerator(0)),
		WithClock(func() time.Time { return testNow }),
	}, opts...)
	s, err := Open(context.Background(), slot, opts...)
	require.NoError(t, err)
	return s, slot
}

func TestOpen_SeedsWhenSlotEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	state := s.State()
	assert.Equal(t, domain.Seed(), state)
	assert.Empty(t, state.Cart)
}

func TestOpen_CorruptSnapshotFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	require.NoError(t, slot.Save(ctx, DefaultKey, []byte("{not json")))

	s, err := Open(ctx, slot)
	require.NoError(t, err)
	assert.Equal(t, domain.Seed(), s.State())
}

func TestOpen_RehydratesPersistedState(t *testing.T) {
	ctx := context.Background()
	s, slot := newTestStore(t)
	require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "2", Quantity: 4}))

	reopened, err := Open(ctx, slot)
	require.NoError(t, err)
	assert.Equal(t, s.State(), reopened.State())
	assert.Equal(t, []domain.CartLine{{ProductID: "2", Quantity: 4}}, reopened.State().Cart)
}

type brokenSlot struct{ storage.MemorySlot }

func (b *brokenSlot) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestOpen_ReturnsUnreachableSlotError(t *testing.T) {
	_, err := Open(context.Background(), &brokenSlot{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAddToCart_MergesLines(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 2}))
	require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 3}))

	state := s.State()
	assert.Equal(t, []domain.CartLine{{ProductID: "1", Quantity: 5}}, state.Cart)
	assert.InDelta(t, 17.50, views.CartTotal(state.Cart, state.Products), 1e-9)
}

func TestAddToCart_RejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, qty := range []int{0, -3} {
		err := s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: qty})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Empty(t, s.State().Cart)
}

func TestUpdateCartQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("zero removes the line", func(t *testing.T) {
		a, _ := newTestStore(t)
		b, _ := newTestStore(t)
		for _, s := range []*Store{a, b} {
			require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 2}))
			require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "2", Quantity: 1}))
		}

		require.NoError(t, a.Execute(ctx, &UpdateCartQuantity{ProductID: "1", Quantity: 0}))
		require.NoError(t, b.Execute(ctx, &RemoveFromCart{ProductID: "1"}))

		assert.Equal(t, b.State().Cart, a.State().Cart)
		assert.Equal(t, []domain.CartLine{{ProductID: "2", Quantity: 1}}, a.State().Cart)
	})

	t.Run("replaces quantity", func(t *testing.T) {
		s, _ := newTestStore(t)
		require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 2}))
		require.NoError(t, s.Execute(ctx, &UpdateCartQuantity{ProductID: "1", Quantity: 7}))
		assert.Equal(t, []domain.CartLine{{ProductID: "1", Quantity: 7}}, s.State().Cart)
	})

	t.Run("unknown line is ignored", func(t *testing.T) {
		s, _ := newTestStore(t)
		require.NoError(t, s.Execute(ctx, &UpdateCartQuantity{ProductID: "9", Quantity: 7}))
		assert.Empty(t, s.State().Cart)
	})
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 2}))

	require.NoError(t, s.Execute(ctx, &ClearCart{}))
	assert.Empty(t, s.State().Cart)
	assert.NotNil(t, s.State().Cart)
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s, _ := newTestStore(t, WithPublisher(pub))

	require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 2}))
	require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "3", Quantity: 1}))

	cmd := &Checkout{UserID: "1", Notes: "Livrer le matin"}
	require.NoError(t, s.Execute(ctx, cmd))

	state := s.State()
	assert.Empty(t, state.Cart)
	require.Len(t, state.Orders, 2)

	order := state.Orders[1]
	assert.Equal(t, cmd.Order, order)
	assert.Equal(t, "ORD-1", order.ID)
	assert.Equal(t, "1", order.ClientID)
	assert.Equal(t, "Pharmacie du Centre", order.ClientName)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, "2025-03-10T09:30:00.000Z", order.OrderDate)
	assert.Equal(t, "Livrer le matin", order.Notes)
	assert.InDelta(t, 2*3.5+8.9, order.Total, 1e-9)
	assert.Equal(t, []domain.OrderLine{
		{ProductID: "1", ProductName: "Paracétamol 500mg", Quantity: 2, Price: 3.5},
		{ProductID: "3", ProductName: "Amoxicilline 1g", Quantity: 1, Price: 8.9},
	}, order.Products)

	assert.Equal(t, []string{"cart.updated", "cart.updated", "order.created", "cart.checked_out"}, pub.types())
}

func TestCheckout_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		s, _ := newTestStore(t)
		err := s.Execute(ctx, &Checkout{UserID: "1"})
		require.ErrorIs(t, err, ErrEmptyCart)
		assert.Len(t, s.State().Orders, 1)
	})

	t.Run("unknown user keeps the cart", func(t *testing.T) {
		s, _ := newTestStore(t)
		require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 1}))
		err := s.Execute(ctx, &Checkout{UserID: "ghost"})
		require.ErrorIs(t, err, ErrUserNotFound)
		assert.Len(t, s.State().Cart, 1)
		assert.Len(t, s.State().Orders, 1)
	})
}

func TestCheckout_ClientNameFallsBackToUserName(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "2", Quantity: 1}))

	cmd := &Checkout{UserID: "2"}
	require.NoError(t, s.Execute(ctx, cmd))
	assert.Equal(t, "Administrateur Système", cmd.Order.ClientName)
}

func TestExecute_PersistFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	pub := &recordingPublisher{}
	s, slot := newTestStore(t, WithMetrics(metrics), WithPublisher(pub))
	before := s.State()

	slot.FailWith(errors.New("quota exceeded"))
	err := s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersist)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, before, s.State())
	assert.Empty(t, pub.types())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.persistErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.commandsTotal.WithLabelValues("add_to_cart", "error")))

	slot.FailWith(nil)
	require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 1}))
	assert.Len(t, s.State().Cart, 1)
}

func TestExecute_PublishErrorDoesNotFailCommand(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	s, _ := newTestStore(t, WithPublisher(pub))

	require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 1}))
	assert.Len(t, s.State().Cart, 1)
}

func TestExecute_NoOpIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	s, slot := newTestStore(t)

	cmd := UpdateProduct("missing", Patch{"stock": 1})
	require.NoError(t, s.Execute(ctx, cmd))
	assert.False(t, cmd.Found)

	_, err := slot.Load(ctx, DefaultKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateProduct_MergesPatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	cmd := UpdateProduct("2", Patch{"stock": 80, "price": 4.5, "id": "hijack"})
	require.NoError(t, s.Execute(ctx, cmd))
	require.True(t, cmd.Found)

	p, ok := domain.FindProduct(s.State().Products, "2")
	require.True(t, ok)
	assert.Equal(t, 80, p.Stock)
	assert.InDelta(t, 4.5, p.Price, 1e-9)
	assert.Equal(t, "Ibuprofène 400mg", p.Name)
	assert.Equal(t, cmd.Entity, p)

	_, hijacked := domain.FindProduct(s.State().Products, "hijack")
	assert.False(t, hijacked)
}

func TestUpdateProduct_NullLeavesFieldUnchanged(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	cmd := UpdateProduct("1", Patch{"price": nil, "stock": 140})
	require.NoError(t, s.Execute(ctx, cmd))
	require.True(t, cmd.Found)

	p, ok := domain.FindProduct(s.State().Products, "1")
	require.True(t, ok)
	assert.InDelta(t, 3.5, p.Price, 1e-9)
	assert.Equal(t, 140, p.Stock)
}

func TestUpdateProduct_InvalidPatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	before := s.State()

	err := s.Execute(ctx, UpdateProduct("1", Patch{"stock": "many"}))
	require.ErrorIs(t, err, ErrInvalidPatch)
	assert.Equal(t, before, s.State())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	missing := DeleteProduct("404")
	require.NoError(t, s.Execute(ctx, missing))
	assert.False(t, missing.Found)
	assert.Len(t, s.State().Products, 3)

	cmd := DeleteProduct("2")
	require.NoError(t, s.Execute(ctx, cmd))
	assert.True(t, cmd.Found)
	assert.Len(t, s.State().Products, 2)
	_, ok := domain.FindProduct(s.State().Products, "2")
	assert.False(t, ok)
}

func TestAddCommands_AssignPrefixedIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	order := AddOrder(domain.Order{ClientName: "Pharmacie du Centre", Total: 99})
	ret := AddReturn(domain.Return{OrderID: "ORD-2024-001"})
	inv := AddInvoice(domain.Invoice{OrderID: "ORD-2024-001"})
	del := AddDelivery(domain.Delivery{OrderID: "ORD-2024-001"})
	qc := AddQualityControl(domain.QualityControl{ProductID: "1"})
	comp := AddComplianceRecord(domain.ComplianceRecord{Title: "Licence"})
	audit := AddAuditLog(domain.AuditLog{Action: "login"})
	doc := AddDocument(domain.Document{Name: "bon.pdf"})
	msg := AddMessage(domain.Message{SenderID: "2", RecipientID: "1"})
	prod := AddProduct(domain.Product{Name: "Vitamine C"})

	for _, cmd := range []Command{order, ret, inv, del, qc, comp, audit, doc, msg, prod} {
		require.NoError(t, s.Execute(ctx, cmd), cmd.Name())
	}

	assert.Equal(t, "ORD-1", order.Entity.ID)
	assert.Equal(t, "RET-2", ret.Entity.ID)
	assert.Equal(t, "INV-3", inv.Entity.ID)
	assert.Equal(t, "DEL-4", del.Entity.ID)
	assert.Equal(t, "QC-5", qc.Entity.ID)
	assert.Equal(t, "COMP-6", comp.Entity.ID)
	assert.Equal(t, "AUDIT-7", audit.Entity.ID)
	assert.Equal(t, "DOC-8", doc.Entity.ID)
	assert.Equal(t, "MSG-9", msg.Entity.ID)
	assert.Equal(t, "10", prod.Entity.ID)

	// totals are stored as given
	assert.InDelta(t, 99.0, order.Entity.Total, 1e-9)
	assert.Equal(t, "2025-03-10T09:30:00.000Z", audit.Entity.Timestamp)
	assert.Equal(t, "2025-03-10T09:30:00.000Z", msg.Entity.Timestamp)
	assert.Len(t, s.State().Orders, 2)
}

func TestUUIDGenerator_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDGenerator("ORD-")
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestAddUser_Defaults(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	cmd := AddUser(domain.User{Name: "Claire Petit", Email: "claire@example.fr", Role: domain.RoleSupplier, CompanyName: "BioPharm"})
	require.NoError(t, s.Execute(ctx, cmd))

	assert.Equal(t, domain.UserActive, cmd.Entity.Status)
	assert.Equal(t, domain.DefaultPermissions(domain.RoleSupplier), cmd.Entity.Permissions)
	assert.Equal(t, "2025-03-10T09:30:00.000Z", cmd.Entity.CreatedAt)
	assert.Len(t, s.State().Users, 5)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	first := AddNotification(domain.Notification{UserID: "1", Title: "Nouvelle commande"})
	second := AddNotification(domain.Notification{UserID: "1", Title: "Stock faible"})
	other := AddNotification(domain.Notification{UserID: "2", Title: "Info"})
	for _, cmd := range []Command{first, second, other} {
		require.NoError(t, s.Execute(ctx, cmd))
	}
	assert.False(t, first.Entity.Read)
	assert.NotEmpty(t, first.Entity.CreatedAt)

	read := MarkNotificationRead(first.Entity.ID)
	require.NoError(t, s.Execute(ctx, read))
	assert.True(t, read.Found)
	assert.Equal(t, 1, views.UnreadNotifications(s.State().Notifications, "1"))

	cleared := &ClearNotifications{UserID: "1"}
	require.NoError(t, s.Execute(ctx, cleared))
	assert.Equal(t, 2, cleared.Removed)
	require.Len(t, s.State().Notifications, 1)
	assert.Equal(t, "2", s.State().Notifications[0].UserID)
}

func TestMarkMessageRead(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	msg := AddMessage(domain.Message{SenderID: "2", RecipientID: "1", Subject: "Bonjour"})
	require.NoError(t, s.Execute(ctx, msg))
	assert.Equal(t, 1, views.UnreadMessages(s.State().Messages, "1"))

	require.NoError(t, s.Execute(ctx, MarkMessageRead(msg.Entity.ID)))
	assert.Equal(t, 0, views.UnreadMessages(s.State().Messages, "1"))
}

func TestReplaceState(t *testing.T) {
	ctx := context.Background()
	s, slot := newTestStore(t)

	replacement := domain.State{Products: []domain.Product{{ID: "x", Name: "Seul produit"}}}
	require.NoError(t, s.Execute(ctx, &ReplaceState{State: replacement}))

	state := s.State()
	require.Len(t, state.Products, 1)
	assert.NotNil(t, state.Orders)
	assert.Empty(t, state.Users)

	data, err := slot.Load(ctx, DefaultKey)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, state, decoded)
}

func TestState_ReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)

	state := s.State()
	state.Products[0].Name = "mutated"
	state.Users = nil

	fresh := s.State()
	assert.Equal(t, "Paracétamol 500mg", fresh.Products[0].Name)
	assert.Len(t, fresh.Users, 4)
}

func TestExecute_ConcurrentCommandsSerialize(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 1}))
		}()
	}
	wg.Wait()

	assert.Equal(t, []domain.CartLine{{ProductID: "1", Quantity: 50}}, s.State().Cart)
}

func TestCodec(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		state := domain.Seed()
		state.Cart = []domain.CartLine{{ProductID: "1", Quantity: 3}}

		data, err := Encode(state)
		require.NoError(t, err)
		decoded, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, state, decoded)
	})

	t.Run("browser envelope", func(t *testing.T) {
		blob := []byte(`{"state":{"products":[{"id":"1","name":"Paracétamol 500mg","price":3.5}],"cart":[{"productId":"1","quantity":2}]},"version":0}`)
		decoded, err := Decode(blob)
		require.NoError(t, err)
		require.Len(t, decoded.Products, 1)
		assert.Equal(t, []domain.CartLine{{ProductID: "1", Quantity: 2}}, decoded.Cart)
		assert.NotNil(t, decoded.Invoices)
	})

	t.Run("plain state with a product named state", func(t *testing.T) {
		decoded, err := Decode([]byte(`{"products":[{"id":"9","name":"state"}]}`))
		require.NoError(t, err)
		require.Len(t, decoded.Products, 1)
		assert.Equal(t, "9", decoded.Products[0].ID)
	})

	for _, blob := range []string{"", "   ", "null", "[1,2]", "{broken"} {
		t.Run("rejects "+blob, func(t *testing.T) {
			_, err := Decode([]byte(blob))
			assert.Error(t, err)
		})
	}
}

func TestMetrics_TrackState(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	s, _ := newTestStore(t, WithMetrics(metrics))

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.collectionSize.WithLabelValues("products")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.lowStock))

	require.NoError(t, s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 1}))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cartLines))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.commandsTotal.WithLabelValues("add_to_cart", "ok")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeCommand("x", nil, time.Second)
		m.observePersist(time.Second, errors.New("x"))
		m.observeState(domain.Seed())
	})
}

func TestView(t *testing.T) {
	s, _ := newTestStore(t)

	var products int
	require.NoError(t, s.View(context.Background(), func(state domain.State) error {
		products = len(state.Products)
		return nil
	}))
	assert.Equal(t, 3, products)

	boom := errors.New("boom")
	assert.ErrorIs(t, s.View(context.Background(), func(domain.State) error { return boom }), boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.View(ctx, func(domain.State) error { return nil }), context.Canceled)
}

func TestIsInputError(t *testing.T) {
	assert.True(t, IsInputError(ErrEmptyCart))
	assert.True(t, IsInputError(fmt.Errorf("%w: bad stock", ErrInvalidPatch)))
	assert.True(t, IsInputError(ErrInvalidQuantity))
	assert.True(t, IsInputError(ErrUserNotFound))
	assert.False(t, IsInputError(ErrPersist))
	assert.False(t, IsInputError(errors.New("boom")))
}

func TestExecute_FailureLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter("pharmadistrib-test", false, &buf)
	t.Cleanup(func() { logger.Logger = zerolog.Nop() })

	ctx := context.Background()
	s, slot := newTestStore(t)

	tests := []struct {
		name  string
		run   func() error
		level string
	}{
		{"empty cart", func() error { return s.Execute(ctx, &Checkout{UserID: "1"}) }, "warn"},
		{"invalid quantity", func() error { return s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 0}) }, "warn"},
		{"persist failure", func() error {
			slot.FailWith(errors.New("disk full"))
			defer slot.FailWith(nil)
			return s.Execute(ctx, &AddToCart{ProductID: "1", Quantity: 1})
		}, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			require.Error(t, tt.run())

			var failed map[string]any
			for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
				var entry map[string]any
				require.NoError(t, json.Unmarshal(line, &entry))
				if entry["message"] == "Store command failed" {
					failed = entry
				}
			}
			require.NotNil(t, failed)
			assert.Equal(t, tt.level, failed["level"])
		})
	}
}
