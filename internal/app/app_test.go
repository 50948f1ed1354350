package app

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/pharmadistrib/internal/config"
	"github.com/tair/pharmadistrib/internal/notify"
	"github.com/tair/pharmadistrib/internal/store"
	"github.com/tair/pharmadistrib/internal/views"
)

func memoryConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = config.BackendMemory
	cfg.Notifications.Enabled = false
	cfg.Payment.Latency = 0
	return cfg
}

func TestInitializeApp_Memory(t *testing.T) {
	ctx := context.Background()
	app, cleanup, err := InitializeApp(ctx, memoryConfig(), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	assert.NotNil(t, app.Store)
	assert.NotNil(t, app.HTTP)
	assert.NotNil(t, app.Payment)
	assert.NotNil(t, app.GRPC)
	assert.Nil(t, app.Generator)
	assert.Nil(t, app.Consumer)
	assert.Nil(t, app.RateLimiter)
	assert.IsType(t, notify.DirectPublisher{}, app.Publisher)
	assert.Len(t, app.Store.State().Products, 3)
}

func TestInitializeApp_CheckoutNotifiesRecipient(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.Notifications.RecipientID = "2"

	app, cleanup, err := InitializeApp(ctx, cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	require.NoError(t, app.Store.Execute(ctx, &store.AddToCart{ProductID: "1", Quantity: 2}))
	checkout := &store.Checkout{UserID: "1"}
	require.NoError(t, app.Store.Execute(ctx, checkout))

	notifications := views.NotificationsFor(app.Store.State().Notifications, "2")
	require.Len(t, notifications, 1)
	assert.Equal(t, "Commande #"+checkout.Order.ID+" reçue de Pharmacie du Centre", notifications[0].Message)
}

func TestInitializeApp_GeneratorEnabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.Notifications.Enabled = true

	app, cleanup, err := InitializeApp(context.Background(), cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	assert.NotNil(t, app.Generator)
}

func TestProvideSlot_UnknownBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Backend = "tape"

	_, _, err := ProvideSlot(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestProvideSlot_File(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Backend = config.BackendFile
	cfg.Storage.Dir = t.TempDir()

	slot, cleanup, err := ProvideSlot(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	ctx := context.Background()
	require.NoError(t, slot.Save(ctx, "k", []byte("v")))
	data, err := slot.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(data))
}

func TestProvideRateLimiter_UnreachableRedis(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTP.RateLimit.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"

	_, _, err := ProvideRateLimiter(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}
