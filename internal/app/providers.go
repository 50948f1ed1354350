// Package app assembles the PharmaDistrib process from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/tair/pharmadistrib/internal/config"
	grpcDelivery "github.com/tair/pharmadistrib/internal/delivery/grpc"
	httpDelivery "github.com/tair/pharmadistrib/internal/delivery/http"
	"github.com/tair/pharmadistrib/internal/notify"
	"github.com/tair/pharmadistrib/internal/payment"
	paymentHandler "github.com/tair/pharmadistrib/internal/payment/handler"
	"github.com/tair/pharmadistrib/internal/storage"
	"github.com/tair/pharmadistrib/internal/store"
	"github.com/tair/pharmadistrib/kafka"
	"github.com/tair/pharmadistrib/pkg/database"
	"github.com/tair/pharmadistrib/pkg/logger"
)

// App holds every long-lived component of a running process
type App struct {
	Config      *config.Config
	Registry    *prometheus.Registry
	Store       *store.Store
	Publisher   store.EventPublisher
	HTTP        *httpDelivery.Handler
	Payment     *paymentHandler.PaymentHandler
	GRPC        *grpcDelivery.Server
	// Generator is nil when the demo notification feed is disabled
	Generator   *notify.Generator
	// Consumer is nil when Kafka is disabled
	Consumer    *kafka.Consumer
	// RateLimiter is nil when http.rate_limit is disabled
	RateLimiter *httpDelivery.RateLimiter
}

// ProvideSlot opens the storage backend selected by storage.backend
func ProvideSlot(ctx context.Context, cfg *config.Config) (storage.Slot, func(), error) {
	var (
		slot storage.Slot
		err  error
	)

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		slot = storage.NewMemorySlot()
	case config.BackendFile:
		slot, err = storage.NewFileSlot(cfg.Storage.Dir)
	case config.BackendRedis:
		slot, err = storage.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	case config.BackendPostgres:
		db, dbErr := database.NewGormConnection(databaseConfig(cfg.Postgres))
		if dbErr != nil {
			return nil, nil, dbErr
		}
		slot, err = storage.NewGormSlot(db)
	case config.BackendMySQL:
		db, dbErr := database.NewMySQLConnection(databaseConfig(cfg.MySQL))
		if dbErr != nil {
			return nil, nil, dbErr
		}
		slot, err = storage.NewSQLSlot(ctx, db)
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, nil, err
	}

	logger.Logger.Info().
		Str("backend", cfg.Storage.Backend).
		Str("key", cfg.Storage.Key).
		Msg("Storage backend ready")

	traced := storage.NewTracingSlot(slot, cfg.Storage.Backend)
	cleanup := func() {
		if err := traced.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close storage backend")
		}
	}
	return traced, cleanup, nil
}

func databaseConfig(c config.DatabaseConfig) database.Config {
	return database.Config{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		DBName:   c.DBName,
		SSLMode:  c.SSLMode,
	}
}

// ProvideStore opens the store on slot, seeding it when empty
func ProvideStore(ctx context.Context, cfg *config.Config, slot storage.Slot, metrics *store.Metrics) (*store.Store, error) {
	return store.Open(ctx, slot,
		store.WithKey(cfg.Storage.Key),
		store.WithMetrics(metrics),
	)
}

// ProvideEventNotifier provides the notifier fed by store events
func ProvideEventNotifier(s *store.Store, cfg *config.Config) *notify.EventNotifier {
	return notify.NewEventNotifier(s, cfg.Notifications.RecipientID)
}

// ProvidePublisher attaches the event sink to the store: Kafka when enabled,
// the in-process notifier otherwise
func ProvidePublisher(cfg *config.Config, s *store.Store, notifier *notify.EventNotifier) (store.EventPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		p := notify.DirectPublisher{Notifier: notifier}
		s.SetPublisher(p)
		return p, func() {}, nil
	}

	p, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, err
	}
	s.SetPublisher(p)
	cleanup := func() {
		if err := p.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka publisher")
		}
	}
	return p, cleanup, nil
}

// ProvideConsumer subscribes the notifier to the Kafka topic. It returns nil
// when Kafka is disabled.
func ProvideConsumer(cfg *config.Config, notifier *notify.EventNotifier) (*kafka.Consumer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}

	topic := cfg.Kafka.Topic
	if topic == "" {
		topic = kafka.DefaultTopic
	}
	c, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{topic})
	if err != nil {
		return nil, nil, err
	}
	for _, eventType := range notifier.EventTypes() {
		c.RegisterHandler(eventType, notifier.Handle)
	}
	cleanup := func() {
		if err := c.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		}
	}
	return c, cleanup, nil
}

// ProvideGenerator provides the demo notification feed, or nil when disabled
func ProvideGenerator(cfg *config.Config, s *store.Store) *notify.Generator {
	if !cfg.Notifications.Enabled {
		return nil
	}
	return notify.NewGenerator(s, notify.GeneratorConfig{
		Interval:    cfg.Notifications.Interval,
		Probability: cfg.Notifications.Probability,
		RecipientID: cfg.Notifications.RecipientID,
	}, nil)
}

// ProvideHTTPHandler provides the REST handler
func ProvideHTTPHandler(cfg *config.Config, s *store.Store, reg prometheus.Registerer) *httpDelivery.Handler {
	return httpDelivery.NewHandler(s, reg, httpDelivery.Options{GuardEnabled: cfg.Guard.Enabled})
}

// ProvidePaymentHandler provides the mock payment gateway handler
func ProvidePaymentHandler(cfg *config.Config, reg prometheus.Registerer) (*paymentHandler.PaymentHandler, error) {
	return payment.InitializeHandler(cfg.Payment.Latency, reg)
}

// ProvideRateLimiter connects the Redis-backed limiter, or returns nil when
// rate limiting is disabled
func ProvideRateLimiter(ctx context.Context, cfg *config.Config) (*httpDelivery.RateLimiter, func(), error) {
	rl := cfg.HTTP.RateLimit
	if !rl.Enabled {
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect rate limiter to redis at %s: %w", cfg.Redis.Addr, err)
	}

	logger.Logger.Info().
		Int("requests", rl.Requests).
		Dur("window", rl.Window).
		Msg("Rate limiting enabled")

	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close rate limiter client")
		}
	}
	return httpDelivery.NewRateLimiter(httpDelivery.NewRedisWindowCounter(client), rl.Requests, rl.Window), cleanup, nil
}

// ProvideGRPCServer provides the health server
func ProvideGRPCServer(reg prometheus.Registerer) *grpcDelivery.Server {
	return grpcDelivery.NewServer(grpcDelivery.NewMetrics(reg))
}

// Wire sets
var RegistrySet = wire.NewSet(
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
)

var StoreSet = wire.NewSet(
	ProvideSlot,
	store.NewMetrics,
	ProvideStore,
)

var EventSet = wire.NewSet(
	ProvideEventNotifier,
	ProvidePublisher,
	ProvideConsumer,
	ProvideGenerator,
)

var DeliverySet = wire.NewSet(
	ProvideHTTPHandler,
	ProvidePaymentHandler,
	ProvideGRPCServer,
	ProvideRateLimiter,
)
