//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/pharmadistrib/internal/config"
)

// InitializeApp builds every component from cfg. The returned cleanup
// releases the storage backend, Kafka and Redis clients.
func InitializeApp(ctx context.Context, cfg *config.Config, reg *prometheus.Registry) (*App, func(), error) {
	wire.Build(
		RegistrySet,
		StoreSet,
		EventSet,
		DeliverySet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
