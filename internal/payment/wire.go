//go:build wireinject
// +build wireinject

package payment

import (
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/pharmadistrib/internal/payment/client"
	"github.com/tair/pharmadistrib/internal/payment/handler"
	"github.com/tair/pharmadistrib/internal/payment/usecase/command"
)

// ProvideProcessor provides the mock card processor
func ProvideProcessor(latency time.Duration) client.Processor {
	return client.NewMockProcessor(latency)
}

// Command Handlers Providers
func ProvideCreateIntentHandler(processor client.Processor) *command.CreateIntentHandler {
	return command.NewCreateIntentHandler(processor)
}

func ProvideConfirmIntentHandler(processor client.Processor) *command.ConfirmIntentHandler {
	return command.NewConfirmIntentHandler(processor)
}

// Wire sets
var ProcessorSet = wire.NewSet(
	ProvideProcessor,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreateIntentHandler,
	ProvideConfirmIntentHandler,
)

// InitializeHandler initializes payment handler with all dependencies
func InitializeHandler(latency time.Duration, reg prometheus.Registerer) (*handler.PaymentHandler, error) {
	wire.Build(
		ProcessorSet,
		CommandHandlerSet,
		handler.NewPaymentHandler,
	)
	return nil, nil
}
