package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tair/pharmadistrib/internal/payment/domain"
)

var tracer = otel.Tracer("payment-processor")

// Processor opens and retrieves payment intents
type Processor interface {
	CreateIntent(ctx context.Context, params domain.IntentParams) (*domain.Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*domain.Intent, error)
}

// MockProcessor simulates a card processor. Every call waits for Latency and
// every intent it retrieves has succeeded. It never contacts a real service.
type MockProcessor struct {
	Latency time.Duration
}

// NewMockProcessor creates a mock processor with the given artificial delay
func NewMockProcessor(latency time.Duration) *MockProcessor {
	return &MockProcessor{Latency: latency}
}

func (p *MockProcessor) CreateIntent(ctx context.Context, params domain.IntentParams) (*domain.Intent, error) {
	ctx, span := tracer.Start(ctx, "MockProcessor.CreateIntent")
	defer span.End()

	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	id := "pi_mock_" + uuid.NewString()
	span.SetAttributes(attribute.String("payment.intent_id", id), attribute.Int64("payment.amount", params.Amount))
	return &domain.Intent{
		ID:           id,
		ClientSecret: id + "_secret_mock",
		Amount:       params.Amount,
		Currency:     params.Currency,
		Description:  params.Description,
		Status:       domain.StatusRequiresPaymentMethod,
		Metadata:     params.Metadata,
	}, nil
}

func (p *MockProcessor) RetrieveIntent(ctx context.Context, id string) (*domain.Intent, error) {
	ctx, span := tracer.Start(ctx, "MockProcessor.RetrieveIntent")
	defer span.End()

	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return &domain.Intent{
		ID:       id,
		Amount:   1000,
		Currency: domain.DefaultCurrency,
		Status:   domain.StatusSucceeded,
	}, nil
}

func (p *MockProcessor) wait(ctx context.Context) error {
	if p.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.Latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
