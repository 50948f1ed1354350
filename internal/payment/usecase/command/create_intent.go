package command

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/tair/pharmadistrib/internal/payment/client"
	"github.com/tair/pharmadistrib/internal/payment/domain"
)

// CreateIntentCommand opens a payment intent for an order. Amount is in euros.
type CreateIntentCommand struct {
	OrderID     string
	Amount      float64
	Currency    string
	CustomerID  string
	Description string
	// Metadata values of any JSON type are stored as strings
	Metadata map[string]any
}

// CreateIntentHandler handles the create intent command
type CreateIntentHandler struct {
	processor client.Processor
}

// NewCreateIntentHandler creates a new create intent handler
func NewCreateIntentHandler(processor client.Processor) *CreateIntentHandler {
	return &CreateIntentHandler{processor: processor}
}

// Handle validates cmd and asks the processor for an intent
func (h *CreateIntentHandler) Handle(ctx context.Context, cmd CreateIntentCommand) (*domain.Intent, error) {
	if cmd.Amount <= 0 || math.IsNaN(cmd.Amount) {
		return nil, domain.ErrInvalidAmount
	}
	if cmd.OrderID == "" {
		return nil, domain.ErrOrderIDRequired
	}

	if cmd.Currency == "" {
		cmd.Currency = domain.DefaultCurrency
	}
	if cmd.Description == "" {
		cmd.Description = "Commande pharmaceutique " + cmd.OrderID
	}

	metadata := map[string]string{
		"orderId":    cmd.OrderID,
		"customerId": cmd.CustomerID,
		"platform":   domain.Platform,
	}
	for k, v := range cmd.Metadata {
		metadata[k] = metadataValue(v)
	}

	intent, err := h.processor.CreateIntent(ctx, domain.IntentParams{
		Amount:      int64(math.Round(cmd.Amount * 100)),
		Currency:    cmd.Currency,
		Description: cmd.Description,
		Metadata:    metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent, nil
}

// metadataValue renders a decoded JSON value as a processor metadata string.
// Objects and arrays keep their JSON form.
func metadataValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}
