package command

import (
	"context"
	"fmt"

	"github.com/tair/pharmadistrib/internal/payment/client"
	"github.com/tair/pharmadistrib/internal/payment/domain"
)

// ConfirmIntentCommand asks whether an intent has been paid
type ConfirmIntentCommand struct {
	PaymentIntentID string
}

// ConfirmResult is the outcome of a confirmation
type ConfirmResult struct {
	Success bool
	Status  string
}

// ConfirmIntentHandler handles the confirm intent command
type ConfirmIntentHandler struct {
	processor client.Processor
}

// NewConfirmIntentHandler creates a new confirm intent handler
func NewConfirmIntentHandler(processor client.Processor) *ConfirmIntentHandler {
	return &ConfirmIntentHandler{processor: processor}
}

// Handle retrieves the intent and reports whether it succeeded
func (h *ConfirmIntentHandler) Handle(ctx context.Context, cmd ConfirmIntentCommand) (ConfirmResult, error) {
	if cmd.PaymentIntentID == "" {
		return ConfirmResult{}, domain.ErrPaymentIDRequired
	}

	intent, err := h.processor.RetrieveIntent(ctx, cmd.PaymentIntentID)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("failed to confirm payment: %w", err)
	}
	return ConfirmResult{
		Success: intent.Status == domain.StatusSucceeded,
		Status:  intent.Status,
	}, nil
}
