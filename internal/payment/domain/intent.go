package domain

import "errors"

// Validation errors, worded for the checkout form
var (
	ErrInvalidAmount     = errors.New("Montant invalide")
	ErrOrderIDRequired   = errors.New("ID de commande requis")
	ErrPaymentIDRequired = errors.New("ID de paiement requis")
)

// Intent statuses
const (
	StatusRequiresPaymentMethod = "requires_payment_method"
	StatusSucceeded             = "succeeded"
)

const (
	DefaultCurrency = "eur"
	Platform        = "PharmaDistrib"
)

// Intent is a payment intent as returned by the processor
type Intent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Description  string            `json:"description"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata"`
}

// IntentParams is what the processor needs to open an intent. Amount is in cents.
type IntentParams struct {
	Amount      int64
	Currency    string
	Description string
	Metadata    map[string]string
}
