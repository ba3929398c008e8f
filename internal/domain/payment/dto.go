package payment

import (
	"time"

	"github.com/google/uuid"
)

// CreateOrderRequest selects a coin package from the catalog
type CreateOrderRequest struct {
	Coins     float64 `json:"coins" validate:"required,gt=0"`
	AmountVND float64 `json:"amount_vnd" validate:"required,gt=0"`
	// Email lets unauthenticated clients open an order; a placeholder
	// account is created when no account exists for it.
	Email string `json:"email,omitempty"`
}

// OrderView is returned when an order is created
type OrderView struct {
	TransactionID string  `json:"transaction_id"`
	Status        Status  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	Coins         float64 `json:"coins"`
	AmountVND     float64 `json:"amount_vnd"`
	TransferMemo  string  `json:"transfer_memo"`
	QRCodeURL     string  `json:"qr_code_url"`
	BankName      string  `json:"bank_name"`
	AccountNumber string  `json:"account_number"`
	AccountName   string  `json:"account_name"`
}

// StatusView is returned by the status poll endpoint. Balance is the owning
// account's current coin balance, null when the account cannot be resolved.
type StatusView struct {
	TransactionID string     `json:"transaction_id"`
	Status        Status     `json:"status"`
	Coins         float64    `json:"coins"`
	AmountVND     float64    `json:"amount_vnd"`
	AccountID     *uuid.UUID `json:"account_id,omitempty"`
	Balance       *float64   `json:"balance,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// WebhookOutcome reports what a webhook delivery did. NewBalance is set only
// when this delivery credited the account.
type WebhookOutcome struct {
	TransactionID string   `json:"transaction_id"`
	Status        Status   `json:"status"`
	CoinsAdded    float64  `json:"coins_added"`
	NewBalance    *float64 `json:"new_balance,omitempty"`
	Message       string   `json:"message"`
}
