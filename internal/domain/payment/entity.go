package payment

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a payment order
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// MethodBankTransfer is the only payment method currently offered
const MethodBankTransfer = "bank_transfer"

// JSONRawMessage handles nullable raw JSON columns
type JSONRawMessage []byte

// Scan implements sql.Scanner
func (j *JSONRawMessage) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONRawMessage")
	}
}

// Value implements driver.Valuer
func (j JSONRawMessage) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

// Order is a coin purchase order awaiting bank transfer confirmation
type Order struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	TransactionID string         `db:"transaction_id" json:"transaction_id"`
	AccountID     uuid.UUID      `db:"account_id" json:"account_id"`
	Coins         float64        `db:"coins" json:"coins"`
	AmountVND     float64        `db:"amount_vnd" json:"amount_vnd"`
	Status        Status         `db:"status" json:"status"`
	PaymentMethod string         `db:"payment_method" json:"payment_method"`
	TransferMemo  string         `db:"transfer_memo" json:"transfer_memo"`
	QRCodeURL     string         `db:"qr_code_url" json:"qr_code_url"`
	RawWebhook    JSONRawMessage `db:"raw_webhook" json:"-"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
	CompletedAt   *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
}
