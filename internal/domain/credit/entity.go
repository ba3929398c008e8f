package credit

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies a ledger entry
type TransactionType string

const (
	TypeAddition  TransactionType = "ADDITION"
	TypeDeduction TransactionType = "DEDUCTION"
)

// Transaction is a single immutable entry in the coin ledger
type Transaction struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	AccountID            uuid.UUID       `db:"account_id" json:"account_id"`
	PaymentTransactionID *string         `db:"payment_transaction_id" json:"payment_transaction_id,omitempty"`
	Type                 TransactionType `db:"type" json:"type"`
	Amount               float64         `db:"amount" json:"amount"`
	Description          string          `db:"description" json:"description"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
}
