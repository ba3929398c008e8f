package credit

import (
	"context"

	"github.com/google/uuid"
)

// Ledger records balance changes together with their ledger entries
type Ledger interface {
	Add(ctx context.Context, accountID uuid.UUID, amount float64, paymentTxnID *string, description string) (float64, error)
	Deduct(ctx context.Context, accountID uuid.UUID, amount float64, description string) (float64, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Transaction, error)
	Balance(ctx context.Context, accountID uuid.UUID) (float64, error)
}
