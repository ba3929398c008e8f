package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository handles payment order persistence
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new payment repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new payment order. Returns ErrDuplicateTxnID when the
// transaction id collides with an existing order, so the caller can retry
// with a fresh id.
func (r *Repository) Create(ctx context.Context, o *Order) error {
	query := `
		INSERT INTO payment_orders (id, transaction_id, account_id, coins, amount_vnd, status, payment_method, transfer_memo, qr_code_url)
		VALUES (:id, :transaction_id, :account_id, :coins, :amount_vnd, :status, :payment_method, :transfer_memo, :qr_code_url)
		RETURNING created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, o)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateTxnID
		}
		return fmt.Errorf("create payment order: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
			return fmt.Errorf("scan order timestamps: %w", err)
		}
	}
	return nil
}

// GetByTransactionID returns an order by its public transaction id
func (r *Repository) GetByTransactionID(ctx context.Context, transactionID string) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `SELECT * FROM payment_orders WHERE transaction_id = $1`, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order by transaction id: %w", err)
	}
	return &o, nil
}

// SaveRawWebhook stores the raw webhook body on the order for audit.
// It is committed on its own so the record survives even when the
// transition that follows fails the order.
func (r *Repository) SaveRawWebhook(ctx context.Context, transactionID string, raw []byte) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payment_orders
		SET raw_webhook = $2, updated_at = NOW()
		WHERE transaction_id = $1`,
		transactionID, raw)
	if err != nil {
		return fmt.Errorf("save raw webhook: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save raw webhook: %w", err)
	}
	if rows == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// TransitionFromPending moves an order out of PENDING into the given status.
// The conditional update makes concurrent deliveries race for a single
// winner; it reports false when the order was no longer pending.
func (r *Repository) TransitionFromPending(ctx context.Context, transactionID string, to Status) (bool, error) {
	completedAt := "NULL"
	if to == StatusCompleted {
		completedAt = "NOW()"
	}

	query := fmt.Sprintf(`
		UPDATE payment_orders
		SET status = $2, completed_at = %s, updated_at = NOW()
		WHERE transaction_id = $1 AND status = $3`, completedAt)

	result, err := r.db.ExecContext(ctx, query, transactionID, to, StatusPending)
	if err != nil {
		return false, fmt.Errorf("transition order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition order: %w", err)
	}
	return rows > 0, nil
}

// ListByAccount returns orders for an account, newest first
func (r *Repository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT * FROM payment_orders
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
