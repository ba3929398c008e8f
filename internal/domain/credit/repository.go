package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository persists the coin ledger. Balance updates and ledger inserts
// happen inside one transaction so the ledger always sums to the balance.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new credit repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Add credits an account and records an ADDITION ledger entry.
// Returns the balance after the addition.
func (r *Repository) Add(ctx context.Context, accountID uuid.UUID, amount float64, paymentTxnID *string, description string) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var balance float64
	err = tx.GetContext(ctx, &balance, `
		UPDATE accounts
		SET credits = credits + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING credits`,
		accountID, amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrAccountNotFound
		}
		return 0, fmt.Errorf("add credits: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO credit_transactions (id, account_id, payment_transaction_id, type, amount, description)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), accountID, paymentTxnID, TypeAddition, amount, description)
	if err != nil {
		return 0, fmt.Errorf("insert ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return balance, nil
}

// Deduct debits an account and records a DEDUCTION ledger entry.
// Fails without changing anything when the balance would go negative.
func (r *Repository) Deduct(ctx context.Context, accountID uuid.UUID, amount float64, description string) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var balance float64
	err = tx.GetContext(ctx, &balance, `
		UPDATE accounts
		SET credits = credits - $2, updated_at = NOW()
		WHERE id = $1 AND credits >= $2
		RETURNING credits`,
		accountID, amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish a missing account from an insufficient balance
			var exists bool
			if chkErr := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, accountID); chkErr == nil && !exists {
				return 0, ErrAccountNotFound
			}
			return 0, ErrInsufficientCredits
		}
		return 0, fmt.Errorf("deduct credits: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO credit_transactions (id, account_id, type, amount, description)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), accountID, TypeDeduction, amount, description)
	if err != nil {
		return 0, fmt.Errorf("insert ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return balance, nil
}

// ListByAccount returns ledger entries for an account, newest first
func (r *Repository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	entries := []Transaction{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT * FROM credit_transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, nil
}

// Balance returns the current coin balance of an account
func (r *Repository) Balance(ctx context.Context, accountID uuid.UUID) (float64, error) {
	var balance float64
	err := r.db.GetContext(ctx, &balance, `SELECT credits FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrAccountNotFound
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}
