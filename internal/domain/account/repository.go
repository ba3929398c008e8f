package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles account persistence
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new account repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new account
func (r *Repository) Create(ctx context.Context, a *Account) error {
	query := `
		INSERT INTO accounts (id, email, name, picture, google_id, credits, is_admin)
		VALUES (:id, :email, :name, :picture, :google_id, :credits, :is_admin)
		RETURNING created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, a)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
			return fmt.Errorf("scan account timestamps: %w", err)
		}
	}
	return nil
}

// GetByID returns an account by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var a Account
	err := r.db.GetContext(ctx, &a, `SELECT * FROM accounts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return &a, nil
}

// GetByEmail returns an account by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	err := r.db.GetContext(ctx, &a, `SELECT * FROM accounts WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return &a, nil
}

// UpdateProfile updates the display name and Google subject of an account
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, name, googleID string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = $2, google_id = $3, updated_at = NOW()
		WHERE id = $1`,
		id, name, googleID)
	if err != nil {
		return fmt.Errorf("update account profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account profile: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePicture sets the avatar URL of an account
func (r *Repository) UpdatePicture(ctx context.Context, id uuid.UUID, pictureURL string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET picture = $2, updated_at = NOW()
		WHERE id = $1`,
		id, pictureURL)
	if err != nil {
		return fmt.Errorf("update account picture: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account picture: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
