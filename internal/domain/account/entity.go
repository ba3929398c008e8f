package account

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Account represents a user account with a coin balance
type Account struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	Email     string         `db:"email" json:"email"`
	Name      sql.NullString `db:"name" json:"-"`
	Picture   sql.NullString `db:"picture" json:"-"`
	GoogleID  sql.NullString `db:"google_id" json:"-"`
	Credits   float64        `db:"credits" json:"credits"`
	IsAdmin   bool           `db:"is_admin" json:"is_admin"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// View is the API representation of an account
type View struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	Name    string    `json:"name,omitempty"`
	Picture string    `json:"picture,omitempty"`
	Credits float64   `json:"credits"`
	IsAdmin bool      `json:"is_admin"`
}

// ToView converts an account to its API representation
func (a *Account) ToView() View {
	return View{
		ID:      a.ID,
		Email:   a.Email,
		Name:    a.Name.String,
		Picture: a.Picture.String,
		Credits: a.Credits,
		IsAdmin: a.IsAdmin,
	}
}
