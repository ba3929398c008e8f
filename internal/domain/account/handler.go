package account

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rendertool/rendertool-api/internal/domain/credit"
	"github.com/rendertool/rendertool-api/internal/middleware"
	"github.com/rendertool/rendertool-api/internal/pkg/response"
)

// Handler handles account HTTP requests
type Handler struct {
	accounts *Repository
	ledger   credit.Ledger
}

// NewHandler creates a new account handler
func NewHandler(accounts *Repository, ledger credit.Ledger) *Handler {
	return &Handler{accounts: accounts, ledger: ledger}
}

// Me handles GET /api/users/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	acc, err := h.accounts.GetByID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Account not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, acc.ToView())
}

// Transactions handles GET /api/users/me/transactions
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.ledger.ListByAccount(r.Context(), accountID, limit, offset)
	if err != nil {
		if errors.Is(err, credit.ErrAccountNotFound) {
			response.NotFound(w, "Account not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"transactions": entries})
}
