package payment

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rendertool/rendertool-api/internal/domain/account"
	"github.com/rendertool/rendertool-api/internal/domain/credit"
)

// OrderRepository is the persistence surface the payment service needs
type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	GetByTransactionID(ctx context.Context, transactionID string) (*Order, error)
	SaveRawWebhook(ctx context.Context, transactionID string, raw []byte) error
	TransitionFromPending(ctx context.Context, transactionID string, to Status) (bool, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Order, error)
}

// AccountRepository resolves and creates accounts for orders
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
}

// Config carries the receiving bank account and the shared webhook secret
type Config struct {
	Bank          BankAccount
	WebhookSecret string
}

// Service implements coin purchase orders and webhook settlement
type Service struct {
	orders   OrderRepository
	accounts AccountRepository
	ledger   credit.Ledger
	cfg      Config
}

// NewService creates a new payment service
func NewService(orders OrderRepository, accounts AccountRepository, ledger credit.Ledger, cfg Config) *Service {
	return &Service{
		orders:   orders,
		accounts: accounts,
		ledger:   ledger,
		cfg:      cfg,
	}
}

const maxIDRetries = 5

// CreateOrder opens a pending order for a catalog package. An anonymous
// caller is keyed by email; when no account exists a placeholder account
// is created so the credit has somewhere to land.
func (s *Service) CreateOrder(ctx context.Context, accountID uuid.UUID, req *CreateOrderRequest) (*OrderView, error) {
	pkg, err := FindPackage(req.Coins, req.AmountVND)
	if err != nil {
		return nil, err
	}

	acc, err := s.resolveAccount(ctx, accountID, req.Email)
	if err != nil {
		return nil, err
	}

	var order *Order
	for attempt := 0; attempt < maxIDRetries; attempt++ {
		txnID := NewTransactionID()
		memo := TransferMemo(txnID)

		order = &Order{
			ID:            uuid.New(),
			TransactionID: txnID,
			AccountID:     acc.ID,
			Coins:         pkg.Coins,
			AmountVND:     pkg.AmountVND,
			Status:        StatusPending,
			PaymentMethod: MethodBankTransfer,
			TransferMemo:  memo,
			QRCodeURL:     s.cfg.Bank.QRCodeURL(pkg.AmountVND, memo),
		}

		err = s.orders.Create(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrDuplicateTxnID) {
			log.Error().Err(err).Msg("order creation failed")
			return nil, ErrInternal
		}
	}
	if err != nil {
		log.Error().Int("attempts", maxIDRetries).Msg("transaction id generation exhausted retries")
		return nil, ErrInternal
	}

	log.Info().
		Str("transaction_id", order.TransactionID).
		Str("account_id", acc.ID.String()).
		Float64("coins", order.Coins).
		Float64("amount_vnd", order.AmountVND).
		Msg("payment order created")

	return &OrderView{
		TransactionID: order.TransactionID,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		Coins:         order.Coins,
		AmountVND:     order.AmountVND,
		TransferMemo:  order.TransferMemo,
		QRCodeURL:     order.QRCodeURL,
		BankName:      s.cfg.Bank.BankName,
		AccountNumber: s.cfg.Bank.AccountNumber,
		AccountName:   s.cfg.Bank.AccountName,
	}, nil
}

func (s *Service) resolveAccount(ctx context.Context, accountID uuid.UUID, email string) (*account.Account, error) {
	// An id that does not resolve falls through to placeholder creation,
	// same as the anonymous flow; every order must end up with an owner.
	if accountID != uuid.Nil {
		acc, err := s.accounts.GetByID(ctx, accountID)
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, account.ErrNotFound) {
			return nil, ErrInternal
		}
	}

	if email != "" {
		acc, err := s.accounts.GetByEmail(ctx, email)
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, account.ErrNotFound) {
			return nil, ErrInternal
		}
	}

	// Placeholder account for anonymous purchases; a later login with the
	// same email does not merge it, the order just credits this account.
	acc := &account.Account{
		ID:    uuid.New(),
		Email: email,
		Name:  sql.NullString{String: "Temp User", Valid: true},
	}
	if acc.Email == "" {
		acc.Email = fmt.Sprintf("temp_%s@temp.local", uuid.New().String())
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		log.Error().Err(err).Msg("placeholder account creation failed")
		return nil, ErrInternal
	}
	return acc, nil
}

// GetStatus returns the current state of an order for polling clients
func (s *Service) GetStatus(ctx context.Context, transactionID string) (*StatusView, error) {
	order, err := s.orders.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, ErrInternal
	}

	view := &StatusView{
		TransactionID: order.TransactionID,
		Status:        order.Status,
		Coins:         order.Coins,
		AmountVND:     order.AmountVND,
		CreatedAt:     order.CreatedAt,
		CompletedAt:   order.CompletedAt,
	}

	// Balance join is best-effort; the view stays usable when the owning
	// account cannot be resolved.
	if acc, err := s.accounts.GetByID(ctx, order.AccountID); err == nil {
		view.AccountID = &acc.ID
		view.Balance = &acc.Credits
	}

	return view, nil
}

// ListOrders returns the payment history of an account
func (s *Service) ListOrders(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Order, error) {
	orders, err := s.orders.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}
	return orders, nil
}

// ProcessWebhook settles an order from a bank gateway notification.
//
// The raw payload is persisted for audit before any state change, and a
// conditional PENDING transition makes concurrent deliveries race for a
// single winner. Replays against a settled order are acknowledged without
// crediting again.
func (s *Service) ProcessWebhook(ctx context.Context, providedSecret string, body []byte) (*WebhookOutcome, error) {
	if s.cfg.WebhookSecret != "" {
		if subtle.ConstantTimeCompare([]byte(providedSecret), []byte(s.cfg.WebhookSecret)) != 1 {
			return nil, ErrInvalidSignature
		}
	}

	n, err := ParseNotification(body)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetByTransactionID(ctx, n.TransactionID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Str("transaction_id", n.TransactionID).Msg("webhook for unknown order")
			return nil, ErrOrderNotFound
		}
		return nil, ErrInternal
	}

	if order.Status != StatusPending {
		log.Info().
			Str("transaction_id", order.TransactionID).
			Str("status", string(order.Status)).
			Msg("webhook replay for settled order")
		return s.replayOutcome(order), nil
	}

	// Audit before any transition. The stored payload is committed on its
	// own and stays even when the order ends up FAILED. If the save fails
	// the order stays PENDING so a redelivery can try again.
	if err := s.orders.SaveRawWebhook(ctx, order.TransactionID, n.Raw); err != nil {
		log.Error().Err(err).Str("transaction_id", order.TransactionID).Msg("webhook audit save failed")
		return nil, ErrInternal
	}

	if n.Amount != nil && !AmountMatches(order.AmountVND, *n.Amount) {
		return s.failOrder(ctx, order, fmt.Sprintf("amount mismatch: expected %.2f got %.2f", order.AmountVND, *n.Amount))
	}

	if !n.IsSuccess() {
		return s.failOrder(ctx, order, fmt.Sprintf("gateway reported status %q", n.Status))
	}

	won, err := s.orders.TransitionFromPending(ctx, order.TransactionID, StatusCompleted)
	if err != nil {
		return nil, ErrInternal
	}
	if !won {
		// A concurrent delivery settled the order first
		settled, err := s.orders.GetByTransactionID(ctx, order.TransactionID)
		if err != nil {
			return nil, ErrInternal
		}
		return s.replayOutcome(settled), nil
	}

	txnID := order.TransactionID
	balance, err := s.ledger.Add(ctx, order.AccountID, order.Coins, &txnID,
		fmt.Sprintf("Coin purchase %s", order.TransactionID))
	if err != nil {
		// The order is marked COMPLETED but the credit failed; this needs
		// operator attention, so it is logged at error level with context.
		log.Error().Err(err).
			Str("transaction_id", order.TransactionID).
			Str("account_id", order.AccountID.String()).
			Float64("coins", order.Coins).
			Msg("credit failed after order completion")
		return nil, ErrInternal
	}

	log.Info().
		Str("transaction_id", order.TransactionID).
		Str("account_id", order.AccountID.String()).
		Float64("coins", order.Coins).
		Float64("balance", balance).
		Msg("payment completed, coins credited")

	return &WebhookOutcome{
		TransactionID: order.TransactionID,
		Status:        StatusCompleted,
		CoinsAdded:    order.Coins,
		NewBalance:    &balance,
		Message:       "payment completed",
	}, nil
}

func (s *Service) failOrder(ctx context.Context, order *Order, reason string) (*WebhookOutcome, error) {
	won, err := s.orders.TransitionFromPending(ctx, order.TransactionID, StatusFailed)
	if err != nil {
		return nil, ErrInternal
	}
	if !won {
		settled, err := s.orders.GetByTransactionID(ctx, order.TransactionID)
		if err != nil {
			return nil, ErrInternal
		}
		return s.replayOutcome(settled), nil
	}

	log.Warn().
		Str("transaction_id", order.TransactionID).
		Str("reason", reason).
		Msg("payment order failed")

	return &WebhookOutcome{
		TransactionID: order.TransactionID,
		Status:        StatusFailed,
		Message:       reason,
	}, nil
}

func (s *Service) replayOutcome(order *Order) *WebhookOutcome {
	return &WebhookOutcome{
		TransactionID: order.TransactionID,
		Status:        order.Status,
		Message:       "order already processed",
	}
}
