package credit

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInternal            = errors.New("internal error")
)
