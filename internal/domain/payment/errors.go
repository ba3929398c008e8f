package payment

import "errors"

var (
	ErrInvalidPackage   = errors.New("unknown coin package")
	ErrOrderNotFound    = errors.New("payment order not found")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMissingField     = errors.New("missing required field")
	ErrDuplicateTxnID   = errors.New("duplicate transaction id")
	ErrInternal         = errors.New("internal error")
)
