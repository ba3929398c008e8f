package account

import "errors"

var (
	ErrNotFound      = errors.New("account not found")
	ErrAlreadyExists = errors.New("account already exists")
	ErrInternal      = errors.New("internal error")
)
