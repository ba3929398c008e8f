package auth

import "errors"

var (
	ErrInvalidToken = errors.New("invalid Google token")
	ErrInternal     = errors.New("internal error")
)
