package auth

import "github.com/rendertool/rendertool-api/internal/domain/account"

// GoogleLoginRequest carries the Google ID token and the email the client claims
type GoogleLoginRequest struct {
	Token string `json:"token" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	Account     account.View `json:"account"`
}
