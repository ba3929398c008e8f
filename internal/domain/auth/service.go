package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rendertool/rendertool-api/internal/domain/account"
	"github.com/rendertool/rendertool-api/internal/pkg/googleauth"
	"github.com/rendertool/rendertool-api/internal/pkg/jwt"
)

// AccountRepository is the slice of account persistence auth needs
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, googleID string) error
}

// Service handles Google sign-in and session issuance
type Service struct {
	accounts AccountRepository
	verifier googleauth.TokenVerifier
	jwt      *jwt.Service
}

// NewService creates a new auth service
func NewService(accounts AccountRepository, verifier googleauth.TokenVerifier, jwtService *jwt.Service) *Service {
	return &Service{
		accounts: accounts,
		verifier: verifier,
		jwt:      jwtService,
	}
}

// LoginWithGoogle verifies the Google ID token, upserts the account keyed by
// email and returns a session token for it.
func (s *Service) LoginWithGoogle(ctx context.Context, req *GoogleLoginRequest) (*LoginResponse, error) {
	identity, err := s.verifier.Verify(ctx, req.Token, req.Email)
	if err != nil {
		if errors.Is(err, googleauth.ErrVerificationFailed) {
			return nil, ErrInvalidToken
		}
		log.Error().Err(err).Msg("google token verification failed")
		return nil, ErrInternal
	}

	acc, err := s.accounts.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		// Refresh profile fields on every login
		if identity.Name != "" || identity.Subject != "" {
			name := identity.Name
			if name == "" {
				name = acc.Name.String
			}
			sub := identity.Subject
			if sub == "" {
				sub = acc.GoogleID.String
			}
			if updErr := s.accounts.UpdateProfile(ctx, acc.ID, name, sub); updErr != nil {
				log.Warn().Err(updErr).Str("account_id", acc.ID.String()).Msg("profile refresh failed")
			} else {
				acc.Name = sql.NullString{String: name, Valid: name != ""}
				acc.GoogleID = sql.NullString{String: sub, Valid: sub != ""}
			}
		}
	case errors.Is(err, account.ErrNotFound):
		acc = &account.Account{
			ID:       uuid.New(),
			Email:    identity.Email,
			Name:     sql.NullString{String: identity.Name, Valid: identity.Name != ""},
			Picture:  sql.NullString{String: identity.Picture, Valid: identity.Picture != ""},
			GoogleID: sql.NullString{String: identity.Subject, Valid: identity.Subject != ""},
			Credits:  0,
		}
		if err := s.accounts.Create(ctx, acc); err != nil {
			log.Error().Err(err).Str("email", identity.Email).Msg("account creation failed")
			return nil, fmt.Errorf("%w: create account", ErrInternal)
		}
		log.Info().Str("account_id", acc.ID.String()).Str("email", acc.Email).Msg("account created via google login")
	default:
		log.Error().Err(err).Msg("account lookup failed")
		return nil, ErrInternal
	}

	token, err := s.jwt.GenerateAccessToken(acc.ID, acc.Email, acc.IsAdmin)
	if err != nil {
		log.Error().Err(err).Msg("token generation failed")
		return nil, ErrInternal
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Account:     acc.ToView(),
	}, nil
}
