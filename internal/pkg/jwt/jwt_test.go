package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("secret", time.Hour)
	accountID := uuid.New()

	token, err := svc.GenerateAccessToken(accountID, "user@example.com", true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.AccountID != accountID || claims.Email != "user@example.com" || !claims.IsAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewService("secret-a", time.Hour).GenerateAccessToken(uuid.New(), "u@e.com", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewService("secret-b", time.Hour).ValidateAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewService("secret", -time.Minute)
	token, err := svc.GenerateAccessToken(uuid.New(), "u@e.com", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateAccessToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}
