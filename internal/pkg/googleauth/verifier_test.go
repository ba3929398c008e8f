package googleauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func tokeninfoServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") == "" {
			t.Error("id_token query parameter missing")
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestVerifyAcceptsMatchingIdentity(t *testing.T) {
	srv := tokeninfoServer(t, http.StatusOK,
		`{"aud":"client-1","sub":"sub-1","email":"user@example.com","name":"User","picture":"https://p"}`)
	defer srv.Close()

	v := NewVerifier("client-1", time.Second)
	v.baseURL = srv.URL

	id, err := v.Verify(context.Background(), "token", "USER@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Email != "user@example.com" || id.Subject != "sub-1" || id.Name != "User" {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestVerifyRejectsAudienceMismatch(t *testing.T) {
	srv := tokeninfoServer(t, http.StatusOK,
		`{"aud":"other-client","email":"user@example.com"}`)
	defer srv.Close()

	v := NewVerifier("client-1", time.Second)
	v.baseURL = srv.URL

	if _, err := v.Verify(context.Background(), "token", "user@example.com"); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestVerifyRejectsEmailMismatch(t *testing.T) {
	srv := tokeninfoServer(t, http.StatusOK,
		`{"aud":"client-1","email":"other@example.com"}`)
	defer srv.Close()

	v := NewVerifier("client-1", time.Second)
	v.baseURL = srv.URL

	if _, err := v.Verify(context.Background(), "token", "user@example.com"); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestVerifyRejectsGoogleError(t *testing.T) {
	srv := tokeninfoServer(t, http.StatusBadRequest, `{"error":"invalid_token"}`)
	defer srv.Close()

	v := NewVerifier("client-1", time.Second)
	v.baseURL = srv.URL

	if _, err := v.Verify(context.Background(), "token", "user@example.com"); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestVerifyRejectsEmptyToken(t *testing.T) {
	v := NewVerifier("client-1", time.Second)
	if _, err := v.Verify(context.Background(), "  ", "user@example.com"); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestInsecureTrustsClaimedEmail(t *testing.T) {
	id, err := Insecure{}.Verify(context.Background(), "anything", "dev@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Email != "dev@example.com" {
		t.Errorf("email = %q", id.Email)
	}

	if _, err := (Insecure{}).Verify(context.Background(), "anything", ""); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed for empty email, got %v", err)
	}
}
