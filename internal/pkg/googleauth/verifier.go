package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout   = 10 * time.Second
	tokenInfoBaseURL = "https://oauth2.googleapis.com/tokeninfo"
)

// ErrVerificationFailed is returned when a token cannot be verified
// or its claims do not match the claimed identity.
var ErrVerificationFailed = errors.New("identity verification failed")

// Identity is the verified result of a token check.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// TokenVerifier validates a bearer identity token against a claimed email.
// The trusted/untrusted mode is selected once at startup by configuration,
// never by an ambient environment check.
type TokenVerifier interface {
	Verify(ctx context.Context, token, claimedEmail string) (*Identity, error)
}

// Verifier validates Google ID tokens against the tokeninfo endpoint.
type Verifier struct {
	clientID string
	baseURL  string
	http     *http.Client
}

// NewVerifier creates a Google token verifier.
func NewVerifier(clientID string, timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Verifier{
		clientID: clientID,
		baseURL:  tokenInfoBaseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

type tokenInfo struct {
	Audience string `json:"aud"`
	Subject  string `json:"sub"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
}

// Verify checks the ID token with Google and confirms the audience and email.
func (v *Verifier) Verify(ctx context.Context, token, claimedEmail string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrVerificationFailed)
	}

	endpoint := v.baseURL + "?id_token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("google tokeninfo request error: %w", err)
	}

	resp, err := v.http.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("google tokeninfo timeout: %w", err)
		}
		return nil, fmt.Errorf("google tokeninfo request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: tokeninfo status=%d body=%s", ErrVerificationFailed, resp.StatusCode, string(body))
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: invalid tokeninfo response", ErrVerificationFailed)
	}

	if v.clientID != "" && info.Audience != v.clientID {
		return nil, fmt.Errorf("%w: audience mismatch", ErrVerificationFailed)
	}
	if !strings.EqualFold(info.Email, claimedEmail) {
		return nil, fmt.Errorf("%w: email mismatch", ErrVerificationFailed)
	}

	return &Identity{Subject: info.Subject, Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}

// Insecure accepts any token and trusts the claimed identity as-is.
// Intended only for development when no client ID is configured.
type Insecure struct{}

// Verify returns the claimed email without any external check.
func (Insecure) Verify(_ context.Context, _ string, claimedEmail string) (*Identity, error) {
	if strings.TrimSpace(claimedEmail) == "" {
		return nil, fmt.Errorf("%w: empty email", ErrVerificationFailed)
	}
	return &Identity{Email: claimedEmail}, nil
}
