package zipline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rendertool/rendertool-api/internal/pkg/storage"
)

const defaultTimeout = 30 * time.Second

// Client uploads files to a Zipline instance and returns their public URLs.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a Zipline client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
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

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

type uploadResponse struct {
	Files []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"files"`
}

// Upload sends the blob as multipart form data and returns the public URL.
func (c *Client) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return "", storage.ErrNotConfigured
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename))}
	if contentType != "" {
		header["Content-Type"] = []string{contentType}
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("zipline upload request error: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("zipline upload request error: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("zipline upload request error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return "", fmt.Errorf("zipline upload request error: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", fmt.Errorf("%w: zipline timeout: %v", storage.ErrUploadFailed, err)
		}
		return "", fmt.Errorf("%w: %v", storage.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: zipline status=%d body=%s", storage.ErrUploadFailed, resp.StatusCode, string(raw))
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: invalid zipline response", storage.ErrUploadFailed)
	}
	if len(out.Files) == 0 || out.Files[0].URL == "" {
		return "", fmt.Errorf("%w: empty zipline response", storage.ErrUploadFailed)
	}

	return out.Files[0].URL, nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}
