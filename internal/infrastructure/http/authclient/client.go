// Package authclient is the outbound half of delegated verification: a thin
// HTTP client for the auth service's GET /me endpoint.
package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mercadito/marketplace-system/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for reaching the auth service.
type Config struct {
	// BaseURL is the auth service root, e.g. "http://127.0.0.1:8000".
	BaseURL string
	Timeout time.Duration
}

// Client calls the auth verification endpoint. It satisfies the middleware's
// IdentityVerifier interface.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Verify forwards the bearer token unchanged to GET /me. Transport failures
// (connection refused, timeout) map to ErrAuthUnavailable; any non-200
// response maps to ErrInvalidToken with no further distinction.
func (c *Client) Verify(ctx context.Context, bearer string) (*domain.PublicIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.ErrAuthUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrInvalidToken
	}

	var identity domain.PublicIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("verify token: decode response: %w", err)
	}
	return &identity, nil
}
