// Package productclient lets the orders service resolve catalog entries from
// the products service at order-creation time.
package productclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mercadito/marketplace-system/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

type Config struct {
	// BaseURL is the products service root, e.g. "http://127.0.0.1:8002".
	BaseURL string
	Timeout time.Duration
}

// Client fetches products over HTTP. It satisfies the order service's
// ProductFetcher interface.
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

// Fetch retrieves a product by id, forwarding the caller's bearer token so
// the products service applies its own authorization.
func (c *Client) Fetch(ctx context.Context, productID int64, bearer string) (*domain.Product, error) {
	url := fmt.Sprintf("%s/products/%d", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch product: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.ErrProductsDown
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrProductNotFound
	default:
		return nil, fmt.Errorf("fetch product: products service returned %d", resp.StatusCode)
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("fetch product: decode response: %w", err)
	}
	return &product, nil
}
