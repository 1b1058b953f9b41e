// Package client talks to the catalog HTTP API. The shop CLI uses it to
// browse products before adding them to its local cart.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/fashion-catalog/internal/catalog"
	"github.com/example/fashion-catalog/internal/domain/product"
	"github.com/example/fashion-catalog/internal/readmodel"
)

const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client for the API rooted at baseURL (e.g. http://localhost:8080)
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (c *Client) ListProducts(ctx context.Context, opts catalog.FilterOptions) (catalog.Page, error) {
	var page catalog.Page
	path := "/api/products"
	if q := opts.Values().Encode(); q != "" {
		path += "?" + q
	}
	err := c.get(ctx, path, &page)
	return page, err
}

// GetProduct returns product.ErrProductNotFound for unknown ids
func (c *Client) GetProduct(ctx context.Context, id string) (*readmodel.Product, error) {
	var p readmodel.Product
	if err := c.get(ctx, "/api/products/"+url.PathEscape(id), &p); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, product.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]*readmodel.Category, error) {
	var categories []*readmodel.Category
	err := c.get(ctx, "/api/categories", &categories)
	return categories, err
}

func (c *Client) ListBrands(ctx context.Context) ([]*readmodel.Brand, error) {
	var brands []*readmodel.Brand
	err := c.get(ctx, "/api/brands", &brands)
	return brands, err
}

func (c *Client) GetSettings(ctx context.Context) (*readmodel.StoreSettings, error) {
	var s readmodel.StoreSettings
	if err := c.get(ctx, "/api/settings", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
