// Package gateway wraps outbound REST calls to the remote commerce
// backend. Every call carries a freshly minted service credential;
// transport failures propagate to the caller unmodified (no retry, no
// backoff).
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"storefront-bff/internal/domain"
)

const (
	cartCreatePath = "/wp-json/cocart/v1/get-cart"
	categoriesPath = "/wp-json/wc/v3/products/categories"
	// The backend caps product listings at 100 per page; exceeding it
	// needs backend reconfiguration, not a client change.
	productsPath      = "/wp-json/wc/v3/products?per_page=100"
	orderCreatePath   = "/wp-json/wc/v3/orders"
	cartSessionHeader = "X-CoCart-API"
)

// MessageSuccess is the backend's order-creation success sentinel. The
// match is literal and case-sensitive; the long-term contract is the
// backend's to define.
const MessageSuccess = "Success"

// ErrMissingCartKey is returned when cart creation yields no session
// key header.
var ErrMissingCartKey = errors.New("cart session key missing from response")

// Credentials mints the bearer token attached to every request.
// Satisfied by *auth.Issuer.
type Credentials interface {
	ServiceCredential() (string, error)
}

type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client
	logger  *log.Logger
}

func New(baseURL string, creds Credentials, logger *log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Fetch performs an authorized GET against base+path and returns the
// raw response. The body is the caller's to decode and close.
func (c *Client) Fetch(ctx context.Context, path string) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

// Post serializes body as JSON and sends it with the given method
// (POST, PUT, ...). Same authorization and propagation contract as
// Fetch.
func (c *Client) Post(ctx context.Context, path string, body interface{}, method string) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	token, err := c.creds.ServiceCredential()
	if err != nil {
		return nil, fmt.Errorf("mint service credential: %w", err)
	}
	var r *http.Request
	if body != nil {
		r, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	} else {
		r, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return nil, err
	}
	r.Header.Set("Authorization", "Bearer "+token)
	r.Header.Set("Content-Type", "application/json")
	return r, nil
}

// CreateCart asks the backend for a fresh cart session and returns its
// key, read from the response header.
func (c *Client) CreateCart(ctx context.Context) (string, error) {
	res, err := c.Fetch(ctx, cartCreatePath)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	key := res.Header.Get(cartSessionHeader)
	if key == "" {
		return "", ErrMissingCartKey
	}
	return key, nil
}

// CartItems fetches the server-side line items for an existing cart
// session. The backend keys items by an opaque hash; ordering carries
// no meaning.
func (c *Client) CartItems(ctx context.Context, key string) (map[string]domain.CartItem, error) {
	res, err := c.Fetch(ctx, cartCreatePath+"?cart_key="+key)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cart items: unexpected status %d", res.StatusCode)
	}
	items := map[string]domain.CartItem{}
	if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	return items, nil
}

// Categories lists product categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.fetchJSON(ctx, categoriesPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Products lists products, subject to the backend's 100-per-page cap.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.fetchJSON(ctx, productsPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type orderResponse struct {
	Message string `json:"message"`
}

// CreateOrder submits the order and returns the backend's message
// verbatim. Callers compare against MessageSuccess; anything else is a
// rejection.
func (c *Client) CreateOrder(ctx context.Context, order domain.Order) (string, error) {
	res, err := c.Post(ctx, orderCreatePath, order, http.MethodPost)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	var out orderResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode order response: %w", err)
	}
	c.logger.Printf("order submitted: status=%d message=%q", res.StatusCode, out.Message)
	return out.Message, nil
}

func (c *Client) fetchJSON(ctx context.Context, path string, out interface{}) error {
	res, err := c.Fetch(ctx, path)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", path, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
