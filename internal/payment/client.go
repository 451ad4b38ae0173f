// Package payment captures card details into a payment-method
// identifier at the external payment processor.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront-bff/internal/domain"
)

const paymentMethodsPath = "/v1/payment_methods"

// Client implements checkout.Processor against a card-capture REST
// API (form-encoded request, bearer secret key).
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
	logger    *log.Logger
}

func New(baseURL, secretKey string, logger *log.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
	}
}

type paymentMethod struct {
	ID string `json:"id"`
}

// CreatePaymentMethod exchanges card details for a payment-method id.
// An empty id on a 2xx response is passed through; the orchestrator
// treats it as "processor unreachable".
func (c *Client) CreatePaymentMethod(ctx context.Context, card domain.Card) (string, error) {
	form := url.Values{}
	form.Set("type", "card")
	form.Set("card[number]", card.Number)
	form.Set("card[exp_month]", card.ExpMonth)
	form.Set("card[exp_year]", card.ExpYear)
	form.Set("card[cvc]", card.CVC)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+paymentMethodsPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("payment method: unexpected status %d", res.StatusCode)
	}
	var out paymentMethod
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode payment method: %w", err)
	}
	return out.ID, nil
}
