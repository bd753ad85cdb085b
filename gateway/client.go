// Package gateway is a thin client for the outbound payment gateway.
// Calls are idempotent (the gateway dedupes on the charge reference),
// which is what makes the retry decorator safe to apply.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
)

// ChargeRequest describes a payment to capture. Reference must be
// unique per logical charge so retries dedupe server side.
type ChargeRequest struct {
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Source    string  `json:"source"`
}

// ChargeResponse is the gateway's acknowledgement.
type ChargeResponse struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Charger is the remote operation the retry decorator wraps.
type Charger interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
}

// Client talks HTTP to the gateway.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient configures a gateway client. The zero http.Client timeout
// is replaced so a hung gateway cannot hold request handlers forever.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

var _ Charger = (*Client)(nil)

// Charge submits the payment and decodes the acknowledgement.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	if req.Reference == "" {
		return nil, errors.New("charge reference is required", errors.CategoryBadInput)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to encode charge request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build charge request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "payment gateway unreachable").
			WithTextCode("GATEWAY_UNREACHABLE")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.New("payment gateway unavailable", errors.CategoryOperation).
			WithTextCode("GATEWAY_UNAVAILABLE").
			WithMetadata(map[string]any{"status": resp.StatusCode})
	}

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.New("payment gateway rejected charge", errors.CategoryValidation).
			WithTextCode("CHARGE_REJECTED").
			WithMetadata(map[string]any{"status": resp.StatusCode})
	}

	out := &ChargeResponse{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to decode gateway response").
			WithTextCode("GATEWAY_BAD_RESPONSE")
	}

	return out, nil
}
