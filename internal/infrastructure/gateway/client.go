// Package gateway is the HTTP client for the invoice submission service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pos/backend/internal/domain/billing"
	"github.com/pos/backend/internal/infrastructure/config"
)

// Client implements billing.SubmissionGateway over HTTP JSON
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client from gateway configuration
func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Submit posts the invoice payload and decodes the gateway's
// success/message envelope
func (c *Client) Submit(ctx context.Context, payload *billing.InvoicePayload) (billing.Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return billing.Result{}, fmt.Errorf("failed to encode invoice payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoices", bytes.NewReader(body))
	if err != nil {
		return billing.Result{}, fmt.Errorf("failed to build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return billing.Result{}, fmt.Errorf("submission request failed: %w", err)
	}
	defer resp.Body.Close()

	var result billing.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return billing.Result{}, fmt.Errorf("gateway returned status %d with unreadable body: %w", resp.StatusCode, err)
	}
	return result, nil
}
