// Package client provides an HTTP client for the sponsor service API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest describes a sponsored transfer to prepare.
type TransferRequest struct {
	SenderAddress    string          `json:"senderAddress"`
	RecipientAddress string          `json:"recipientAddress"`
	Amount           decimal.Decimal `json:"amount"`
	TokenAddress     string          `json:"tokenAddress,omitempty"`
	Decimals         *uint8          `json:"decimals,omitempty"`
}

// PreparedTransfer is a fee-payer-signed transaction awaiting the sender's
// signature and broadcast.
type PreparedTransfer struct {
	SerializedTransaction string `json:"serializedTransaction"` // base58 wire transaction
	Message               string `json:"message"`               // base64 unsigned message bytes
	TransactionType       string `json:"transactionType"`       // "sol" or "spl"
	EstimatedFee          uint64 `json:"estimatedFee"`          // lamports
}

// PaymentURLRequest asks for a Solana Pay URL for direct payment.
type PaymentURLRequest struct {
	RecipientAddress string          `json:"recipientAddress"`
	Amount           decimal.Decimal `json:"amount"`
	TokenAddress     string          `json:"tokenAddress,omitempty"`
	Label            string          `json:"label,omitempty"`
	Message          string          `json:"message,omitempty"`
}

// PaymentURL is the generated payment request.
type PaymentURL struct {
	ID         string    `json:"id"`
	Recipient  string    `json:"recipient"`
	Amount     string    `json:"amount"`
	TokenMint  string    `json:"token_mint,omitempty"`
	PaymentURL string    `json:"payment_url"`
	QRCodeData string    `json:"qr_code_data"`
	CreatedAt  time.Time `json:"created_at"`
}

// Client is the HTTP client for the sponsor service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new sponsor service client.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// PrepareTransfer asks the server to build and partially sign a transfer.
// The returned transaction still requires the sender's signature.
func (c *Client) PrepareTransfer(ctx context.Context, req TransferRequest) (*PreparedTransfer, error) {
	var out PreparedTransfer
	if err := c.post(ctx, "/api/v1/transactions/gasless", req, &out); err != nil {
		return nil, err
	}

	c.logger.Debug("transfer prepared",
		"sender", req.SenderAddress,
		"recipient", req.RecipientAddress,
		"type", out.TransactionType,
	)
	return &out, nil
}

// PaymentURL asks the server for a Solana Pay URL and QR code.
func (c *Client) PaymentURL(ctx context.Context, req PaymentURLRequest) (*PaymentURL, error) {
	var out PaymentURL
	if err := c.post(ctx, "/api/v1/transactions/payment-url", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks the server health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// post sends a JSON request and decodes a JSON response into out.
func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseErrorResponse extracts the error message from a non-200 response.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	var errResp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Message == "" {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, errResp.Message)
}
