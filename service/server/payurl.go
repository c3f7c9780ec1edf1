package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// PaymentURLRequest asks for a Solana Pay URL as a direct-payment fallback for
// wallets that cannot countersign a sponsored transaction.
type PaymentURLRequest struct {
	RecipientAddress string          `json:"recipientAddress"`
	Amount           decimal.Decimal `json:"amount"`
	TokenAddress     string          `json:"tokenAddress,omitempty"`
	Label            string          `json:"label,omitempty"`
	Message          string          `json:"message,omitempty"`
}

// PaymentURL is the generated payment request.
type PaymentURL struct {
	ID         string    `json:"id"`           // Unique reference ID (UUID)
	Recipient  string    `json:"recipient"`    // Pay-to address
	Amount     string    `json:"amount"`       // Whole asset units
	TokenMint  string    `json:"token_mint,omitempty"`
	PaymentURL string    `json:"payment_url"`  // Solana Pay URL for wallet apps
	QRCodeData string    `json:"qr_code_data"` // Base64 encoded QR code PNG
	CreatedAt  time.Time `json:"created_at"`
}

// handlePaymentURL returns a handler that builds a Solana Pay URL and QR code.
// POST /api/v1/transactions/payment-url
func handlePaymentURL(logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req PaymentURLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Debug("failed to decode payment-url request", "error", err)
			writeError(w, "invalid request body: must be valid JSON", http.StatusBadRequest)
			return
		}

		if req.RecipientAddress == "" {
			writeError(w, "recipientAddress is required", http.StatusBadRequest)
			return
		}
		if _, err := solana.PublicKeyFromBase58(req.RecipientAddress); err != nil {
			writeError(w, fmt.Sprintf("invalid recipientAddress: %v", err), http.StatusBadRequest)
			return
		}
		if req.Amount.Sign() <= 0 {
			writeError(w, "Amount must be greater than 0", http.StatusBadRequest)
			return
		}
		if req.TokenAddress != "" && req.TokenAddress != solana.SolMint.String() {
			if _, err := solana.PublicKeyFromBase58(req.TokenAddress); err != nil {
				writeError(w, fmt.Sprintf("invalid tokenAddress: %v", err), http.StatusBadRequest)
				return
			}
		}

		payURL := buildSolanaPayURL(req)

		// QR code is optional; URL generation alone is still useful.
		qrData, err := generateQRCode(payURL)
		if err != nil {
			logger.Warn("failed to generate QR code", "error", err)
			qrData = ""
		}

		writeJSON(w, PaymentURL{
			ID:         uuid.New().String(),
			Recipient:  req.RecipientAddress,
			Amount:     req.Amount.String(),
			TokenMint:  req.TokenAddress,
			PaymentURL: payURL,
			QRCodeData: qrData,
			CreatedAt:  time.Now().UTC(),
		}, http.StatusOK)
	})
}

// buildSolanaPayURL creates a Solana Pay-compatible URL for payment.
// Format: solana:{recipient}?amount={amount}&spl-token={mint}&label={label}&message={message}
func buildSolanaPayURL(req PaymentURLRequest) string {
	params := url.Values{}
	params.Set("amount", req.Amount.String())

	if req.Label != "" {
		params.Set("label", req.Label)
	}
	if req.Message != "" {
		params.Set("message", req.Message)
	}

	// Add spl-token parameter if paying with an SPL token
	if req.TokenAddress != "" && req.TokenAddress != solana.SolMint.String() {
		params.Set("spl-token", req.TokenAddress)
	}

	return fmt.Sprintf("solana:%s?%s", req.RecipientAddress, params.Encode())
}

// generateQRCode creates a QR code image from a payment URL and returns it as base64-encoded PNG.
func generateQRCode(data string) (string, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
