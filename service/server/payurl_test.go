package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postPaymentURL(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := handlePaymentURL(testLogger())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/payment-url", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPaymentURL_NativePayment(t *testing.T) {
	body := `{"recipientAddress":"` + testRecipient + `","amount":1.5,"label":"Coffee Shop"}`
	rec := postPaymentURL(t, body)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PaymentURL
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, testRecipient, resp.Recipient)
	assert.Equal(t, "1.5", resp.Amount)
	assert.NotEmpty(t, resp.QRCodeData)

	require.True(t, strings.HasPrefix(resp.PaymentURL, "solana:"+testRecipient+"?"))
	parsed, err := url.Parse(resp.PaymentURL)
	require.NoError(t, err)
	query := parsed.Query()
	assert.Equal(t, "1.5", query.Get("amount"))
	assert.Equal(t, "Coffee Shop", query.Get("label"))
	assert.Empty(t, query.Get("spl-token"), "native payments carry no mint")
}

func TestPaymentURL_TokenPayment(t *testing.T) {
	mint := "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	body := `{"recipientAddress":"` + testRecipient + `","amount":25,"tokenAddress":"` + mint + `"}`
	rec := postPaymentURL(t, body)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PaymentURL
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	parsed, err := url.Parse(resp.PaymentURL)
	require.NoError(t, err)
	assert.Equal(t, mint, parsed.Query().Get("spl-token"))
	assert.Equal(t, mint, resp.TokenMint)
}

func TestPaymentURL_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "missing recipient",
			body:    `{"amount":1}`,
			wantMsg: "recipientAddress is required",
		},
		{
			name:    "malformed recipient",
			body:    `{"recipientAddress":"nope","amount":1}`,
			wantMsg: "invalid recipientAddress",
		},
		{
			name:    "zero amount",
			body:    `{"recipientAddress":"` + testRecipient + `","amount":0}`,
			wantMsg: "Amount must be greater than 0",
		},
		{
			name:    "malformed token",
			body:    `{"recipientAddress":"` + testRecipient + `","amount":1,"tokenAddress":"bad!"}`,
			wantMsg: "invalid tokenAddress",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postPaymentURL(t, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Message, tt.wantMsg)
		})
	}
}

func TestBuildSolanaPayURL_EscapesParams(t *testing.T) {
	got := buildSolanaPayURL(PaymentURLRequest{
		RecipientAddress: testRecipient,
		Amount:           decimal.RequireFromString("0.1"),
		Label:            "a b&c",
	})

	parsed, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "a b&c", parsed.Query().Get("label"))
}
