package gasless

import (
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferRequest_IsNative(t *testing.T) {
	assert.True(t, (&TransferRequest{}).IsNative())
	assert.True(t, (&TransferRequest{TokenAddress: solana.SolMint.String()}).IsNative())
	assert.False(t, (&TransferRequest{TokenAddress: testUSDCMint}).IsNative())
}

func TestTransferRequest_TokenDecimals(t *testing.T) {
	assert.Equal(t, uint8(9), (&TransferRequest{}).TokenDecimals())

	d := uint8(6)
	assert.Equal(t, uint8(6), (&TransferRequest{Decimals: &d}).TokenDecimals())
}

func TestTransferRequest_Validate(t *testing.T) {
	tooMany := uint8(19)

	tests := []struct {
		name    string
		req     TransferRequest
		wantErr string
	}{
		{
			name: "valid native",
			req: TransferRequest{
				SenderAddress:    testSender,
				RecipientAddress: testRecipient,
				Amount:           decimal.RequireFromString("1"),
			},
		},
		{
			name: "missing sender",
			req: TransferRequest{
				RecipientAddress: testRecipient,
				Amount:           decimal.RequireFromString("1"),
			},
			wantErr: "senderAddress is required",
		},
		{
			name: "missing recipient",
			req: TransferRequest{
				SenderAddress: testSender,
				Amount:        decimal.RequireFromString("1"),
			},
			wantErr: "recipientAddress is required",
		},
		{
			name: "zero amount",
			req: TransferRequest{
				SenderAddress:    testSender,
				RecipientAddress: testRecipient,
			},
			wantErr: "Amount must be greater than 0",
		},
		{
			name: "decimals out of range",
			req: TransferRequest{
				SenderAddress:    testSender,
				RecipientAddress: testRecipient,
				Amount:           decimal.RequireFromString("1"),
				TokenAddress:     testUSDCMint,
				Decimals:         &tooMany,
			},
			wantErr: "decimals cannot exceed 18",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantErr, verr.Error())
		})
	}
}

// Amounts decode straight into decimals, so a JSON value with more precision
// than float64 survives intact.
func TestTransferRequest_AmountDecodesExactly(t *testing.T) {
	var req TransferRequest
	err := json.Unmarshal([]byte(`{"senderAddress":"a","recipientAddress":"b","amount":20000000.123456789}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "20000000.123456789", req.Amount.String())
}

func TestLoadFeePayer(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	loaded, err := LoadFeePayer(key.String())
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), loaded.PublicKey())
}

func TestLoadFeePayer_Invalid(t *testing.T) {
	for _, secret := range []string{"", "not-base58-at-all!!"} {
		_, err := LoadFeePayer(secret)
		require.Error(t, err)

		var cerr *ConfigError
		assert.ErrorAs(t, err, &cerr)
	}

	// Errors must not echo secret material.
	_, err := LoadFeePayer("3yZe7d4j1q8v9w2x5u6t7s8r9q0p1o2n3m4l5k6j7h8g")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "3yZe7d4j1q8v9w2x5u6t7s8r9q0p1o2n3m4l5k6j7h8g")
}
