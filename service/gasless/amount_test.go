package gasless

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals uint8
		want     uint64
	}{
		{name: "one and a half SOL", amount: "1.5", decimals: 9, want: 1_500_000_000},
		{name: "whole SOL", amount: "2", decimals: 9, want: 2_000_000_000},
		{name: "single lamport", amount: "0.000000001", decimals: 9, want: 1},
		{name: "ten USDC", amount: "10", decimals: 6, want: 10_000_000},
		{name: "zero decimals", amount: "42", decimals: 0, want: 42},
		{name: "truncates below one lamport", amount: "1.9999999999", decimals: 9, want: 1_999_999_999},
		{name: "truncates toward zero", amount: "0.1234567891", decimals: 9, want: 123_456_789},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toBaseUnits(decimal.RequireFromString(tt.amount), tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Amounts with many significant digits are exact: 0.29 at 6 decimals is
// 290000, not the 289999 a float64 multiply would truncate to.
func TestToBaseUnits_NoFloatDrift(t *testing.T) {
	got, err := toBaseUnits(decimal.RequireFromString("0.29"), 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(290_000), got)

	// Above 2^53 lamports, float64 can no longer represent every integer.
	got, err = toBaseUnits(decimal.RequireFromString("20000000.123456789"), 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(20_000_000_123_456_789), got)
}

func TestToBaseUnits_BelowOneBaseUnit(t *testing.T) {
	_, err := toBaseUnits(decimal.RequireFromString("0.0000000001"), 9)
	require.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestToBaseUnits_Overflow(t *testing.T) {
	// 2^64 lamports is just over 18.4 billion SOL.
	_, err := toBaseUnits(decimal.RequireFromString("20000000000"), 9)
	require.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
