package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputJSON_NoFilter(t *testing.T) {
	err := outputJSON(map[string]any{"success": true}, "")
	assert.NoError(t, err)
}

func TestOutputJSON_WithFilter(t *testing.T) {
	v := map[string]any{
		"transactionType": "sol",
		"estimatedFee":    5000,
	}
	assert.NoError(t, outputJSON(v, ".transactionType"))
}

func TestOutputJSON_InvalidFilter(t *testing.T) {
	err := outputJSON(map[string]any{}, ".[invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse jq filter")
}
