package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_ADDR",
		"LOG_LEVEL",
		"SOLANA_RPC_URL",
		"FEE_PAYER_SECRET_KEY",
		"RPC_TIMEOUT",
		"ESTIMATED_FEE_LAMPORTS",
		"NATS_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultRPCURL, cfg.SolanaRPCURL)
	assert.Equal(t, 10*time.Second, cfg.RPCTimeout)
	assert.Equal(t, uint64(5000), cfg.EstimatedFeeLamports)
	assert.Empty(t, cfg.NATSURL)
	assert.False(t, cfg.HasFeePayer())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("SOLANA_RPC_URL", "https://rpc.example.com")
	t.Setenv("FEE_PAYER_SECRET_KEY", "somesecret")
	t.Setenv("RPC_TIMEOUT", "5s")
	t.Setenv("ESTIMATED_FEE_LAMPORTS", "10000")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "https://rpc.example.com", cfg.SolanaRPCURL)
	assert.Equal(t, 5*time.Second, cfg.RPCTimeout)
	assert.Equal(t, uint64(10000), cfg.EstimatedFeeLamports)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	assert.True(t, cfg.HasFeePayer())
}

func TestLoad_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("RPC_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC_TIMEOUT")
}

func TestLoad_InvalidFee(t *testing.T) {
	clearEnv(t)
	t.Setenv("ESTIMATED_FEE_LAMPORTS", "-5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ESTIMATED_FEE_LAMPORTS")
}

func TestValidate(t *testing.T) {
	valid := Config{
		ServerAddr:           ":8080",
		SolanaRPCURL:         DefaultRPCURL,
		RPCTimeout:           10 * time.Second,
		EstimatedFeeLamports: 5000,
	}
	assert.NoError(t, valid.Validate())

	missingRPC := valid
	missingRPC.SolanaRPCURL = ""
	assert.Error(t, missingRPC.Validate())

	tinyTimeout := valid
	tinyTimeout.RPCTimeout = 100 * time.Millisecond
	assert.Error(t, tinyTimeout.Validate())

	zeroFee := valid
	zeroFee.EstimatedFeeLamports = 0
	assert.Error(t, zeroFee.Validate())
}
