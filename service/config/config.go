package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultRPCURL is the public mainnet endpoint used when SOLANA_RPC_URL is unset.
// Public RPC is heavily rate limited; production deployments should point at a
// premium endpoint (Helius, QuickNode, etc.) with the API key in the URL.
const DefaultRPCURL = "https://api.mainnet-beta.solana.com"

// Config holds all application configuration loaded from environment variables.
// Required fields are validated at startup to ensure fail-fast behavior, with
// one deliberate exception: FEE_PAYER_SECRET_KEY may be absent, in which case
// the server starts but refuses every transfer request with a 500 until an
// operator fixes the deployment.
type Config struct {
	// Server configuration
	ServerAddr string
	LogLevel   string

	// Solana configuration
	SolanaRPCURL string

	// Fee payer configuration. The secret is a base58-encoded 64-byte
	// keypair; it must never be logged or echoed back to callers.
	FeePayerSecretKey string

	// RPCTimeout bounds each blocking RPC call (blockhash fetch, account
	// existence query) made while preparing a transfer.
	RPCTimeout time.Duration

	// EstimatedFeeLamports is the flat fee estimate returned to clients.
	EstimatedFeeLamports uint64

	// NATS configuration. Empty disables event publishing.
	NATSURL string
}

// Load reads configuration from environment variables and validates it.
// Returns an error if any value is present but malformed.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	// Server configuration
	cfg.ServerAddr = getEnvOrDefault("SERVER_ADDR", ":8080")
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Solana configuration
	cfg.SolanaRPCURL = getEnvOrDefault("SOLANA_RPC_URL", DefaultRPCURL)

	// Fee payer secret. Deliberately not required here; see Config docs.
	cfg.FeePayerSecretKey = os.Getenv("FEE_PAYER_SECRET_KEY")

	timeout, err := parseDuration("RPC_TIMEOUT", "10s")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.RPCTimeout = timeout
	}

	fee, err := parseUint("ESTIMATED_FEE_LAMPORTS", 5000)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.EstimatedFeeLamports = fee
	}

	// NATS configuration (optional)
	cfg.NATSURL = os.Getenv("NATS_URL")

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
// Useful for server initialization where misconfiguration should halt startup.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks if the configuration is valid.
// This is useful for testing configuration without loading from env.
func (c *Config) Validate() error {
	var errs []error

	if c.ServerAddr == "" {
		errs = append(errs, fmt.Errorf("ServerAddr is required"))
	}

	if c.SolanaRPCURL == "" {
		errs = append(errs, fmt.Errorf("SolanaRPCURL is required"))
	}

	if c.RPCTimeout < time.Second {
		errs = append(errs, fmt.Errorf("RPCTimeout must be at least 1 second"))
	}

	if c.EstimatedFeeLamports == 0 {
		errs = append(errs, fmt.Errorf("EstimatedFeeLamports must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

// HasFeePayer reports whether a fee-payer secret was provided.
func (c *Config) HasFeePayer() bool {
	return c.FeePayerSecretKey != ""
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration from an environment variable or uses a default.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return duration, nil
}

// parseUint parses an unsigned integer from an environment variable or uses a default.
func parseUint(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return result, nil
}
