package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/perkline/sponsor/service/config"
	"github.com/perkline/sponsor/service/gasless"
	"github.com/perkline/sponsor/service/metrics"
	"github.com/perkline/sponsor/service/nats"
	"github.com/perkline/sponsor/service/server"
)

func main() {
	// Load and validate configuration from environment
	// This fails fast if any config is present but malformed
	cfg := config.MustLoad()

	// Setup structured logging
	logger := setupLogger(cfg.LogLevel)
	logger.Info("starting server",
		"addr", cfg.ServerAddr,
		"log_level", cfg.LogLevel,
		"rpc_url", cfg.SolanaRPCURL,
	)

	// Initialize metrics collectors
	m := metrics.NewMetrics(nil)

	// Load the fee-payer keypair. A missing or malformed key does not stop
	// the server: the transfer endpoint answers 500 until it is fixed, which
	// keeps health checks and metrics usable for diagnosis.
	var feePayer solana.PrivateKey
	if key, err := gasless.LoadFeePayer(cfg.FeePayerSecretKey); err != nil {
		logger.Error("fee payer unavailable, transfer requests will fail", "error", err)
	} else {
		feePayer = key
		logger.Info("fee payer loaded", "pubkey", key.PublicKey().String())
	}

	// Initialize Solana RPC client
	// Note: For premium RPC endpoints, include the API key in the URL
	chain := gasless.NewRPCClient(cfg.SolanaRPCURL)
	svc := gasless.NewService(gasless.ServiceParams{
		Chain:                chain,
		FeePayer:             feePayer,
		Endpoint:             endpointLabel(cfg.SolanaRPCURL),
		EstimatedFeeLamports: cfg.EstimatedFeeLamports,
		RPCTimeout:           cfg.RPCTimeout,
		Metrics:              m,
		Logger:               logger,
	})

	// Initialize NATS publisher (optional)
	var publisher nats.Publisher
	if cfg.NATSURL != "" {
		p, err := nats.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Warn("NATS_URL not set, transfer events will not be published")
	}

	// Initialize HTTP server
	httpServer := server.New(cfg.ServerAddr, svc, publisher, m, logger)

	// Start HTTP server in background
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.Start()
	}()

	// Wait for shutdown signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())

		// Graceful shutdown with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown server gracefully", "error", err)
			os.Exit(1)
		}

		logger.Info("server shutdown complete")
	}
}

// setupLogger creates a structured logger with the given log level.
func setupLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// endpointLabel derives a low-cardinality metrics label from the RPC URL,
// so API keys embedded in the URL never reach the metrics endpoint.
func endpointLabel(rpcURL string) string {
	u, err := url.Parse(rpcURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
