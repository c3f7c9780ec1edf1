package gasless

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/perkline/sponsor/service/metrics"
)

const (
	defaultRPCTimeout   = 10 * time.Second
	defaultEstimatedFee = 5000 // lamports, one signature at the base fee rate
)

// Service prepares fee-sponsored transfers: it builds the instruction list,
// anchors it to a fresh blockhash, partially signs with the fee-payer keypair,
// and serializes the result for the sender to countersign client-side.
//
// A Service is safe for concurrent use. The fee-payer keypair and endpoint
// configuration are read-only after construction, and signing is a pure
// function of the keypair and message bytes. Each request runs the pipeline
// independently; nothing is shared or cached between requests.
type Service struct {
	chain        ChainClient
	feePayer     solana.PrivateKey // nil when unconfigured; Prepare refuses with ConfigError
	endpoint     string            // RPC endpoint identifier for metrics (e.g. "mainnet", rpc host)
	estimatedFee uint64
	rpcTimeout   time.Duration
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// ServiceParams contains the dependencies for NewService.
type ServiceParams struct {
	Chain    ChainClient
	FeePayer solana.PrivateKey // may be nil; the service then refuses every request
	Endpoint string            // metrics label for the RPC endpoint

	EstimatedFeeLamports uint64        // defaults to 5000
	RPCTimeout           time.Duration // defaults to 10s

	Metrics *metrics.Metrics // optional; nil disables metrics
	Logger  *slog.Logger     // optional
}

// NewService creates a transfer preparation service.
func NewService(p ServiceParams) *Service {
	if p.EstimatedFeeLamports == 0 {
		p.EstimatedFeeLamports = defaultEstimatedFee
	}
	if p.RPCTimeout == 0 {
		p.RPCTimeout = defaultRPCTimeout
	}
	if p.Logger == nil {
		p.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		chain:        p.Chain,
		feePayer:     p.FeePayer,
		endpoint:     p.Endpoint,
		estimatedFee: p.EstimatedFeeLamports,
		rpcTimeout:   p.RPCTimeout,
		metrics:      p.Metrics,
		logger:       p.Logger,
	}
}

// Ready reports whether the service has a fee payer and can sponsor transfers.
func (s *Service) Ready() bool {
	return len(s.feePayer) > 0
}

// FeePayer returns the sponsor's public key, or the zero key when unconfigured.
func (s *Service) FeePayer() solana.PublicKey {
	if !s.Ready() {
		return solana.PublicKey{}
	}
	return s.feePayer.PublicKey()
}

// Prepare runs the full pipeline for one request:
// validate, build instructions, fetch blockhash, assemble, partial-sign,
// serialize. It is a single pass; no stage is retried and no partial progress
// is observable to the caller on failure.
func (s *Service) Prepare(ctx context.Context, req *TransferRequest) (*PreparedTransfer, error) {
	if !s.Ready() {
		return nil, &ConfigError{msg: "fee payer key is not configured"}
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	built, err := s.buildInstructions(ctx, req)
	if err != nil {
		s.recordPrepared("unknown", "build_error", start)
		return nil, err
	}

	prepared, err := s.assemble(ctx, built)
	if err != nil {
		s.recordPrepared(string(built.transferType), "assembly_error", start)
		return nil, err
	}

	prepared.Sender = req.SenderAddress
	prepared.Recipient = req.RecipientAddress

	s.recordPrepared(string(built.transferType), "success", start)
	s.logger.InfoContext(ctx, "prepared sponsored transfer",
		"type", built.transferType,
		"sender", req.SenderAddress,
		"recipient", req.RecipientAddress,
		"base_units", built.baseUnits,
		"instructions", len(built.instructions),
	)

	return prepared, nil
}

func (s *Service) recordPrepared(transferType, status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordTransferPrepared(transferType, status, time.Since(start).Seconds())
	}
}
