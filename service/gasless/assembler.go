package gasless

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
)

// assemble turns an ordered instruction list into a partially signed, wire
// serialized transaction. The blockhash is fetched here, immediately before
// assembly, because blockhashes expire; a stale one makes the eventual
// broadcast fail, which is surfaced to the caller rather than retried.
func (s *Service) assemble(ctx context.Context, built *builtTransfer) (*PreparedTransfer, error) {
	rctx, cancel := context.WithTimeout(ctx, s.rpcTimeout)
	defer cancel()

	start := time.Now()
	recent, err := s.chain.GetLatestBlockhash(rctx, rpc.CommitmentFinalized)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
		s.logger.ErrorContext(ctx, "failed to get latest blockhash", "error", err)
	}
	if s.metrics != nil {
		s.metrics.RecordRPCCall("GetLatestBlockhash", status, s.endpoint, duration)
	}
	if err != nil {
		return nil, &AssemblyError{Err: fmt.Errorf("get latest blockhash: %w", err)}
	}

	// Instruction order from the builder is preserved exactly: the account
	// creation instruction, when present, must execute before the transfer
	// that depends on the account existing.
	tx, err := solana.NewTransaction(
		built.instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(s.feePayer.PublicKey()),
	)
	if err != nil {
		return nil, &AssemblyError{Err: fmt.Errorf("construct transaction: %w", err)}
	}

	// Sign with the fee payer only. The sender's signature slot stays zeroed;
	// the client fills it in before broadcast.
	feePayerKey := s.feePayer
	_, err = tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(feePayerKey.PublicKey()) {
			return &feePayerKey
		}
		return nil
	})
	if err != nil {
		return nil, &AssemblyError{Err: fmt.Errorf("partial sign: %w", err)}
	}

	// MarshalBinary serializes whatever signatures are present without
	// verifying them, so the half-signed transaction round-trips intact.
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, &AssemblyError{Err: fmt.Errorf("serialize transaction: %w", err)}
	}

	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, &AssemblyError{Err: fmt.Errorf("serialize message: %w", err)}
	}

	return &PreparedTransfer{
		SerializedTransaction: base58.Encode(raw),
		Message:               base64.StdEncoding.EncodeToString(msg),
		TransferType:          built.transferType,
		EstimatedFee:          s.estimatedFee,
		Blockhash:             recent.Value.Blockhash.String(),
		LastValidBlockHeight:  recent.Value.LastValidBlockHeight,
		TokenMint:             built.tokenMint,
		BaseUnits:             built.baseUnits,
		PreparedAt:            time.Now().UTC(),
	}, nil
}
