package gasless

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// builtTransfer is the instruction builder's output: an ordered instruction
// list plus the details the assembler and event publisher need. Instruction
// order is significant and must be preserved exactly; when an account-creation
// instruction is present it comes before the transfer that depends on it.
type builtTransfer struct {
	instructions []solana.Instruction
	transferType TransferType
	tokenMint    string // empty for native transfers
	baseUnits    uint64
}

// buildInstructions produces the ordered instruction list for a validated
// request, choosing the native or token path.
func (s *Service) buildInstructions(ctx context.Context, req *TransferRequest) (*builtTransfer, error) {
	// Addresses were validated up front; parse failures here are impossible
	// short of a Validate/build mismatch.
	sender, err := solana.PublicKeyFromBase58(req.SenderAddress)
	if err != nil {
		return nil, validationErrorf("invalid senderAddress: %v", err)
	}
	recipient, err := solana.PublicKeyFromBase58(req.RecipientAddress)
	if err != nil {
		return nil, validationErrorf("invalid recipientAddress: %v", err)
	}

	if req.IsNative() {
		return s.buildNativeTransfer(req, sender, recipient)
	}
	return s.buildTokenTransfer(ctx, req, sender, recipient)
}

// buildNativeTransfer emits a single system-program transfer of
// floor(amount * 1e9) lamports from sender to recipient.
func (s *Service) buildNativeTransfer(req *TransferRequest, sender, recipient solana.PublicKey) (*builtTransfer, error) {
	lamports, err := toBaseUnits(req.Amount, nativeDecimals)
	if err != nil {
		return nil, err
	}

	transfer := system.NewTransferInstruction(lamports, sender, recipient).Build()

	return &builtTransfer{
		instructions: []solana.Instruction{transfer},
		transferType: TransferTypeNative,
		baseUnits:    lamports,
	}, nil
}

// buildTokenTransfer emits a checked SPL transfer between the sender's and
// recipient's associated token accounts, prepended by an account-creation
// instruction when the recipient's holding account does not exist yet. The
// creation is funded by the fee payer, not the sender, which is why the fee
// payer must cover rent in addition to network fees.
func (s *Service) buildTokenTransfer(ctx context.Context, req *TransferRequest, sender, recipient solana.PublicKey) (*builtTransfer, error) {
	mint, err := solana.PublicKeyFromBase58(req.TokenAddress)
	if err != nil {
		return nil, &TokenAddressError{Mint: req.TokenAddress, Err: err}
	}

	senderATA, _, err := solana.FindAssociatedTokenAddress(sender, mint)
	if err != nil {
		return nil, &BuildError{Err: fmt.Errorf("derive sender token account: %w", err)}
	}

	recipientATA, _, err := solana.FindAssociatedTokenAddress(recipient, mint)
	if err != nil {
		return nil, &BuildError{Err: fmt.Errorf("derive recipient token account: %w", err)}
	}

	exists, err := s.accountExists(ctx, recipientATA)
	if err != nil {
		return nil, &BuildError{Err: fmt.Errorf("query recipient token account %s: %w", recipientATA, err)}
	}

	var instructions []solana.Instruction
	if !exists {
		s.logger.DebugContext(ctx, "recipient token account missing, adding create instruction",
			"recipient", recipient.String(),
			"mint", mint.String(),
			"ata", recipientATA.String(),
		)
		create := associatedtokenaccount.NewCreateInstruction(
			s.feePayer.PublicKey(), // rent funded by the sponsor
			recipient,
			mint,
		).Build()
		instructions = append(instructions, create)
	}

	decimals := req.TokenDecimals()
	units, err := toBaseUnits(req.Amount, decimals)
	if err != nil {
		return nil, err
	}

	// The checked variant embeds decimals so the token program rejects the
	// transfer if they disagree with the mint's configuration.
	transfer := token.NewTransferCheckedInstruction(
		units,
		decimals,
		senderATA,
		mint,
		recipientATA,
		sender,
		nil,
	).Build()
	instructions = append(instructions, transfer)

	return &builtTransfer{
		instructions: instructions,
		transferType: TransferTypeToken,
		tokenMint:    mint.String(),
		baseUnits:    units,
	}, nil
}

// accountExists queries whether an account exists on-chain.
func (s *Service) accountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	rctx, cancel := context.WithTimeout(ctx, s.rpcTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.chain.GetAccountInfo(rctx, account)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil && !errors.Is(err, rpc.ErrNotFound) {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.RecordRPCCall("GetAccountInfo", status, s.endpoint, duration)
	}

	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	// Some RPC providers return an empty result instead of a not-found error.
	if result == nil || result.Value == nil {
		return false, nil
	}

	return true, nil
}
