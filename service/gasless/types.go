package gasless

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// TransferType classifies a prepared transfer by asset kind.
type TransferType string

const (
	// TransferTypeNative is a lamport transfer via the system program.
	TransferTypeNative TransferType = "sol"

	// TransferTypeToken is an SPL token transfer between associated token accounts.
	TransferTypeToken TransferType = "spl"
)

// nativeDecimals is the smallest-unit exponent for SOL (1 SOL = 1e9 lamports).
const nativeDecimals = uint8(9)

// TransferRequest describes a sponsored transfer to prepare. Amount is
// denominated in whole units of the asset (SOL or tokens), not lamports or
// base units; it is decoded into a decimal so JSON numbers never pass through
// float64 on their way to the on-chain integer amount.
type TransferRequest struct {
	SenderAddress    string          `json:"senderAddress"`
	RecipientAddress string          `json:"recipientAddress"`
	Amount           decimal.Decimal `json:"amount"`

	// TokenAddress selects the SPL mint to transfer. Empty, or equal to the
	// wrapped-SOL mint, means a native SOL transfer.
	TokenAddress string `json:"tokenAddress,omitempty"`

	// Decimals is the mint's configured decimal count for token transfers.
	// Defaults to 9 when omitted. The value is trusted from the caller; a
	// wrong value makes the checked transfer fail at execution rather than
	// move an unintended amount.
	Decimals *uint8 `json:"decimals,omitempty"`
}

// IsNative reports whether the request is a native SOL transfer.
func (r *TransferRequest) IsNative() bool {
	return r.TokenAddress == "" || r.TokenAddress == solana.SolMint.String()
}

// TokenDecimals returns the caller-supplied decimals, defaulting to 9.
func (r *TransferRequest) TokenDecimals() uint8 {
	if r.Decimals == nil {
		return nativeDecimals
	}
	return *r.Decimals
}

// Validate checks the request invariants that require no network access.
// Address parse failures are reported before any instruction is built.
func (r *TransferRequest) Validate() error {
	if r.SenderAddress == "" {
		return validationErrorf("senderAddress is required")
	}
	if _, err := solana.PublicKeyFromBase58(r.SenderAddress); err != nil {
		return validationErrorf("invalid senderAddress: %v", err)
	}

	if r.RecipientAddress == "" {
		return validationErrorf("recipientAddress is required")
	}
	if _, err := solana.PublicKeyFromBase58(r.RecipientAddress); err != nil {
		return validationErrorf("invalid recipientAddress: %v", err)
	}

	if r.Amount.Sign() <= 0 {
		return validationErrorf("Amount must be greater than 0")
	}

	if r.Decimals != nil && *r.Decimals > maxDecimals {
		return validationErrorf("decimals cannot exceed %d", maxDecimals)
	}

	return nil
}

// PreparedTransfer is the result of a successful prepare: a fee-payer-signed,
// sender-unsigned transaction ready for the client to countersign and
// broadcast. This is our domain model; the HTTP response format lives in the
// server package.
type PreparedTransfer struct {
	// SerializedTransaction is the base58-encoded wire transaction. It
	// carries exactly one signature (the fee payer's); the sender's slot
	// is zeroed.
	SerializedTransaction string

	// Message is the base64-encoded unsigned message bytes, for client-side
	// signing without re-deserializing the whole transaction.
	Message string

	TransferType TransferType

	// EstimatedFee is a flat estimate in lamports; the fee payer covers it.
	EstimatedFee uint64

	// Blockhash anchoring; the transaction is invalid past the expiry height.
	Blockhash            string
	LastValidBlockHeight uint64

	// Transfer details, used for event publishing and logging.
	Sender     string
	Recipient  string
	TokenMint  string // empty for native transfers
	BaseUnits  uint64
	PreparedAt time.Time
}
