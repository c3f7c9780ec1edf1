package gasless

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ChainClient is an interface for the Solana RPC operations we need.
// This allows us to mock the RPC layer in tests without hitting real Solana nodes.
type ChainClient interface {
	// GetLatestBlockhash fetches the most recent blockhash and its expiry
	// height. Blockhashes are short-lived; callers must fetch immediately
	// before assembly and never cache across requests.
	GetLatestBlockhash(
		ctx context.Context,
		commitment rpc.CommitmentType,
	) (*rpc.GetLatestBlockhashResult, error)

	// GetAccountInfo queries an account. Returns rpc.ErrNotFound when the
	// account does not exist on-chain.
	GetAccountInfo(
		ctx context.Context,
		account solana.PublicKey,
	) (*rpc.GetAccountInfoResult, error)
}
