package gasless

import (
	"github.com/gagliardetto/solana-go"
)

// LoadFeePayer decodes a base58-encoded fee-payer secret key into a signing
// keypair. The key is loaded once at process start and injected into the
// service as a read-only capability; it is never mutated, logged, or returned
// to callers. Error messages deliberately omit the secret material.
func LoadFeePayer(secret string) (solana.PrivateKey, error) {
	if secret == "" {
		return nil, &ConfigError{msg: "fee payer secret key is not configured"}
	}

	key, err := solana.PrivateKeyFromBase58(secret)
	if err != nil {
		return nil, &ConfigError{msg: "fee payer secret key is not a valid base58-encoded keypair"}
	}

	return key, nil
}
