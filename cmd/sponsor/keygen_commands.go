package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/urfave/cli/v2"
)

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "Generate a fee-payer keypair",
		Description: `Generates a new keypair and prints the public key and the base58-encoded
secret. Set the secret as FEE_PAYER_SECRET_KEY on the server and fund the
public key with enough SOL to cover network fees and token account rent.`,
		Action: func(c *cli.Context) error {
			key, err := solana.NewRandomPrivateKey()
			if err != nil {
				return fmt.Errorf("failed to generate keypair: %w", err)
			}

			fmt.Printf("Public key:  %s\n", key.PublicKey().String())
			fmt.Printf("Secret key:  %s\n", key.String())
			return nil
		},
	}
}
