package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/itchyny/gojq"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/perkline/sponsor/client"
)

func clientCommands() *cli.Command {
	return &cli.Command{
		Name:  "client",
		Usage: "HTTP client commands for interacting with the sponsor service",
		Subcommands: []*cli.Command{
			prepareCommand(),
			payURLCommand(),
		},
	}
}

func prepareCommand() *cli.Command {
	return &cli.Command{
		Name:      "prepare",
		Usage:     "Prepare a fee-sponsored transfer",
		ArgsUsage: "SENDER_ADDRESS RECIPIENT_ADDRESS AMOUNT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"m"},
				Usage:   "SPL token mint address (omit for native SOL)",
			},
			&cli.UintFlag{
				Name:  "decimals",
				Usage: "Token decimals (ignored for SOL)",
				Value: 9,
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Value:   30 * time.Second,
				Usage:   "Request timeout",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "jq expression applied to the JSON response",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 3 {
				return fmt.Errorf("sender, recipient, and amount are required")
			}

			amount, err := decimal.NewFromString(c.Args().Get(2))
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", c.Args().Get(2), err)
			}

			req := client.TransferRequest{
				SenderAddress:    c.Args().Get(0),
				RecipientAddress: c.Args().Get(1),
				Amount:           amount,
			}
			if mint := c.String("token"); mint != "" {
				req.TokenAddress = mint
				dec := uint8(c.Uint("decimals"))
				req.Decimals = &dec
			}

			cl := newClient(c)
			ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
			defer cancel()

			prepared, err := cl.PrepareTransfer(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to prepare transfer: %w", err)
			}

			return outputJSON(prepared, c.String("jq"))
		},
	}
}

func payURLCommand() *cli.Command {
	return &cli.Command{
		Name:      "pay-url",
		Usage:     "Generate a Solana Pay URL and QR code for a direct payment",
		ArgsUsage: "RECIPIENT_ADDRESS AMOUNT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"m"},
				Usage:   "SPL token mint address (omit for native SOL)",
			},
			&cli.StringFlag{
				Name:  "label",
				Usage: "Label shown by the paying wallet",
			},
			&cli.StringFlag{
				Name:  "message",
				Usage: "Message shown by the paying wallet",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "jq expression applied to the JSON response",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("recipient and amount are required")
			}

			amount, err := decimal.NewFromString(c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", c.Args().Get(1), err)
			}

			cl := newClient(c)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			payURL, err := cl.PaymentURL(ctx, client.PaymentURLRequest{
				RecipientAddress: c.Args().Get(0),
				Amount:           amount,
				TokenAddress:     c.String("token"),
				Label:            c.String("label"),
				Message:          c.String("message"),
			})
			if err != nil {
				return fmt.Errorf("failed to generate payment URL: %w", err)
			}

			return outputJSON(payURL, c.String("jq"))
		},
	}
}

// newClient builds an API client from global flags, logging errors only.
func newClient(c *cli.Context) *client.Client {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Only errors to stderr
	}))
	return client.NewClient(c.String("server-url"), &http.Client{}, logger)
}

// outputJSON prints v as indented JSON, optionally filtered through a jq expression.
func outputJSON(v interface{}, jqFilter string) error {
	if jqFilter == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	query, err := gojq.Parse(jqFilter)
	if err != nil {
		return fmt.Errorf("failed to parse jq filter %q: %w", jqFilter, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("failed to compile jq filter %q: %w", jqFilter, err)
	}

	// Round-trip through JSON so gojq sees plain maps and slices
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	var input interface{}
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	iter := code.Run(input)
	for {
		result, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := result.(error); isErr {
			return fmt.Errorf("jq filter error: %w", err)
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal jq result: %w", err)
		}
		fmt.Println(string(out))
	}

	return nil
}
