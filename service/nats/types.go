package nats

import (
	"time"

	"github.com/google/uuid"

	"github.com/perkline/sponsor/service/gasless"
)

// TransferEvent represents a prepared sponsored transfer published to NATS.
// This is published to the subject "transfers.{sender_address}" in JetStream.
// Note the event describes a prepared transaction, not a confirmed one; the
// sender still has to countersign and broadcast it.
type TransferEvent struct {
	// Event identifier
	ID string `json:"id"`

	// Transfer details
	Sender       string `json:"sender"`
	Recipient    string `json:"recipient"`
	TokenMint    string `json:"token_mint,omitempty"` // empty for native SOL
	TransferType string `json:"transfer_type"`        // "sol" or "spl"
	BaseUnits    uint64 `json:"base_units"`
	EstimatedFee uint64 `json:"estimated_fee"`

	// Blockhash anchoring
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"last_valid_block_height"`

	// Timing information
	PreparedAt  time.Time `json:"prepared_at"`
	PublishedAt time.Time `json:"published_at"`
}

// FromPreparedTransfer converts a prepared transfer to a TransferEvent for publishing.
func FromPreparedTransfer(p *gasless.PreparedTransfer) *TransferEvent {
	return &TransferEvent{
		ID:                   uuid.New().String(),
		Sender:               p.Sender,
		Recipient:            p.Recipient,
		TokenMint:            p.TokenMint,
		TransferType:         string(p.TransferType),
		BaseUnits:            p.BaseUnits,
		EstimatedFee:         p.EstimatedFee,
		Blockhash:            p.Blockhash,
		LastValidBlockHeight: p.LastValidBlockHeight,
		PreparedAt:           p.PreparedAt,
		PublishedAt:          time.Now().UTC(),
	}
}
