package nats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perkline/sponsor/service/gasless"
)

func TestFromPreparedTransfer(t *testing.T) {
	preparedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	p := &gasless.PreparedTransfer{
		TransferType:         gasless.TransferTypeToken,
		EstimatedFee:         5000,
		Blockhash:            "So11111111111111111111111111111111111111112",
		LastValidBlockHeight: 250_000_000,
		Sender:               "sender",
		Recipient:            "recipient",
		TokenMint:            "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		BaseUnits:            10_000_000,
		PreparedAt:           preparedAt,
	}

	event := FromPreparedTransfer(p)

	_, err := uuid.Parse(event.ID)
	require.NoError(t, err)

	assert.Equal(t, "sender", event.Sender)
	assert.Equal(t, "recipient", event.Recipient)
	assert.Equal(t, "spl", event.TransferType)
	assert.Equal(t, p.TokenMint, event.TokenMint)
	assert.Equal(t, uint64(10_000_000), event.BaseUnits)
	assert.Equal(t, uint64(5000), event.EstimatedFee)
	assert.Equal(t, p.Blockhash, event.Blockhash)
	assert.Equal(t, uint64(250_000_000), event.LastValidBlockHeight)
	assert.Equal(t, preparedAt, event.PreparedAt)
	assert.False(t, event.PublishedAt.IsZero())
}

func TestFromPreparedTransfer_UniqueIDs(t *testing.T) {
	p := &gasless.PreparedTransfer{TransferType: gasless.TransferTypeNative}
	a := FromPreparedTransfer(p)
	b := FromPreparedTransfer(p)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestMockPublisher(t *testing.T) {
	ctx := context.Background()
	mock := NewMockPublisher()

	event := FromPreparedTransfer(&gasless.PreparedTransfer{
		TransferType: gasless.TransferTypeNative,
		Sender:       "sender",
	})
	require.NoError(t, mock.PublishTransferPrepared(ctx, event))

	events := mock.GetPublishedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "sender", events[0].Sender)

	mock.SetPublishError(errors.New("nats: connection closed"))
	assert.Error(t, mock.PublishTransferPrepared(ctx, event))
	assert.Len(t, mock.GetPublishedEvents(), 1)

	assert.False(t, mock.IsClosed())
	require.NoError(t, mock.Close())
	assert.True(t, mock.IsClosed())
}
