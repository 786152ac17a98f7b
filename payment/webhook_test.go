package payment

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalizeWebhook(t *testing.T) {
	ev, err := NormalizeWebhook(map[string]any{
		"order_id":           "X",
		"transaction_status": "settlement",
		"gross_amount":       float64(5000),
	})
	require.NoError(t, err)
	assert.Equal(t, "X", ev.OrderID)
	assert.Equal(t, "settlement", ev.Status)
	assert.Equal(t, int64(5000), ev.Amount)
	assert.NotEmpty(t, ev.ReceiptID)
	assert.False(t, ev.ReceivedAt.IsZero())
	assert.True(t, IsSuccessStatus(ev.Status))
}

func TestNormalizeWebhookMissingOrderID(t *testing.T) {
	_, err := NormalizeWebhook(map[string]any{})
	assert.ErrorIs(t, err, ErrMissingOrderID)

	_, err = NormalizeWebhook(map[string]any{"status": "paid", "amount": float64(5000)})
	assert.ErrorIs(t, err, ErrMissingOrderID)
}

func TestNormalizeWebhookAliasOrder(t *testing.T) {
	// order_id wins over id
	ev, err := NormalizeWebhook(map[string]any{"order_id": "A", "id": "B"})
	require.NoError(t, err)
	assert.Equal(t, "A", ev.OrderID)

	// status wins over transaction_status
	ev, err = NormalizeWebhook(map[string]any{
		"order_id":           "A",
		"status":             "pending",
		"transaction_status": "paid",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", ev.Status)

	// amount wins over nominal
	ev, err = NormalizeWebhook(map[string]any{
		"order_id": "A",
		"amount":   float64(7000),
		"nominal":  float64(9000),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7000), ev.Amount)
}

func TestNormalizeWebhookDegradation(t *testing.T) {
	// only an order id: status empty, amount zero, still usable
	ev, err := NormalizeWebhook(map[string]any{"invoice": "INV-1"})
	require.NoError(t, err)
	assert.Equal(t, "INV-1", ev.OrderID)
	assert.Empty(t, ev.Status)
	assert.Zero(t, ev.Amount)
	assert.False(t, IsSuccessStatus(ev.Status))

	// numeric-string amount coerces
	ev, err = NormalizeWebhook(map[string]any{"order_id": "A", "total": "12000"})
	require.NoError(t, err)
	assert.Equal(t, int64(12000), ev.Amount)

	// non-numeric amount degrades to zero
	ev, err = NormalizeWebhook(map[string]any{"order_id": "A", "amount": "lots"})
	require.NoError(t, err)
	assert.Zero(t, ev.Amount)
}

func TestNormalizeWebhookSignatureAliases(t *testing.T) {
	ev, err := NormalizeWebhook(map[string]any{"order_id": "A", "hash": "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", ev.Signature)
}

func TestAcceptAllVerifier(t *testing.T) {
	v := NewAcceptAllVerifier(discardLogger())
	ev, err := NormalizeWebhook(map[string]any{"order_id": "A"})
	require.NoError(t, err)
	assert.NoError(t, v.Verify(ev))
}
