package payment

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Alias order is fixed; changing it changes which field wins when a provider
// sends more than one.
var (
	orderIDAliases   = []string{"order_id", "orderId", "id", "transaction_id", "reff_id", "invoice"}
	statusAliases    = []string{"status", "transaction_status", "payment_status"}
	amountAliases    = []string{"amount", "gross_amount", "nominal", "price", "total"}
	signatureAliases = []string{"signature", "hash", "token"}
)

// CanonicalEvent is a webhook payload after field-alias resolution,
// independent of the sending provider's naming.
type CanonicalEvent struct {
	ReceiptID  string         `json:"receipt_id"`
	OrderID    string         `json:"order_id"`
	Status     string         `json:"status"`
	Amount     int64          `json:"amount"`
	Signature  string         `json:"signature,omitempty"`
	ReceivedAt time.Time      `json:"received_at"`
	Raw        map[string]any `json:"-"`
}

// NormalizeWebhook maps an arbitrary inbound payload onto a CanonicalEvent.
// A missing order id is the only unusable condition; every other absent field
// degrades (status empty, amount zero).
func NormalizeWebhook(raw map[string]any) (*CanonicalEvent, error) {
	orderID := firstString(raw, orderIDAliases...)
	if orderID == "" {
		return nil, ErrMissingOrderID
	}
	return &CanonicalEvent{
		ReceiptID:  uuid.NewString(),
		OrderID:    orderID,
		Status:     firstString(raw, statusAliases...),
		Amount:     firstAmount(raw, amountAliases...),
		Signature:  firstString(raw, signatureAliases...),
		ReceivedAt: time.Now().UTC(),
		Raw:        raw,
	}, nil
}

// SignatureVerifier checks a webhook's authenticity. The engine calls it but
// does not implement verification itself; deployments plug in an HMAC
// verifier keyed on their provider secret.
type SignatureVerifier interface {
	Verify(ev *CanonicalEvent) error
}

type acceptAllVerifier struct {
	logger *slog.Logger
}

// NewAcceptAllVerifier returns the default verifier: it accepts every event
// and records that the signature went unchecked.
func NewAcceptAllVerifier(logger *slog.Logger) SignatureVerifier {
	return &acceptAllVerifier{logger: logger}
}

func (v *acceptAllVerifier) Verify(ev *CanonicalEvent) error {
	v.logger.Warn("webhook signature not verified",
		"receipt_id", ev.ReceiptID,
		"order_id", ev.OrderID,
		"has_signature", ev.Signature != "",
	)
	return nil
}
