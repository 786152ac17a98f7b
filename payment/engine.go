package payment

import (
	"context"
	"log/slog"
	"time"
)

// ExpiryWindow is advisory: it drives the client countdown and nothing else.
// Status checks after expiry are still answered from provider truth.
const ExpiryWindow = 15 * time.Minute

// PaymentIntent is what a successful create-payment call hands back. It is
// never mutated and never stored by the engine.
type PaymentIntent struct {
	OrderID        string
	TransactionID  string
	Amount         int64
	PaymentPayload string
	QRImage        []byte
	Merchant       string
	Expiry         string
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// WebhookOutcome reports how an inbound webhook was judged. Accepted is false
// only when the payload carried no usable order id.
type WebhookOutcome struct {
	Accepted bool
	Paid     bool
	OrderID  string
	Status   string
	Amount   int64
	Message  string
	Event    *CanonicalEvent
}

// Engine orchestrates the payment lifecycle: it creates intents and
// reconciles confirmation signals from polling and webhooks into one
// idempotent paid/unpaid verdict. It holds no per-order state; every
// observation re-derives truth, so racing channels agree by construction.
type Engine struct {
	gateway       *Gateway
	verifier      SignatureVerifier
	logger        *slog.Logger
	enforceAmount bool // webhook path re-verifies amount against the provider
}

func NewEngine(gateway *Gateway, verifier SignatureVerifier, logger *slog.Logger, enforceWebhookAmount bool) *Engine {
	return &Engine{
		gateway:       gateway,
		verifier:      verifier,
		logger:        logger,
		enforceAmount: enforceWebhookAmount,
	}
}

// CreatePayment validates the amount, assigns an order id, opens the remote
// transaction and renders the QR image.
func (e *Engine) CreatePayment(ctx context.Context, amount int64) (*PaymentIntent, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	orderID := NewOrderID()
	result, err := e.gateway.CreateTransaction(ctx, amount, orderID)
	if err != nil {
		return nil, err
	}

	qrImage, err := EncodeQR(result.PaymentPayload)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	intent := &PaymentIntent{
		OrderID:        result.OrderID,
		TransactionID:  result.TransactionID,
		Amount:         result.Amount,
		PaymentPayload: result.PaymentPayload,
		QRImage:        qrImage,
		Merchant:       result.Merchant,
		Expiry:         result.Expiry,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ExpiryWindow),
	}

	e.logger.Info("payment intent created",
		"order_id", intent.OrderID,
		"amount", intent.Amount,
		"expires_at", intent.ExpiresAt,
	)
	return intent, nil
}

// CheckStatus answers "is this order paid" from provider truth. Strictly
// boolean and idempotent: repeated calls for a paid order keep returning true
// with no side effects.
func (e *Engine) CheckStatus(ctx context.Context, orderID string, amount int64) bool {
	if orderID == "" {
		return false
	}
	return e.gateway.QueryStatus(ctx, orderID, amount)
}

// ProcessWebhook canonicalizes an inbound payload and judges it against the
// shared success vocabulary. With amount enforcement on, a success-looking
// event is additionally confirmed against the provider under the same
// amount-match invariant the polling path uses.
func (e *Engine) ProcessWebhook(ctx context.Context, raw map[string]any) *WebhookOutcome {
	ev, err := NormalizeWebhook(raw)
	if err != nil {
		e.logger.Error("webhook rejected", "err", err)
		return &WebhookOutcome{Accepted: false, Message: err.Error()}
	}

	if err := e.verifier.Verify(ev); err != nil {
		e.logger.Error("webhook signature verification failed",
			"receipt_id", ev.ReceiptID, "order_id", ev.OrderID, "err", err)
		return &WebhookOutcome{
			Accepted: true,
			OrderID:  ev.OrderID,
			Status:   ev.Status,
			Amount:   ev.Amount,
			Message:  "signature verification failed",
			Event:    ev,
		}
	}

	paid := IsSuccessStatus(ev.Status)
	if paid && e.enforceAmount {
		paid = e.gateway.QueryStatus(ctx, ev.OrderID, ev.Amount)
	}

	e.logger.Info("webhook processed",
		"receipt_id", ev.ReceiptID,
		"order_id", ev.OrderID,
		"status", ev.Status,
		"amount", ev.Amount,
		"paid", paid,
	)

	return &WebhookOutcome{
		Accepted: true,
		Paid:     paid,
		OrderID:  ev.OrderID,
		Status:   ev.Status,
		Amount:   ev.Amount,
		Message:  "webhook processed",
		Event:    ev,
	}
}
