package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Observation channels recorded against a payment.
const (
	ChannelCreate  = "create"
	ChannelWebhook = "webhook"
)

// PaymentRecord is the best-effort observation log for one order: created
// intents and webhook deliveries are upserted here keyed on order id. It is
// diagnostics only — the paid verdict is always re-derived from the provider,
// never read from this table.
type PaymentRecord struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`
	OrderID        string            `gorm:"uniqueIndex" json:"order_id"`
	TransactionID  string            `json:"transaction_id"`
	Amount         int64             `json:"amount"`
	Status         string            `json:"status"`
	Channel        string            `json:"channel"`
	Paid           bool              `json:"paid"`
	PaymentPayload string            `json:"payment_payload"`
	RawPayload     []byte            `json:"-"`
	Meta           datatypes.JSONMap `gorm:"type:jsonb" json:"meta,omitempty"`
}
