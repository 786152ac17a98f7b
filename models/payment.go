package models

// CreatePaymentRequest is the payload from the frontend to open a QRIS
// payment. Amount stays untyped so both JSON numbers and numeric strings
// coerce through the amount policy.
type CreatePaymentRequest struct {
	Amount any `json:"amount"`
}

// PaymentData is the created-intent body returned to the client.
type PaymentData struct {
	OrderID         string `json:"order_id"`
	TransactionID   string `json:"transaction_id"`
	Amount          int64  `json:"amount"`
	FormattedAmount string `json:"formatted_amount"`
	PaymentURL      string `json:"payment_url"`
	QRString        string `json:"qr_string"`
	QRImage         string `json:"qr_image"` // base64 PNG data URI
	Merchant        string `json:"merchant"`
	Expiry          string `json:"expiry,omitempty"`
	CreatedAt       string `json:"created_at"`
	ExpiresAt       string `json:"expires_at"`
}

// StatusRequest is the check-status payload when sent via POST.
type StatusRequest struct {
	OrderID string `json:"orderId"`
	Amount  any    `json:"amount"`
}
