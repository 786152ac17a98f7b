package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/rakapratama/qrispay-backend/config"
)

// payloadAliases is the ordered preference for extracting the scannable
// payload from a create-transaction response.
var payloadAliases = []string{"payment_url", "qr_string", "qr_url", "qr_code", "url"}

// TransactionResult is the normalized outcome of creating a remote QRIS
// transaction.
type TransactionResult struct {
	TransactionID  string
	OrderID        string
	Amount         int64
	PaymentPayload string
	Merchant       string
	Expiry         string
}

// Gateway is the only component that talks to the Pakasir API.
type Gateway struct {
	cfg    config.Pakasir
	client *http.Client
	logger *slog.Logger
}

func NewGateway(cfg config.Pakasir, logger *slog.Logger) *Gateway {
	return &Gateway{
		cfg:    cfg,
		client: &http.Client{}, // per-call deadlines come from the context
		logger: logger,
	}
}

type createTransactionRequest struct {
	APIKey        string `json:"api_key"`
	Amount        int64  `json:"amount"`
	OrderID       string `json:"order_id"`
	StoreName     string `json:"store_name"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	RedirectURL   string `json:"redirect_url,omitempty"`
	WebhookURL    string `json:"webhook_url,omitempty"`
	ExpiryMinutes int    `json:"expiry_minutes"`
}

// checkCredentials rejects empty or placeholder configuration before any
// network I/O happens.
func (g *Gateway) checkCredentials() error {
	switch {
	case g.cfg.APIKey == "":
		return fmt.Errorf("%w: API key is empty", ErrConfig)
	case strings.Contains(g.cfg.APIKey, "ISI_API_KEY"):
		return fmt.Errorf("%w: API key is still the placeholder value", ErrConfig)
	case g.cfg.Store == "":
		return fmt.Errorf("%w: store name is empty", ErrConfig)
	case strings.Contains(g.cfg.Store, "TOKO_ANDA"):
		return fmt.Errorf("%w: store name is still the placeholder value", ErrConfig)
	case g.cfg.BaseURL == "":
		return fmt.Errorf("%w: base URL is empty", ErrConfig)
	}
	return nil
}

// CreateTransaction opens a QRIS transaction with the provider. One attempt,
// bounded by the configured creation timeout; failures map onto the closed
// error taxonomy instead of leaking transport detail.
func (g *Gateway) CreateTransaction(ctx context.Context, amount int64, orderID string) (*TransactionResult, error) {
	if err := g.checkCredentials(); err != nil {
		return nil, err
	}

	reqBody := createTransactionRequest{
		APIKey:        g.cfg.APIKey,
		Amount:        amount,
		OrderID:       orderID,
		StoreName:     g.cfg.Store,
		PaymentMethod: "qris",
		Description:   fmt.Sprintf("Pembayaran %s - %s", g.cfg.Store, orderID),
		CustomerName:  "Customer",
		CustomerEmail: "customer@payment.com",
		RedirectURL:   g.cfg.RedirectURL,
		WebhookURL:    g.cfg.WebhookURL,
		ExpiryMinutes: 15,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.CreateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.cfg.BaseURL+"/api/transaction/create", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "QRISPay-Gateway/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrProviderUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mapStatusError(resp.StatusCode, body)
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEndpointMisconfigured, err)
	}
	if ok, _ := parsed["success"].(bool); !ok {
		msg := firstString(parsed, "message", "error")
		if msg == "" {
			msg = "transaction creation failed at provider"
		}
		return nil, errors.New(msg)
	}

	data, _ := parsed["data"].(map[string]any)
	if data == nil {
		data = parsed
	}

	paymentPayload := firstString(data, payloadAliases...)
	if paymentPayload == "" {
		// Deterministic fallback so the caller always has something to render.
		paymentPayload = fmt.Sprintf("%s/pay/%s/%s", g.cfg.BaseURL, g.cfg.Store, orderID)
		g.logger.Warn("payment payload missing from provider response, synthesized fallback",
			"order_id", orderID, "payload", paymentPayload)
	}

	txID := firstString(data, "order_id", "id")
	if txID == "" {
		txID = orderID
	}
	merchant := firstString(data, "store_name")
	if merchant == "" {
		merchant = g.cfg.Store
	}

	g.logger.Info("transaction created",
		"order_id", orderID, "transaction_id", txID, "amount", amount)

	return &TransactionResult{
		TransactionID:  txID,
		OrderID:        orderID,
		Amount:         amount, // echo the requested amount, not the provider's
		PaymentPayload: paymentPayload,
		Merchant:       merchant,
		Expiry:         firstString(data, "expiry"),
	}, nil
}

// QueryStatus asks the provider whether an order has been paid. The result is
// strictly boolean: status must be in the success vocabulary AND the reported
// amount must equal expectedAmount exactly. Every operational failure reads
// as unpaid; diagnostics go to the log, never to the caller.
func (g *Gateway) QueryStatus(ctx context.Context, orderID string, expectedAmount int64) bool {
	if g.cfg.APIKey == "" || g.cfg.BaseURL == "" || orderID == "" {
		g.logger.Warn("status query skipped, missing credentials or order id", "order_id", orderID)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.StatusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.cfg.BaseURL+"/api/transaction/status/"+url.PathEscape(orderID), nil)
	if err != nil {
		g.logger.Error("status request build failed", "order_id", orderID, "err", err)
		return false
	}
	req.Header.Set("X-API-Key", g.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("status query failed", "order_id", orderID, "err", err)
		return false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.logger.Error("status query unusable response",
			"order_id", orderID, "http_status", resp.StatusCode, "err", err)
		return false
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		g.logger.Error("status response is not JSON", "order_id", orderID, "err", err)
		return false
	}
	data, _ := parsed["data"].(map[string]any)
	if data == nil {
		data = parsed
	}

	status := firstString(data, "status")
	reported := firstAmount(data, "amount", "nominal")
	paid := IsSuccessStatus(status) && reported == expectedAmount

	if paid {
		g.logger.Info("payment confirmed via status query",
			"order_id", orderID, "status", status, "amount", reported)
	} else {
		g.logger.Debug("payment not confirmed",
			"order_id", orderID, "status", status, "amount", reported, "expected", expectedAmount)
	}
	return paid
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after waiting for the create endpoint", ErrTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}

func mapStatusError(status int, body []byte) error {
	if looksLikeHTML(body) {
		return fmt.Errorf("%w (HTTP %d)", ErrEndpointMisconfigured, status)
	}
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return fmt.Errorf("%w (HTTP %d)", ErrProviderUnavailable, status)
	}
	return fmt.Errorf("%w: HTTP %d: %s", ErrProviderUnavailable, status, truncate(body, 200))
}

func looksLikeHTML(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return bytes.HasPrefix(trimmed, []byte("<!DOCTYPE")) || bytes.HasPrefix(trimmed, []byte("<html"))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
