package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakapratama/qrispay-backend/config"
)

func testPakasirConfig(baseURL string) config.Pakasir {
	return config.Pakasir{
		APIKey:        "test-key",
		Store:         "test-store",
		BaseURL:       baseURL,
		WebhookURL:    "https://example.com/api/pakasir-webhook",
		CreateTimeout: 2 * time.Second,
		StatusTimeout: 2 * time.Second,
	}
}

func newTestGateway(handler http.Handler) (*Gateway, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewGateway(testPakasirConfig(srv.URL), discardLogger()), srv
}

func TestCreateTransactionSuccess(t *testing.T) {
	var gotBody createTransactionRequest
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transaction/create", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"payment_url": "https://pay.example/abc",
				"order_id":    "TX-1",
				"store_name":  "My Store",
				"expiry":      "2026-01-01T00:00:00Z",
			},
		})
	}))
	defer srv.Close()

	result, err := gw.CreateTransaction(context.Background(), 15000, "INV-260829-000001")
	require.NoError(t, err)

	assert.Equal(t, "TX-1", result.TransactionID)
	assert.Equal(t, "INV-260829-000001", result.OrderID)
	assert.Equal(t, int64(15000), result.Amount)
	assert.Equal(t, "https://pay.example/abc", result.PaymentPayload)
	assert.Equal(t, "My Store", result.Merchant)
	assert.Equal(t, "2026-01-01T00:00:00Z", result.Expiry)

	// request carries the expected provider fields
	assert.Equal(t, "test-key", gotBody.APIKey)
	assert.Equal(t, int64(15000), gotBody.Amount)
	assert.Equal(t, "INV-260829-000001", gotBody.OrderID)
	assert.Equal(t, "qris", gotBody.PaymentMethod)
	assert.Equal(t, 15, gotBody.ExpiryMinutes)
}

func TestCreateTransactionPayloadAliasOrder(t *testing.T) {
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"qr_string": "00020101021226...",
				"qr_url":    "https://pay.example/qr.png",
			},
		})
	}))
	defer srv.Close()

	result, err := gw.CreateTransaction(context.Background(), 5000, "INV-1")
	require.NoError(t, err)
	assert.Equal(t, "00020101021226...", result.PaymentPayload)
}

func TestCreateTransactionPayloadFallback(t *testing.T) {
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{}})
	}))
	defer srv.Close()

	result, err := gw.CreateTransaction(context.Background(), 5000, "INV-2")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s/pay/test-store/INV-2", srv.URL), result.PaymentPayload)
	assert.Equal(t, "INV-2", result.TransactionID)
	assert.Equal(t, "test-store", result.Merchant)
}

func TestCreateTransactionConfigErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		mutate func(*config.Pakasir)
	}{
		{"empty api key", func(c *config.Pakasir) { c.APIKey = "" }},
		{"placeholder api key", func(c *config.Pakasir) { c.APIKey = "ISI_API_KEY_DISINI" }},
		{"empty store", func(c *config.Pakasir) { c.Store = "" }},
		{"placeholder store", func(c *config.Pakasir) { c.Store = "NAMA_TOKO_ANDA" }},
		{"empty base url", func(c *config.Pakasir) { c.BaseURL = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testPakasirConfig(srv.URL)
			tt.mutate(&cfg)
			gw := NewGateway(cfg, discardLogger())

			_, err := gw.CreateTransaction(context.Background(), 5000, "INV-3")
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
	// configuration errors must never reach the network
	assert.Zero(t, hits)
}

func TestCreateTransactionErrorTaxonomy(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		wantErr error
	}{
		{http.StatusUnauthorized, `{"message":"bad key"}`, ErrUnauthorized},
		{http.StatusForbidden, `{"message":"ip"}`, ErrForbidden},
		{http.StatusNotFound, `{"message":"nope"}`, ErrNotFound},
		{http.StatusTooManyRequests, `{"message":"slow down"}`, ErrRateLimited},
		{http.StatusInternalServerError, `{"message":"boom"}`, ErrProviderUnavailable},
		{http.StatusBadGateway, `{"message":"boom"}`, ErrProviderUnavailable},
		{http.StatusNotFound, `<!DOCTYPE html><html>not found</html>`, ErrEndpointMisconfigured},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("HTTP %d", tt.status), func(t *testing.T) {
			gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := gw.CreateTransaction(context.Background(), 5000, "INV-4")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateTransactionNonJSONBody(t *testing.T) {
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<!DOCTYPE html><html>maintenance</html>"))
	}))
	defer srv.Close()

	_, err := gw.CreateTransaction(context.Background(), 5000, "INV-5")
	assert.ErrorIs(t, err, ErrEndpointMisconfigured)
}

func TestCreateTransactionProviderRejection(t *testing.T) {
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "amount declined"})
	}))
	defer srv.Close()

	_, err := gw.CreateTransaction(context.Background(), 5000, "INV-6")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount declined")
}

func TestCreateTransactionTimeout(t *testing.T) {
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()
	gw.cfg.CreateTimeout = 50 * time.Millisecond

	_, err := gw.CreateTransaction(context.Background(), 5000, "INV-7")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestQueryStatusVerdicts(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]any
		expected int64
		want     bool
	}{
		{"paid exact amount", map[string]any{"status": "settlement", "amount": float64(5000)}, 5000, true},
		{"uppercase status", map[string]any{"status": "PAID", "amount": float64(5000)}, 5000, true},
		{"amount mismatch", map[string]any{"status": "paid", "amount": float64(4999)}, 5000, false},
		{"pending", map[string]any{"status": "pending", "amount": float64(5000)}, 5000, false},
		{"nominal field", map[string]any{"status": "lunas", "nominal": float64(5000)}, 5000, true},
		{"missing amount", map[string]any{"status": "paid"}, 5000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
				json.NewEncoder(w).Encode(map[string]any{"data": tt.payload})
			}))
			defer srv.Close()

			assert.Equal(t, tt.want, gw.QueryStatus(context.Background(), "INV-8", tt.expected))
		})
	}
}

func TestQueryStatusWithoutDataEnvelope(t *testing.T) {
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "paid", "amount": float64(5000)})
	}))
	defer srv.Close()

	assert.True(t, gw.QueryStatus(context.Background(), "INV-9", 5000))
}

// Every operational failure must degrade to unpaid, never raise.
func TestQueryStatusDegradesToFalse(t *testing.T) {
	t.Run("non-JSON response", func(t *testing.T) {
		gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<!DOCTYPE html>"))
		}))
		defer srv.Close()
		assert.False(t, gw.QueryStatus(context.Background(), "INV-10", 5000))
	})

	t.Run("server error", func(t *testing.T) {
		gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		assert.False(t, gw.QueryStatus(context.Background(), "INV-10", 5000))
	})

	t.Run("unreachable server", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		gw := NewGateway(testPakasirConfig(srv.URL), discardLogger())
		assert.False(t, gw.QueryStatus(context.Background(), "INV-10", 5000))
	})

	t.Run("missing credentials", func(t *testing.T) {
		cfg := testPakasirConfig("https://example.invalid")
		cfg.APIKey = ""
		gw := NewGateway(cfg, discardLogger())
		assert.False(t, gw.QueryStatus(context.Background(), "INV-10", 5000))
	})

	t.Run("missing order id", func(t *testing.T) {
		gw := NewGateway(testPakasirConfig("https://example.invalid"), discardLogger())
		assert.False(t, gw.QueryStatus(context.Background(), "", 5000))
	})

	t.Run("timeout", func(t *testing.T) {
		gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer srv.Close()
		gw.cfg.StatusTimeout = 50 * time.Millisecond
		assert.False(t, gw.QueryStatus(context.Background(), "INV-10", 5000))
	})
}
