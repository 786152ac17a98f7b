package handlers

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rakapratama/qrispay-backend/models"
	"github.com/rakapratama/qrispay-backend/payment"
)

type PaymentHandler struct {
	DB     *gorm.DB // optional; nil disables the observation log
	Engine *payment.Engine
	Logger *slog.Logger
}

func NewPaymentHandler(db *gorm.DB, engine *payment.Engine, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{DB: db, Engine: engine, Logger: logger}
}

func (h *PaymentHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// CreatePayment opens a QRIS payment: amount policy, order id, provider
// transaction, QR render. Errors distinguish caller mistakes (400) from
// configuration problems (500) and provider trouble (502).
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var req models.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid request: " + err.Error(),
		})
	}

	amount, err := payment.ParseAmount(req.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": err.Error(),
		})
	}

	intent, err := h.Engine.CreatePayment(c.UserContext(), amount)
	if err != nil {
		return c.Status(createErrorStatus(err)).JSON(fiber.Map{
			"success": false, "message": err.Error(),
		})
	}

	h.recordIntent(intent)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "QRIS created",
		"data": models.PaymentData{
			OrderID:         intent.OrderID,
			TransactionID:   intent.TransactionID,
			Amount:          intent.Amount,
			FormattedAmount: payment.FormatRupiah(intent.Amount),
			PaymentURL:      intent.PaymentPayload,
			QRString:        intent.PaymentPayload,
			QRImage:         "data:image/png;base64," + base64.StdEncoding.EncodeToString(intent.QRImage),
			Merchant:        intent.Merchant,
			Expiry:          intent.Expiry,
			CreatedAt:       intent.CreatedAt.Format(time.RFC3339),
			ExpiresAt:       intent.ExpiresAt.Format(time.RFC3339),
		},
	})
}

// CheckStatus answers the polling client. Once the inputs parse it always
// responds 200; internal failures degrade to paid:false so a polling client
// is never told to stop retrying.
func (h *PaymentHandler) CheckStatus(c *fiber.Ctx) error {
	orderID := c.Query("orderId")
	var rawAmount any = c.Query("amount")

	if c.Method() == fiber.MethodPost {
		var req models.StatusRequest
		if err := c.BodyParser(&req); err == nil {
			if req.OrderID != "" {
				orderID = req.OrderID
			}
			if req.Amount != nil {
				rawAmount = req.Amount
			}
		}
	}

	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "orderId is required", "paid": false,
		})
	}
	amount, err := payment.CoerceAmount(rawAmount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "amount is required", "paid": false,
		})
	}

	paid := h.Engine.CheckStatus(c.UserContext(), orderID, amount)

	return c.JSON(fiber.Map{
		"success":   true,
		"paid":      paid,
		"order_id":  orderID,
		"amount":    amount,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func createErrorStatus(err error) int {
	switch {
	case payment.IsInvalidAmount(err):
		return fiber.StatusBadRequest
	case errors.Is(err, payment.ErrConfig), errors.Is(err, payment.ErrQREncoding):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadGateway
	}
}
