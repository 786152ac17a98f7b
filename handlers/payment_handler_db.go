// payment_handler_db.go contains the observation log: upsert helpers used by
// the create and webhook paths, plus GET handlers over recorded payments.
// Everything here is best effort — persistence failures are logged and never
// surfaced, and the paid verdict never reads from this table.
package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rakapratama/qrispay-backend/models"
	"github.com/rakapratama/qrispay-backend/payment"
)

type recordFilters struct {
	Status  string
	Channel string
	Paid    string
}

func (h *PaymentHandler) recordIntent(intent *payment.PaymentIntent) {
	if h.DB == nil {
		return
	}
	record := models.PaymentRecord{
		OrderID:        intent.OrderID,
		TransactionID:  intent.TransactionID,
		Amount:         intent.Amount,
		Status:         "created",
		Channel:        models.ChannelCreate,
		Paid:           false,
		PaymentPayload: intent.PaymentPayload,
		Meta: datatypes.JSONMap{
			"merchant":   intent.Merchant,
			"expires_at": intent.ExpiresAt,
		},
	}
	if err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"transaction_id", "amount", "status", "channel",
			"payment_payload", "meta", "updated_at",
		}),
	}).Create(&record).Error; err != nil {
		h.Logger.Error("failed to record payment intent", "order_id", intent.OrderID, "err", err) // do not fail outward
	}
}

func (h *PaymentHandler) recordWebhook(outcome *payment.WebhookOutcome) {
	if h.DB == nil || outcome.Event == nil {
		return
	}
	rawPayload, _ := json.Marshal(outcome.Event.Raw)
	record := models.PaymentRecord{
		OrderID:    outcome.OrderID,
		Amount:     outcome.Amount,
		Status:     outcome.Status,
		Channel:    models.ChannelWebhook,
		Paid:       outcome.Paid,
		RawPayload: rawPayload,
		Meta: datatypes.JSONMap{
			"receipt_id":  outcome.Event.ReceiptID,
			"received_at": outcome.Event.ReceivedAt,
		},
	}
	if err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "channel", "paid", "raw_payload", "meta", "updated_at",
		}),
	}).Create(&record).Error; err != nil {
		h.Logger.Error("failed to record webhook", "order_id", outcome.OrderID, "err", err) // do not fail outward
	}
}

func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	f := recordFilters{
		Status:  c.Query("status"),
		Channel: c.Query("channel"),
		Paid:    c.Query("paid"),
	}
	limit, offset := helpersParseLimitOffset(c.Query("limit"), c.Query("offset"))

	// count
	var totalCount int64
	if err := h.DB.Model(&models.PaymentRecord{}).
		Scopes(helpersApplyRecordFilters(f)).
		Count(&totalCount).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to count payments: " + err.Error()})
	}

	// data (fresh query)
	var records []models.PaymentRecord
	if err := h.DB.Model(&models.PaymentRecord{}).
		Scopes(helpersApplyRecordFilters(f)).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&records).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to retrieve payments: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"payments": records,
		"pagination": fiber.Map{
			"total":  totalCount,
			"limit":  limit,
			"offset": offset,
		},
	})
}

func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	orderID := c.Params("order_id")
	if orderID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "order_id is required"})
	}

	var record models.PaymentRecord
	if err := h.DB.Where("order_id = ?", orderID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Payment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to retrieve payment: " + err.Error()})
	}
	return c.JSON(record)
}

func helpersParseLimitOffset(limitStr, offsetStr string) (int, int) {
	limit, offset := 50, 0
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

func helpersApplyRecordFilters(f recordFilters) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Channel != "" {
			db = db.Where("channel = ?", f.Channel)
		}
		if f.Paid != "" {
			db = db.Where("paid = ?", f.Paid == "true")
		}
		return db
	}
}
