package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// HandleWebhook receives provider payment notifications. It always
// acknowledges receipt with 200 so the provider does not retry-storm; only
// the diagnostic message varies when processing fails.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	var raw map[string]any
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		h.Logger.Error("webhook body is not JSON", "err", err)
		return c.JSON(fiber.Map{
			"received": true, "accepted": false, "paid": false,
			"message": "invalid payload",
		})
	}

	outcome := h.Engine.ProcessWebhook(c.UserContext(), raw)
	if outcome.Accepted {
		h.recordWebhook(outcome)
	}

	return c.JSON(fiber.Map{
		"received": true,
		"accepted": outcome.Accepted,
		"paid":     outcome.Paid,
		"order_id": outcome.OrderID,
		"status":   outcome.Status,
		"amount":   outcome.Amount,
		"message":  outcome.Message,
	})
}
