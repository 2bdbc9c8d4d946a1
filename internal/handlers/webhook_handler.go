package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

type SubscriptionEvents interface {
	HandleWebhookEvent(ctx context.Context, tenantID string, event *dto.RevenueCatEvent) error
}

type WebhookHandler struct {
	subscriptions SubscriptionEvents
	webhookAuth   string
}

func NewWebhookHandler(subscriptions SubscriptionEvents, webhookAuth string) *WebhookHandler {
	return &WebhookHandler{
		subscriptions: subscriptions,
		webhookAuth:   webhookAuth,
	}
}

// HandleRevenueCat applies a subscription event to the tenant named by :tenant_id.
func (h *WebhookHandler) HandleRevenueCat(c *fiber.Ctx) error {
	tenantID := c.Params("tenant_id")
	if !tenant.ValidID(tenantID) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Code: "not_found", Message: "Unknown tenant",
		})
	}

	if h.webhookAuth == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Code: "not_found", Message: "Webhooks not configured",
		})
	}

	authHeader := c.Get("Authorization")
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.webhookAuth)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: "unauthenticated", Message: "Unauthorized",
		})
	}

	var webhook dto.RevenueCatWebhook
	if err := c.BodyParser(&webhook); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: "invalid_request", Message: "Invalid webhook payload",
		})
	}

	if err := h.subscriptions.HandleWebhookEvent(c.UserContext(), tenantID, &webhook.Event); err != nil {
		slog.Error("webhook processing failed", "tenant_id", tenantID, "event_type", webhook.Event.Type, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook event",
		})
	}

	slog.Info("webhook processed", "tenant_id", tenantID, "event_type", webhook.Event.Type)
	return c.JSON(fiber.Map{"received": true})
}
