package middleware

import (
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

// TenantRequired resolves tenant_id from the JWT claim, the X-Tenant-ID
// header or the tenant_id query param, in that order. Mount it after JWTProtected.
func TenantRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. JWT claim wins when present
		if claims, ok := tenant.Claims(c); ok {
			if tenantID, ok := claims["tenant_id"].(string); ok && tenantID != "" {
				return setTenant(c, tenantID)
			}
		}

		// 2. X-Tenant-ID header
		if tenantID := c.Get("X-Tenant-ID"); tenantID != "" {
			return setTenant(c, tenantID)
		}

		// 3. Query param
		if tenantID := c.Query("tenant_id"); tenantID != "" {
			return setTenant(c, tenantID)
		}

		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   true,
			Code:    "invalid_request",
			Message: "X-Tenant-ID header is required",
		})
	}
}

func setTenant(c *fiber.Ctx, tenantID string) error {
	if !tenant.ValidID(tenantID) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   true,
			Code:    "invalid_request",
			Message: "Invalid tenant ID: " + tenantID,
		})
	}
	c.Locals("tenant_id", tenantID)
	return c.Next()
}
