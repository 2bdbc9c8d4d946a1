package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Authorizer interface {
	Authorize(ctx context.Context, tenantID string, userID uuid.UUID, need services.Need) (services.RoleInfo, error)
}

// CreatorRequired lets owners, admins and creators of the tenant through.
func CreatorRequired(roles Authorizer) fiber.Handler {
	return requireRole(roles, services.NeedCreator, "Creator access required")
}

// OwnerRequired lets only tenant owners (and platform admins) through.
func OwnerRequired(roles Authorizer) fiber.Handler {
	return requireRole(roles, services.NeedOwner, "Owner access required")
}

func requireRole(roles Authorizer, need services.Need, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := tenant.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: "unauthenticated", Message: "Unauthorized",
			})
		}

		tenantID := tenant.GetTenantID(c)
		info, err := roles.Authorize(c.UserContext(), tenantID, userID, need)
		switch {
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Code: "forbidden", Message: message,
			})
		case err != nil:
			slog.Error("role lookup failed", "tenant_id", tenantID, "user_id", userID, "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Code: "store_unavailable", Message: "Role lookup failed",
			})
		}

		c.Locals("role", info.Role)
		return c.Next()
	}
}
