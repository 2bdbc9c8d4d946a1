package routes

import (
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	limiterStorage fiber.Storage,
	roles *services.RoleService,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// General API rate limiter, shared through Redis when configured
	api.Use(middleware.RateLimit(cfg, limiterStorage))

	// Health (no tenant required)
	api.Get("/health", healthHandler.Check)

	// Webhooks: shared secret, tenant from :tenant_id (no JWT)
	webhooks := api.Group("/webhooks")
	webhooks.Post("/revenuecat/:tenant_id", webhookHandler.HandleRevenueCat)

	// Plugin routes: JWT first so the tenant claim is available
	protected := api.Group("/p", middleware.JWTProtected(cfg), middleware.TenantRequired())

	// Creator panel (protected + creator role in the tenant)
	admin := api.Group("/admin",
		middleware.JWTProtected(cfg),
		middleware.TenantRequired(),
		middleware.CreatorRequired(roles),
	)

	for _, p := range plugins {
		p.RegisterRoutes(protected, db, cfg)
		// If the plugin also implements AdminPlugin, register admin routes
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin, db, cfg)
		}
	}
}
