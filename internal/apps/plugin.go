package apps

import (
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Plugin defines the interface every feature module must implement.
type Plugin interface {
	// ID returns the unique plugin identifier used in logs.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts user routes on the given Fiber group.
	// The group is prefixed with /api/p and has JWT and tenant middleware applied.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AdminPlugin extends Plugin with creator-only route registration.
type AdminPlugin interface {
	Plugin

	// RegisterAdminRoutes mounts admin routes on the given Fiber group.
	// The group has JWT, tenant and creator-role middleware applied.
	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}
