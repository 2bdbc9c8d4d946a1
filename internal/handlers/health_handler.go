package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether the record store is reachable.
type Pinger func() error

type HealthHandler struct {
	ping    Pinger
	plugins int
}

func NewHealthHandler(ping Pinger, plugins int) *HealthHandler {
	return &HealthHandler{ping: ping, plugins: plugins}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, dbStatus := "ok", "ok"
	if err := h.ping(); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Plugins:   h.plugins,
	})
}
