package onboarding

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Plugin exposes the onboarding transition function. It has no tables.
type Plugin struct {
	now func() time.Time
}

func New() *Plugin {
	return &Plugin{now: time.Now}
}

func (p *Plugin) ID() string { return "onboarding" }

func (p *Plugin) Models() []interface{} { return nil }

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	router.Get("/onboarding/steps", p.ListSteps)
	router.Post("/onboarding/advance", p.AdvanceStep)
}

type advanceRequest struct {
	Step      string `json:"step"`
	LastNiche string `json:"last_niche" validate:"max=64"`
}

func (p *Plugin) ListSteps(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"steps": Steps})
}

func (p *Plugin) AdvanceStep(c *fiber.Ctx) error {
	var req advanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: "invalid_request", Message: "Invalid request body",
		})
	}
	if err := dto.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: "invalid_request", Message: err.Error(),
		})
	}

	step, err := ParseStep(req.Step)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: "invalid_step", Message: err.Error(),
		})
	}

	next, err := State{Step: step, LastNiche: req.LastNiche}.Next(p.now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: "invalid_step", Message: err.Error(),
		})
	}
	return c.JSON(next)
}
