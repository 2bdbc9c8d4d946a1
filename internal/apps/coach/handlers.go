package coach

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	presets   *PresetService
	resolver  *Resolver
	sessions  *SessionService
	profiles  *ProfileService
	usage     *UsageService
	lifecycle *Lifecycle
}

func NewHandler(presets *PresetService, resolver *Resolver, sessions *SessionService, profiles *ProfileService, usage *UsageService, lifecycle *Lifecycle) *Handler {
	return &Handler{
		presets:   presets,
		resolver:  resolver,
		sessions:  sessions,
		profiles:  profiles,
		usage:     usage,
		lifecycle: lifecycle,
	}
}

func (h *Handler) ListPresets(c *fiber.Ctx) error {
	presets, err := h.presets.ListPublic(c.UserContext(), tenant.GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(PresetListResponse{Presets: presets})
}

func (h *Handler) ResolveContext(c *fiber.Ctx) error {
	nicheKey := c.Query("niche_key")
	customNiche, err := h.profiles.ScreenNiche(nicheKey, c.Query("custom_niche"))
	if err != nil {
		return writeError(c, err)
	}

	composed, err := h.resolver.Resolve(c.UserContext(), tenant.GetTenantID(c), nicheKey, customNiche)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(composed)
}

// Requirements lists the clarifying questions for a niche and which of them
// the caller still has to answer.
func (h *Handler) Requirements(c *fiber.Ctx) error {
	tenantID, userID, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	nicheKey := c.Query("niche_key")
	customNiche, err := h.profiles.ScreenNiche(nicheKey, c.Query("custom_niche"))
	if err != nil {
		return writeError(c, err)
	}

	composed, err := h.resolver.Resolve(c.UserContext(), tenantID, nicheKey, customNiche)
	if err != nil {
		return writeError(c, err)
	}
	answers, err := h.profiles.Answers(c.UserContext(), tenantID, userID, nicheKey, customNiche)
	if err != nil {
		return writeError(c, err)
	}

	required := RequiredFields(nicheKey, composed.Label, composed.NicheContext, customNiche)
	return c.JSON(fiber.Map{
		"fields":  required,
		"missing": MissingFields(required, answers),
	})
}

func (h *Handler) GetNiche(c *fiber.Ctx) error {
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	selection, err := h.profiles.CurrentNiche(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(selection)
}

func (h *Handler) SelectNiche(c *fiber.Ctx) error {
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req SelectNicheRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	selection, err := h.profiles.SelectNiche(c.UserContext(), userID, req.NicheKey, req.CustomNiche)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(selection)
}

func (h *Handler) UpsertNicheProfile(c *fiber.Ctx) error {
	tenantID, userID, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req NicheProfileRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	profile, err := h.profiles.UpsertNicheProfile(c.UserContext(), tenantID, userID, req.NicheKey, req.CustomNiche, req.Answers)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(profile)
}

func (h *Handler) ListSessions(c *fiber.Ctx) error {
	tenantID, userID, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}

	sessions, err := h.sessions.List(c.UserContext(), tenantID, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *Handler) GetSession(c *fiber.Ctx) error {
	tenantID, userID, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}

	session, err := h.sessions.Get(c.UserContext(), tenantID, userID, c.Params("niche_key"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

func (h *Handler) PatchSession(c *fiber.Ctx) error {
	tenantID, userID, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var patch Patch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Body must be a JSON object")
	}

	session, err := h.sessions.Upsert(c.UserContext(), tenantID, userID, c.Params("niche_key"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

func (h *Handler) CompleteSession(c *fiber.Ctx) error {
	tenantID, userID, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req CompleteRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	session, err := h.lifecycle.RecordCompletion(c.UserContext(), tenantID, userID, c.Params("niche_key"), req.Summary)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

func (h *Handler) ResetSessions(c *fiber.Ctx) error {
	tenantID, userID, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req ResetRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.lifecycle.Reset(c.UserContext(), tenantID, userID, req.Mode); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Sessions reset"})
}

func (h *Handler) GetUsage(c *fiber.Ctx) error {
	tenantID, userID, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}

	usage, err := h.usage.UsageFor(c.UserContext(), tenantID, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(usage)
}

func (h *Handler) Prepare(c *fiber.Ctx) error {
	tenantID, userID, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req PrepareRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	prepared, err := h.lifecycle.Prepare(c.UserContext(), tenantID, userID, req.NicheKey, req.CustomNiche)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(prepared)
}

func (h *Handler) DrillPlan(c *fiber.Ctx) error {
	return c.JSON(PlanFor(c.Query("preference")))
}

// --- helpers ---

func caller(c *fiber.Ctx) (string, uuid.UUID, error) {
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return "", uuid.Nil, err
	}
	return tenant.GetTenantID(c), userID, nil
}

// parseBody decodes and validates the request body.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errors.New("invalid request body")
	}
	return dto.Validate(out)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Code: "invalid_request", Message: message,
	})
}

// writeError maps a service error to its HTTP status and error code.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, tenant.ErrUnauthenticated):
		status, code = fiber.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, services.ErrForbidden):
		status, code = fiber.StatusForbidden, "forbidden"
	case errors.Is(err, ErrInvalidKey):
		status, code = fiber.StatusBadRequest, "invalid_key"
	case errors.Is(err, ErrReservedKey):
		status, code = fiber.StatusBadRequest, "reserved_key"
	case errors.Is(err, ErrPresetNotFound),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrNicheContextNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		status, code = fiber.StatusNotFound, "not_found"
	case errors.Is(err, ErrInvalidMode):
		status, code = fiber.StatusBadRequest, "invalid_mode"
	case errors.Is(err, ErrInvalidField):
		status, code = fiber.StatusBadRequest, "invalid_field"
	case errors.Is(err, services.ErrInvalidRole):
		status, code = fiber.StatusBadRequest, "invalid_role"
	case errors.Is(err, ErrContentRejected):
		status, code = fiber.StatusBadRequest, "content_rejected"
	case errors.Is(err, ErrUsageCapped):
		status, code = fiber.StatusTooManyRequests, "usage_capped"
	case errors.Is(err, ErrStoreUnavailable):
		status, code = fiber.StatusServiceUnavailable, "store_unavailable"
	}

	message := err.Error()
	if status >= fiber.StatusInternalServerError {
		slog.Error("coach request failed",
			"tenant_id", tenant.GetTenantID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		message = "Service temporarily unavailable"
		if status == fiber.StatusInternalServerError {
			message = "Internal server error"
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Code: code, Message: message})
}
