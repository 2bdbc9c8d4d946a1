package coach

import (
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminHandler serves creator-only routes: presets, settings, overrides and members.
type AdminHandler struct {
	presets  *PresetService
	settings *SettingsService
	roles    *services.RoleService
}

func NewAdminHandler(presets *PresetService, settings *SettingsService, roles *services.RoleService) *AdminHandler {
	return &AdminHandler{presets: presets, settings: settings, roles: roles}
}

func (h *AdminHandler) ListPresets(c *fiber.Ctx) error {
	rows, err := h.presets.ListAdmin(c.UserContext(), tenant.GetTenantID(c), c.QueryBool("include_disabled", true))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(StoredPresetListResponse{Presets: rows})
}

func (h *AdminHandler) UpsertPreset(c *fiber.Ctx) error {
	var req UpsertPresetRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	row, err := h.presets.Upsert(c.UserContext(), tenant.GetTenantID(c), c.Params("key"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(row)
}

func (h *AdminHandler) DeletePreset(c *fiber.Ctx) error {
	if err := h.presets.Delete(c.UserContext(), tenant.GetTenantID(c), c.Params("key")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Preset deleted"})
}

func (h *AdminHandler) RestoreDefaults(c *fiber.Ctx) error {
	rows, err := h.presets.RestoreDefaults(c.UserContext(), tenant.GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(StoredPresetListResponse{Presets: rows})
}

func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Get(c.UserContext(), tenant.GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(settings)
}

func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	settings, err := h.settings.Update(c.UserContext(), tenant.GetTenantID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(settings)
}

func (h *AdminHandler) ListNicheContexts(c *fiber.Ctx) error {
	overrides, err := h.settings.ListNicheContexts(c.UserContext(), tenant.GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"niche_contexts": overrides})
}

func (h *AdminHandler) UpsertNicheContext(c *fiber.Ctx) error {
	var req UpsertNicheContextRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	override, err := h.settings.UpsertNicheContext(c.UserContext(), tenant.GetTenantID(c), c.Params("niche_key"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(override)
}

func (h *AdminHandler) DeleteNicheContext(c *fiber.Ctx) error {
	if err := h.settings.DeleteNicheContext(c.UserContext(), tenant.GetTenantID(c), c.Params("niche_key")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Niche context deleted"})
}

func (h *AdminHandler) SetMemberRole(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	var req struct {
		Role string `json:"role" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	member, err := h.roles.SetRole(c.UserContext(), tenant.GetTenantID(c), userID, req.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(member)
}

func (h *AdminHandler) RemoveMember(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	if err := h.roles.RemoveMember(c.UserContext(), tenant.GetTenantID(c), userID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Member removed"})
}
