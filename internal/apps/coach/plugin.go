package coach

import (
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/apps/coach")

type Plugin struct {
	roles      *services.RoleService
	subs       *services.SubscriptionService
	moderation *services.ModerationService
}

func New(roles *services.RoleService, subs *services.SubscriptionService, moderation *services.ModerationService) *Plugin {
	return &Plugin{roles: roles, subs: subs, moderation: moderation}
}

func (p *Plugin) ID() string { return "coach" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&NichePreset{},
		&CreatorSettings{},
		&CreatorNicheContext{},
		&PracticeSession{},
		&UserNicheProfile{},
		&CompletionEvent{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	// Services
	settings := NewSettingsService(db)
	presets := NewPresetService(db, settings)
	resolver := NewResolver(presets, settings)
	sessions := NewSessionService(db)
	profiles := NewProfileService(db, p.moderation)
	usage := NewUsageService(db, p.roles, p.subs)
	lifecycle := NewLifecycle(db, sessions, profiles, resolver, usage)

	h := NewHandler(presets, resolver, sessions, profiles, usage, lifecycle)

	// Niche catalog and context
	router.Get("/presets", h.ListPresets)
	router.Get("/context", h.ResolveContext)
	router.Get("/requirements", h.Requirements)
	router.Get("/drill-plan", h.DrillPlan)

	// Niche selection
	router.Get("/niche", h.GetNiche)
	router.Put("/niche", h.SelectNiche)
	router.Put("/niche-profile", h.UpsertNicheProfile)

	// Sessions
	router.Post("/sessions/reset", h.ResetSessions)
	router.Get("/sessions", h.ListSessions)
	router.Get("/sessions/:niche_key", h.GetSession)
	router.Patch("/sessions/:niche_key", h.PatchSession)
	router.Post("/sessions/:niche_key/complete", h.CompleteSession)

	// Generation hand-off and usage
	router.Get("/usage", h.GetUsage)
	router.Post("/prepare", h.Prepare)
}

func (p *Plugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	settings := NewSettingsService(db)
	presets := NewPresetService(db, settings)
	h := NewAdminHandler(presets, settings, p.roles)

	router.Get("/presets", h.ListPresets)
	router.Post("/presets/restore", h.RestoreDefaults)
	router.Put("/presets/:key", h.UpsertPreset)
	router.Delete("/presets/:key", h.DeletePreset)

	router.Get("/settings", h.GetSettings)
	router.Put("/settings", h.UpdateSettings)

	router.Get("/niche-contexts", h.ListNicheContexts)
	router.Put("/niche-contexts/:niche_key", h.UpsertNicheContext)
	router.Delete("/niche-contexts/:niche_key", h.DeleteNicheContext)

	// Member roles are owner-only
	members := router.Group("/members", middleware.OwnerRequired(p.roles))
	members.Put("/:user_id", h.SetMemberRole)
	members.Delete("/:user_id", h.RemoveMember)
}
