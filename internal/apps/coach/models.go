package coach

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NichePreset is a tenant-defined practice domain.
type NichePreset struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  string    `gorm:"size:64;not null;uniqueIndex:idx_niche_presets_tenant_key,priority:1" json:"-"`
	Key       string    `gorm:"column:niche_key;size:64;not null;uniqueIndex:idx_niche_presets_tenant_key,priority:2" json:"key"`
	Label     string    `gorm:"size:120;not null" json:"label"`
	AIContext *string   `gorm:"type:text" json:"ai_context"`
	Enabled   bool      `gorm:"not null" json:"enabled"`
	SortOrder int       `gorm:"not null;index" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatorSettings holds tenant-wide options. One row per tenant, created lazily.
type CreatorSettings struct {
	TenantID          string    `gorm:"size:64;primaryKey" json:"tenant_id"`
	AllowAutoDefaults bool      `gorm:"not null" json:"allow_auto_defaults"`
	GlobalContext     *string   `gorm:"type:text" json:"global_context"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreatorNicheContext overrides label/context of one niche for a tenant.
type CreatorNicheContext struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  string    `gorm:"size:64;not null;uniqueIndex:idx_creator_niche_ctx_tenant_key,priority:1" json:"-"`
	NicheKey  string    `gorm:"size:64;not null;uniqueIndex:idx_creator_niche_ctx_tenant_key,priority:2" json:"niche_key"`
	Label     *string   `gorm:"size:120" json:"label"`
	Context   *string   `gorm:"type:text" json:"context"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PracticeSession is the per-(user, niche) progress record. Data is an open
// bag evolved by Patch overlays.
type PracticeSession struct {
	ID                    uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID              string            `gorm:"size:64;not null;uniqueIndex:idx_practice_sessions_owner,priority:1" json:"-"`
	UserID                uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_practice_sessions_owner,priority:2;index" json:"user_id"`
	NicheKey              string            `gorm:"size:64;not null;uniqueIndex:idx_practice_sessions_owner,priority:3" json:"niche_key"`
	Data                  datatypes.JSONMap `json:"data"`
	LastCompletionSummary *string           `gorm:"type:text" json:"last_completion_summary"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// UserNicheProfile holds clarifying answers collected for one niche.
// CustomNiche is "" for non-custom niches so the unique index stays usable.
type UserNicheProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    string    `gorm:"size:64;not null;uniqueIndex:idx_user_niche_profiles_owner,priority:1" json:"-"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_niche_profiles_owner,priority:2" json:"user_id"`
	NicheKey    string    `gorm:"size:64;not null;uniqueIndex:idx_user_niche_profiles_owner,priority:3" json:"niche_key"`
	CustomNiche string    `gorm:"size:500;not null;uniqueIndex:idx_user_niche_profiles_owner,priority:4" json:"custom_niche"`
	State       *string   `gorm:"size:100" json:"state"`
	Country     *string   `gorm:"size:100" json:"country"`
	TestType    *string   `gorm:"size:100" json:"test_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CompletionEvent is the append-only usage ledger.
type CompletionEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID   string    `gorm:"size:64;not null;index:idx_completion_events_usage,priority:1" json:"-"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_completion_events_usage,priority:2" json:"user_id"`
	NicheKey   string    `gorm:"size:64;not null" json:"niche_key"`
	OccurredAt time.Time `gorm:"not null;index:idx_completion_events_usage,priority:3" json:"occurred_at"`
}

func (p *NichePreset) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (c *CreatorNicheContext) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (s *PracticeSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (p *UserNicheProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (e *CompletionEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// --- DTOs ---

type UpsertPresetRequest struct {
	Label     *string `json:"label" validate:"omitempty,max=120"`
	AIContext *string `json:"ai_context" validate:"omitempty,max=8000"`
	Enabled   *bool   `json:"enabled"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,min=0,max=100000"`
}

type UpdateSettingsRequest struct {
	AllowAutoDefaults *bool   `json:"allow_auto_defaults"`
	GlobalContext     *string `json:"global_context" validate:"omitempty,max=8000"`
}

type UpsertNicheContextRequest struct {
	Label   *string `json:"label" validate:"omitempty,max=120"`
	Context *string `json:"context" validate:"omitempty,max=8000"`
}

type SelectNicheRequest struct {
	NicheKey    string `json:"niche_key" validate:"required,max=64"`
	CustomNiche string `json:"custom_niche" validate:"max=500"`
}

type NicheProfileRequest struct {
	NicheKey    string `json:"niche_key" validate:"required,max=64"`
	CustomNiche string `json:"custom_niche" validate:"max=500"`
	Answers     Patch  `json:"answers"`
}

type ResetRequest struct {
	Mode string `json:"mode" validate:"required"`
}

type PrepareRequest struct {
	NicheKey    string `json:"niche_key" validate:"required,max=64"`
	CustomNiche string `json:"custom_niche" validate:"max=500"`
}

type CompleteRequest struct {
	Summary string `json:"summary" validate:"max=8000"`
}

type PresetListResponse struct {
	Presets []Preset `json:"presets"`
}

type StoredPresetListResponse struct {
	Presets []NichePreset `json:"presets"`
}

type RequirementsResponse struct {
	Fields []RequiredField `json:"fields"`
}
