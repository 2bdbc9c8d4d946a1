package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the global (not tenant-scoped) per-user niche selection.
// NicheKey is canonical; LegacyNiche is derived from it on write and only
// exported for consumers of the old fixed taxonomy.
type UserProfile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	NicheKey    *string   `gorm:"size:64" json:"niche_key"`
	CustomNiche *string   `gorm:"type:text" json:"custom_niche"`
	LegacyNiche *string   `gorm:"size:32" json:"legacy_niche"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
