package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleCreator = "creator"
	RoleMember  = "member"
)

// TenantMember records a user's role inside one tenant.
type TenantMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  string    `gorm:"size:64;not null;uniqueIndex:idx_tenant_members_tenant_user,priority:1" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tenant_members_tenant_user,priority:2" json:"user_id"`
	Role      string    `gorm:"size:20;not null;default:'member'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *TenantMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (TenantMember) TableName() string {
	return "tenant_members"
}
