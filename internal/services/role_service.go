package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrForbidden      = errors.New("caller lacks the required role")
	ErrInvalidRole    = errors.New("role must be owner, admin, creator, or member")
	ErrMemberNotFound = errors.New("member not found")
)

// RoleInfo is what administrative checks and plan gating need to know about a caller.
type RoleInfo struct {
	Role             string `json:"role"`
	IsOwner          bool   `json:"is_owner"`
	IsAdminOrCreator bool   `json:"is_admin_or_creator"`
}

// RoleService resolves tenant roles from tenant_members plus the configured platform admins.
type RoleService struct {
	db             *gorm.DB
	platformAdmins []string
}

func NewRoleService(db *gorm.DB, cfg *config.Config) *RoleService {
	return &RoleService{
		db:             db,
		platformAdmins: parseCSV(cfg.AdminUserIDs),
	}
}

func (s *RoleService) CheckRole(ctx context.Context, tenantID string, userID uuid.UUID) (RoleInfo, error) {
	if contains(s.platformAdmins, userID.String()) {
		return roleInfo(models.RoleOwner), nil
	}

	var member models.TenantMember
	err := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&member).Error
	if err != nil {
		return RoleInfo{}, fmt.Errorf("lookup role: %w", err)
	}
	if member.ID == uuid.Nil {
		return roleInfo(models.RoleMember), nil
	}
	return roleInfo(member.Role), nil
}

// Need names the minimum role an administrative operation requires.
type Need int

const (
	NeedCreator Need = iota
	NeedOwner
)

// Authorize returns ErrForbidden unless the user holds at least need in tenantID.
func (s *RoleService) Authorize(ctx context.Context, tenantID string, userID uuid.UUID, need Need) (RoleInfo, error) {
	info, err := s.CheckRole(ctx, tenantID, userID)
	if err != nil {
		return RoleInfo{}, err
	}
	allowed := info.IsAdminOrCreator
	if need == NeedOwner {
		allowed = info.IsOwner
	}
	if !allowed {
		return info, ErrForbidden
	}
	return info, nil
}

// SetRole grants role to userID inside tenantID, replacing any previous role.
func (s *RoleService) SetRole(ctx context.Context, tenantID string, userID uuid.UUID, role string) (*models.TenantMember, error) {
	if !validRole(role) {
		return nil, ErrInvalidRole
	}

	member := models.TenantMember{
		TenantID: tenantID,
		UserID:   userID,
		Role:     role,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(&member).Error
	if err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	return &member, nil
}

func (s *RoleService) RemoveMember(ctx context.Context, tenantID string, userID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Where("user_id = ?", userID).
		Delete(&models.TenantMember{})
	if result.Error != nil {
		return fmt.Errorf("remove member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func roleInfo(role string) RoleInfo {
	return RoleInfo{
		Role:             role,
		IsOwner:          role == models.RoleOwner,
		IsAdminOrCreator: role == models.RoleOwner || role == models.RoleAdmin || role == models.RoleCreator,
	}
}

func validRole(role string) bool {
	switch role {
	case models.RoleOwner, models.RoleAdmin, models.RoleCreator, models.RoleMember:
		return true
	}
	return false
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
