package coach

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsService owns creator-wide settings and per-niche overrides.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the tenant's settings, creating the default row on first access.
func (s *SettingsService) Get(ctx context.Context, tenantID string) (*CreatorSettings, error) {
	defaults := CreatorSettings{TenantID: tenantID, AllowAutoDefaults: true}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&defaults).Error
	if err != nil {
		return nil, storeErr("ensure settings", err)
	}

	var settings CreatorSettings
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&settings).Error; err != nil {
		return nil, storeErr("load settings", err)
	}
	return &settings, nil
}

// globalContext reads the creator-wide context without creating a row.
func (s *SettingsService) globalContext(ctx context.Context, tenantID string) (string, error) {
	var settings CreatorSettings
	res := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Limit(1).Find(&settings)
	if res.Error != nil {
		return "", storeErr("load settings", res.Error)
	}
	if res.RowsAffected == 0 || settings.GlobalContext == nil {
		return "", nil
	}
	return strings.TrimSpace(*settings.GlobalContext), nil
}

func (s *SettingsService) Update(ctx context.Context, tenantID string, req UpdateSettingsRequest) (*CreatorSettings, error) {
	if _, err := s.Get(ctx, tenantID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.AllowAutoDefaults != nil {
		updates["allow_auto_defaults"] = *req.AllowAutoDefaults
	}
	if req.GlobalContext != nil {
		updates["global_context"] = nullableText(*req.GlobalContext)
	}
	if len(updates) > 0 {
		err := s.db.WithContext(ctx).
			Model(&CreatorSettings{}).
			Where("tenant_id = ?", tenantID).
			Updates(updates).Error
		if err != nil {
			return nil, storeErr("update settings", err)
		}
		slog.Info("creator settings updated", "tenant_id", tenantID)
	}
	return s.Get(ctx, tenantID)
}

// NicheContext returns the override for key, or nil when none exists.
func (s *SettingsService) NicheContext(ctx context.Context, tenantID, key string) (*CreatorNicheContext, error) {
	var override CreatorNicheContext
	res := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Where("niche_key = ?", key).
		Limit(1).
		Find(&override)
	if res.Error != nil {
		return nil, storeErr("find niche context", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &override, nil
}

func (s *SettingsService) ListNicheContexts(ctx context.Context, tenantID string) ([]CreatorNicheContext, error) {
	var overrides []CreatorNicheContext
	err := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Order("niche_key ASC").
		Find(&overrides).Error
	if err != nil {
		return nil, storeErr("list niche contexts", err)
	}
	return overrides, nil
}

// UpsertNicheContext sets the label/context override of one niche. Nil fields
// are left as stored; empty strings clear them.
func (s *SettingsService) UpsertNicheContext(ctx context.Context, tenantID, key string, req UpsertNicheContextRequest) (*CreatorNicheContext, error) {
	if !validSelectionKey(key) {
		return nil, ErrInvalidKey
	}

	var override CreatorNicheContext
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Scopes(tenant.ForTenant(tenantID)).Where("niche_key = ?", key).Limit(1).Find(&override)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			override = CreatorNicheContext{TenantID: tenantID, NicheKey: key}
		}
		if req.Label != nil {
			override.Label = nullableText(*req.Label)
		}
		if req.Context != nil {
			override.Context = nullableText(*req.Context)
		}
		if res.RowsAffected == 0 {
			return tx.Create(&override).Error
		}
		return tx.Save(&override).Error
	})
	if err != nil {
		return nil, storeErr("upsert niche context", err)
	}

	slog.Info("niche context upserted", "tenant_id", tenantID, "niche_key", key)
	return &override, nil
}

func (s *SettingsService) DeleteNicheContext(ctx context.Context, tenantID, key string) error {
	res := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Where("niche_key = ?", key).
		Delete(&CreatorNicheContext{})
	if res.Error != nil {
		return storeErr("delete niche context", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNicheContextNotFound
	}
	return nil
}

func nullableText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
