package coach

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const presetOrder = "sort_order ASC, created_at ASC"

// PresetService is the per-tenant preset registry.
type PresetService struct {
	db       *gorm.DB
	settings *SettingsService
}

func NewPresetService(db *gorm.DB, settings *SettingsService) *PresetService {
	return &PresetService{db: db, settings: settings}
}

// ListPublic returns the enabled presets end users can pick from, with the
// custom niche appended last.
func (s *PresetService) ListPublic(ctx context.Context, tenantID string) ([]Preset, error) {
	var rows []NichePreset
	err := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Where("enabled = ?", true).
		Order(presetOrder).
		Find(&rows).Error
	if err != nil {
		return nil, storeErr("list presets", err)
	}

	presets := make([]Preset, 0, len(rows)+1)
	for _, row := range rows {
		presets = append(presets, publicPreset(row))
	}
	return append(presets, AlwaysCustomPreset()), nil
}

// ListAdmin returns stored rows only. An empty tenant is seeded with the
// default catalog first unless the creator turned auto defaults off.
func (s *PresetService) ListAdmin(ctx context.Context, tenantID string, includeDisabled bool) ([]NichePreset, error) {
	settings, err := s.settings.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if settings.AllowAutoDefaults {
		if err := s.seedIfEmpty(ctx, tenantID); err != nil {
			return nil, err
		}
	}

	query := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID))
	if !includeDisabled {
		query = query.Where("enabled = ?", true)
	}
	var rows []NichePreset
	if err := query.Order(presetOrder).Find(&rows).Error; err != nil {
		return nil, storeErr("list presets", err)
	}
	return rows, nil
}

func (s *PresetService) seedIfEmpty(ctx context.Context, tenantID string) error {
	entries, err := DefaultCatalog()
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&NichePreset{}).Scopes(tenant.ForTenant(tenantID)).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		rows := catalogRows(tenantID, entries)
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		slog.Info("seeded default presets", "tenant_id", tenantID, "count", len(rows))
		return nil
	})
	if err != nil {
		return storeErr("seed presets", err)
	}
	return nil
}

// Find returns the stored preset for key, or nil when there is none.
func (s *PresetService) Find(ctx context.Context, tenantID, key string) (*NichePreset, error) {
	var row NichePreset
	res := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Where("niche_key = ?", key).
		Limit(1).
		Find(&row)
	if res.Error != nil {
		return nil, storeErr("find preset", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

// Upsert creates or updates the preset keyed by (tenant, key). Nil fields
// keep their stored value; new rows go to the end of the list.
func (s *PresetService) Upsert(ctx context.Context, tenantID, key string, req UpsertPresetRequest) (*NichePreset, error) {
	if key == CustomKey {
		return nil, ErrInvalidKey
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "coach.PresetService.Upsert")
	defer span.End()
	span.SetAttributes(attribute.String("tenant_id", tenantID), attribute.String("niche_key", key))

	var row NichePreset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Scopes(tenant.ForTenant(tenantID)).Where("niche_key = ?", key).Limit(1).Find(&row)
		if res.Error != nil {
			return res.Error
		}
		isNew := res.RowsAffected == 0
		if isNew {
			var maxOrder int
			if err := tx.Model(&NichePreset{}).
				Scopes(tenant.ForTenant(tenantID)).
				Select("COALESCE(MAX(sort_order), 0)").
				Scan(&maxOrder).Error; err != nil {
				return err
			}
			row = NichePreset{TenantID: tenantID, Key: key, Enabled: true, SortOrder: maxOrder + 1}
		}

		if req.Label != nil {
			row.Label = strings.TrimSpace(*req.Label)
		}
		if row.Label == "" {
			row.Label = labelFromKey(key)
		}
		if req.AIContext != nil {
			if trimmed := strings.TrimSpace(*req.AIContext); trimmed != "" {
				row.AIContext = &trimmed
			} else {
				row.AIContext = nil
			}
		}
		if req.Enabled != nil {
			row.Enabled = *req.Enabled
		}
		if req.SortOrder != nil {
			row.SortOrder = *req.SortOrder
		}

		if !isNew {
			return tx.Save(&row).Error
		}
		stored, err := insertPreset(tx, row)
		if err != nil {
			return err
		}
		row = *stored
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, storeErr("upsert preset", err)
	}

	slog.Info("preset upserted", "tenant_id", tenantID, "niche_key", key, "enabled", row.Enabled)
	return &row, nil
}

// insertPreset creates the row, or updates the row a concurrent upsert of the
// same key created first, and returns what is stored.
func insertPreset(tx *gorm.DB, row NichePreset) (*NichePreset, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "niche_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"label", "ai_context", "enabled", "sort_order", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	var stored NichePreset
	if err := tx.Scopes(tenant.ForTenant(row.TenantID)).Where("niche_key = ?", row.Key).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *PresetService) Delete(ctx context.Context, tenantID, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Where("niche_key = ?", key).
		Delete(&NichePreset{})
	if res.Error != nil {
		return storeErr("delete preset", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPresetNotFound
	}

	slog.Info("preset deleted", "tenant_id", tenantID, "niche_key", key)
	return nil
}

// RestoreDefaults replaces every stored preset of the tenant with the default
// catalog. Either all rows are replaced or none are.
func (s *PresetService) RestoreDefaults(ctx context.Context, tenantID string) ([]NichePreset, error) {
	entries, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "coach.PresetService.RestoreDefaults")
	defer span.End()

	rows := catalogRows(tenantID, entries)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenant.ForTenant(tenantID)).Delete(&NichePreset{}).Error; err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		span.RecordError(err)
		return nil, storeErr("restore presets", err)
	}

	slog.Info("default presets restored", "tenant_id", tenantID, "count", len(rows))
	return rows, nil
}

// labelFromKey turns "public_speaking" into "Public Speaking".
func labelFromKey(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}
