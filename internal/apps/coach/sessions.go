package coach

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Well-known keys of the session data bag. The generation pipeline may add more.
const (
	DataStruggle           = "struggle"
	DataObjective          = "objective"
	DataPracticePreference = "practice_preference"
	DataDrillPlan          = "drill_plan"
)

// SessionService stores one practice session per (tenant, user, niche).
type SessionService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db, now: time.Now}
}

func (s *SessionService) Get(ctx context.Context, tenantID string, userID uuid.UUID, nicheKey string) (*PracticeSession, error) {
	session, err := findSession(s.db.WithContext(ctx), tenantID, userID, nicheKey)
	if err != nil {
		return nil, storeErr("get session", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// List returns every session the user has in the tenant, most recent first.
func (s *SessionService) List(ctx context.Context, tenantID string, userID uuid.UUID) ([]PracticeSession, error) {
	var sessions []PracticeSession
	err := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, storeErr("list sessions", err)
	}
	return sessions, nil
}

// Upsert overlays patch onto the stored data bag, creating the session when
// it doesn't exist. Concurrent writes to the same session are last write wins.
func (s *SessionService) Upsert(ctx context.Context, tenantID string, userID uuid.UUID, nicheKey string, patch Patch) (*PracticeSession, error) {
	if !validSelectionKey(nicheKey) {
		return nil, ErrInvalidKey
	}

	ctx, span := tracer.Start(ctx, "coach.SessionService.Upsert")
	defer span.End()
	span.SetAttributes(attribute.String("tenant_id", tenantID), attribute.String("niche_key", nicheKey))

	var session PracticeSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findSession(tx, tenantID, userID, nicheKey)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		if existing != nil {
			session = *existing
			session.Data = datatypes.JSONMap(patch.Apply(existing.Data))
			session.UpdatedAt = now
			return tx.Model(&session).Updates(map[string]interface{}{
				"data":       session.Data,
				"updated_at": now,
			}).Error
		}

		session = PracticeSession{
			TenantID:  tenantID,
			UserID:    userID,
			NicheKey:  nicheKey,
			Data:      datatypes.JSONMap(patch.Apply(nil)),
			CreatedAt: now,
			UpdatedAt: now,
		}
		stored, err := insertSession(tx, session)
		if err != nil {
			return err
		}
		session = *stored
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, storeErr("upsert session", err)
	}
	return &session, nil
}

// insertSession creates the row, or overwrites data of a row a concurrent
// writer created first, and returns what is stored.
func insertSession(tx *gorm.DB, session PracticeSession) (*PracticeSession, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "user_id"}, {Name: "niche_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&session).Error
	if err != nil {
		return nil, err
	}
	stored, err := findSession(tx, session.TenantID, session.UserID, session.NicheKey)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return stored, nil
}

func findSession(db *gorm.DB, tenantID string, userID uuid.UUID, nicheKey string) (*PracticeSession, error) {
	var session PracticeSession
	res := db.Scopes(tenant.ForTenant(tenantID)).
		Where("user_id = ? AND niche_key = ?", userID, nicheKey).
		Limit(1).
		Find(&session)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &session, nil
}

// sessionString reads a string value from the data bag.
func sessionString(data map[string]any, key string) string {
	v, _ := data[key].(string)
	return v
}
