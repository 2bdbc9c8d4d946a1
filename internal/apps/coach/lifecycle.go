package coach

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type ResetMode string

const (
	ResetKeepNiche   ResetMode = "keep_niche"
	ResetChangeNiche ResetMode = "change_niche"
)

// ParseResetMode accepts either case of the two reset modes.
func ParseResetMode(s string) (ResetMode, error) {
	switch mode := ResetMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ResetKeepNiche, ResetChangeNiche:
		return mode, nil
	default:
		return "", ErrInvalidMode
	}
}

// GenerationRequest is everything the generation pipeline needs for one drill.
// Ready is false while clarifying fields are still missing.
type GenerationRequest struct {
	Ready                bool              `json:"ready"`
	Context              ComposedContext   `json:"context"`
	RequiredFields       []RequiredField   `json:"required_fields"`
	MissingFields        []RequiredField   `json:"missing_fields"`
	RequiredFieldAnswers map[string]string `json:"required_field_answers"`
	DrillPlan            DrillPlan         `json:"drill_plan"`
	SessionData          map[string]any    `json:"session_data"`
	Usage                Usage             `json:"usage"`
}

// Lifecycle drives resets, generation hand-off and completion recording.
type Lifecycle struct {
	db       *gorm.DB
	sessions *SessionService
	profiles *ProfileService
	resolver *Resolver
	usage    *UsageService
	now      func() time.Time
}

func NewLifecycle(db *gorm.DB, sessions *SessionService, profiles *ProfileService, resolver *Resolver, usage *UsageService) *Lifecycle {
	return &Lifecycle{
		db:       db,
		sessions: sessions,
		profiles: profiles,
		resolver: resolver,
		usage:    usage,
		now:      time.Now,
	}
}

// Reset deletes every session the user has in the tenant. change_niche also
// clears the user's niche selection so it has to be picked again.
func (l *Lifecycle) Reset(ctx context.Context, tenantID string, userID uuid.UUID, rawMode string) error {
	mode, err := ParseResetMode(rawMode)
	if err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "coach.Lifecycle.Reset")
	defer span.End()
	span.SetAttributes(attribute.String("tenant_id", tenantID), attribute.String("mode", string(mode)))

	var deleted int64
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Scopes(tenant.ForTenant(tenantID)).
			Where("user_id = ?", userID).
			Delete(&PracticeSession{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected

		if mode != ResetChangeNiche {
			return nil
		}
		return tx.Model(&models.UserProfile{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"niche_key":    nil,
				"custom_niche": nil,
				"legacy_niche": nil,
			}).Error
	})
	if err != nil {
		span.RecordError(err)
		return storeErr("reset sessions", err)
	}

	slog.Info("sessions reset", "tenant_id", tenantID, "user_id", userID, "mode", mode, "deleted", deleted)
	return nil
}

// Prepare assembles the generation request for one niche. Nothing is written
// until every required field has an answer; then the selected drill plan is
// stored in the session.
func (l *Lifecycle) Prepare(ctx context.Context, tenantID string, userID uuid.UUID, nicheKey, customNiche string) (*GenerationRequest, error) {
	customNiche, err := l.profiles.ScreenNiche(nicheKey, customNiche)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "coach.Lifecycle.Prepare")
	defer span.End()
	span.SetAttributes(attribute.String("tenant_id", tenantID), attribute.String("niche_key", nicheKey))

	usage, err := l.usage.UsageFor(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if usage.Capped {
		return nil, ErrUsageCapped
	}

	composed, err := l.resolver.Resolve(ctx, tenantID, nicheKey, customNiche)
	if err != nil {
		return nil, err
	}
	answers, err := l.profiles.Answers(ctx, tenantID, userID, nicheKey, customNiche)
	if err != nil {
		return nil, err
	}
	required := RequiredFields(nicheKey, composed.Label, composed.NicheContext, customNiche)
	missing := MissingFields(required, answers)

	data := map[string]any{}
	session, err := l.sessions.Get(ctx, tenantID, userID, nicheKey)
	switch {
	case err == nil:
		data = session.Data
	case !errors.Is(err, ErrSessionNotFound):
		return nil, err
	}

	req := &GenerationRequest{
		Context:              composed,
		RequiredFields:       required,
		MissingFields:        missing,
		RequiredFieldAnswers: map[string]string{},
		DrillPlan:            PlanFor(sessionString(data, DataPracticePreference)),
		SessionData:          data,
		Usage:                usage,
	}
	for _, f := range required {
		if answer, ok := answers[f.Key]; ok {
			req.RequiredFieldAnswers[f.Key] = answer
		}
	}
	if len(missing) > 0 {
		return req, nil
	}

	session, err = l.sessions.Upsert(ctx, tenantID, userID, nicheKey, Patch{DataDrillPlan: req.DrillPlan.AsMap()})
	if err != nil {
		return nil, err
	}
	req.SessionData = session.Data
	req.Ready = true
	return req, nil
}

// RecordCompletion stores the pipeline's summary and appends a usage event.
func (l *Lifecycle) RecordCompletion(ctx context.Context, tenantID string, userID uuid.UUID, nicheKey, summary string) (*PracticeSession, error) {
	ctx, span := tracer.Start(ctx, "coach.Lifecycle.RecordCompletion")
	defer span.End()
	span.SetAttributes(attribute.String("tenant_id", tenantID), attribute.String("niche_key", nicheKey))

	var session *PracticeSession
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = findSession(tx, tenantID, userID, nicheKey)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrSessionNotFound
		}

		now := l.now().UTC()
		session.LastCompletionSummary = nullableText(summary)
		session.UpdatedAt = now
		if err := tx.Model(session).Updates(map[string]interface{}{
			"last_completion_summary": session.LastCompletionSummary,
			"updated_at":              now,
		}).Error; err != nil {
			return err
		}

		return tx.Create(&CompletionEvent{
			TenantID:   tenantID,
			UserID:     userID,
			NicheKey:   nicheKey,
			OccurredAt: now,
		}).Error
	})
	if errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}
	if err != nil {
		span.RecordError(err)
		return nil, storeErr("record completion", err)
	}

	slog.Info("practice completed", "tenant_id", tenantID, "user_id", userID, "niche_key", nicheKey)
	return session, nil
}
