package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Clarifying answer fields stored on UserNicheProfile.
var profileColumns = map[string]string{
	FieldState:  "state",
	"country":   "country",
	"test_type": "test_type",
}

// NicheSelection is the user's current niche. Set is false until a niche is
// picked and again after a change-niche reset.
type NicheSelection struct {
	Set         bool   `json:"set"`
	NicheKey    string `json:"niche_key,omitempty"`
	CustomNiche string `json:"custom_niche,omitempty"`
	LegacyNiche string `json:"legacy_niche,omitempty"`
}

type ProfileService struct {
	db         *gorm.DB
	moderation *services.ModerationService
}

func NewProfileService(db *gorm.DB, moderation *services.ModerationService) *ProfileService {
	return &ProfileService{db: db, moderation: moderation}
}

// SelectNiche stores the user's niche. Custom text is kept only for the
// custom niche and must pass content screening.
func (s *ProfileService) SelectNiche(ctx context.Context, userID uuid.UUID, nicheKey, customNiche string) (NicheSelection, error) {
	customNiche, err := s.ScreenNiche(nicheKey, customNiche)
	if err != nil {
		return NicheSelection{}, err
	}

	legacy := LegacyNicheFor(nicheKey)
	profile := models.UserProfile{
		UserID:      userID,
		NicheKey:    &nicheKey,
		LegacyNiche: &legacy,
	}
	if customNiche != "" {
		profile.CustomNiche = &customNiche
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"niche_key", "custom_niche", "legacy_niche", "updated_at"}),
	}).Create(&profile).Error
	if err != nil {
		return NicheSelection{}, storeErr("select niche", err)
	}

	slog.Info("niche selected", "user_id", userID, "niche_key", nicheKey)
	return selectionOf(&profile), nil
}

func (s *ProfileService) CurrentNiche(ctx context.Context, userID uuid.UUID) (NicheSelection, error) {
	var profile models.UserProfile
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&profile)
	if res.Error != nil {
		return NicheSelection{}, storeErr("load niche", res.Error)
	}
	if res.RowsAffected == 0 {
		return NicheSelection{}, nil
	}
	return selectionOf(&profile), nil
}

func selectionOf(p *models.UserProfile) NicheSelection {
	if p.NicheKey == nil || *p.NicheKey == "" {
		return NicheSelection{}
	}
	sel := NicheSelection{Set: true, NicheKey: *p.NicheKey}
	if p.CustomNiche != nil {
		sel.CustomNiche = *p.CustomNiche
	}
	if p.LegacyNiche != nil {
		sel.LegacyNiche = *p.LegacyNiche
	}
	return sel
}

// ScreenNiche validates the key and runs custom text through the content
// filter. It returns the trimmed text for the custom niche and "" otherwise.
// Every path that composes user text into a context must call it first.
func (s *ProfileService) ScreenNiche(nicheKey, customNiche string) (string, error) {
	if !validSelectionKey(nicheKey) {
		return "", ErrInvalidKey
	}
	if nicheKey != CustomKey {
		return "", nil
	}
	customNiche = strings.TrimSpace(customNiche)
	if customNiche == "" {
		return "", nil
	}
	if ok, reason := s.moderation.FilterContent(customNiche); !ok {
		return "", fmt.Errorf("%w: %s", ErrContentRejected, s.moderation.RejectionMessage(reason))
	}
	return customNiche, nil
}

// NicheProfile returns the clarifying answers row, or nil when none exists.
func (s *ProfileService) NicheProfile(ctx context.Context, tenantID string, userID uuid.UUID, nicheKey, customNiche string) (*UserNicheProfile, error) {
	var profile UserNicheProfile
	res := s.db.WithContext(ctx).
		Scopes(tenant.ForTenant(tenantID)).
		Where("user_id = ? AND niche_key = ? AND custom_niche = ?", userID, nicheKey, profileCustomNiche(nicheKey, customNiche)).
		Limit(1).
		Find(&profile)
	if res.Error != nil {
		return nil, storeErr("load niche profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &profile, nil
}

// Answers flattens a niche profile into field key to answer.
func (s *ProfileService) Answers(ctx context.Context, tenantID string, userID uuid.UUID, nicheKey, customNiche string) (map[string]string, error) {
	profile, err := s.NicheProfile(ctx, tenantID, userID, nicheKey, customNiche)
	if err != nil {
		return nil, err
	}
	answers := map[string]string{}
	if profile == nil {
		return answers, nil
	}
	for key, value := range map[string]*string{
		FieldState:  profile.State,
		"country":   profile.Country,
		"test_type": profile.TestType,
	} {
		if value != nil && *value != "" {
			answers[key] = *value
		}
	}
	return answers, nil
}

// UpsertNicheProfile applies a partial patch of clarifying answers. Only the
// columns named in the patch are touched on an existing row.
func (s *ProfileService) UpsertNicheProfile(ctx context.Context, tenantID string, userID uuid.UUID, nicheKey, customNiche string, patch Patch) (*UserNicheProfile, error) {
	if !validSelectionKey(nicheKey) {
		return nil, ErrInvalidKey
	}

	profile := UserNicheProfile{
		TenantID:    tenantID,
		UserID:      userID,
		NicheKey:    nicheKey,
		CustomNiche: profileCustomNiche(nicheKey, customNiche),
	}
	columns := make([]string, 0, len(patch)+1)
	for key, value := range patch {
		column, ok := profileColumns[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidField, key)
		}
		var answer *string
		switch v := value.(type) {
		case nil:
		case string:
			answer = nullableText(v)
		default:
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidField, key)
		}
		switch column {
		case "state":
			profile.State = answer
		case "country":
			profile.Country = answer
		case "test_type":
			profile.TestType = answer
		}
		columns = append(columns, column)
	}
	columns = append(columns, "updated_at")

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "tenant_id"}, {Name: "user_id"}, {Name: "niche_key"}, {Name: "custom_niche"},
		},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&profile).Error
	if err != nil {
		return nil, storeErr("upsert niche profile", err)
	}
	return s.NicheProfile(ctx, tenantID, userID, nicheKey, customNiche)
}

// profileCustomNiche keys custom answers by the normalised custom text.
func profileCustomNiche(nicheKey, customNiche string) string {
	if nicheKey != CustomKey {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(customNiche))
}
