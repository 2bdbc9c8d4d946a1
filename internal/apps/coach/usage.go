package coach

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanFree = "free"
	PlanPro  = "pro"

	// FreeDailyLimit is the number of completed practice events a free user
	// gets per UTC day.
	FreeDailyLimit = 2

	// Unlimited is the ceiling reported for plans without one.
	Unlimited = -1
)

type RoleChecker interface {
	CheckRole(ctx context.Context, tenantID string, userID uuid.UUID) (services.RoleInfo, error)
}

type SubscriptionChecker interface {
	HasActiveSubscription(ctx context.Context, tenantID string, userID uuid.UUID) (bool, error)
}

// Usage is the caller's position against today's ceiling.
type Usage struct {
	Plan      string `json:"plan"`
	Used      int64  `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Capped    bool   `json:"capped"`
	Unlimited bool   `json:"unlimited"`
}

type UsageService struct {
	db    *gorm.DB
	roles RoleChecker
	subs  SubscriptionChecker
	now   func() time.Time
}

func NewUsageService(db *gorm.DB, roles RoleChecker, subs SubscriptionChecker) *UsageService {
	return &UsageService{db: db, roles: roles, subs: subs, now: time.Now}
}

// CeilingFor returns the daily limit of plan, or Unlimited.
func CeilingFor(plan string) int {
	if plan == PlanPro {
		return Unlimited
	}
	return FreeDailyLimit
}

// startOfDayUTC returns 00:00:00 UTC of t's UTC calendar day.
func startOfDayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// UsedToday counts completion events since the last UTC midnight.
func (s *UsageService) UsedToday(ctx context.Context, tenantID string, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&CompletionEvent{}).
		Scopes(tenant.ForTenant(tenantID)).
		Where("user_id = ? AND occurred_at >= ?", userID, startOfDayUTC(s.now())).
		Count(&count).Error
	if err != nil {
		return 0, storeErr("count usage", err)
	}
	return count, nil
}

// PlanOf resolves the caller's plan. Tenant owners are always pro.
func (s *UsageService) PlanOf(ctx context.Context, tenantID string, userID uuid.UUID) (string, error) {
	role, err := s.roles.CheckRole(ctx, tenantID, userID)
	if err != nil {
		return "", storeErr("check role", err)
	}
	if role.IsOwner {
		return PlanPro, nil
	}

	active, err := s.subs.HasActiveSubscription(ctx, tenantID, userID)
	if err != nil {
		return "", storeErr("check subscription", err)
	}
	if active {
		return PlanPro, nil
	}
	return PlanFree, nil
}

func (s *UsageService) UsageFor(ctx context.Context, tenantID string, userID uuid.UUID) (Usage, error) {
	plan, err := s.PlanOf(ctx, tenantID, userID)
	if err != nil {
		return Usage{}, err
	}
	used, err := s.UsedToday(ctx, tenantID, userID)
	if err != nil {
		return Usage{}, err
	}

	limit := CeilingFor(plan)
	usage := Usage{Plan: plan, Used: used, Limit: limit}
	if limit == Unlimited {
		usage.Unlimited = true
		usage.Remaining = Unlimited
		return usage, nil
	}
	usage.Remaining = limit - int(used)
	if usage.Remaining < 0 {
		usage.Remaining = 0
	}
	usage.Capped = usage.Remaining == 0
	return usage, nil
}
