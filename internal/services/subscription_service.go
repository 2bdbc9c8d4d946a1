package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

type SubscriptionService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db, now: time.Now}
}

// HasActiveSubscription reports whether the user holds a paid plan inside tenantID right now.
// Cancelled subscriptions stay valid until the paid period ends.
func (s *SubscriptionService) HasActiveSubscription(ctx context.Context, tenantID string, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Scopes(tenant.ForTenant(tenantID)).
		Where("user_id = ? AND status IN ? AND current_period_end > ?",
			userID, []string{SubscriptionActive, SubscriptionCancelled}, s.now().UTC()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("lookup subscription: %w", err)
	}
	return count > 0, nil
}

func (s *SubscriptionService) HandleWebhookEvent(ctx context.Context, tenantID string, event *dto.RevenueCatEvent) error {
	switch event.Type {
	case "INITIAL_PURCHASE":
		return s.handleInitialPurchase(ctx, tenantID, event)
	case "RENEWAL", "UNCANCELLATION":
		return s.handleRenewal(ctx, tenantID, event)
	case "CANCELLATION":
		return s.setStatus(ctx, tenantID, event, SubscriptionCancelled)
	case "EXPIRATION":
		return s.setStatus(ctx, tenantID, event, SubscriptionExpired)
	default:
		return nil
	}
}

func (s *SubscriptionService) handleInitialPurchase(ctx context.Context, tenantID string, event *dto.RevenueCatEvent) error {
	sub := models.Subscription{
		TenantID:           tenantID,
		RevenueCatID:       event.AppUserID,
		ProductID:          event.ProductID,
		Status:             SubscriptionActive,
		CurrentPeriodStart: event.PurchasedAt(),
		CurrentPeriodEnd:   event.ExpiresAt(),
	}

	// RevenueCat app_user_id is set to the identity provider's user id by the clients.
	if userID, err := uuid.Parse(event.AppUserID); err == nil {
		sub.UserID = userID
	}

	return s.db.WithContext(ctx).Create(&sub).Error
}

func (s *SubscriptionService) handleRenewal(ctx context.Context, tenantID string, event *dto.RevenueCatEvent) error {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Scopes(tenant.ForTenant(tenantID)).
		Where("revenuecat_id = ?", event.AppUserID).
		Order("current_period_end DESC").
		First(&sub).Error; err != nil {
		return fmt.Errorf("subscription not found for renewal: %w", err)
	}

	return s.db.WithContext(ctx).Model(&sub).Updates(map[string]interface{}{
		"status":               SubscriptionActive,
		"current_period_start": event.PurchasedAt(),
		"current_period_end":   event.ExpiresAt(),
	}).Error
}

func (s *SubscriptionService) setStatus(ctx context.Context, tenantID string, event *dto.RevenueCatEvent, status string) error {
	return s.db.WithContext(ctx).Model(&models.Subscription{}).
		Scopes(tenant.ForTenant(tenantID)).
		Where("revenuecat_id = ?", event.AppUserID).
		Update("status", status).Error
}
