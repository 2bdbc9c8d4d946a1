package dto

import "time"

type RevenueCatWebhook struct {
	APIVersion string          `json:"api_version"`
	Event      RevenueCatEvent `json:"event"`
}

// RevenueCatEvent carries the subset of the RevenueCat payload the plan lookup needs.
type RevenueCatEvent struct {
	Type           string   `json:"type"`
	ID             string   `json:"id"`
	AppUserID      string   `json:"app_user_id"`
	ProductID      string   `json:"product_id"`
	EntitlementIDs []string `json:"entitlement_ids"`
	PeriodType     string   `json:"period_type"`
	PurchasedAtMs  int64    `json:"purchased_at_ms"`
	ExpirationAtMs int64    `json:"expiration_at_ms"`
	Environment    string   `json:"environment"`
	Store          string   `json:"store"`
}

func (e RevenueCatEvent) PurchasedAt() time.Time {
	return msToTime(e.PurchasedAtMs)
}

func (e RevenueCatEvent) ExpiresAt() time.Time {
	return msToTime(e.ExpirationAtMs)
}

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
