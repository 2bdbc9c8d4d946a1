package tenant

import "gorm.io/gorm"

// ForTenant returns a GORM scope that filters by tenant_id.
func ForTenant(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
