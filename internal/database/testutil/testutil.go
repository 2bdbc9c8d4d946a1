package testutil

import (
	"fmt"
	"testing"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB returns an isolated in-memory SQLite database with the shared
// models and the given plugin models migrated.
func DB(tb testing.TB, modelList ...interface{}) *gorm.DB {
	tb.Helper()

	cfg := &config.Config{
		DBDriver:   "sqlite",
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	db, err := database.Open(cfg)
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)

	if err := database.MigrateShared(db); err != nil {
		tb.Fatalf("migrate shared: %v", err)
	}
	if err := database.MigrateModels(db, modelList); err != nil {
		tb.Fatalf("migrate models: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
