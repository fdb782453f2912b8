package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aqariapp/aqari-api/internal/models"
)

// newTestDB opens an in-memory sqlite database with the schema
// migrated, one per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Building{},
		&models.BuildingUnit{},
		&models.Customer{},
		&models.Contract{},
		&models.Transaction{},
		&models.Task{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}
