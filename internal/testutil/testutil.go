// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"puzzle_quiz_backend/internal/config"
	"puzzle_quiz_backend/internal/model"
	"puzzle_quiz_backend/pkg/database"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory sqlite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, logger.Silent)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// 内存库每个连接独立，固定为一个连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with fake name and email.
func CreateUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()

	user := &model.User{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.JWT.Secret = "test-secret-test-secret-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Session.CookieName = "session"
	return cfg
}
