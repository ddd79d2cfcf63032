// Package db owns the SQLite connection and schema migration.
package db

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cyberhud/hud-docs-api/internal/db/models"
)

// Init opens the SQLite database and runs migrations for all models.
func Init(dbPath string) (*gorm.DB, error) {
	database, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.PersonalizedPage{},
		&models.LessonSummary{},
		&models.LessonTranslation{},
	); err != nil {
		return nil, err
	}

	return database, nil
}
