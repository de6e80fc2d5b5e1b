package database

import (
	"fmt"

	"github.com/raaghavgupta2020/budget-app/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models. This creates
// the unique index on users.username and the compound
// (username, date DESC) index on entries.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Entry{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
