package migration

import (
	"fmt"

	"github.com/reindeer-letter/letter-backend/internal/domain"
	"gorm.io/gorm"
)

// Run creates or updates the schema for all persisted models
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Letter{},
		&domain.EmailVerification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
