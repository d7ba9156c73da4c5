package database

import (
	"github.com/gunnishmehta/youtube-backend/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all domain models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Subscription{},
		&model.Video{},
	)
}
