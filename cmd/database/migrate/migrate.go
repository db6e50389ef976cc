package migration

import (
	"smart-fridge-backend/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.DetectionBatch{}); err != nil {
		log.Errorf("Error migrating detection batch table: %v", err)
		return err
	}

	log.Info("Database migration complete")
	return nil
}
