package main

import (
	"os"
	"os/signal"
	"smart-fridge-backend/cmd/config"
	migration "smart-fridge-backend/cmd/database/migrate"
	"smart-fridge-backend/internal/utils"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func main() {
	utils.LoadConfig()

	var db *gorm.DB
	if utils.GetConfig("HISTORY_DRIVER") == "postgres" {
		conn, err := config.ConnectDB()
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
		}
		if err := migration.Migrate(conn); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
		db = conn
	}

	app, cleanup, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}
	defer cleanup()

	go func() {
		port := utils.GetConfig("APP_PORT")
		log.Infof("Server running on port %s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("Server forced to shut down: %v", err)
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Info("Server exited")
}
