package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wburns02/ReactCRM-sub015/internal/config"
	"github.com/wburns02/ReactCRM-sub015/internal/models"
)

var GormDB *gorm.DB

func InitGorm(cfg *config.Config) {
	var err error
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
		GormDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	default:
		GormDB, err = gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}

	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.DBDriver, err)
	}

	log.Printf("Connected to %s successfully", cfg.DBDriver)

	// Auto Migration
	err = GormDB.AutoMigrate(
		&models.CampaignContact{},
		&models.CallOutcome{},
		&models.PendingSmsStep{},
		&models.AuditLogEntry{},
	)
	if err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}

	log.Println("Database migration completed")
}
