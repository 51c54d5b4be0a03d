package main

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wburns02/ReactCRM-sub015/internal/config"
	"github.com/wburns02/ReactCRM-sub015/internal/database"
	"github.com/wburns02/ReactCRM-sub015/internal/models"
)

func main() {
	cfg := config.LoadConfig()

	// 1. Connect to SQLite (Source)
	sqliteDB, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to SQLite: %v", err)
	}
	log.Printf("Connected to SQLite at %s", cfg.DBPath)

	// 2. Connect to PostgreSQL (Destination)
	cfg.DBDriver = "postgres"
	database.InitGorm(cfg)
	pgDB := database.GormDB

	log.Println("Starting data migration...")

	migrateTable := func(tableName string, source interface{}) {
		log.Printf("Migrating table: %s", tableName)

		if err := sqliteDB.Find(source).Error; err != nil {
			log.Printf("Error reading %s from SQLite: %v", tableName, err)
			return
		}

		err := pgDB.Transaction(func(tx *gorm.DB) error {
			return tx.Create(source).Error
		})

		if err != nil {
			log.Printf("Error writing %s to Postgres: %v", tableName, err)
		} else {
			log.Printf("Successfully migrated %s", tableName)
		}
	}

	var contacts []models.CampaignContact
	migrateTable("campaign_contacts", &contacts)

	var outcomes []models.CallOutcome
	migrateTable("call_outcomes", &outcomes)

	var steps []models.PendingSmsStep
	migrateTable("pending_sms_steps", &steps)

	var audit []models.AuditLogEntry
	migrateTable("audit_log", &audit)

	log.Println("Migration completed!")
}
