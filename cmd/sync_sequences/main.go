package main

import (
	"log"

	"github.com/wburns02/ReactCRM-sub015/internal/config"
	"github.com/wburns02/ReactCRM-sub015/internal/database"
)

func main() {
	cfg := config.LoadConfig()
	cfg.DBDriver = "postgres"
	database.InitGorm(cfg)
	db := database.GormDB

	// Only tables with serial ids; contacts and steps use string keys.
	tables := []string{
		"call_outcomes",
		"audit_log",
	}

	log.Println("Syncing PostgreSQL sequences...")

	for _, table := range tables {
		query := "SELECT setval(pg_get_serial_sequence('" + table + "', 'id'), coalesce(max(id), 0) + 1, false) FROM " + table
		if err := db.Exec(query).Error; err != nil {
			log.Printf("Error syncing sequence for %s: %v", table, err)
		} else {
			log.Printf("Successfully synced sequence for %s", table)
		}
	}

	log.Println("DONE!")
}
