package database

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

func InitDB(dbPath string) {
	var err error
	DB, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	createContactsSQL := `CREATE TABLE IF NOT EXISTS campaign_contacts (
		id TEXT PRIMARY KEY,
		account_name TEXT,
		phone TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := DB.Exec(createContactsSQL); err != nil {
		log.Fatalf("Failed to create table campaign_contacts: %v", err)
	}

	createOutcomesSQL := `CREATE TABLE IF NOT EXISTS call_outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id TEXT,
		status TEXT NOT NULL,
		occurred_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := DB.Exec(createOutcomesSQL); err != nil {
		log.Fatalf("Failed to create table call_outcomes: %v", err)
	}

	createHistorySQL := `CREATE TABLE IF NOT EXISTS sms_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_phone TEXT,
		body TEXT,
		status TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := DB.Exec(createHistorySQL); err != nil {
		log.Fatalf("Failed to create table sms_history: %v", err)
	}

	log.Println("Database initialized successfully (campaign_contacts, call_outcomes, sms_history)")
}
