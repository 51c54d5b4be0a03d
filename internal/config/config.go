package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	VerifyToken string

	SmsAPIBaseURL string
	SmsAPIToken   string
	SmsFromNumber string

	DBDriver   string // sqlite or postgres
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	CampaignFile            string
	DispatchIntervalSeconds int
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		VerifyToken: getEnv("VERIFY_TOKEN", ""),

		SmsAPIBaseURL: getEnv("SMS_API_BASE_URL", "https://api.sms-provider.example/v1"),
		SmsAPIToken:   getEnv("SMS_API_TOKEN", ""),
		SmsFromNumber: getEnv("SMS_FROM_NUMBER", ""),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "./crm.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "crm"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "crm"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		CampaignFile:            getEnv("CAMPAIGN_FILE", "campaign.yaml"),
		DispatchIntervalSeconds: getEnvInt("DISPATCH_INTERVAL_SECONDS", 60),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid integer for %s, using %d", key, fallback)
	}
	return fallback
}
