package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Pakasir holds the credentials and endpoints for the QRIS provider.
type Pakasir struct {
	APIKey        string
	Store         string // merchant slug registered with Pakasir
	BaseURL       string
	WebhookURL    string
	RedirectURL   string
	CreateTimeout time.Duration
	StatusTimeout time.Duration
}

type Config struct {
	Port                 string
	Pakasir              Pakasir
	DatabaseDSN          string // empty disables the payment record log
	WebhookEnforceAmount bool
}

// Load reads configuration from the environment. godotenv is expected to have
// populated it from .env already (see main).
func Load() *Config {
	return &Config{
		Port: getenv("PORT", "8080"),
		Pakasir: Pakasir{
			APIKey:        os.Getenv("PAKASIR_API_KEY"),
			Store:         os.Getenv("PAKASIR_STORE"),
			BaseURL:       getenv("PAKASIR_BASE_URL", "https://api.pakasir.com"),
			WebhookURL:    os.Getenv("PAKASIR_WEBHOOK_URL"),
			RedirectURL:   os.Getenv("PAKASIR_REDIRECT_URL"),
			CreateTimeout: getenvMillis("PAKASIR_CREATE_TIMEOUT_MS", 15000),
			StatusTimeout: getenvMillis("PAKASIR_STATUS_TIMEOUT_MS", 10000),
		},
		DatabaseDSN:          databaseDSN(),
		WebhookEnforceAmount: os.Getenv("WEBHOOK_ENFORCE_AMOUNT") == "true",
	}
}

// databaseDSN assembles a Postgres DSN from DB_* variables. An unset DB_HOST
// means the server runs without a database.
func databaseDSN() string {
	if os.Getenv("DB_HOST") == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getenv("DB_PORT", "5432"),
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvMillis(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return time.Duration(fallback) * time.Millisecond
}
