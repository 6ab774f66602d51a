package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBConn    string
	LogLevel  string
	JWTSecret string

	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SenderEmail    string
	AlertRecipient string

	RealisticDelayDays      int
	InvoiceLeadDay          int
	DefaultPaymentTermsDays int
	AlertHorizonMonths      int
	RefreshCronSpec         string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	// .env is optional; environment variables win.
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBConn:    getEnv("DB_CONN", "host=localhost port=5432 user=cash password=cash dbname=cash sslmode=disable"),
		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		JWTSecret: getEnv("JWT_SECRET", ""),

		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SenderEmail:    getEnv("SENDER_EMAIL", ""),
		AlertRecipient: getEnv("ALERT_RECIPIENT", ""),

		RealisticDelayDays:      getEnvInt("REALISTIC_DELAY_DAYS", 10),
		InvoiceLeadDay:          getEnvInt("INVOICE_LEAD_DAY", 15),
		DefaultPaymentTermsDays: getEnvInt("DEFAULT_PAYMENT_TERMS_DAYS", 30),
		AlertHorizonMonths:      getEnvInt("ALERT_HORIZON_MONTHS", 6),
		RefreshCronSpec:         getEnv("REFRESH_CRON_SPEC", "0 6 * * *"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}
