package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port       string
	DBConn     string
	LogLevel   string
	JWTSecret  string
	APIKeyHash string

	DefaultSeed        int64
	DefaultHorizonDays int
	DefaultProfile     string

	UploadTTL      time.Duration
	LedgerTTL      time.Duration
	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int

	ReportCron       string
	ReportRecipients []string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from environment variables, after reading
// a .env file from the working directory when one exists
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		DBConn:     getEnv("DB_CONN", ""),
		LogLevel:   getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		APIKeyHash: getEnv("API_KEY_HASH", ""),

		DefaultProfile: getEnv("DEFAULT_PROFILE", "personal"),

		ReportCron:       getEnv("REPORT_CRON", "0 6 * * *"),
		ReportRecipients: splitList(getEnv("REPORT_RECIPIENTS", "")),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "reports@statement-analyzer.local"),
	}

	var err error
	if cfg.DefaultSeed, err = strconv.ParseInt(getEnv("DEFAULT_SEED", "42"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_SEED: %w", err)
	}
	if cfg.DefaultHorizonDays, err = strconv.Atoi(getEnv("DEFAULT_HORIZON_DAYS", "180")); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_HORIZON_DAYS: %w", err)
	}
	if cfg.UploadTTL, err = time.ParseDuration(getEnv("UPLOAD_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_TTL: %w", err)
	}
	if cfg.LedgerTTL, err = time.ParseDuration(getEnv("LEDGER_TTL", "30m")); err != nil {
		return nil, fmt.Errorf("invalid LEDGER_TTL: %w", err)
	}
	if cfg.MaxUploadBytes, err = strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "30")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	if cfg.APIKeyHash != "" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required when API_KEY_HASH is set")
	}
	if cfg.UploadTTL <= 0 || cfg.LedgerTTL <= 0 {
		return nil, fmt.Errorf("UPLOAD_TTL and LEDGER_TTL must be positive")
	}
	if cfg.DefaultHorizonDays < 0 {
		return nil, fmt.Errorf("DEFAULT_HORIZON_DAYS must not be negative")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return cfg, nil
}

// PersistenceEnabled reports whether a database connection is configured
func (c *Config) PersistenceEnabled() bool {
	return c.DBConn != ""
}

// AuthEnabled reports whether API tokens can be issued and verified. Without
// it every protected route is closed.
func (c *Config) AuthEnabled() bool {
	return c.APIKeyHash != "" && c.JWTSecret != ""
}

// MailEnabled reports whether report e-mails can be delivered
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && len(c.ReportRecipients) > 0
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
