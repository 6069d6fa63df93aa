package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	RedisAddr   string

	SessionSecret string
	SessionTTL    time.Duration

	APIRateMaxAttempts   int
	APIRateWindow        time.Duration
	LoginRateMaxAttempts int
	LoginRateWindow      time.Duration

	OutboxPollInterval  time.Duration
	OutboxPublishPerSec float64
	TaskScanInterval    time.Duration

	InvoiceTaxRate float64

	EnableInvoiceConsumer bool
	EnableTaskDueScanner  bool
}

func Load() (Config, error) {
	// Missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "relish"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    envDuration("SESSION_TTL", 24*time.Hour),

		APIRateMaxAttempts:   envInt("API_RATE_MAX_ATTEMPTS", 120),
		APIRateWindow:        envDuration("API_RATE_WINDOW", time.Minute),
		LoginRateMaxAttempts: envInt("LOGIN_RATE_MAX_ATTEMPTS", 5),
		LoginRateWindow:      envDuration("LOGIN_RATE_WINDOW", 15*time.Minute),

		OutboxPollInterval:  envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxPublishPerSec: envFloat("OUTBOX_PUBLISH_PER_SEC", 50),
		TaskScanInterval:    envDuration("TASK_SCAN_INTERVAL", time.Minute),

		InvoiceTaxRate: envFloat("INVOICE_TAX_RATE", 0.08),

		EnableInvoiceConsumer: envBool("ENABLE_INVOICE_CONSUMER", true),
		EnableTaskDueScanner:  envBool("ENABLE_TASK_DUE_SCANNER", true),
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envFloat(name string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
