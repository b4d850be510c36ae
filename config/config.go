package config

import (
	"log"
	"os"
	"strings"

	"fx-signal-bot/internal/model"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Credentials
	TelegramBotToken   string
	AlphaVantageAPIKey string

	// FX universe
	DefaultPair string
	Pairs       string // comma-separated, e.g. "EUR/USD,GBP/USD"

	// Signal log
	SiglogBackend string // "csv" or "sqlite"
	SiglogPath    string

	// Infrastructure
	RedisAddr     string
	RedisPassword string
	MetricsAddr   string
	LogLevel      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		TelegramBotToken:   mustEnv("TELEGRAM_BOT_TOKEN"),
		AlphaVantageAPIKey: mustEnv("ALPHAVANTAGE_API_KEY"),

		DefaultPair: getEnv("FX_DEFAULT", "EUR/USD"),
		Pairs:       getEnv("FX_PAIRS", "EUR/USD,GBP/USD,USD/JPY,USD/CHF,USD/CAD,AUD/USD"),

		SiglogBackend: getEnv("SIGLOG_BACKEND", "csv"),
		SiglogPath:    getEnv("SIGLOG_PATH", "signals_log.csv"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// ParsePairs parses the Pairs string into currency pairs, skipping
// entries that do not parse.
func (c *Config) ParsePairs() []model.Pair {
	parts := strings.Split(c.Pairs, ",")
	pairs := make([]model.Pair, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, err := model.ParsePair(part)
		if err != nil {
			log.Printf("[config] skipping invalid pair: %q", part)
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("[config] required env var %s not set", key)
	}
	return v
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
