package config

import (
	"delivery-scenario-service/internal/platform/logging"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads a .env file when present. Real environment variables win.
func Load() {
	if err := LoadDotEnv(); err != nil {
		log := logging.Get()
		log.Info().Msg("no .env file found (using environment variables)")
	}
}

// LoadDotEnv reads .env without logging, for callers that configure the
// logger from its values.
func LoadDotEnv() error {
	return godotenv.Load()
}

// Get returns the value of key or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		warnInvalid(key, raw, err)
		return fallback
	}
	return v
}

func GetFloat(key string, fallback float64) float64 {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		warnInvalid(key, raw, err)
		return fallback
	}
	return v
}

// GetDuration accepts Go duration strings such as "24h" or "90s".
func GetDuration(key string, fallback time.Duration) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		warnInvalid(key, raw, err)
		return fallback
	}
	return v
}

func warnInvalid(key, raw string, err error) {
	log := logging.Get()
	log.Warn().Str("key", key).Str("value", raw).Err(err).Msg("invalid config value, using default")
}
