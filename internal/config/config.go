package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string

	// Gemini extraction service. An empty API key is a valid state: the
	// extractor runs in heuristic-only mode without a network client.
	GeminiAPIKey          string
	GeminiModelID         string
	ExtractionTimeout     time.Duration
	ExtractionMaxTokens   int
	ExtractionTemperature float64
	ExtractionCacheTTL    time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:                  getEnv("PORT", "8080"),
		Env:                   getEnv("ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		GeminiAPIKey:          strings.TrimSpace(getEnv("GEMINI_API_KEY", "")),
		GeminiModelID:         getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		ExtractionTimeout:     getEnvAsDuration("EXTRACTION_TIMEOUT", 30*time.Second),
		ExtractionMaxTokens:   getEnvAsInt("EXTRACTION_MAX_TOKENS", 4096),
		ExtractionTemperature: getEnvAsFloat("EXTRACTION_TEMPERATURE", 0.1),
		ExtractionCacheTTL:    getEnvAsDuration("EXTRACTION_CACHE_TTL", 6*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}
