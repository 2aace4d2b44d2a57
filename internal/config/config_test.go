package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.GeminiModelID != "gemini-2.5-flash" {
		t.Errorf("expected default model id, got %s", cfg.GeminiModelID)
	}
	if cfg.ExtractionTimeout != 30*time.Second {
		t.Errorf("expected default extraction timeout 30s, got %s", cfg.ExtractionTimeout)
	}
	if cfg.GeminiAPIKey != "" {
		t.Errorf("expected empty api key by default, got %q", cfg.GeminiAPIKey)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "  test-key  ")
	t.Setenv("EXTRACTION_TIMEOUT", "5s")
	t.Setenv("EXTRACTION_MAX_TOKENS", "1024")
	t.Setenv("EXTRACTION_TEMPERATURE", "0.4")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("expected trimmed api key, got %q", cfg.GeminiAPIKey)
	}
	if cfg.ExtractionTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.ExtractionTimeout)
	}
	if cfg.ExtractionMaxTokens != 1024 {
		t.Errorf("expected 1024 max tokens, got %d", cfg.ExtractionMaxTokens)
	}
	if cfg.ExtractionTemperature != 0.4 {
		t.Errorf("expected temperature 0.4, got %f", cfg.ExtractionTemperature)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("EXTRACTION_TIMEOUT", "not-a-duration")
	t.Setenv("EXTRACTION_MAX_TOKENS", "lots")

	cfg := Load()

	if cfg.ExtractionTimeout != 30*time.Second {
		t.Errorf("expected fallback timeout, got %s", cfg.ExtractionTimeout)
	}
	if cfg.ExtractionMaxTokens != 4096 {
		t.Errorf("expected fallback max tokens, got %d", cfg.ExtractionMaxTokens)
	}
}
