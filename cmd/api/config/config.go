package config

import (
	"os"
	"time"
)

type Config struct {
	Port           string
	GeminiAPIKey   string
	GeminiModel    string
	AllowedOrigins string
	FetchTimeout   time.Duration
}

// Load reads app settings from the environment. An absent Gemini key is not
// an error: the analyzer falls back to template-only operation.
func Load() *Config {
	return &Config{
		Port:           envOr("PORT", "5001"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    envOr("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		AllowedOrigins: envOr("ALLOWED_ORIGINS", "http://localhost:5001"),
		FetchTimeout:   20 * time.Second,
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
