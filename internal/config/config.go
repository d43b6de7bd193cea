package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the server.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTIssuer string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	PushEndpoint  string
	PushServerKey string

	ReminderInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:             strings.TrimSpace(os.Getenv("PORT")),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:        strings.TrimSpace(os.Getenv("JWT_ISSUER")),
		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:      strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
		GeminiBaseURL:    strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")),
		PushEndpoint:     strings.TrimSpace(os.Getenv("PUSH_ENDPOINT")),
		PushServerKey:    strings.TrimSpace(os.Getenv("PUSH_SERVER_KEY")),
		ReminderInterval: parseInterval(strings.TrimSpace(os.Getenv("REMINDER_INTERVAL_HOURS"))),
	}

	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "voicetasks.db"
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "voicetasks"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.5-flash"
	}
	if cfg.GeminiBaseURL == "" {
		cfg.GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.PushEndpoint == "" {
		cfg.PushEndpoint = "https://fcm.googleapis.com/fcm/send"
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	switch {
	case cfg.GeminiAPIKey == "":
		log.Println("[warn] GEMINI_API_KEY not set; /tasks/ai will fail")
	case !strings.HasPrefix(cfg.GeminiAPIKey, "AIza"):
		log.Println("[warn] GEMINI_API_KEY does not look like a Google API key")
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
