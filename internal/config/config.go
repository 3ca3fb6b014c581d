// Package config centralizes environment-driven configuration. A .env file
// is honored when present, matching how deployments configure the service.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAddr       = ":5000"
	DefaultDBPath     = "karen.db"
	DefaultPromptPath = "karen_prompt.txt"
	DefaultMemoryPath = "karen_memory.txt"
	DefaultTimezone   = "America/Sao_Paulo"
)

// Config holds every collaborator credential and path. Which collaborators
// are enabled is derived from what is filled in, never assumed.
type Config struct {
	Addr string

	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	HFToken     string
	TTSModelURL string

	CalendarBaseURL string
	CalendarToken   string

	APIToken string

	DBPath     string
	PromptPath string
	MemoryPath string

	Timezone string
	Debug    bool
}

// Load reads configuration from a .env file (when present) and the
// process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:            addrFromEnv(),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:     os.Getenv("GROQ_BASE_URL"),
		GroqModel:       os.Getenv("GROQ_MODEL"),
		HFToken:         os.Getenv("HF_TOKEN"),
		TTSModelURL:     os.Getenv("TTS_MODEL_URL"),
		CalendarBaseURL: os.Getenv("CALENDAR_BASE_URL"),
		CalendarToken:   os.Getenv("CALENDAR_TOKEN"),
		APIToken:        os.Getenv("KAREN_API_TOKEN"),
		DBPath:          envOrDefault("KAREN_DB_PATH", DefaultDBPath),
		PromptPath:      envOrDefault("KAREN_PROMPT_PATH", DefaultPromptPath),
		MemoryPath:      envOrDefault("KAREN_MEMORY_PATH", DefaultMemoryPath),
		Timezone:        envOrDefault("KAREN_TIMEZONE", DefaultTimezone),
		Debug:           os.Getenv("KAREN_DEBUG") != "",
	}
}

// Location resolves the configured timezone, falling back to UTC so date
// parsing always has a deterministic zone.
func (c Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

func addrFromEnv() string {
	if addr := os.Getenv("KAREN_ADDR"); addr != "" {
		return addr
	}
	// Render-style deployments hand out a bare PORT.
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return DefaultAddr
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
