package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	Port         string
	GroqAPIKey   string
	GeminiAPIKey string
	CatalogPath  string
	DatabasePath string

	// EmbeddingCachePath is optional; empty disables the file cache.
	EmbeddingCachePath string

	// GenerationTimeout bounds the external itinerary-generation call.
	GenerationTimeout time.Duration
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if groqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		return nil, fmt.Errorf("CATALOG_PATH environment variable not set")
	}

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "data/trip-planner.db"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	generationTimeout := 45 * time.Second
	if v := os.Getenv("GENERATION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GENERATION_TIMEOUT %q: %w", v, err)
		}
		generationTimeout = d
	}

	return &Config{
		Port:               port,
		GroqAPIKey:         groqAPIKey,
		GeminiAPIKey:       geminiAPIKey,
		CatalogPath:        catalogPath,
		DatabasePath:       databasePath,
		EmbeddingCachePath: os.Getenv("EMBEDDING_CACHE_PATH"),
		GenerationTimeout:  generationTimeout,
	}, nil
}
