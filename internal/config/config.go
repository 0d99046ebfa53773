package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Tokenizer selection values.
const (
	TokenizerKagome  = "kagome"
	TokenizerTrigram = "trigram"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath    string
	APIPort   string
	Tokenizer string
	LogLevel  string
	LogFormat string
	PageSize  int
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:    getEnv("DB_PATH", "./data/blog.db"),
		APIPort:   getEnv("API_PORT", "9000"),
		Tokenizer: getEnv("TOKENIZER", TokenizerKagome),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if cfg.Tokenizer != TokenizerKagome && cfg.Tokenizer != TokenizerTrigram {
		return nil, fmt.Errorf("TOKENIZER must be %q or %q, got %q", TokenizerKagome, TokenizerTrigram, cfg.Tokenizer)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	pageSize, err := strconv.Atoi(getEnv("PAGE_SIZE", "30"))
	if err != nil {
		return nil, fmt.Errorf("PAGE_SIZE must be a valid integer: %w", err)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be greater than 0")
	}
	cfg.PageSize = pageSize

	// Create the data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
