// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir      string // Base directory for the store (always absolute)
	DatabasePath string // Path to the ledger database file
	SecretsDir   string // Directory holding mounted secret files
	LogLevel     string
	DevMode      bool
}

// Load reads configuration from environment variables.
//
// Values absent from the environment fall back to files in the secrets
// directory (one file per key, lowercased, Docker-secrets style), so the
// same binary works with a mounted secret store or a local .env file.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	secretsDir := getEnv("BREAD_SECRETS_DIR", "/run/secrets")

	dataDir := lookup("BREAD_DATA_DIR", secretsDir)
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := lookup("BREAD_DB_PATH", secretsDir)
	if dbPath == "" {
		dbPath = filepath.Join(absDataDir, "bread.db")
	}

	cfg := &Config{
		DataDir:      absDataDir,
		DatabasePath: dbPath,
		SecretsDir:   secretsDir,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DevMode:      getEnvAsBool("DEV_MODE", false),
	}

	return cfg, nil
}

// lookup resolves a configuration key from the environment, falling back
// to a secret file named after the key (lowercased, .txt suffix) in the
// secrets directory. Returns "" when neither source has the value.
func lookup(key, secretsDir string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	secretPath := filepath.Join(secretsDir, strings.ToLower(key)+".txt")
	content, err := os.ReadFile(secretPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsBool retrieves an environment variable as a boolean
func getEnvAsBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}
