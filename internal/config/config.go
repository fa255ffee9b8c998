package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode string
	Port    string
	Store   StoreConfig
	Dataset string
	JWT     JWTConfig
	Session SessionConfig
}

// StoreConfig holds durable store configuration
type StoreConfig struct {
	Driver     string // "file" or "sqlite"
	DataDir    string
	SQLitePath string
}

// JWTConfig holds access token configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// SessionConfig holds session lifetime configuration
type SessionConfig struct {
	TTLHours int
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	driver := strings.TrimSpace(getEnv("STORE_DRIVER", "file"))
	if driver != "file" && driver != "sqlite" {
		return nil, fmt.Errorf("invalid STORE_DRIVER: '%s' (must be 'file' or 'sqlite')", driver)
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "480"))
	sessionHours, _ := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "8"))

	config := &Config{
		AppMode: appMode,
		Port:    getEnv("PORT", "3000"),
		Store: StoreConfig{
			Driver:     driver,
			DataDir:    getEnv("STORE_DATA_DIR", "./storage"),
			SQLitePath: getEnv("STORE_SQLITE_PATH", "./storage/procflow.db"),
		},
		Dataset: getEnv("DATASET_PATH", "./data/processes.json"),
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "default_secret"),
			AccessTokenMins: accessMins,
		},
		Session: SessionConfig{
			TTLHours: sessionHours,
		},
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, STORE: %s]", appMode, driver)
	return config, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://procflow.example.com"
	}
	return origins
}
