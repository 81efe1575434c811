package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultSecretKey is used when SECRET_KEY is unset. Shipping a baked-in
// fallback is a known weakness carried over from the original deployment;
// Load warns when it is in effect.
const DefaultSecretKey = `Mjpe[){i>"r3}]Fm+-{7#,m}qFtf!w)T`

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Book configuration
	GnucashDir  string
	GnucashFile string

	// Number of transactions shown on the listing page
	NumTransactions int

	// Secret key for flash/session cookie signing
	SecretKey string

	// Log file path (stdout is always logged to as well)
	LogFile string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		GnucashDir:      getEnv("GNUCASH_DIR", ""),
		GnucashFile:     getEnv("GNUCASH_FILE", ""),
		NumTransactions: getEnvAsInt("NUM_TRANSACTIONS", 50),
		SecretKey:       getEnv("SECRET_KEY", DefaultSecretKey),
		LogFile:         getEnv("LOG_FILE", "/var/log/gnucash-web.log"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	if c.GnucashDir == "" {
		return fmt.Errorf("GNUCASH_DIR is required")
	}

	if c.GnucashFile == "" {
		return fmt.Errorf("GNUCASH_FILE is required")
	}

	if c.NumTransactions <= 0 {
		return fmt.Errorf("NUM_TRANSACTIONS must be positive")
	}

	return nil
}

// BookPath returns the full path to the GnuCash book file.
func (c *Config) BookPath() string {
	return filepath.Join(c.GnucashDir, c.GnucashFile)
}

// UsingDefaultSecret reports whether the baked-in secret key fallback is in
// effect.
func (c *Config) UsingDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
