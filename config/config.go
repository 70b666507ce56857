package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config represents the application configuration.
// Everything site-specific lives in the site definitions; the environment
// only carries run-wide switches and service addresses.
type Config struct {
	// Run limits. TestMode caps categories, products per page and total
	// requests so integration runs stay fast and deterministic.
	TestMode           bool
	MaxProductsPerPage int
	MaxRequestsPerRun  int

	// Output
	OutputDir string

	// Redis product store
	RedisAddr      string
	RedisDB        int
	RedisKeyPrefix string

	// Memcache cooldown cache
	MemcacheAddr string

	// Environment
	Environment string
}

// Defaults applied in test mode when no explicit override is set.
const (
	testModeMaxProductsPerPage = 3
	testModeMaxRequestsPerRun  = 10
)

// Load loads the configuration from environment variables with defaults
func Load() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		TestMode:           getEnv("MENU_TEST_MODE", "") == "true",
		MaxProductsPerPage: getEnvInt("MENU_MAX_PRODUCTS_PER_PAGE", 0),
		MaxRequestsPerRun:  getEnvInt("MENU_MAX_REQUESTS_PER_RUN", 0),
		OutputDir:          getEnv("MENU_OUTPUT_DIR", "./output"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            redisDB,
		RedisKeyPrefix:     getEnv("REDIS_KEY_PREFIX", "menu"),
		MemcacheAddr:       getEnv("MEMCACHE_ADDR", "localhost:11211"),
		Environment:        getEnv("MENU_ENVIRONMENT", "development"),
	}

	if cfg.TestMode {
		cfg.EnableTestMode()
	}

	return cfg
}

// EnableTestMode turns test mode on and applies its default caps where
// no explicit override is set.
func (c *Config) EnableTestMode() {
	c.TestMode = true
	if c.MaxProductsPerPage == 0 {
		c.MaxProductsPerPage = testModeMaxProductsPerPage
	}
	if c.MaxRequestsPerRun == 0 {
		c.MaxRequestsPerRun = testModeMaxRequestsPerRun
	}
}

// Validate checks the configuration for invalid combinations
func (c *Config) Validate() error {
	if c.MaxProductsPerPage < 0 {
		return fmt.Errorf("MENU_MAX_PRODUCTS_PER_PAGE must not be negative")
	}
	if c.MaxRequestsPerRun < 0 {
		return fmt.Errorf("MENU_MAX_REQUESTS_PER_RUN must not be negative")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("MENU_OUTPUT_DIR must not be empty")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
