// Package config provides configuration management for the payments microservice.
// It handles loading configuration from environment variables with sensible
// defaults and validates the configuration to ensure the application starts
// safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//
// Database Configuration:
//   - DATABASE_URL: Postgres connection string for the Supabase database (required)
//
// Redis Configuration:
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//
// Security Configuration:
//   - JWT_SECRET: JWT signing secret (required, minimum 32 characters)
//
// Rate Limiting:
//   - RATE_LIMIT_ENABLED: Enable rate limiting (default: true)
//   - RATE_LIMIT_DEFAULT: Default rate limit per window (default: 100)
//   - RATE_LIMIT_WINDOW: Rate limit time window (default: 60s)
//
// Payment Gateway:
//   - PALMPAY_BASE_URL: Gateway API base URL (default: production endpoint)
//   - PALMPAY_APP_ID: Merchant application ID (required)
//   - PALMPAY_PRIVATE_KEY: PKCS#8 RSA private key PEM for outbound signing (required)
//   - PALMPAY_PUBLIC_KEY: Gateway RSA public key for callback verification (required)
//   - LICENSE_NUMBER: Merchant license number sent on account creation
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the payments microservice.
// All string fields correspond to environment variables that can be set to
// override the default values.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)

	// Database configuration
	DatabaseURL string // Postgres connection string (Supabase)

	// Redis configuration
	RedisAddress  string // Redis server address (host:port)
	RedisPassword string // Redis authentication password
	RedisDB       string // Redis database number (0-15)
	RedisPoolSize string // Redis connection pool size

	// Rate limiting configuration
	RateLimitEnabled bool   // Whether rate limiting is enabled
	RateLimitDefault string // Default requests per window
	RateLimitWindow  string // Rate limiting time window (e.g., "60s", "1m")

	// JWT authentication configuration
	JWTSecret string // Secret key for JWT token signing (required)

	// Payment gateway configuration
	PalmPayBaseURL    string // Gateway API base URL
	PalmPayAppID      string // Merchant application ID
	PalmPayPrivateKey string // Merchant RSA private key (PKCS#8 PEM)
	PalmPayPublicKey  string // Gateway RSA public key for callback verification
	LicenseNumber     string // Merchant license number
}

// Load creates a new Config instance with values loaded from environment
// variables. If an environment variable is not set, the corresponding default
// value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config to ensure all required values are properly set and valid.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		// Redis configuration
		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),
		RedisPoolSize: getEnv("REDIS_POOL_SIZE", "10"),

		// Rate limiting configuration
		RateLimitEnabled: getBoolEnv("RATE_LIMIT_ENABLED", true),
		RateLimitDefault: getEnv("RATE_LIMIT_DEFAULT", "100"),
		RateLimitWindow:  getEnv("RATE_LIMIT_WINDOW", "60s"),

		// JWT configuration
		JWTSecret: getEnv("JWT_SECRET", ""),

		// Payment gateway configuration
		PalmPayBaseURL:    getEnv("PALMPAY_BASE_URL", "https://open-gw-prod.palmpay-inc.com"),
		PalmPayAppID:      getEnv("PALMPAY_APP_ID", ""),
		PalmPayPrivateKey: getEnv("PALMPAY_PRIVATE_KEY", ""),
		PalmPayPublicKey:  getEnv("PALMPAY_PUBLIC_KEY", ""),
		LicenseNumber:     getEnv("LICENSE_NUMBER", ""),
	}
}

// getEnv retrieves an environment variable value or returns a default value
// if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns a
// default value on absence or parse failure.
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate performs comprehensive validation on the configuration to ensure
// all required fields are present and all values are valid.
//
// The application should call this method after loading configuration and
// before starting to ensure safe operation.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long for security")
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
		return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
	}

	if size, err := strconv.Atoi(c.RedisPoolSize); err != nil || size < 1 {
		return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
	}

	if c.RateLimitEnabled {
		if limit, err := strconv.Atoi(c.RateLimitDefault); err != nil || limit < 1 {
			return fmt.Errorf("RATE_LIMIT_DEFAULT must be a positive number")
		}
		if _, err := time.ParseDuration(c.RateLimitWindow); err != nil {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be a valid duration (e.g. 60s, 1m)")
		}
	}

	if c.PalmPayAppID == "" {
		return fmt.Errorf("PALMPAY_APP_ID environment variable is required")
	}

	if c.PalmPayPrivateKey == "" {
		return fmt.Errorf("PALMPAY_PRIVATE_KEY environment variable is required")
	}

	if c.PalmPayPublicKey == "" {
		return fmt.Errorf("PALMPAY_PUBLIC_KEY environment variable is required")
	}

	return nil
}

// RedisDBNumber returns the Redis database number as an int.
func (c *Config) RedisDBNumber() int {
	db, _ := strconv.Atoi(c.RedisDB)
	return db
}

// RedisPoolSizeNumber returns the Redis pool size as an int.
func (c *Config) RedisPoolSizeNumber() int {
	size, _ := strconv.Atoi(c.RedisPoolSize)
	return size
}

// RateLimit returns the default rate limit as an int.
func (c *Config) RateLimit() int {
	limit, _ := strconv.Atoi(c.RateLimitDefault)
	return limit
}

// RateLimitWindowDuration returns the rate limit window as a duration.
func (c *Config) RateLimitWindowDuration() time.Duration {
	window, err := time.ParseDuration(c.RateLimitWindow)
	if err != nil {
		return time.Minute
	}
	return window
}
