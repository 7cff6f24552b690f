package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	API         APIConfig
	Session     SessionConfig
	Redis       RedisConfig
	Cache       CacheConfig
}

// APIConfig holds the endpoint URLs of the backend collaborators
type APIConfig struct {
	AuthURL        string
	ClinicsURL     string
	ReviewsURL     string
	AdminURL       string
	TimeoutSeconds int
}

// SessionConfig holds persisted-session configuration
type SessionConfig struct {
	StateDir string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds record-cache configuration
type CacheConfig struct {
	ListingTTLSeconds int
	DetailTTLSeconds  int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		API: APIConfig{
			AuthURL:        getEnv("AUTH_API_URL", "http://localhost:8080/auth"),
			ClinicsURL:     getEnv("CLINICS_API_URL", "http://localhost:8080/clinics"),
			ReviewsURL:     getEnv("REVIEWS_API_URL", "http://localhost:8080/reviews"),
			AdminURL:       getEnv("ADMIN_API_URL", "http://localhost:8080/admin"),
			TimeoutSeconds: getEnvAsInt("API_TIMEOUT_SECONDS", 10),
		},
		Session: SessionConfig{
			StateDir: getEnv("SESSION_STATE_DIR", defaultStateDir()),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			ListingTTLSeconds: getEnvAsInt("CACHE_LISTING_TTL_SECONDS", 300),
			DetailTTLSeconds:  getEnvAsInt("CACHE_DETAIL_TTL_SECONDS", 300),
		},
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "clinicdirectory")
	}
	return ".clinicdirectory"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
