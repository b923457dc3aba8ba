package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort         int
	DatabaseDriver     string // "sqlite" or "postgres"
	DatabaseURL        string
	JWTSecret          string
	AppEnv             string
	LogLevel           string
	BcryptCost         int
	TokenTTL           time.Duration
	CORSAllowedOrigins []string
}

// IsProduction reports whether the service runs in a production deployment.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is read first if present; variables
// already set in the environment win. A malformed .env is an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	port, err := strconv.Atoi(getEnv("PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, errors.New("TOKEN_TTL must be positive")
	}

	driver := getEnv("DATABASE_DRIVER", "sqlite")
	if driver != "sqlite" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", driver)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return &Config{
		ServerPort:         port,
		DatabaseDriver:     driver,
		DatabaseURL:        getEnv("DATABASE_URL", "./geoauth.db"),
		JWTSecret:          secret,
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		BcryptCost:         cost,
		TokenTTL:           ttl,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
