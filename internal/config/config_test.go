package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes key for the duration of the test. t.Setenv registers the
// restore; an empty value would still count as set.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	for _, k := range []string{"PORT", "DATABASE_DRIVER", "DATABASE_URL", "APP_ENV", "LOG_LEVEL", "BCRYPT_COST", "TOKEN_TTL", "CORS_ALLOWED_ORIGINS"} {
		unsetEnv(t, k)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "./geoauth.db", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/geo")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"bad port", map[string]string{"JWT_SECRET": "x", "PORT": "abc"}},
		{"bad cost", map[string]string{"JWT_SECRET": "x", "BCRYPT_COST": "twelve"}},
		{"bad ttl", map[string]string{"JWT_SECRET": "x", "TOKEN_TTL": "soon"}},
		{"negative ttl", map[string]string{"JWT_SECRET": "x", "TOKEN_TTL": "-1h"}},
		{"unknown driver", map[string]string{"JWT_SECRET": "x", "DATABASE_DRIVER": "mongo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"PORT", "DATABASE_DRIVER", "BCRYPT_COST", "TOKEN_TTL"} {
				unsetEnv(t, k)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func writeDotEnv(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_DotEnv(t *testing.T) {
	unsetEnv(t, "JWT_SECRET")
	unsetEnv(t, "PORT")
	writeDotEnv(t, "JWT_SECRET=from-file\nPORT=6001\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 6001, cfg.ServerPort)
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	writeDotEnv(t, "BAD-KEY=value\n")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}
