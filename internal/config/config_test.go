package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("AUTHGATE_JWT_SECRET", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt secret is required")
}

func TestLoad_DefaultsWithEnvSecret(t *testing.T) {
	t.Setenv("AUTHGATE_JWT_SECRET", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, DefaultUsersPath, cfg.UsersPath)
	assert.False(t, cfg.TLS())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
http_addr: ":9000"
jwt_secret: file-secret
token_ttl: 30m
bcrypt_cost: 12
cookie_secure: false
store_driver: sqlite
db_dsn: /tmp/users.sqlite
allowed_origins: ["https://app.example.com"]
`)
	t.Setenv("AUTHGATE_JWT_SECRET", "")
	t.Setenv("AUTHGATE_HTTP_ADDR", ":9100")
	t.Setenv("AUTHGATE_BCRYPT_COST", "11")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.HTTPAddr, "environment overrides file")
	assert.Equal(t, "file-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 11, cfg.BcryptCost)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/users.sqlite", cfg.DBDSN)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_BadInputs(t *testing.T) {
	t.Setenv("AUTHGATE_JWT_SECRET", "s")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "http_addr: [\n"))
	require.Error(t, err)

	t.Setenv("AUTHGATE_TOKEN_TTL", "soon")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTHGATE_TOKEN_TTL")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Default()
	valid.JWTSecret = "s"
	require.NoError(t, valid.Validate())

	tests := map[string]func(c *Config){
		"no secret":      func(c *Config) { c.JWTSecret = "" },
		"zero ttl":       func(c *Config) { c.TokenTTL = 0 },
		"low cost":       func(c *Config) { c.BcryptCost = 1 },
		"high cost":      func(c *Config) { c.BcryptCost = 40 },
		"unknown driver": func(c *Config) { c.StoreDriver = "redis" },
		"half tls":       func(c *Config) { c.TLSCertFile = "cert.pem" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
