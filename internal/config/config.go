// Package config resolves runtime settings. Values are layered: built-in
// defaults, then an optional YAML file, then AUTHGATE_* environment
// variables. Command-line flags are applied by the caller on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// DefaultUsersPath is the seed file read by serve. A missing file is skipped.
const DefaultUsersPath = "config/users.yaml"

type Config struct {
	HTTPAddr       string        `yaml:"http_addr"`
	TLSCertFile    string        `yaml:"tls_cert_file"`
	TLSKeyFile     string        `yaml:"tls_key_file"`
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	BcryptCost     int           `yaml:"bcrypt_cost"`
	HashWorkers    int           `yaml:"hash_workers"`
	CookieSecure   bool          `yaml:"cookie_secure"`
	StoreDriver    string        `yaml:"store_driver"`
	DBDSN          string        `yaml:"db_dsn"`
	UsersPath      string        `yaml:"users_path"`
	StaticDir      string        `yaml:"static_dir"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
}

// Default returns the built-in settings. It is not valid on its own: the
// JWT secret has no default.
func Default() Config {
	return Config{
		HTTPAddr:     ":8080",
		TokenTTL:     time.Hour,
		BcryptCost:   10,
		CookieSecure: true,
		StoreDriver:  StoreMemory,
		DBDSN:        filepath.Join(xdg.DataHome, "authgate", "users.sqlite"),
		UsersPath:    DefaultUsersPath,
		LogLevel:     "info",
		LogFormat:    "auto",
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.HTTPAddr = getenv("AUTHGATE_HTTP_ADDR", c.HTTPAddr)
	c.TLSCertFile = getenv("AUTHGATE_TLS_CERT_FILE", c.TLSCertFile)
	c.TLSKeyFile = getenv("AUTHGATE_TLS_KEY_FILE", c.TLSKeyFile)
	c.JWTSecret = getenv("AUTHGATE_JWT_SECRET", c.JWTSecret)
	c.StoreDriver = getenv("AUTHGATE_STORE_DRIVER", c.StoreDriver)
	c.DBDSN = getenv("AUTHGATE_DB_DSN", c.DBDSN)
	c.UsersPath = getenv("AUTHGATE_USERS_PATH", c.UsersPath)
	c.StaticDir = getenv("AUTHGATE_STATIC_DIR", c.StaticDir)
	c.LogLevel = getenv("AUTHGATE_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("AUTHGATE_LOG_FORMAT", c.LogFormat)
	if v := os.Getenv("AUTHGATE_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = strings.Split(v, ",")
	}

	var err error
	if v := os.Getenv("AUTHGATE_TOKEN_TTL"); v != "" {
		if c.TokenTTL, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("AUTHGATE_TOKEN_TTL: %w", err)
		}
	}
	if v := os.Getenv("AUTHGATE_BCRYPT_COST"); v != "" {
		if c.BcryptCost, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("AUTHGATE_BCRYPT_COST: %w", err)
		}
	}
	if v := os.Getenv("AUTHGATE_HASH_WORKERS"); v != "" {
		if c.HashWorkers, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("AUTHGATE_HASH_WORKERS: %w", err)
		}
	}
	if v := os.Getenv("AUTHGATE_COOKIE_SECURE"); v != "" {
		if c.CookieSecure, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("AUTHGATE_COOKIE_SECURE: %w", err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret is required (AUTHGATE_JWT_SECRET)"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost))
	}
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.StoreDriver))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("tls cert and key files must be set together"))
	}
	return errors.Join(errs...)
}

// TLS reports whether the server should serve HTTPS.
func (c Config) TLS() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}
