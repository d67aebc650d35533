package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DatabaseDriver string `yaml:"database_driver"` // sqlite or postgres (default: sqlite)
	DatabaseFile   string `yaml:"database_file"`   // SQLite file (default: ./inkwell.db)
	DatabaseURL    string `yaml:"database_url"`    // PostgreSQL DSN, required for postgres

	PepperFile     string `yaml:"pepper_file"`      // password hashing pepper (default: ./pepper)
	SigningKeyFile string `yaml:"signing_key_file"` // Ed25519 session key; empty keeps the key in memory only
	Issuer         string `yaml:"issuer"`           // session token issuer (default: inkwell)

	SessionTTL   time.Duration `yaml:"session_ttl"`   // lifetime of a normal login (default: 12h)
	RememberTTL  time.Duration `yaml:"remember_ttl"`  // lifetime of a "remember me" login (default: 7 days)
	CookieSecure bool          `yaml:"cookie_secure"` // set Secure on cookies, enable behind TLS

	SiteTitle string `yaml:"site_title"`

	Env                  string        `yaml:"env"`                   // dev, staging, prod (default: dev)
	LogLevel             string        `yaml:"log_level"`             // debug, info, warn, error (default: info)
	LogFormat            string        `yaml:"log_format"`            // json, text (default: json)
	Port                 int           `yaml:"port"`                  // HTTP port (default: 8080)
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"` // default: 10s
	HousekeepingInterval time.Duration `yaml:"housekeeping_interval"` // expired session sweep (default: 1h)
}

// DefaultConfig is the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		DatabaseDriver:       DriverSQLite,
		DatabaseFile:         "inkwell.db",
		PepperFile:           "pepper",
		SigningKeyFile:       "signing.pem",
		Issuer:               "inkwell",
		SessionTTL:           jwtx.DefaultSessionTTL,
		RememberTTL:          jwtx.DefaultRememberTTL,
		SiteTitle:            "Inkwell",
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 8080,
		ShutdownGracePeriod:  10 * time.Second,
		HousekeepingInterval: time.Hour,
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file
// and the environment, in increasing order of precedence. An empty path
// falls back to INKWELL_CONFIG.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = os.Getenv("INKWELL_CONFIG")
	}

	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadConfigFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML file over the defaults. Keys missing from the
// file keep their default value.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) withEnv() Config {
	c.DatabaseDriver = getEnvOrDefault("INKWELL_DATABASE_DRIVER", c.DatabaseDriver)
	c.DatabaseFile = getEnvOrDefault("INKWELL_DATABASE_FILE", c.DatabaseFile)
	c.DatabaseURL = getEnvOrDefault("INKWELL_DATABASE_URL", c.DatabaseURL)
	c.PepperFile = getEnvOrDefault("INKWELL_PEPPER_FILE", c.PepperFile)
	c.SigningKeyFile = getEnvOrDefault("INKWELL_SIGNING_KEY_FILE", c.SigningKeyFile)
	c.Issuer = getEnvOrDefault("INKWELL_ISSUER", c.Issuer)
	c.SessionTTL = getEnvDurationOrDefault("INKWELL_SESSION_TTL", c.SessionTTL)
	c.RememberTTL = getEnvDurationOrDefault("INKWELL_REMEMBER_TTL", c.RememberTTL)
	c.CookieSecure = getEnvBoolOrDefault("INKWELL_COOKIE_SECURE", c.CookieSecure)
	c.SiteTitle = getEnvOrDefault("INKWELL_SITE_TITLE", c.SiteTitle)
	c.Env = getEnvOrDefault("ENV", c.Env)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("LOG_FORMAT", c.LogFormat)
	c.Port = getEnvIntOrDefault("PORT", c.Port)
	c.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", c.ShutdownGracePeriod)
	c.HousekeepingInterval = getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", c.HousekeepingInterval)
	return c
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			return errors.New("config: database file is required for sqlite")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: database url is required for postgres")
		}
	default:
		return fmt.Errorf("config: unknown database driver %q", c.DatabaseDriver)
	}

	if c.Issuer == "" {
		return errors.New("config: issuer is required")
	}
	if c.PepperFile == "" {
		return errors.New("config: pepper file is required")
	}
	if c.SessionTTL <= 0 || c.RememberTTL <= 0 {
		return errors.New("config: session lifetimes must be positive")
	}
	if c.RememberTTL <= c.SessionTTL {
		return fmt.Errorf("config: remember ttl (%s) must be longer than session ttl (%s)", c.RememberTTL, c.SessionTTL)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.HousekeepingInterval <= 0 {
		return errors.New("config: housekeeping interval must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
