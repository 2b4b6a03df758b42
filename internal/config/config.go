// Package config loads server settings from flags, the environment and an
// optional .env file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SPENDWISE_PORT.
const EnvPrefix = "SPENDWISE"

// devSecret signs tokens in dev mode when no secret is configured.
const devSecret = "spendwise-dev-secret"

var ErrMissingSecret = errors.New("jwt_secret is required (set SPENDWISE_JWT_SECRET or run with --dev)")

// Config holds every server setting.
type Config struct {
	Port              int
	DBPath            string
	JWTSecret         string
	TokenTTL          time.Duration
	LogLevel          string
	LogFile           string
	RequireFriendship bool
	NotifyTimeout     time.Duration
	CORSOrigin        string
	Dev               bool
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

var defaults = map[string]any{
	"port":               8080,
	"db_path":            "./data/spendwise.db",
	"jwt_secret":         "",
	"token_ttl":          24 * time.Hour,
	"log_level":          "info",
	"log_file":           "",
	"require_friendship": true,
	"notify_timeout":     5 * time.Second,
	"cors_origin":        "*",
	"dev":                false,
}

// RegisterFlags adds the command-line flags Load understands to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Int("port", 8080, "HTTP listen port")
	flags.String("db-path", "./data/spendwise.db", "SQLite database file")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-file", "", "write logs to this file, rotated, instead of stderr")
	flags.Bool("require-friendship", true, "only allow sharing expenses with friends")
	flags.Bool("dev", false, "development mode: allow a built-in JWT secret")
}

// Load reads .env (if present), the environment and any flags that were
// set explicitly. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Unprefixed names kept for existing deployments.
	if err := v.BindEnv("db_path", EnvPrefix+"_DB_PATH", "DB_PATH"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("log_level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, err
	}

	if flags != nil {
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, known := defaults[key]; known {
				_ = v.BindPFlag(key, f)
			}
		})
	}

	cfg := &Config{
		Port:              v.GetInt("port"),
		DBPath:            v.GetString("db_path"),
		JWTSecret:         v.GetString("jwt_secret"),
		TokenTTL:          v.GetDuration("token_ttl"),
		LogLevel:          strings.ToLower(v.GetString("log_level")),
		LogFile:           v.GetString("log_file"),
		RequireFriendship: v.GetBool("require_friendship"),
		NotifyTimeout:     v.GetDuration("notify_timeout"),
		CORSOrigin:        v.GetString("cors_origin"),
		Dev:               v.GetBool("dev"),
	}

	if cfg.JWTSecret == "" && cfg.Dev {
		cfg.JWTSecret = devSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.DBPath == "":
		return errors.New("db_path is required")
	case c.JWTSecret == "":
		return ErrMissingSecret
	case c.TokenTTL <= 0:
		return fmt.Errorf("token_ttl must be positive, got %s", c.TokenTTL)
	case c.NotifyTimeout <= 0:
		return fmt.Errorf("notify_timeout must be positive, got %s", c.NotifyTimeout)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}
