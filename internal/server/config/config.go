// Package config handles configuration for the server component:
// defaults, an optional YAML file, a .env file, environment variables and
// command-line flags, applied in that order.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime settings for the microblog server
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Feed     FeedConfig     `yaml:"feed"`
	Reset    ResetConfig    `yaml:"reset"`
	SMTP     SMTPConfig     `yaml:"smtp"`
}

// HTTPConfig holds listener settings
type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR, overwrite"`
	PublicURL       string        `yaml:"public_url" env:"PUBLIC_URL, overwrite"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT, overwrite"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT, overwrite"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT, overwrite"`
}

// DatabaseConfig holds the SQLite location
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DATABASE_PATH, overwrite"`
}

// LogConfig selects level and output format (json or text)
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL, overwrite"`
	Format string `yaml:"format" env:"LOG_FORMAT, overwrite"`
}

// AuthConfig holds credential resolution and login throttling settings
type AuthConfig struct {
	IdentifierField string        `yaml:"identifier_field" env:"AUTH_IDENTIFIER_FIELD, overwrite"`
	PublicMethods   []string      `yaml:"public_methods" env:"AUTH_PUBLIC_METHODS, overwrite"`
	LoginRateLimit  int           `yaml:"login_rate_limit" env:"AUTH_LOGIN_RATE_LIMIT, overwrite"`
	LoginRateWindow time.Duration `yaml:"login_rate_window" env:"AUTH_LOGIN_RATE_WINDOW, overwrite"`
}

// FeedConfig holds pagination settings
type FeedConfig struct {
	CursorSecret string `yaml:"cursor_secret" env:"FEED_CURSOR_SECRET, overwrite"`
	DefaultLimit int    `yaml:"default_limit" env:"FEED_DEFAULT_LIMIT, overwrite"`
	MaxLimit     int    `yaml:"max_limit" env:"FEED_MAX_LIMIT, overwrite"`
}

// ResetConfig holds password reset settings
type ResetConfig struct {
	TokenTTL time.Duration `yaml:"token_ttl" env:"RESET_TOKEN_TTL, overwrite"`
}

// SMTPConfig describes the mail relay. An empty Host logs reset links instead.
type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST, overwrite"`
	Username string `yaml:"username" env:"SMTP_USERNAME, overwrite"`
	Password string `yaml:"password" env:"SMTP_PASSWORD, overwrite"`
	From     string `yaml:"from" env:"SMTP_FROM, overwrite"`
	Port     int    `yaml:"port" env:"SMTP_PORT, overwrite"`
}

// Default returns development defaults.
// NOTE: CursorSecret must be overridden in production.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			PublicURL:       "http://localhost:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{Path: "microblog.db"},
		Log:      LogConfig{Level: "info", Format: "json"},
		Auth: AuthConfig{
			IdentifierField: "identifier",
			PublicMethods:   []string{http.MethodPost},
			LoginRateLimit:  10,
			LoginRateWindow: time.Minute,
		},
		Feed: FeedConfig{
			CursorSecret: "dev-cursor-secret",
			DefaultLimit: 20,
			MaxLimit:     100,
		},
		Reset: ResetConfig{TokenTTL: 24 * time.Hour},
		SMTP:  SMTPConfig{Port: 25, From: "noreply@localhost"},
	}
}

// Load builds a Config from defaults, the YAML file and .env file named by
// flags, the environment and finally the flags themselves. Flag usage goes
// to stderr.
func Load(ctx context.Context, args []string, lookuper envconfig.Lookuper) (*Config, error) {
	flags, err := parseFlags(args, os.Stderr)
	if err != nil {
		return nil, err
	}

	cfg := Default()

	if flags.configFile != "" {
		if err := loadYAML(flags.configFile, cfg); err != nil {
			return nil, err
		}
	}

	if lookuper == nil {
		if err := loadDotEnv(flags.envFile); err != nil {
			return nil, err
		}
		lookuper = envconfig.OsLookuper()
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}

	flags.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that would make the server misbehave
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Feed.CursorSecret == "" {
		errs = append(errs, errors.New("feed.cursor_secret is required"))
	}
	if c.Feed.DefaultLimit <= 0 || c.Feed.MaxLimit < c.Feed.DefaultLimit {
		errs = append(errs, fmt.Errorf("feed limits invalid: default %d, max %d", c.Feed.DefaultLimit, c.Feed.MaxLimit))
	}
	if c.Reset.TokenTTL <= 0 {
		errs = append(errs, errors.New("reset.token_ttl must be positive"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not json or text", c.Log.Format))
	}
	return errors.Join(errs...)
}
