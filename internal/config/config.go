// internal/config/config.go
//
// Process configuration for the LingoPlay server.
// Responsibilities:
//   - Load a local .env file when present (development convenience).
//   - Parse typed settings from the environment with defaults.
//   - Derive small helpers (listen address, cookie security) used by the host.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds every setting read from the environment.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Env      string `env:"NODE_ENV" envDefault:"development"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/app.db"`
	SeedSamples  bool   `env:"SEED_SAMPLES" envDefault:"true"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"lingoplay_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	MediaBaseURL string        `env:"MEDIA_BASE_URL"`
	DailySalt    string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	GraderURL     string        `env:"PRONUNCIATION_GRADER_URL"`
	GraderTimeout time.Duration `env:"PRONUNCIATION_GRADER_TIMEOUT" envDefault:"15s"`
	PassScore     float64       `env:"PRONUNCIATION_PASS_SCORE" envDefault:"0.7"`
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.PassScore <= 0 || c.PassScore > 1 {
		return fmt.Errorf("PRONUNCIATION_PASS_SCORE must be in (0,1], got %v", c.PassScore)
	}
	if c.JWTExpiresDays <= 0 {
		return fmt.Errorf("JWT_EXPIRES_DAYS must be positive, got %d", c.JWTExpiresDays)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %v", c.SessionTTL)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Production reports whether cookies must be Secure/SameSite=None.
func (c Config) Production() bool { return c.Env == "production" }

// Level parses LOG_LEVEL, defaulting to info when it is not recognized.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
