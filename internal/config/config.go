// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"APP_PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"shutterflow"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB" envDefault:"shutterflow"`

	// Valkey (Redis-compatible cache)
	ValkeyHost     string `env:"VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     string `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`
	ValkeyDB       int    `env:"VALKEY_DB" envDefault:"0"`

	// Cache and draft lifetimes
	RenderCacheTTL time.Duration `env:"RENDER_CACHE_TTL" envDefault:"10m"`
	DraftTTL       time.Duration `env:"DRAFT_TTL" envDefault:"24h"`

	// S3-compatible brand asset storage (optional)
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"shutterflow-brand"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	// Outbound email. Without Postmark tokens, mail is written to DevMailDir.
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"studio@localhost.test"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@localhost.test"`
	DevMailDir           string `env:"DEV_MAIL_DIR" envDefault:"tmp/mail"`

	// Send endpoint rate limit: requests per minute per photographer.
	SendRateLimit int `env:"SEND_RATE_LIMIT" envDefault:"30"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present. Returns an error if critical values are
// missing in production mode.
func Load() (*Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom parses configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, errors.New("POSTGRES_PASSWORD must be set in production")
		}
		if !cfg.PostmarkEnabled() {
			return nil, errors.New("POSTMARK_SERVER_TOKEN and POSTMARK_ACCOUNT_TOKEN must be set in production")
		}
	}
	if cfg.SendRateLimit <= 0 {
		return nil, fmt.Errorf("SEND_RATE_LIMIT must be positive, got %d", cfg.SendRateLimit)
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// PostmarkEnabled reports whether both Postmark tokens are set.
func (c *Config) PostmarkEnabled() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
