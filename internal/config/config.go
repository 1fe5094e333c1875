package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port                   int    `env:"PORT" envDefault:"8080"`
	DatabaseURL            string `env:"DATABASE_URL,required"`
	RedisURL               string `env:"REDIS_URL,required"`
	SessionSecret          string `env:"SESSION_SECRET"`
	AdminEmail             string `env:"ADMIN_EMAIL"`
	AdminPasswordHash      string `env:"ADMIN_PASSWORD_HASH"`
	LogLevel               string `env:"LOG_LEVEL" envDefault:"info"`
	ContentCacheTTLSeconds int    `env:"CONTENT_CACHE_TTL_SECONDS" envDefault:"60"`
	EstimateRatePerMin     int    `env:"ESTIMATE_RATE_LIMIT_PER_MIN" envDefault:"10"`
	CaptchaEnabled         bool   `env:"CAPTCHA_ENABLED" envDefault:"false"`
	PublicBaseURL          string `env:"PUBLIC_BASE_URL" envDefault:""`

	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}

func (c *Config) ContentCacheTTL() time.Duration {
	return time.Duration(c.ContentCacheTTLSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// UploadsConfigured reports whether estimate photo uploads can be served.
// Object storage is optional; without it the estimate form still accepts leads.
func (c *Config) UploadsConfigured() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) Validate(isProduction bool) error {
	if c.AdminPasswordHash != "" {
		if !strings.HasPrefix(c.AdminPasswordHash, "$2a$") &&
			!strings.HasPrefix(c.AdminPasswordHash, "$2b$") &&
			!strings.HasPrefix(c.AdminPasswordHash, "$2y$") {
			return fmt.Errorf("ADMIN_PASSWORD_HASH must be a bcrypt hash (generate with: go run scripts/hash-password.go <password>)")
		}
	}

	if c.AdminPasswordHash != "" && c.AdminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL is required when ADMIN_PASSWORD_HASH is set")
	}

	if isProduction {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}

		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
		if !c.UploadsConfigured() {
			log.Warn().Msg("object storage is not configured in production: estimate photo uploads disabled")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
