// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dscapture/dscapture/internal/auth"
)

// Storage drivers.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
	StorageMinio = "minio"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"DSC_DB_PATH" envDefault:"./data/dscapture.db"`
	ServerHost string `env:"DSC_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"DSC_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"DSC_ENV" envDefault:"development"`
	LogLevel   string `env:"DSC_LOG_LEVEL" envDefault:"info"`

	SiteURL  string `env:"DSC_SITE_URL" envDefault:"https://ds-capture.de"`
	SiteName string `env:"DSC_SITE_NAME" envDefault:"DS_Capture"`

	// Object storage
	StorageDriver    string `env:"DSC_STORAGE_DRIVER" envDefault:"local"`
	UploadsDir       string `env:"DSC_UPLOADS_DIR" envDefault:"./uploads"`
	StoragePublicURL string `env:"DSC_STORAGE_PUBLIC_URL"` // Base URL objects are served from; "/uploads" for local storage
	HomepageBucket   string `env:"DSC_HOMEPAGE_BUCKET" envDefault:"homepage-assets"`
	ServiceBucket    string `env:"DSC_SERVICE_BUCKET" envDefault:"service-carousel"`

	S3Endpoint     string `env:"DSC_S3_ENDPOINT"`
	S3Region       string `env:"DSC_S3_REGION" envDefault:"eu-central-1"`
	S3AccessKey    string `env:"DSC_S3_ACCESS_KEY"`
	S3SecretKey    string `env:"DSC_S3_SECRET_KEY"`
	S3UsePathStyle bool   `env:"DSC_S3_USE_PATH_STYLE" envDefault:"false"`

	MinioEndpoint  string `env:"DSC_MINIO_ENDPOINT"`
	MinioAccessKey string `env:"DSC_MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"DSC_MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `env:"DSC_MINIO_USE_SSL" envDefault:"true"`

	// Cache configuration
	RedisURL    string `env:"DSC_REDIS_URL"`                             // Optional Redis URL for the services cache
	CachePrefix string `env:"DSC_CACHE_PREFIX" envDefault:"dscapture:"` // Redis key prefix
	ServicesTTL int    `env:"DSC_SERVICES_TTL" envDefault:"120"`        // Services page revalidation in seconds

	// Contact notification
	EmailJSServiceID  string `env:"DSC_EMAILJS_SERVICE_ID"`
	EmailJSTemplateID string `env:"DSC_EMAILJS_TEMPLATE_ID"`
	EmailJSPrivateKey string `env:"DSC_EMAILJS_PRIVATE_KEY"` // Server-side relay access token
	EmailJSPublicKey  string `env:"DSC_EMAILJS_PUBLIC_KEY"`  // Public key for the direct fallback
	EmailJSAPIURL     string `env:"DSC_EMAILJS_API_URL" envDefault:"https://api.emailjs.com/api/v1.0/email/send"`
	ContactEndpoint   string `env:"DSC_CONTACT_ENDPOINT"` // Optional remote notification endpoint

	// Seeding
	AdminEmail    string `env:"DSC_ADMIN_EMAIL"`
	AdminPassword string `env:"DSC_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// ServicesCacheTTL returns the services page revalidation interval.
func (c Config) ServicesCacheTTL() time.Duration {
	return time.Duration(c.ServicesTTL) * time.Second
}

// PublicBaseURL returns the base URL that bucket objects are served from.
func (c Config) PublicBaseURL() string {
	if c.StoragePublicURL != "" {
		return strings.TrimSuffix(c.StoragePublicURL, "/")
	}
	if c.StorageDriver == StorageLocal {
		return "/uploads"
	}
	return ""
}

// RelayConfigured reports whether the server-side notification relay has
// every credential it needs.
func (c Config) RelayConfigured() bool {
	return c.EmailJSServiceID != "" && c.EmailJSTemplateID != "" && c.EmailJSPrivateKey != ""
}

// FallbackConfigured reports whether the direct public-key fallback can be used.
func (c Config) FallbackConfigured() bool {
	return c.EmailJSServiceID != "" && c.EmailJSTemplateID != "" && c.EmailJSPublicKey != ""
}

// SeedEnabled reports whether an initial admin account should be seeded.
func (c Config) SeedEnabled() bool {
	return c.AdminEmail != ""
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !cfg.RelayConfigured() && !cfg.FallbackConfigured() {
		slog.Warn("contact notification is not configured; contact requests will be rejected")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageLocal:
	case StorageS3:
		if c.S3Region == "" {
			return fmt.Errorf("DSC_S3_REGION is required for the s3 storage driver")
		}
		if c.StoragePublicURL == "" {
			return fmt.Errorf("DSC_STORAGE_PUBLIC_URL is required for the s3 storage driver")
		}
	case StorageMinio:
		if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" {
			return fmt.Errorf("DSC_MINIO_ENDPOINT, DSC_MINIO_ACCESS_KEY and DSC_MINIO_SECRET_KEY are required for the minio storage driver")
		}
		if c.StoragePublicURL == "" {
			return fmt.Errorf("DSC_STORAGE_PUBLIC_URL is required for the minio storage driver")
		}
	default:
		return fmt.Errorf("DSC_STORAGE_DRIVER must be one of local, s3, minio; got %q", c.StorageDriver)
	}

	if c.ServicesTTL < 0 {
		return fmt.Errorf("DSC_SERVICES_TTL must not be negative, got %d", c.ServicesTTL)
	}

	if c.SeedEnabled() {
		if err := auth.ValidatePassword(c.AdminPassword); err != nil {
			return fmt.Errorf("DSC_ADMIN_PASSWORD is not usable when DSC_ADMIN_EMAIL is set: %w", err)
		}
	}

	return nil
}
