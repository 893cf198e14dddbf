// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds every setting the service reads at startup.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT" validate:"required"`
	DBDriver    string `mapstructure:"DB_DRIVER" validate:"oneof=sqlite postgres"`
	DatabaseDSN string `mapstructure:"DATABASE_DSN" validate:"required"`
	JWTSecret   string `mapstructure:"JWT_SECRET" validate:"required,min=8"`

	RabbitMQURL    string `mapstructure:"RABBITMQ_URL"`
	ReconcileQueue string `mapstructure:"RECONCILE_QUEUE" validate:"required"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"oneof=console json"`

	Catalog CatalogConfig `mapstructure:",squash"`
	Storage StorageConfig `mapstructure:",squash"`
	Images  ImageConfig   `mapstructure:",squash"`

	FallbackVendorID uint `mapstructure:"RECONCILE_FALLBACK_VENDOR_ID"`

	AdminEmail    string `mapstructure:"ADMIN_EMAIL" validate:"omitempty,email"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD" validate:"required_with=AdminEmail,omitempty,min=8"`
	SeedDemoData  bool   `mapstructure:"SEED_DEMO_DATA"`
}

// CatalogConfig tunes the catalog read model.
type CatalogConfig struct {
	FeaturedLimit    int    `mapstructure:"CATALOG_FEATURED_LIMIT" validate:"gte=1"`
	RelatedLimit     int    `mapstructure:"CATALOG_RELATED_LIMIT" validate:"gte=0"`
	PerPage          int    `mapstructure:"CATALOG_PER_PAGE" validate:"gte=1,lte=100"`
	PlaceholderImage string `mapstructure:"CATALOG_PLACEHOLDER_IMAGE" validate:"required"`
}

// StorageConfig selects the file store holding product images.
type StorageConfig struct {
	Driver      string `mapstructure:"STORAGE_DRIVER" validate:"oneof=local s3"`
	Root        string `mapstructure:"STORAGE_ROOT"`
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Bucket    string `mapstructure:"S3_BUCKET" validate:"required_if=Driver s3"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY" validate:"required_if=Driver s3"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY" validate:"required_if=Driver s3"`
	S3PathStyle bool   `mapstructure:"S3_USE_PATH_STYLE"`
}

// ImageConfig drives the image path repair job.
type ImageConfig struct {
	Prefixes   []string `mapstructure:"IMAGE_PREFIXES" validate:"min=1,dive,required"`
	PoolDir    string   `mapstructure:"IMAGE_POOL_DIR"`
	FuzzyMatch bool     `mapstructure:"IMAGE_FUZZY_MATCH"`
}

var keys = []string{
	"APP_PORT", "DB_DRIVER", "DATABASE_DSN", "JWT_SECRET",
	"RABBITMQ_URL", "RECONCILE_QUEUE", "LOG_LEVEL", "LOG_FORMAT",
	"CATALOG_FEATURED_LIMIT", "CATALOG_RELATED_LIMIT", "CATALOG_PER_PAGE", "CATALOG_PLACEHOLDER_IMAGE",
	"STORAGE_DRIVER", "STORAGE_ROOT", "S3_ENDPOINT", "S3_REGION", "S3_BUCKET",
	"S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_USE_PATH_STYLE",
	"IMAGE_PREFIXES", "IMAGE_POOL_DIR", "IMAGE_FUZZY_MATCH",
	"RECONCILE_FALLBACK_VENDOR_ID", "ADMIN_EMAIL", "ADMIN_PASSWORD", "SEED_DEMO_DATA",
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "markethub.db")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RECONCILE_QUEUE", "markethub.reconciliation")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("CATALOG_FEATURED_LIMIT", 6)
	v.SetDefault("CATALOG_RELATED_LIMIT", 4)
	v.SetDefault("CATALOG_PER_PAGE", 12)
	v.SetDefault("CATALOG_PLACEHOLDER_IMAGE", "assets/images/placeholder-product.jpg")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_ROOT", ".")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_PATH_STYLE", true)
	v.SetDefault("IMAGE_PREFIXES", "uploads/products/,assets/images/")
	v.SetDefault("IMAGE_POOL_DIR", "assets/images/")
	v.SetDefault("IMAGE_FUZZY_MATCH", false)
	v.SetDefault("RECONCILE_FALLBACK_VENDOR_ID", 0)
	v.SetDefault("SEED_DEMO_DATA", false)
}

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv() // Load environment variables
	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	// AutomaticEnv only answers Get for known keys; Unmarshal needs them bound.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Images.Prefixes = splitList(v.GetString("IMAGE_PREFIXES"))

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
