package config_test

import (
	"testing"

	"markethub/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 6, cfg.Catalog.FeaturedLimit)
	assert.Equal(t, 4, cfg.Catalog.RelatedLimit)
	assert.Equal(t, 12, cfg.Catalog.PerPage)
	assert.Equal(t, []string{"uploads/products/", "assets/images/"}, cfg.Images.Prefixes)
	assert.False(t, cfg.Images.FuzzyMatch)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]any{
		"CATALOG_FEATURED_LIMIT":       3,
		"IMAGE_PREFIXES":               "a/, b/ ,",
		"IMAGE_FUZZY_MATCH":            true,
		"RECONCILE_FALLBACK_VENDOR_ID": 42,
	}))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Catalog.FeaturedLimit)
	assert.Equal(t, []string{"a/", "b/"}, cfg.Images.Prefixes)
	assert.True(t, cfg.Images.FuzzyMatch)
	assert.Equal(t, uint(42), cfg.FallbackVendorID)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := map[string]map[string]any{
		"unknown driver":     {"DB_DRIVER": "oracle"},
		"short jwt secret":   {"JWT_SECRET": "short"},
		"zero featured":      {"CATALOG_FEATURED_LIMIT": 0},
		"s3 without bucket":  {"STORAGE_DRIVER": "s3"},
		"admin w/o password": {"ADMIN_EMAIL": "admin@example.com"},
		"no image prefixes":  {"IMAGE_PREFIXES": " , "},
	}
	for name, overrides := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.FromViper(newViper(overrides))
			assert.Error(t, err)
		})
	}
}
