package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"markethub/internal/config"
	"markethub/internal/reconcile"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("DB_DRIVER", "sqlite")
	v.Set("DATABASE_DSN", filepath.Join(t.TempDir(), "markethub.db"))
	v.Set("STORAGE_ROOT", t.TempDir())
	v.Set("JWT_SECRET", "test_jwt_secret")
	v.Set("ADMIN_EMAIL", "admin@example.com")
	v.Set("ADMIN_PASSWORD", "admin-password")
	v.Set("SEED_DEMO_DATA", true)

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestRun_ReconcileAll(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	err := run(context.Background(), cfg, []string{"reconcile"}, &out, zap.NewNop())
	require.NoError(t, err)

	var reports []reconcile.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, 5)
	assert.Equal(t, "vendor-store-backfill", reports[0].Job)
	for _, r := range reports {
		assert.NotEqual(t, "activity-log-purge", r.Job)
	}
}

func TestRun_ReconcileSingleJob(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	err := run(context.Background(), cfg, []string{"reconcile", "activity-log-purge"}, &out, zap.NewNop())
	require.NoError(t, err)

	var reports []reconcile.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "activity-log-purge", reports[0].Job)
}

func TestRun_UnknownJob(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	err := run(context.Background(), cfg, []string{"reconcile", "no-such-job"}, &out, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-job")
}

func TestRun_UnknownCommand(t *testing.T) {
	cfg := testConfig(t)

	err := run(context.Background(), cfg, []string{"migrate"}, &bytes.Buffer{}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
