package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("NOTIFY_POLL_INTERVAL_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	require.Empty(t, cfg.Postgres.DSN)
	require.Empty(t, cfg.Redis.Addr)
	require.Equal(t, 30*time.Second, cfg.Notification.PollInterval())
	require.Equal(t, 5, cfg.Report.TopAgencies)
	require.EqualValues(t, 5, cfg.Postgres.ConnectTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("NOTIFY_POLL_INTERVAL_SECONDS", "10")
	t.Setenv("REPORT_TOP_AGENCIES", "3")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.App.Port)
	require.Equal(t, 10*time.Second, cfg.Notification.PollInterval())
	require.Equal(t, 3, cfg.Report.TopAgencies)
	require.False(t, cfg.Postgres.RunMigrations)
	require.Equal(t, int32(10), cfg.Postgres.MaxConns)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	require.Error(t, err)
}
