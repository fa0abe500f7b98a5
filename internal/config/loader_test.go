package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var plannerVars = []string{
	"PLANNER_PORT",
	"PLANNER_HOST",
	"PLANNER_READ_TIMEOUT",
	"PLANNER_DB_DRIVER",
	"PLANNER_DB_DSN",
	"PLANNER_LOG_LEVEL",
	"PLANNER_LOG_FORMAT",
	"PLANNER_CACHE_TTL",
	"PLANNER_CACHE_SIZE",
}

// clearEnv unsets every planner variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range plannerVars {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:planner.db", cfg.Database.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 128, cfg.Cache.Size)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANNER_PORT", "9090")
	t.Setenv("PLANNER_DB_DRIVER", " Postgres ")
	t.Setenv("PLANNER_DB_DSN", "postgres://planner@localhost/planner")
	t.Setenv("PLANNER_LOG_FORMAT", "text")
	t.Setenv("PLANNER_CACHE_TTL", "1m")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://planner@localhost/planner", cfg.Database.DSN)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANNER_PORT", "-1")
	t.Setenv("PLANNER_DB_DRIVER", "mysql")
	t.Setenv("PLANNER_CACHE_SIZE", "-5")

	_, err := load()
	require.Error(t, err)
	assert.Equal(t, "invalid environment values: PLANNER_PORT, PLANNER_DB_DRIVER, PLANNER_CACHE_SIZE", err.Error())
}

func TestLoad_UnparseableValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANNER_READ_TIMEOUT", "soon")

	_, err := load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load server config")
}

func TestLoad_ReadsDotEnvWithoutOverriding(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PLANNER_PORT=7070\nPLANNER_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("PLANNER_LOG_LEVEL", "warn")

	cfg, err := load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}
