package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"MEDSUPPLY_APP_NAME":                  os.Getenv("MEDSUPPLY_APP_NAME"),
		"MEDSUPPLY_APP_ENV":                   os.Getenv("MEDSUPPLY_APP_ENV"),
		"MEDSUPPLY_DATABASE_PATH":             os.Getenv("MEDSUPPLY_DATABASE_PATH"),
		"MEDSUPPLY_DATABASE_BUSY_TIMEOUT_MS":  os.Getenv("MEDSUPPLY_DATABASE_BUSY_TIMEOUT_MS"),
		"MEDSUPPLY_DATABASE_JOURNAL_MODE":     os.Getenv("MEDSUPPLY_DATABASE_JOURNAL_MODE"),
		"MEDSUPPLY_DATABASE_FOREIGN_KEYS":     os.Getenv("MEDSUPPLY_DATABASE_FOREIGN_KEYS"),
		"MEDSUPPLY_LOG_LEVEL":                 os.Getenv("MEDSUPPLY_LOG_LEVEL"),
		"MEDSUPPLY_LOG_FORMAT":                os.Getenv("MEDSUPPLY_LOG_FORMAT"),
		"MEDSUPPLY_STOCK_LOW_STOCK_THRESHOLD": os.Getenv("MEDSUPPLY_STOCK_LOW_STOCK_THRESHOLD"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "medsupply-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "medsupply.db", cfg.Database.Path)
		assert.Equal(t, 5000, cfg.Database.BusyTimeoutMS)
		assert.Equal(t, "wal", cfg.Database.JournalMode)
		assert.True(t, cfg.Database.ForeignKeys)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, "stdout", cfg.Log.Output)
		assert.InDelta(t, 0.20, cfg.Stock.LowStockThreshold, 0.0001)
	})

	t.Run("loads values from environment variables with MEDSUPPLY prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("MEDSUPPLY_APP_NAME", "test-app")
		os.Setenv("MEDSUPPLY_APP_ENV", "testing")
		os.Setenv("MEDSUPPLY_DATABASE_PATH", "/var/lib/medsupply/test.db")
		os.Setenv("MEDSUPPLY_DATABASE_BUSY_TIMEOUT_MS", "2500")
		os.Setenv("MEDSUPPLY_DATABASE_JOURNAL_MODE", "truncate")
		os.Setenv("MEDSUPPLY_LOG_LEVEL", "debug")
		os.Setenv("MEDSUPPLY_LOG_FORMAT", "json")
		os.Setenv("MEDSUPPLY_STOCK_LOW_STOCK_THRESHOLD", "0.35")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "/var/lib/medsupply/test.db", cfg.Database.Path)
		assert.Equal(t, 2500, cfg.Database.BusyTimeoutMS)
		assert.Equal(t, "truncate", cfg.Database.JournalMode)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.InDelta(t, 0.35, cfg.Stock.LowStockThreshold, 0.0001)
	})

	t.Run("foreign keys can be disabled explicitly", func(t *testing.T) {
		clearEnv()
		os.Setenv("MEDSUPPLY_DATABASE_FOREIGN_KEYS", "false")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.Database.ForeignKeys)
	})

	t.Run("rejects unknown journal mode", func(t *testing.T) {
		clearEnv()
		os.Setenv("MEDSUPPLY_DATABASE_JOURNAL_MODE", "ramdisk")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "journal_mode")
	})

	t.Run("rejects negative busy timeout", func(t *testing.T) {
		clearEnv()
		os.Setenv("MEDSUPPLY_DATABASE_BUSY_TIMEOUT_MS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "busy_timeout_ms cannot be negative")
	})

	t.Run("rejects low stock threshold above one", func(t *testing.T) {
		clearEnv()
		os.Setenv("MEDSUPPLY_STOCK_LOW_STOCK_THRESHOLD", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "low_stock_threshold")
	})

	t.Run("zero busy timeout uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("MEDSUPPLY_DATABASE_BUSY_TIMEOUT_MS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (5000) is used
		assert.Equal(t, 5000, cfg.Database.BusyTimeoutMS)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"MEDSUPPLY_APP_ENV":               os.Getenv("MEDSUPPLY_APP_ENV"),
		"MEDSUPPLY_DATABASE_PATH":         os.Getenv("MEDSUPPLY_DATABASE_PATH"),
		"MEDSUPPLY_DATABASE_FOREIGN_KEYS": os.Getenv("MEDSUPPLY_DATABASE_FOREIGN_KEYS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("rejects in-memory database in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("MEDSUPPLY_APP_ENV", "production")
		os.Setenv("MEDSUPPLY_DATABASE_PATH", ":memory:")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be ':memory:' in production")
	})

	t.Run("rejects disabled foreign keys in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("MEDSUPPLY_APP_ENV", "production")
		os.Setenv("MEDSUPPLY_DATABASE_FOREIGN_KEYS", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "foreign_keys must be enabled in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("MEDSUPPLY_APP_ENV", "production")
		os.Setenv("MEDSUPPLY_DATABASE_PATH", "/var/lib/medsupply/medsupply.db")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates DSN with pragmas", func(t *testing.T) {
		cfg := DatabaseConfig{
			Path:          "medsupply.db",
			BusyTimeoutMS: 5000,
			JournalMode:   "wal",
			ForeignKeys:   true,
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "file:medsupply.db?")
		assert.Contains(t, dsn, "_busy_timeout=5000")
		assert.Contains(t, dsn, "_journal_mode=WAL")
		assert.Contains(t, dsn, "_foreign_keys=on")
	})

	t.Run("foreign keys off when disabled", func(t *testing.T) {
		cfg := DatabaseConfig{
			Path:          "test.db",
			BusyTimeoutMS: 1000,
			JournalMode:   "delete",
			ForeignKeys:   false,
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "_foreign_keys=off")
		assert.Contains(t, dsn, "_journal_mode=DELETE")
	})

	t.Run("supports in-memory path", func(t *testing.T) {
		cfg := DatabaseConfig{
			Path:          ":memory:",
			BusyTimeoutMS: 5000,
			JournalMode:   "memory",
			ForeignKeys:   true,
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "file::memory:?")
	})
}
