package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "vnpy-duckdb", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.App.LogLevel)

	assert.Equal(t, "vnpy.duckdb", cfg.DuckDB.Path)
	assert.Equal(t, "bar_overview", cfg.DuckDB.SchemaMarker)
	assert.Equal(t, 3, cfg.DuckDB.OpenRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.DuckDB.OpenRetryBackoff)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("DUCKDB_PATH", "/data/market.duckdb")
	t.Setenv("DUCKDB_OPEN_RETRIES", "5")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "/data/market.duckdb", cfg.DuckDB.Path)
	assert.Equal(t, 5, cfg.DuckDB.OpenRetries)
}
