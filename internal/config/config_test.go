package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "./data/runs.db", cfg.DatabasePath)
	assert.Equal(t, "./data/archives", cfg.ArchiveDir)
	assert.Equal(t, 90, cfg.RetentionDays)
	assert.True(t, cfg.RerunEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RERUN_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.RerunEnabled)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabasePath: "", ArchiveDir: "a", RetentionDays: 1}
	assert.Error(t, cfg.Validate())

	cfg = &Config{DatabasePath: "db", ArchiveDir: "", RetentionDays: 1}
	assert.Error(t, cfg.Validate())

	cfg = &Config{DatabasePath: "db", ArchiveDir: "a", RetentionDays: 0}
	assert.Error(t, cfg.Validate())

	cfg = &Config{DatabasePath: "db", ArchiveDir: "a", RetentionDays: 30}
	assert.NoError(t, cfg.Validate())
}
