package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsMatchDefaultEditor(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultEditor(), cfg.Editor)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadReadsEditorOverrides(t *testing.T) {
	t.Setenv("PASTE_OFFSET", "12.5")
	t.Setenv("HISTORY_LIMIT", "3")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12.5, cfg.PasteOffset)
	assert.Equal(t, 3, cfg.HistoryLimit)
}

func TestLevel(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	cfg.LogLevel = "loud"
	_, err = cfg.Level()
	assert.Error(t, err)
}
