package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, domain.DefaultPolicy(), cfg.Analysis.Policy())
	assert.Equal(t, 5, cfg.Analysis.SuggestionPlies)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "study.yaml", `
storage:
  path: /tmp/study-db
  flush_interval: 10s
log:
  level: debug
  file: /tmp/study.log
analysis:
  blunder_drop: 25
  suggestion_plies: 3
ui:
  orientation: black
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/study-db", cfg.Storage.Path)
	assert.Equal(t, 10*time.Second, cfg.Storage.FlushInterval)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.Equal(t, "/tmp/study.log", cfg.Log.File)
	assert.Equal(t, 25.0, cfg.Analysis.Policy().BlunderDrop)
	assert.Equal(t, 10.0, cfg.Analysis.MistakeDrop, "unset fields keep defaults")
	assert.Equal(t, 3, cfg.Analysis.SuggestionPlies)
	assert.Equal(t, domain.Black, cfg.UI.BoardOrientation())
}

func TestLoad_JSONFallback(t *testing.T) {
	path := writeFile(t, "study.json", `{"log": {"level": "warn", "format": "json"}, "ui": {"sounds": false}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, cfg.Log.SlogLevel())
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.UI.Sounds)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "study.yaml", "log:\n  level: debug\nanalysis:\n  suggestion_plies: 3\n")
	t.Setenv("STUDY_LOG_LEVEL", "ERROR")
	t.Setenv("STUDY_SUGGESTION_PLIES", "8")
	t.Setenv("STUDY_STORAGE_IN_MEMORY", "1")
	t.Setenv("STUDY_STORAGE_PATH", "")
	t.Setenv("STUDY_SOUNDS", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Analysis.SuggestionPlies)
	assert.True(t, cfg.Storage.InMemory)
	assert.False(t, cfg.UI.Sounds)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown level", "log:\n  level: verbose\n"},
		{"mistake above blunder", "analysis:\n  blunder_drop: 10\n  mistake_drop: 15\n"},
		{"zero plies", "analysis:\n  suggestion_plies: 0\n"},
		{"no path on disk", "storage:\n  path: \"\"\n"},
		{"bad orientation", "ui:\n  orientation: sideways\n"},
		{"not yaml or json", "log: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "study.yaml", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_InMemoryNeedsNoPath(t *testing.T) {
	path := writeFile(t, "study.yaml", "storage:\n  path: \"\"\n  in_memory: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Storage.InMemory)
}
