package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "memory", cfg.Checkpoint.Driver)
	assert.Equal(t, 3, cfg.MaxEmptyRetries)
	assert.Equal(t, "gpt-4o", cfg.ModelFor("primary_assistant"))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: anthropic
default_model: claude-sonnet-4-20250514
models:
  coder_assistant: claude-opus-4-20250514
checkpoint:
  driver: sqlite
  path: sessions.db
logging:
  level: debug
  format: json
max_empty_retries: 5
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sqlite", cfg.Checkpoint.Driver)
	assert.Equal(t, "sessions.db", cfg.Checkpoint.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.MaxEmptyRetries)
	assert.Equal(t, "claude-opus-4-20250514", cfg.ModelFor("coder_assistant"))
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.ModelFor("tester_assistant"))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AGENTGRAPH_PROVIDER", "anthropic")
	t.Setenv("AGENTGRAPH_LOG_LEVEL", "warn")
	t.Setenv("AGENTGRAPH_CHECKPOINT_PATH", "/tmp/cp.db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "sqlite", cfg.Checkpoint.Driver)
	assert.Equal(t, "/tmp/cp.db", cfg.Checkpoint.Path)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: cohere\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown provider")
}

func TestLoad_SQLiteRequiresPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("checkpoint:\n  driver: sqlite\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "requires a path")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
