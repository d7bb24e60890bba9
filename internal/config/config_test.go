package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(FileEnv, "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), *cfg)
	require.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(FileEnv, "")
	t.Setenv("PRESET_MCP_LOG_LEVEL", "DEBUG")
	t.Setenv("PRESET_MCP_LUT_SIZE", "33")
	t.Setenv("PRESET_MCP_OUTPUT_DIR", "/tmp/exports")
	t.Setenv("PRESET_MCP_HTTP_ADDR", ":9000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	require.Equal(t, 33, cfg.LUTSize)
	require.Equal(t, "/tmp/exports", cfg.OutputDir)
	require.Equal(t, ":9000", cfg.HTTPAddr)
	require.Equal(t, 512, cfg.PreviewMaxDim) // default
}

func TestLoad_ValidationError(t *testing.T) {
	t.Setenv(FileEnv, "")
	t.Setenv("PRESET_MCP_LUT_SIZE", "128")

	cfg, err := Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_BadLogLevel(t *testing.T) {
	t.Setenv(FileEnv, "")
	t.Setenv("PRESET_MCP_LOG_LEVEL", "chatty")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset-mcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PRESET_MCP_LUT_SIZE: 9\nPRESET_MCP_TOOL_NAME: Studio\n"), 0o644))
	t.Setenv(FileEnv, path)
	t.Setenv("PRESET_MCP_TOOL_NAME", "Env Wins")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9, cfg.LUTSize)
	require.Equal(t, "Env Wins", cfg.ToolName)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}
