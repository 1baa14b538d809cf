package config

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFileSystem implements FileSystem for testing.
type MockFileSystem struct {
	HomeDir     string
	HomeDirErr  error
	Files       map[string][]byte
	ReadFileErr error
}

func (m *MockFileSystem) UserHomeDir() (string, error) {
	return m.HomeDir, m.HomeDirErr
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.Model.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model.GeminiModel)
	assert.Equal(t, 30, cfg.Model.RequestTimeoutSeconds)
	assert.Equal(t, 10, cfg.Agent.HistorySize)
}

func TestLoad_PartialOverride_MergesWithDefaults(t *testing.T) {
	configJSON := `{
		"model": {"provider": "openrouter", "request_timeout_seconds": 60}
	}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/deskagent/config.json": []byte(configJSON),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "openrouter", cfg.Model.Provider)
	assert.Equal(t, 60, cfg.Model.RequestTimeoutSeconds)
	// Untouched keys keep their defaults.
	assert.Equal(t, "gemini-2.5-flash", cfg.Model.GeminiModel)
	assert.Equal(t, 10, cfg.Agent.HistorySize)
}

func TestLoad_FullOverride_AllValuesReplaced(t *testing.T) {
	configJSON := `{
		"model": {
			"provider": "gemini",
			"gemini_model": "gemini-2.5-pro",
			"openrouter_model": "anthropic/claude-sonnet-4",
			"request_timeout_seconds": 120
		},
		"agent": {
			"history_size": 25,
			"context_commands": 5,
			"audit_log_dir": "/var/log/deskagent",
			"debug": true
		}
	}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/deskagent/config.json": []byte(configJSON),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model.GeminiModel)
	assert.Equal(t, 120, cfg.Model.RequestTimeoutSeconds)
	assert.Equal(t, 25, cfg.Agent.HistorySize)
	assert.Equal(t, "/var/log/deskagent", cfg.Agent.AuditLogDir)
	assert.True(t, cfg.Agent.Debug)
}

func TestLoad_MalformedJSON_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/deskagent/config.json": []byte(`{"model": {`),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PermissionError_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir:     "/home/user",
		ReadFileErr: errors.New("permission denied"),
	}
	loader := NewLoaderWithFS(fs)

	_, err := loader.Load()

	require.Error(t, err)
}

func TestLoad_NoHomeDir_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{
		HomeDirErr: errors.New("no home"),
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.Model.Provider)
}

func TestLoad_InvalidValues_ReturnsValidationError(t *testing.T) {
	configJSON := `{"model": {"provider": "llama-at-home"}}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/deskagent/config.json": []byte(configJSON),
		},
	}
	loader := NewLoaderWithFS(fs)

	_, err := loader.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model.provider")
}
