package config_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightly-labs/oauth-fcm/internal/config"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewConfigFromYaml(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success - maps all fields correctly", func(t *testing.T) {
		yamlCfg := &config.YamlConfig{
			ProjectID:       "yaml-project",
			CredentialsFile: "/secrets/service-account.json",
			Endpoint:        "https://fcm.example.com",
			TimeoutSeconds:  20,
		}

		cfg, err := config.NewConfigFromYaml(yamlCfg, logger)

		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "yaml-project", cfg.ProjectID)
		assert.Equal(t, "/secrets/service-account.json", cfg.CredentialsFile)
		assert.Equal(t, "https://fcm.example.com", cfg.Endpoint)
		assert.Equal(t, 20*time.Second, cfg.Timeout)
	})

	t.Run("Success - Handles missing optional fields gracefully", func(t *testing.T) {
		yamlCfg := &config.YamlConfig{
			ProjectID:       "minimal-project",
			CredentialsFile: "sa.json",
		}

		cfg, err := config.NewConfigFromYaml(yamlCfg, logger)

		require.NoError(t, err)
		assert.Equal(t, "minimal-project", cfg.ProjectID)
		assert.Empty(t, cfg.Endpoint)
		assert.Zero(t, cfg.Timeout)
	})
}

func TestLoadYamlConfig(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "project_id: file-project\ncredentials_file: sa.json\ntimeout_seconds: 5\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := config.LoadYamlConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "file-project", cfg.ProjectID)
		assert.Equal(t, "sa.json", cfg.CredentialsFile)
		assert.Equal(t, 5, cfg.TimeoutSeconds)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := config.LoadYamlConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("project_id: [oops"), 0o600))

		_, err := config.LoadYamlConfig(path)
		require.Error(t, err)
	})
}

func TestUpdateConfigWithEnvOverrides(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success - env wins over yaml", func(t *testing.T) {
		t.Setenv("PROJECT_ID", "env-project")
		t.Setenv("FCM_CREDENTIALS_FILE", "/env/sa.json")
		t.Setenv("FCM_ENDPOINT", "https://mock.local")
		t.Setenv("FCM_TIMEOUT_SECONDS", "30")

		cfg, err := config.UpdateConfigWithEnvOverrides(&config.Config{
			ProjectID:       "yaml-project",
			CredentialsFile: "yaml.json",
		}, logger)

		require.NoError(t, err)
		assert.Equal(t, "env-project", cfg.ProjectID)
		assert.Equal(t, "/env/sa.json", cfg.CredentialsFile)
		assert.Equal(t, "https://mock.local", cfg.Endpoint)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})

	t.Run("Success - defaults timeout", func(t *testing.T) {
		t.Setenv("FCM_TIMEOUT_SECONDS", "")
		cfg, err := config.UpdateConfigWithEnvOverrides(&config.Config{
			ProjectID:       "p",
			CredentialsFile: "sa.json",
		}, logger)

		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
	})

	t.Run("Rejects missing project_id", func(t *testing.T) {
		t.Setenv("PROJECT_ID", "")
		_, err := config.UpdateConfigWithEnvOverrides(&config.Config{
			CredentialsFile: "sa.json",
		}, logger)
		require.Error(t, err)
	})

	t.Run("Rejects missing credentials_file", func(t *testing.T) {
		t.Setenv("FCM_CREDENTIALS_FILE", "")
		_, err := config.UpdateConfigWithEnvOverrides(&config.Config{
			ProjectID: "p",
		}, logger)
		require.Error(t, err)
	})
}
