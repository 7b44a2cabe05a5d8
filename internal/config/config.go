package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config defines the single, authoritative configuration for the CLI.
type Config struct {
	ProjectID       string
	CredentialsFile string
	Endpoint        string
	Timeout         time.Duration
}

// UpdateConfigWithEnvOverrides applies environment variables and final validation.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	if val := os.Getenv("PROJECT_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "PROJECT_ID", "source", "env")
		cfg.ProjectID = val
	}
	if val := os.Getenv("FCM_CREDENTIALS_FILE"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_CREDENTIALS_FILE", "source", "env")
		cfg.CredentialsFile = val
	}
	if val := os.Getenv("FCM_ENDPOINT"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_ENDPOINT", "source", "env")
		cfg.Endpoint = val
	}
	if val := os.Getenv("FCM_TIMEOUT_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil && seconds > 0 {
			logger.Debug("Overriding config value", "key", "FCM_TIMEOUT_SECONDS", "source", "env")
			cfg.Timeout = time.Duration(seconds) * time.Second
		}
	}

	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project_id is required (set via YAML or PROJECT_ID env var)")
	}
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("credentials_file is required (set via YAML or FCM_CREDENTIALS_FILE env var)")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	logger.Debug("Configuration finalized and validated successfully")
	return cfg, nil
}
