package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// YamlConfig is the structure that mirrors the raw config.yaml file.
type YamlConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	Endpoint        string `yaml:"endpoint"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// LoadYamlConfig reads and parses the config file at path.
func LoadYamlConfig(path string) (*YamlConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg YamlConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}

// NewConfigFromYaml converts the YamlConfig into a clean, base Config struct.
func NewConfigFromYaml(baseCfg *YamlConfig, logger *slog.Logger) (*Config, error) {
	logger.Debug("Mapping YAML config to base config struct")

	cfg := &Config{
		ProjectID:       baseCfg.ProjectID,
		CredentialsFile: baseCfg.CredentialsFile,
		Endpoint:        baseCfg.Endpoint,
		Timeout:         time.Duration(baseCfg.TimeoutSeconds) * time.Second,
	}

	logger.Debug("YAML config mapping complete",
		"project_id", cfg.ProjectID,
		"credentials_file", cfg.CredentialsFile,
	)

	return cfg, nil
}
