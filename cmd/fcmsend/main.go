// Command fcmsend delivers one push notification to one device token.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/nightly-labs/oauth-fcm/internal/config"
	"github.com/nightly-labs/oauth-fcm/pkg/fcm"
	"github.com/nightly-labs/oauth-fcm/pkg/oauth"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	deviceToken := flag.String("token", "", "device token to send to (required)")
	title := flag.String("title", "", "notification title")
	body := flag.String("body", "", "notification body")
	dataJSON := flag.String("data", "", "data payload as a JSON object")
	silent := flag.Bool("silent", false, "send as a silent (background) push")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(logger, *configPath, *deviceToken, *title, *body, *dataJSON, *silent); err != nil {
		logger.Error("Send failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, deviceToken, title, body, dataJSON string, silent bool) error {
	if deviceToken == "" {
		return errors.New("-token is required")
	}

	// Best effort: a missing .env just means the environment is already set.
	_ = godotenv.Load()

	yamlCfg, err := config.LoadYamlConfig(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		logger.Warn("Config file missing, relying on environment variables", "path", configPath)
		yamlCfg = &config.YamlConfig{}
	}

	cfg, err := config.NewConfigFromYaml(yamlCfg, logger)
	if err != nil {
		return err
	}
	cfg, err = config.UpdateConfigWithEnvOverrides(cfg, logger)
	if err != nil {
		return err
	}

	tokenManager, err := oauth.NewTokenManagerFromFile(cfg.CredentialsFile, oauth.WithLogger(logger))
	if err != nil {
		return err
	}

	opts := []fcm.Option{
		fcm.WithLogger(logger),
		fcm.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, fcm.WithEndpoint(cfg.Endpoint))
	}
	client := fcm.NewClient(tokenManager, opts...)

	msg := &fcm.Message{Token: deviceToken}
	if title != "" || body != "" {
		msg.Notification = &fcm.Notification{Title: title, Body: body}
	}
	if dataJSON != "" {
		var data map[string]any
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
			return fmt.Errorf("parse -data: %w", err)
		}
		msg.Data = data
	}
	if silent {
		msg.APNS = fcm.SilentPushAPNSConfig()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := client.Send(ctx, cfg.ProjectID, msg); err != nil {
		return err
	}
	logger.Info("Message delivered", "project_id", cfg.ProjectID)
	return nil
}
