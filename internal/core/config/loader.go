package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/pollready/pollready/internal/infra/mockapi"
	"github.com/pollready/pollready/internal/polling"
)

// Load reads configuration from a YAML file. Environment variables in
// the file are expanded before parsing. Poll options start from the
// engine defaults, so absent keys keep their documented values.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Mock.Addr == "" {
		cfg.Mock.Addr = ":8404"
	}

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *AppConfig {
	return &AppConfig{
		Logging: LoggingConfig{Level: "info"},
		Poll:    polling.DefaultOptions(),
		Mock: mockapi.Config{
			Addr:       ":8404",
			ReadyAfter: 3,
			Mode:       mockapi.ModeReady,
		},
	}
}
