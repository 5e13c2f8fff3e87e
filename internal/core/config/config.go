package config

import (
	"github.com/pollready/pollready/internal/infra/mockapi"
	"github.com/pollready/pollready/internal/polling"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Logging LoggingConfig   `yaml:"logging"`
	Poll    polling.Options `yaml:"poll"`
	Mock    mockapi.Config  `yaml:"mock"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
