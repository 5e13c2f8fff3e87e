package config

import (
	"os"
	"testing"
	"time"

	"github.com/pollready/pollready/internal/polling"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad_EnvSubstitution(t *testing.T) {
	os.Setenv("TEST_MOCK_DATA", "from-env")
	defer os.Unsetenv("TEST_MOCK_DATA")

	path := writeTemp(t, `
mock:
  data: ${TEST_MOCK_DATA}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Mock.Data != "from-env" {
		t.Errorf("Expected mock data from-env, got %s", cfg.Mock.Data)
	}
}

func TestLoad_PollDefaultsPreserved(t *testing.T) {
	path := writeTemp(t, `
poll:
  retries: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Poll.Retries != 5 {
		t.Errorf("Expected retries 5, got %d", cfg.Poll.Retries)
	}
	if cfg.Poll.Interval != 3*time.Second {
		t.Errorf("Absent interval should keep the default 3s, got %s", cfg.Poll.Interval)
	}
	if !cfg.Poll.LiveUpdates {
		t.Error("Absent live_updates should keep the default true")
	}
	if cfg.Poll.Strategy != polling.StrategyLinear {
		t.Errorf("Absent strategy should keep linear, got %s", cfg.Poll.Strategy)
	}
}

func TestLoad_ExplicitOverrides(t *testing.T) {
	path := writeTemp(t, `
logging:
  level: debug
poll:
  strategy: exponential
  live_updates: false
mock:
  addr: ":9999"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Poll.Strategy != polling.StrategyExponential {
		t.Errorf("Expected exponential, got %s", cfg.Poll.Strategy)
	}
	if cfg.Poll.LiveUpdates {
		t.Error("Explicit live_updates: false must win over the default")
	}
	if cfg.Mock.Addr != ":9999" {
		t.Errorf("Expected mock addr :9999, got %s", cfg.Mock.Addr)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected an error for a missing config file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Poll.Validate(); err != nil {
		t.Errorf("Default poll options must validate, got %v", err)
	}
	if cfg.Mock.Addr == "" {
		t.Error("Default mock addr must be set")
	}
}
