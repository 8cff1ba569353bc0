package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envVars = []string{
	"TOPSIS_PORT", "TOPSIS_METRICS_PORT", "TOPSIS_MAX_BODY_BYTES", "TOPSIS_ADMIN_TOKEN",
	"TOPSIS_DATABASE_URL", "TOPSIS_HERMES_URL", "TOPSIS_PUSHGATEWAY_URL",
	"TOPSIS_LOG_LEVEL", "TOPSIS_LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.MaxBodyBytes != 10<<20 {
		t.Errorf("expected 10MiB body limit, got %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected no database by default, got %s", cfg.Database.URL)
	}
	if cfg.Hermes.URL != "" {
		t.Errorf("expected no hermes by default, got %s", cfg.Hermes.URL)
	}
	if cfg.Metrics.PushgatewayURL != "" {
		t.Errorf("expected no pushgateway by default, got %s", cfg.Metrics.PushgatewayURL)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Logging.Format)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "topsis.yaml")
	yml := `
server:
  port: 9100
database:
  url: postgres://localhost/topsis
logging:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected default metrics port, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Database.URL != "postgres://localhost/topsis" {
		t.Errorf("unexpected database URL %s", cfg.Database.URL)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TOPSIS_PORT", "9000")
	t.Setenv("TOPSIS_METRICS_PORT", "9001")
	t.Setenv("TOPSIS_MAX_BODY_BYTES", "2048")
	t.Setenv("TOPSIS_ADMIN_TOKEN", "s3cret")
	t.Setenv("TOPSIS_DATABASE_URL", "postgres://localhost/topsis_test")
	t.Setenv("TOPSIS_HERMES_URL", "nats://nats:4222")
	t.Setenv("TOPSIS_PUSHGATEWAY_URL", "http://pushgateway:9091")
	t.Setenv("TOPSIS_LOG_LEVEL", "debug")
	t.Setenv("TOPSIS_LOG_FORMAT", "text")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9001 {
		t.Errorf("expected metrics port 9001, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.MaxBodyBytes != 2048 {
		t.Errorf("expected body limit 2048, got %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Server.AdminToken != "s3cret" {
		t.Errorf("expected admin token, got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://localhost/topsis_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Hermes.URL != "nats://nats:4222" {
		t.Errorf("expected hermes URL, got '%s'", cfg.Hermes.URL)
	}
	if cfg.Metrics.PushgatewayURL != "http://pushgateway:9091" {
		t.Errorf("expected pushgateway URL, got '%s'", cfg.Metrics.PushgatewayURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected log format 'text', got '%s'", cfg.Logging.Format)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOPSIS_PORT", "not-a-port")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8700 {
		t.Errorf("expected default port on malformed env, got %d", cfg.Server.Port)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "text"}.NewLogger(&buf)
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info to be disabled at warn level")
	}
	logger.Warn("careful", "k", "v")
	if !strings.Contains(buf.String(), "msg=careful") {
		t.Errorf("expected text output, got %q", buf.String())
	}

	buf.Reset()
	logger = LoggingConfig{Level: "bogus"}.NewLogger(&buf)
	logger.Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}
