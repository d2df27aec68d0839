package bootstrap

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
service:
  http_port: 4000
  log_level: debug
dependencies:
  postgres_url: postgres://file/db
store:
  name: Negozio
  attach_receipts: false
events:
  topics:
    order.placed: orders-v2
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigLayersFileThenEnv(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	t.Setenv("DB_URL", "postgres://env/db")
	t.Setenv("TOKEN_EXPIRY_MINUTES", "30")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("ADMIN_EMAIL", " Boss@Example.com ")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != 4000 {
		t.Fatalf("expected file http port, got %d", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "postgres://env/db" {
		t.Fatalf("expected env database url to win, got %s", cfg.DatabaseURL)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m token ttl, got %s", cfg.TokenTTL)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.KafkaTopicByEvent["order.placed"] != "orders-v2" {
		t.Fatalf("expected topic override, got %v", cfg.KafkaTopicByEvent)
	}
	if cfg.AttachReceipts || cfg.StoreName != "Negozio" || cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.BootstrapAdminEmail != "boss@example.com" {
		t.Fatalf("expected normalized admin email, got %q", cfg.BootstrapAdminEmail)
	}
}

func TestLoadConfigDefaultsAndValidation(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	t.Setenv("DB_URL", "")
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(missing); err == nil {
		t.Fatalf("expected error without a database url")
	}

	t.Setenv("DB_URL", "postgres://env/db")
	cfg, err := LoadConfig(missing)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.TokenTTL != time.Hour || cfg.ResetTokenTTL != time.Hour {
		t.Fatalf("unexpected token defaults %s / %s", cfg.TokenTTL, cfg.ResetTokenTTL)
	}
	if cfg.TrustProxy {
		t.Fatalf("forwarding headers must not be trusted by default")
	}
	t.Setenv("TRUST_PROXY", "true")
	if cfg, err = LoadConfig(missing); err != nil || !cfg.TrustProxy {
		t.Fatalf("expected TRUST_PROXY to enable proxy headers, got %v %v", cfg.TrustProxy, err)
	}
	t.Setenv("TRUST_PROXY", "")

	t.Setenv("RESET_TOKEN_EXPIRY_MINUTES", "120")
	if _, err := LoadConfig(missing); err == nil {
		t.Fatalf("expected reset expiry above one hour to be rejected")
	}
	t.Setenv("RESET_TOKEN_EXPIRY_MINUTES", "")

	t.Setenv("JWT_ALLOW_EPHEMERAL", "false")
	if _, err := LoadConfig(missing); err == nil {
		t.Fatalf("expected missing jwt keys to be rejected when ephemeral keys are disabled")
	}
}
