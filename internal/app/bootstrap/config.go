package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the storefront.
// File defaults are overridden by environment variables.
type Config struct {
	ServiceID string
	LogLevel  slog.Level

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string
	MaxDBConns  int32

	JWTPrivateKeyPEM  string
	JWTPublicKeyPEM   string
	JWTKeyID          string
	JWTIssuer         string
	AllowEphemeralJWT bool

	BcryptCost int

	TokenTTL            time.Duration
	ResetTokenTTL       time.Duration
	ResetURLBase        string
	LockoutDuration     time.Duration
	FailedThreshold     int
	BootstrapAdminEmail string

	CORSOrigins       []string
	AuthRatePerMinute int
	AuthBurst         int
	TrustProxy        bool
	CatalogCacheTTL   time.Duration

	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	SMTPFrom       string
	SMTPRequireTLS bool

	StoreName         string
	ReceiptSigningKey string
	AttachReceipts    bool

	KafkaBrokers       []string
	KafkaTopicByEvent  map[string]string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxClaimTTL     time.Duration
	OutboxMaxRetries   int
}

// configFile mirrors the YAML schema used by configs/default.yaml.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
	} `yaml:"dependencies"`
	Store struct {
		Name                string   `yaml:"name"`
		ResetURLBase        string   `yaml:"reset_url_base"`
		BootstrapAdminEmail string   `yaml:"bootstrap_admin_email"`
		CORSOrigins         []string `yaml:"cors_origins"`
		AttachReceipts      *bool    `yaml:"attach_receipts"`
	} `yaml:"store"`
	SMTP struct {
		Host       string `yaml:"host"`
		Port       int    `yaml:"port"`
		Username   string `yaml:"username"`
		From       string `yaml:"from"`
		RequireTLS *bool  `yaml:"require_tls"`
	} `yaml:"smtp"`
	Events struct {
		Topics map[string]string `yaml:"topics"`
	} `yaml:"events"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "storefront-api",
		LogLevel:           slog.LevelInfo,
		HTTPPort:           3000,
		GRPCPort:           9090,
		MaxDBConns:         20,
		JWTKeyID:           "storefront-key-1",
		JWTIssuer:          "storefront",
		AllowEphemeralJWT:  true,
		BcryptCost:         10,
		TokenTTL:           time.Hour,
		ResetTokenTTL:      time.Hour,
		ResetURLBase:       "http://localhost:5173/reset-password",
		LockoutDuration:    15 * time.Minute,
		FailedThreshold:    5,
		CORSOrigins:        []string{"http://localhost:5173"},
		AuthRatePerMinute:  10,
		AuthBurst:          5,
		CatalogCacheTTL:    5 * time.Minute,
		SMTPPort:           587,
		StoreName:          "La Maglieria",
		AttachReceipts:     true,
		KafkaTopicByEvent:  map[string]string{},
		OutboxPollInterval: 2 * time.Second,
		OutboxBatchSize:    100,
		OutboxClaimTTL:     30 * time.Second,
		OutboxMaxRetries:   5,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		applyFile(&cfg, f)
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg.ServiceID = envOrDefault("SERVICE_ID", cfg.ServiceID)
	cfg.LogLevel = parseLevel(envOrDefault("LOG_LEVEL", ""), cfg.LogLevel)
	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("DATABASE_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.JWTPrivateKeyPEM = envOrDefault("JWT_PRIVATE_KEY_PEM", cfg.JWTPrivateKeyPEM)
	cfg.JWTPublicKeyPEM = envOrDefault("JWT_PUBLIC_KEY_PEM", cfg.JWTPublicKeyPEM)
	cfg.JWTKeyID = envOrDefault("JWT_KEY_ID", cfg.JWTKeyID)
	cfg.JWTIssuer = envOrDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.AllowEphemeralJWT = envBool("JWT_ALLOW_EPHEMERAL", cfg.AllowEphemeralJWT)
	cfg.ResetURLBase = envOrDefault("RESET_URL_BASE", cfg.ResetURLBase)
	cfg.BootstrapAdminEmail = strings.ToLower(strings.TrimSpace(envOrDefault("ADMIN_EMAIL", cfg.BootstrapAdminEmail)))
	cfg.CORSOrigins = envCSV("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.SMTPHost = envOrDefault("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPUsername = envOrDefault("SMTP_USER", cfg.SMTPUsername)
	cfg.SMTPPassword = envOrDefault("SMTP_PASS", cfg.SMTPPassword)
	cfg.SMTPFrom = envOrDefault("SMTP_FROM", cfg.SMTPFrom)
	cfg.SMTPRequireTLS = envBool("SMTP_REQUIRE_TLS", cfg.SMTPRequireTLS)
	cfg.StoreName = envOrDefault("STORE_NAME", cfg.StoreName)
	cfg.ReceiptSigningKey = envOrDefault("RECEIPT_SIGNING_KEY", cfg.ReceiptSigningKey)
	cfg.AttachReceipts = envBool("ATTACH_RECEIPTS", cfg.AttachReceipts)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)

	cfg.HTTPPort = envInt("PORT", envInt("HTTP_PORT", cfg.HTTPPort))
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.SMTPPort = envInt("SMTP_PORT", cfg.SMTPPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.FailedThreshold = envInt("FAILED_LOGIN_THRESHOLD", cfg.FailedThreshold)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.AuthRatePerMinute = envInt("AUTH_RATE_PER_MINUTE", cfg.AuthRatePerMinute)
	cfg.AuthBurst = envInt("AUTH_RATE_BURST", cfg.AuthBurst)
	cfg.TrustProxy = envBool("TRUST_PROXY", cfg.TrustProxy)

	cfg.TokenTTL = time.Duration(envInt("TOKEN_EXPIRY_MINUTES", int(cfg.TokenTTL.Minutes()))) * time.Minute
	cfg.ResetTokenTTL = time.Duration(envInt("RESET_TOKEN_EXPIRY_MINUTES", int(cfg.ResetTokenTTL.Minutes()))) * time.Minute
	cfg.LockoutDuration = time.Duration(envInt("ACCOUNT_LOCKOUT_MINUTES", int(cfg.LockoutDuration.Minutes()))) * time.Minute
	cfg.CatalogCacheTTL = time.Duration(envInt("CATALOG_CACHE_SECONDS", int(cfg.CatalogCacheTTL.Seconds()))) * time.Second
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxClaimTTL = time.Duration(envInt("OUTBOX_CLAIM_TTL_SECONDS", int(cfg.OutboxClaimTTL.Seconds()))) * time.Second
	cfg.OutboxMaxRetries = envInt("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/DATABASE_URL")
	}
	if (cfg.JWTPrivateKeyPEM == "" || cfg.JWTPublicKeyPEM == "") && !cfg.AllowEphemeralJWT {
		return Config{}, fmt.Errorf("missing JWT_PRIVATE_KEY_PEM or JWT_PUBLIC_KEY_PEM")
	}
	if cfg.ResetTokenTTL > time.Hour {
		return Config{}, fmt.Errorf("reset token expiry must not exceed one hour")
	}
	if cfg.SMTPHost != "" && cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUsername
	}

	return cfg, nil
}

func applyFile(cfg *Config, f configFile) {
	if f.Service.ID != "" {
		cfg.ServiceID = f.Service.ID
	}
	if f.Service.HTTPPort > 0 {
		cfg.HTTPPort = f.Service.HTTPPort
	}
	if f.Service.GRPCPort > 0 {
		cfg.GRPCPort = f.Service.GRPCPort
	}
	cfg.LogLevel = parseLevel(f.Service.LogLevel, cfg.LogLevel)
	if f.Dependencies.PostgresURL != "" {
		cfg.DatabaseURL = f.Dependencies.PostgresURL
	}
	if f.Dependencies.RedisURL != "" {
		cfg.RedisURL = f.Dependencies.RedisURL
	}
	if len(f.Dependencies.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
	}
	if f.Store.Name != "" {
		cfg.StoreName = f.Store.Name
	}
	if f.Store.ResetURLBase != "" {
		cfg.ResetURLBase = f.Store.ResetURLBase
	}
	if f.Store.BootstrapAdminEmail != "" {
		cfg.BootstrapAdminEmail = f.Store.BootstrapAdminEmail
	}
	if len(f.Store.CORSOrigins) > 0 {
		cfg.CORSOrigins = f.Store.CORSOrigins
	}
	if f.Store.AttachReceipts != nil {
		cfg.AttachReceipts = *f.Store.AttachReceipts
	}
	if f.SMTP.Host != "" {
		cfg.SMTPHost = f.SMTP.Host
	}
	if f.SMTP.Port > 0 {
		cfg.SMTPPort = f.SMTP.Port
	}
	if f.SMTP.Username != "" {
		cfg.SMTPUsername = f.SMTP.Username
	}
	if f.SMTP.From != "" {
		cfg.SMTPFrom = f.SMTP.From
	}
	if f.SMTP.RequireTLS != nil {
		cfg.SMTPRequireTLS = *f.SMTP.RequireTLS
	}
	for event, topic := range f.Events.Topics {
		cfg.KafkaTopicByEvent[event] = topic
	}
}

func parseLevel(raw string, fallback slog.Level) slog.Level {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return fallback
	}
	return level
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
