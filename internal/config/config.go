package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinJWTSecretLength mirrors the signing key requirement enforced at startup.
const MinJWTSecretLength = 32

const (
	defaultJWTSecret       = "dev-secret-change-me-dev-secret-change-me"
	defaultJWTExpirationMs = 86400000
	defaultCurrency        = "INR"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Payments     PaymentsConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN disables persistence.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token signing and password hashing parameters.
type AuthConfig struct {
	JWTSecret       string
	JWTExpirationMs int64
	BcryptCost      int
}

// PaymentsConfig holds the payment provider credentials.
type PaymentsConfig struct {
	KeyID            string
	KeySecret        string
	Currency         string
	ReplayTTLMinutes int
}

// NotificationConfig holds notification targets. An empty webhook URL disables delivery.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from the environment and an optional .env file.
// Malformed numbers in required settings and an unusable signing secret are errors.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	authCfg, err := loadAuth()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "art-gallery-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth:         authCfg,
		Payments:     loadPayments(),
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadAuth() (AuthConfig, error) {
	expirationMs, err := strconv.ParseInt(getEnv("AUTH_JWT_EXPIRATION_MS", strconv.Itoa(defaultJWTExpirationMs)), 10, 64)
	if err != nil {
		return AuthConfig{}, fmt.Errorf("invalid AUTH_JWT_EXPIRATION_MS: %w", err)
	}
	return AuthConfig{
		JWTSecret:       getEnv("AUTH_JWT_SECRET", defaultJWTSecret),
		JWTExpirationMs: expirationMs,
		BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", 12),
	}, nil
}

func loadPayments() PaymentsConfig {
	return PaymentsConfig{
		KeyID:            strings.TrimSpace(os.Getenv("RAZORPAY_KEY_ID")),
		KeySecret:        strings.TrimSpace(os.Getenv("RAZORPAY_KEY_SECRET")),
		Currency:         strings.ToUpper(getEnv("PAYMENTS_CURRENCY", defaultCurrency)),
		ReplayTTLMinutes: getEnvAsInt("PAYMENTS_REPLAY_TTL_MINUTES", 1440),
	}
}

// Validate reports every setting the service cannot start with.
func (c *Config) Validate() error {
	return errors.Join(c.Auth.Validate(), c.Payments.Validate())
}

// Validate checks the signing secret and token lifetime. The secret itself never appears in errors.
func (a AuthConfig) Validate() error {
	if len(a.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least %d bytes", MinJWTSecretLength)
	}
	if a.JWTExpirationMs <= 0 {
		return errors.New("AUTH_JWT_EXPIRATION_MS must be positive")
	}
	return nil
}

// TokenLifetime returns the configured session token lifetime.
func (a AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(a.JWTExpirationMs) * time.Millisecond
}

// Validate rejects half-configured credentials and malformed currency codes.
func (p PaymentsConfig) Validate() error {
	if (p.KeyID == "") != (p.KeySecret == "") {
		return errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set together")
	}
	if len(p.Currency) != 3 {
		return fmt.Errorf("PAYMENTS_CURRENCY must be a 3-letter code, got %q", p.Currency)
	}
	return nil
}

// Enabled reports whether payment provider credentials were supplied.
func (p PaymentsConfig) Enabled() bool {
	return p.KeyID != "" && p.KeySecret != ""
}

// ReplayTTL returns how long verified payment ids are remembered.
func (p PaymentsConfig) ReplayTTL() time.Duration {
	if p.ReplayTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(p.ReplayTTLMinutes) * time.Minute
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	parsed, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return parsed
}
