package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

const defaultJWTSecret = "dev-secret-change-in-production"

var ErrDefaultSecret = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseDriver string // mysql | postgres | memory
	DatabaseDSN    string

	JWTSecret   string
	TokenTTL    time.Duration
	TokenIssuer string

	// ServiceAuthKey guards the maintenance endpoints. Empty disables them.
	ServiceAuthKey string

	CacheDriver   string // memory | redis
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	SchedulerEnabled   bool
	ExpiringCheckEvery time.Duration
}

// Load builds the configuration from the environment. It returns
// ErrDefaultSecret when running in production with the development secret.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "mysql"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/watshodapay?parseTime=true"),

		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 10*time.Minute),
		TokenIssuer: getEnv("TOKEN_ISSUER", "watshodapay"),

		ServiceAuthKey: os.Getenv("SERVICE_AUTH_KEY"),

		CacheDriver:   getEnv("CACHE_DRIVER", "memory"),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: getEnv("SMTP_FROM", "no-reply@watshodapay.com.br"),

		SchedulerEnabled:   getEnvBool("SCHEDULER_ENABLED", true),
		ExpiringCheckEvery: getEnvDuration("EXPIRING_CHECK_EVERY", 3*time.Hour),
	}

	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return nil, ErrDefaultSecret
	}

	return cfg, nil
}

// IsProduction reports whether the process runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MailEnabled reports whether an SMTP relay is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
