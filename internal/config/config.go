// Package config loads service and client settings from the environment.
//
// A .env file in the working directory is read first (if present), then
// viper resolves every key from the process environment with the defaults
// declared here.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the API service.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Sales    SalesConfig
	Log      LogConfig
}

type AppConfig struct {
	Environment string
	Port        string
	CORSOrigins []string
	AutoMigrate bool
	SeedDemo    bool
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	LogSQL   bool
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type SalesConfig struct {
	// TaxRate is applied to the cart subtotal (PPN).
	TaxRate decimal.Decimal
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// ClientConfig holds settings for the posctl command-line client.
type ClientConfig struct {
	APIURL          string
	CredentialsPath string
	Timeout         time.Duration
	Log             LogConfig
}

const defaultJWTSecret = "change-me-in-production"

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the API service configuration.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("SEED_DEMO", false)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "umkm_pos")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_LOG_SQL", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("TAX_RATE", "0.11")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	taxRate, err := decimal.NewFromString(v.GetString("TAX_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE %q: %w", v.GetString("TAX_RATE"), err)
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("TAX_RATE must be between 0 and 1, got %s", taxRate)
	}

	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL %q", v.GetString("JWT_TTL"))
	}

	cfg := &Config{
		App: AppConfig{
			Environment: v.GetString("APP_ENV"),
			Port:        v.GetString("PORT"),
			CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AutoMigrate: v.GetBool("AUTO_MIGRATE"),
			SeedDemo:    v.GetBool("SEED_DEMO"),
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			LogSQL:   v.GetBool("DB_LOG_SQL"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  ttl,
		},
		Sales: SalesConfig{TaxRate: taxRate},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
	}

	if cfg.App.Environment == "production" && cfg.Auth.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a keyword DSN built from DB_*.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Asia/Jakarta",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

// LoadClient reads the posctl configuration.
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	v := newViper()
	v.SetDefault("POSCTL_API_URL", "http://localhost:3000/api/v1")
	v.SetDefault("POSCTL_CREDENTIALS", "")
	v.SetDefault("POSCTL_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_PRETTY", true)

	timeout, err := time.ParseDuration(v.GetString("POSCTL_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid POSCTL_TIMEOUT %q: %w", v.GetString("POSCTL_TIMEOUT"), err)
	}

	return &ClientConfig{
		APIURL:          strings.TrimRight(v.GetString("POSCTL_API_URL"), "/"),
		CredentialsPath: v.GetString("POSCTL_CREDENTIALS"),
		Timeout:         timeout,
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
