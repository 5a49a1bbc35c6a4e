// Package config loads and validates the process configuration from the
// environment. Startup aborts on any missing or malformed value.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Env      string `mapstructure:"APP_ENV" validate:"required,oneof=production development test"`
	Port     string `mapstructure:"APP_PORT" validate:"required"`
	LogLevel string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`

	DatabaseDriver    string        `mapstructure:"DATABASE_DRIVER" validate:"required,oneof=postgres sqlite"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL" validate:"required"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS" validate:"gte=1"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS" validate:"gte=0"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME" validate:"gte=0"`

	FrontendURL string `mapstructure:"FRONTEND_URL" validate:"required,url"`
	BackendURL  string `mapstructure:"BACKEND_URL" validate:"required,url"`

	SessionSecret        string        `mapstructure:"SESSION_SECRET" validate:"required,min=32"`
	SessionTTL           time.Duration `mapstructure:"SESSION_TTL" validate:"gt=0"`
	SessionSweepSchedule string        `mapstructure:"SESSION_SWEEP_SCHEDULE"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL" validate:"omitempty,url"`

	MaxPageLimit  int  `mapstructure:"MAX_PAGE_LIMIT" validate:"gte=1,lte=1000"`
	AuthRateLimit int  `mapstructure:"AUTH_RATE_LIMIT" validate:"gte=0"`
	SeedDemoData  bool `mapstructure:"SEED_DEMO_DATA"`
}

// Production reports whether the service runs with production settings.
func (c *Config) Production() bool {
	return c.Env == "production"
}

var keys = []string{
	"APP_ENV", "APP_PORT", "LOG_LEVEL",
	"DATABASE_DRIVER", "DATABASE_URL", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
	"FRONTEND_URL", "BACKEND_URL",
	"SESSION_SECRET", "SESSION_TTL", "SESSION_SWEEP_SCHEDULE",
	"RABBITMQ_URL",
	"MAX_PAGE_LIMIT", "AUTH_RATE_LIMIT", "SEED_DEMO_DATA",
}

// SetDefaults registers the default value of every optional setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("SESSION_TTL", 7*24*time.Hour)
	v.SetDefault("SESSION_SWEEP_SCHEDULE", "@every 1h")
	v.SetDefault("MAX_PAGE_LIMIT", 100)
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("SEED_DEMO_DATA", false)
}

// Load reads an optional .env file and the process environment.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	// Unmarshal only sees keys viper knows about, so bind every env name.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	if err := validate.Struct(&cfg); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make([]string, 0, len(invalid))
			for _, e := range invalid {
				fields = append(fields, fmt.Sprintf("%s (%s)", e.Field(), e.Tag()))
			}
			return nil, fmt.Errorf("invalid environment variables: %s", strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("invalid environment variables: %w", err)
	}
	return &cfg, nil
}
