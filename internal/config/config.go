// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration values loaded from file or environment variables.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	Port               string        `mapstructure:"PORT"`
	Env                string        `mapstructure:"APP_ENV"`
	DBDriver           string        `mapstructure:"DB_DRIVER"`
	DBHost             string        `mapstructure:"DB_HOST"`
	DBPort             string        `mapstructure:"DB_PORT"`
	DBUser             string        `mapstructure:"DB_USER"`
	DBPassword         string        `mapstructure:"DB_PASSWORD"`
	DBName             string        `mapstructure:"DB_NAME"`
	DBSSLMode          string        `mapstructure:"DB_SSLMODE"`
	DBPath             string        `mapstructure:"DB_PATH"`
	DBQueryTimeout     time.Duration `mapstructure:"DB_QUERY_TIMEOUT"`
	RedisURL           string        `mapstructure:"REDIS_URL"`
	AllowedOrigins     string        `mapstructure:"ALLOWED_ORIGINS"`
	TracingEnabled     bool          `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string        `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string        `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64       `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig loads application configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// The base config file is optional.
	_ = v.ReadInConfig()

	env := v.GetString("APP_ENV")
	if env != "" && env != "development" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config.%s.yml: %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	setDefaults(v)

	// AutomaticEnv only resolves keys viper already knows about; bind the
	// secret explicitly since it deliberately has no default.
	_ = v.BindEnv("JWT_SECRET")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "brainvault")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "brainvault.db")
	v.SetDefault("DB_QUERY_TIMEOUT", "5s")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
}

// IsProduction reports whether the app runs with a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver)
	}

	if c.DBQueryTimeout <= 0 {
		return errors.New("DB_QUERY_TIMEOUT must be positive")
	}

	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver == DriverPostgres && (c.DBPassword == "password" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
