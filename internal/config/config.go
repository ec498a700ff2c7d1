package config

import (
	"errors"
	"fmt"
	"gpx-route-editor/internal/domain"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	ORS       ORSConfig       `mapstructure:"ors"`
	Elevation ElevationConfig `mapstructure:"elevation"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Log       LogConfig       `mapstructure:"log"`
	Routing   RoutingConfig   `mapstructure:"routing"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// Largest accepted upload, in bytes.
	MaxUpload int64 `mapstructure:"max_upload"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type ORSConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerMinute int           `mapstructure:"rate_per_minute"`
	Elevation     bool          `mapstructure:"elevation"`
	UseMatrix     bool          `mapstructure:"use_matrix"`
}

type ElevationConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RoutingConfig struct {
	// "ors" or "echo" (offline, routes are straight lines between control points).
	Provider       string `mapstructure:"provider"`
	DefaultProfile string `mapstructure:"default_profile"`
}

// Load reads configuration from .env, an optional config.yaml and the environment.
// Keys map to variables by upper-casing and replacing dots, e.g. ors.api_key → ORS_API_KEY.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase reads the same sources as Load but only checks the database section.
// Offline tools use it so they run without routing credentials.
func LoadDatabase() (DatabaseConfig, error) {
	cfg, err := read()
	if err != nil {
		return DatabaseConfig{}, err
	}

	if errs := cfg.Database.validate(); len(errs) > 0 {
		return DatabaseConfig{}, fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return cfg.Database, nil
}

func read() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found (using environment variables)")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_upload", 10<<20)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/gpx.db")

	v.SetDefault("ors.api_key", "")
	v.SetDefault("ors.base_url", "https://api.openrouteservice.org")
	v.SetDefault("ors.timeout", 15*time.Second)
	v.SetDefault("ors.rate_per_minute", 40)
	v.SetDefault("ors.elevation", true)
	v.SetDefault("ors.use_matrix", false)

	v.SetDefault("elevation.url", "")
	v.SetDefault("elevation.timeout", 10*time.Second)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "gpx.files")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("routing.provider", "ors")
	v.SetDefault("routing.default_profile", domain.DefaultProfile)
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.MaxUpload <= 0 {
		errs = append(errs, "server.max_upload must be positive")
	}

	errs = append(errs, c.Database.validate()...)

	switch c.Routing.Provider {
	case "ors":
		if strings.TrimSpace(c.ORS.APIKey) == "" {
			errs = append(errs, "ors.api_key (ORS_API_KEY) is required when routing.provider is ors")
		}
	case "echo":
	default:
		errs = append(errs, fmt.Sprintf("routing.provider must be ors or echo, got %q", c.Routing.Provider))
	}
	if c.ORS.Timeout <= 0 {
		errs = append(errs, "ors.timeout must be positive")
	}
	if c.ORS.RatePerMinute < 0 {
		errs = append(errs, "ors.rate_per_minute must not be negative")
	}
	if err := domain.ValidateProfile(c.Routing.DefaultProfile); err != nil {
		errs = append(errs, "routing.default_profile: "+err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (d DatabaseConfig) validate() []string {
	var errs []string
	switch d.Driver {
	case "sqlite", "pgx":
	default:
		errs = append(errs, fmt.Sprintf("database.driver must be sqlite or pgx, got %q", d.Driver))
	}
	if strings.TrimSpace(d.DSN) == "" {
		errs = append(errs, "database.dsn is required")
	}
	return errs
}
