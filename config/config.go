package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingDatabaseURL is returned when no Postgres connection string is configured.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is not defined in environment variables")

type Config struct {
	// Application
	App AppConfig `mapstructure:"app"`

	// Logging
	Log LogConfig `mapstructure:"log"`

	// HTTP server
	Server ServerConfig `mapstructure:"server"`

	// CORS
	CORS CORSConfig `mapstructure:"cors"`

	// PostgreSQL
	Postgres PostgresConfig `mapstructure:"postgres"`

	// Prometheus
	Prometheus PrometheusConfig `mapstructure:"prometheus"`

	// linkctl
	Client ClientConfig `mapstructure:"client"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

// IsProduction reports whether error details should be hidden from API callers.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// Addr returns the listen address for the API server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type PostgresConfig struct {
	URL               string `mapstructure:"url"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   string `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   string `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod string `mapstructure:"health_check_period"`
}

type PrometheusConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration for the API server. A missing DATABASE_URL is an error.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadClient reads configuration for linkctl, which never talks to the database.
func LoadClient() (*Config, error) {
	return load()
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Postgres.URL) == "" {
		return ErrMissingDatabaseURL
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func load() (*Config, error) {
	// Load local .env for development (ignored when missing).
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Search for config/config.yaml (plus root for overrides).
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Allow environment variables to override YAML entries.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("server.port", 5000)
	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"http://127.0.0.1:5173",
	})
	v.SetDefault("prometheus.enabled", false)
	v.SetDefault("prometheus.port", 9090)
	v.SetDefault("client.base_url", "http://localhost:5000/api")
	v.SetDefault("client.timeout", 10*time.Second)
}

func bindEnvVars(v *viper.Viper) {
	// Application
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.encoding", "LOG_ENCODING")

	// HTTP server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")

	// PostgreSQL
	v.BindEnv("postgres.url", "DATABASE_URL")
	v.BindEnv("postgres.max_conns", "PG_MAX_CONNS")
	v.BindEnv("postgres.min_conns", "PG_MIN_CONNS")
	v.BindEnv("postgres.max_conn_lifetime", "PG_MAX_CONN_LIFETIME")
	v.BindEnv("postgres.max_conn_idle_time", "PG_MAX_CONN_IDLE_TIME")
	v.BindEnv("postgres.health_check_period", "PG_HEALTH_CHECK_PERIOD")

	// Prometheus
	v.BindEnv("prometheus.enabled", "PROM_ENABLED")
	v.BindEnv("prometheus.port", "PROM_PORT")

	// linkctl
	v.BindEnv("client.base_url", "LINKSHELF_API_URL")
	v.BindEnv("client.timeout", "LINKSHELF_TIMEOUT")
}
