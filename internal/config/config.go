package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Application identity
	App AppConfig

	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Media (uploaded files such as project covers)
	Media MediaConfig

	// Cross-origin settings for the separately hosted frontend
	CORS CORSConfig

	// Logging configuration
	Log LogConfig
}

// AppConfig holds process identity settings
type AppConfig struct {
	Env     string // "development", "production", "testing"
	Version string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver       string // "postgres" or "sqlite3"
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	Path         string // sqlite3 file, ":memory:" allowed
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// MediaConfig holds settings for resolving and serving uploaded files
type MediaConfig struct {
	URL   string // public prefix, e.g. "/media/" or "https://cdn.example.com/media/"
	Root  string // local directory holding uploaded files
	Serve bool   // serve Root under URL from this process (development only)
}

// CORSConfig holds allowed frontend origins
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from defaults, an optional settings.toml and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("settings")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.version", "unknown")

	v.SetDefault("server.port", "8000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "myblog")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "myblog.sqlite3")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", 5*time.Minute)

	v.SetDefault("media.url", "/media/")
	v.SetDefault("media.root", "./media")
	v.SetDefault("media.serve", false)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Flat environment variable names, kept compatible with the deployment scripts.
	bind(v, "app.env", "APP_ENV")
	bind(v, "app.version", "APP_VERSION")
	bind(v, "server.port", "PORT")
	bind(v, "server.read_timeout", "SERVER_READ_TIMEOUT")
	bind(v, "server.write_timeout", "SERVER_WRITE_TIMEOUT")
	bind(v, "server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")
	bind(v, "database.driver", "DB_DRIVER")
	bind(v, "database.host", "DB_HOST")
	bind(v, "database.port", "DB_PORT")
	bind(v, "database.user", "DB_USER")
	bind(v, "database.password", "DB_PASSWORD")
	bind(v, "database.name", "DB_NAME")
	bind(v, "database.sslmode", "DB_SSLMODE")
	bind(v, "database.path", "DB_PATH")
	bind(v, "database.max_open_conns", "DB_MAX_OPEN_CONNS")
	bind(v, "database.max_idle_conns", "DB_MAX_IDLE_CONNS")
	bind(v, "database.max_lifetime", "DB_MAX_LIFETIME")
	bind(v, "media.url", "MEDIA_URL")
	bind(v, "media.root", "MEDIA_ROOT")
	bind(v, "media.serve", "MEDIA_SERVE")
	bind(v, "cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	bind(v, "log.level", "LOG_LEVEL")
	bind(v, "log.format", "LOG_FORMAT")
}

func bind(v *viper.Viper, key, env string) {
	// BindEnv only fails when called without a key.
	_ = v.BindEnv(key, env)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:     v.GetString("app.env"),
			Version: v.GetString("app.version"),
		},
		Server: ServerConfig{
			Port:            v.GetString("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Driver:       v.GetString("database.driver"),
			Host:         v.GetString("database.host"),
			Port:         v.GetString("database.port"),
			User:         v.GetString("database.user"),
			Password:     v.GetString("database.password"),
			Name:         v.GetString("database.name"),
			SSLMode:      v.GetString("database.sslmode"),
			Path:         v.GetString("database.path"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
			MaxIdleConns: v.GetInt("database.max_idle_conns"),
			MaxLifetime:  v.GetDuration("database.max_lifetime"),
		},
		Media: MediaConfig{
			URL:   v.GetString("media.url"),
			Root:  v.GetString("media.root"),
			Serve: v.GetBool("media.serve"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetStringSlice("cors.allowed_origins")),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
		if c.IsProduction() && c.Database.Password == "postgres" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	case "sqlite3":
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for sqlite3")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (postgres, sqlite3)", c.Database.Driver)
	}
	if c.Media.URL == "" {
		return fmt.Errorf("MEDIA_URL is required")
	}
	return nil
}

// IsDevelopment reports whether the process runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction reports whether the process runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// GetDSN returns the connection string for the configured driver
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == "sqlite3" {
		return c.Path
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// splitList accepts both TOML arrays and comma-separated environment values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
