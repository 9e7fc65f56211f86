// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort                = 8080
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultDatabasePath              = "./data/marquee.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultDatabaseEnableWAL         = true
	defaultMigrationsPath            = "file://./migrations"
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	defaultSlugMaxLength             = 50
	defaultSlugMaxAttempts           = 5
	defaultSlugSuffixLength          = 4
	defaultPageSize                  = 20
	defaultMaxPageSize               = 500
	envPrefix                        = "MARQUEE"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Catalog  CatalogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path              string
	ConnectionTimeout time.Duration
	EnableWAL         bool
	MigrationsPath    string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// CatalogConfig holds slug generation and listing limits
type CatalogConfig struct {
	SlugMaxLength    int
	SlugMaxAttempts  int
	SlugSuffixLength int
	DefaultPageSize  int
	MaxPageSize      int
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile behaves like Load but reads the config file at path when path is
// not empty instead of searching the default locations
func LoadFile(path string) (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/marquee")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)
	v.SetDefault("database.enablewal", defaultDatabaseEnableWAL)
	v.SetDefault("database.migrationspath", defaultMigrationsPath)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	v.SetDefault("catalog.slugmaxlength", defaultSlugMaxLength)
	v.SetDefault("catalog.slugmaxattempts", defaultSlugMaxAttempts)
	v.SetDefault("catalog.slugsuffixlength", defaultSlugSuffixLength)
	v.SetDefault("catalog.defaultpagesize", defaultPageSize)
	v.SetDefault("catalog.maxpagesize", defaultMaxPageSize)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if !strings.Contains(c.Database.MigrationsPath, "://") {
		return fmt.Errorf("invalid migrations path: %q (must be a source URL such as file://./migrations)", c.Database.MigrationsPath)
	}

	if !slices.Contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLogLevels, ", "))
	}

	if c.Catalog.SlugMaxLength < 8 {
		return fmt.Errorf("invalid slug max length: %d (must be >= 8)", c.Catalog.SlugMaxLength)
	}
	if c.Catalog.SlugMaxAttempts < 1 {
		return fmt.Errorf("invalid slug max attempts: %d (must be >= 1)", c.Catalog.SlugMaxAttempts)
	}
	if c.Catalog.SlugSuffixLength < 2 || c.Catalog.SlugSuffixLength > 16 {
		return fmt.Errorf("invalid slug suffix length: %d (must be between 2 and 16)", c.Catalog.SlugSuffixLength)
	}
	if c.Catalog.DefaultPageSize < 1 {
		return fmt.Errorf("invalid default page size: %d (must be >= 1)", c.Catalog.DefaultPageSize)
	}
	if c.Catalog.MaxPageSize < c.Catalog.DefaultPageSize {
		return fmt.Errorf("invalid max page size: %d (must be >= default page size %d)", c.Catalog.MaxPageSize, c.Catalog.DefaultPageSize)
	}

	return nil
}
