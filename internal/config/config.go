package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for a report run
type Config struct {
	// Database connection settings
	Database DatabaseConfig `mapstructure:"database"`

	// Report file output
	Output OutputConfig `mapstructure:"output"`

	// Run behavior
	Run RunConfig `mapstructure:"run"`

	// Logging
	Log LogConfig `mapstructure:"log"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	// Driver (postgres, mysql, sqlite)
	Driver string `mapstructure:"driver"`

	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`

	// SSLMode is only used by postgres
	SSLMode string `mapstructure:"sslmode"`

	// DSN overrides the individual fields when set
	DSN string `mapstructure:"dsn"`

	// ConnectTimeout bounds the initial connectivity check
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// OutputConfig controls where and how report files are written
type OutputConfig struct {
	Dir string `mapstructure:"dir"`

	// FilenameTemplate must contain {name}; the extension comes from Format
	FilenameTemplate string `mapstructure:"filename_template"`

	// Format is csv or xlsx
	Format string `mapstructure:"format"`

	// PositionalHeader writes 0..n-1 instead of column names
	PositionalHeader bool `mapstructure:"positional_header"`
}

// RunConfig controls query execution
type RunConfig struct {
	// QueryTimeout applies to each query (0 = no timeout)
	QueryTimeout time.Duration `mapstructure:"query_timeout"`

	// FailFast aborts the remaining reports after the first failure
	FailFast bool `mapstructure:"fail_fast"`

	// Catalog is an optional TOML file replacing the built-in report list
	Catalog string `mapstructure:"catalog"`
}

// LogConfig holds structured logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`

	// File receives log output instead of stderr when set
	File string `mapstructure:"file"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:         DBDriver,
			Host:           DBHost,
			Port:           DBPort,
			SSLMode:        DBSSLMode,
			ConnectTimeout: DBConnectTimeout,
		},
		Output: OutputConfig{
			Dir:              OutputDir,
			FilenameTemplate: FilenameTemplate,
			Format:           OutputFormat,
		},
		Log: LogConfig{
			Level: LogLevel,
		},
	}
}

// SetDefaults registers every key with v so environment variables are
// picked up by Unmarshal even when no config file mentions them.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.name", d.Database.Name)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.sslmode", d.Database.SSLMode)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.connect_timeout", d.Database.ConnectTimeout)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.filename_template", d.Output.FilenameTemplate)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.positional_header", d.Output.PositionalHeader)

	v.SetDefault("run.query_timeout", d.Run.QueryTimeout)
	v.SetDefault("run.fail_fast", d.Run.FailFast)
	v.SetDefault("run.catalog", d.Run.Catalog)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// NewViper returns a viper instance wired for HEALTHREPORT_* environment
// overrides, with all defaults registered.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads configuration from viper into a Config struct. When file is
// non-empty it is read first; environment and bound flags still win.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))

	// "postgresql" and "sqlite3" are common spellings
	switch c.Database.Driver {
	case "postgresql", "pq":
		c.Database.Driver = DriverPostgres
	case "sqlite3":
		c.Database.Driver = DriverSQLite
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []string

	// Validate database config
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL:
		if c.Database.DSN == "" {
			if c.Database.Host == "" {
				errs = append(errs, "database.host is required")
			}
			if c.Database.Port == "" {
				errs = append(errs, "database.port is required")
			} else if p, err := strconv.Atoi(c.Database.Port); err != nil || p <= 0 || p > 65535 {
				errs = append(errs, fmt.Sprintf("database.port must be a port number (got %q)", c.Database.Port))
			}
			if c.Database.Name == "" {
				errs = append(errs, "database.name is required")
			}
			if c.Database.User == "" {
				errs = append(errs, "database.user is required")
			}
		}
	case DriverSQLite:
		if c.Database.DSN == "" && c.Database.Name == "" {
			errs = append(errs, "database.name (file path) is required for sqlite")
		}
	default:
		errs = append(errs, fmt.Sprintf("database.driver must be one of postgres, mysql, sqlite (got %q)", c.Database.Driver))
	}
	if c.Database.ConnectTimeout < 0 {
		errs = append(errs, "database.connect_timeout must be non-negative")
	}

	// Validate output config
	if c.Output.Format != FormatCSV && c.Output.Format != FormatXLSX {
		errs = append(errs, fmt.Sprintf("output.format must be csv or xlsx (got %q)", c.Output.Format))
	}
	if !strings.Contains(c.Output.FilenameTemplate, NamePlaceholder) {
		errs = append(errs, "output.filename_template must contain "+NamePlaceholder)
	}
	if strings.ContainsAny(strings.ReplaceAll(c.Output.FilenameTemplate, NamePlaceholder, ""), `/\`) {
		errs = append(errs, "output.filename_template must not contain path separators (use output.dir)")
	}

	// Validate run config
	if c.Run.QueryTimeout < 0 {
		errs = append(errs, "run.query_timeout must be non-negative")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error (got %q)", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", joinErrors(errs))
	}

	return nil
}

// joinErrors joins error messages with newline and bullet points
func joinErrors(errs []string) string {
	return strings.Join(errs, "\n  - ")
}
