// Package config contains defaults and runtime configuration for healthreport.
// Connection parameters are never compiled in; they come from flags,
// HEALTHREPORT_* environment variables or a config file.
package config

import "time"

// EnvPrefix is the prefix for environment overrides (HEALTHREPORT_DATABASE_HOST, ...).
const EnvPrefix = "HEALTHREPORT"

// =============================================================================
// DATABASE DEFAULTS
// =============================================================================

const (
	// DBDriver is the database driver used when none is configured
	DBDriver = "postgres"

	// DBHost is the default database host
	DBHost = "localhost"

	// DBPort is the default PostgreSQL port
	DBPort = "5432"

	// DBSSLMode is passed through to the postgres driver
	DBSSLMode = "disable"

	// DBConnectTimeout bounds the initial ping
	DBConnectTimeout = 10 * time.Second
)

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// =============================================================================
// OUTPUT DEFAULTS
// =============================================================================

const (
	// OutputDir is where report files are written (current working directory)
	OutputDir = "."

	// FilenameTemplate produces <label>.csv; "output_{name}" gives output_<label>.csv
	FilenameTemplate = "{name}"

	// NamePlaceholder is replaced by the normalized report label
	NamePlaceholder = "{name}"

	// OutputFormat is the default export format
	OutputFormat = "csv"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// =============================================================================
// LOGGING DEFAULTS
// =============================================================================

const (
	// LogLevel is the default zap level
	LogLevel = "warn"
)
