package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/willfong/healthreport/internal/config"
)

// driverNames maps configured drivers to their database/sql registrations.
var driverNames = map[string]string{
	config.DriverPostgres: "postgres",
	config.DriverMySQL:    "mysql",
	config.DriverSQLite:   "sqlite",
}

// ensureParseTime adds parseTime=true to MySQL DSN if not already present.
// This is required for scanning DATE/DATETIME columns into time.Time values.
func ensureParseTime(dsn string) string {
	// Check if parseTime is already specified (case-insensitive)
	lower := strings.ToLower(dsn)
	if strings.Contains(lower, "parsetime=") {
		return dsn
	}

	// Add parseTime=true to the query string
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=true"
	}
	return dsn + "?parseTime=true"
}

// BuildDSN assembles a driver-specific connection string from the
// individual settings. An explicit DSN is returned as is (mysql still
// gets parseTime).
func BuildDSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.DSN != "" {
			return cfg.DSN, nil
		}
		u := &url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(cfg.Host, cfg.Port),
			Path:   "/" + cfg.Name,
		}
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
		q := url.Values{}
		if cfg.SSLMode != "" {
			q.Set("sslmode", cfg.SSLMode)
		}
		if cfg.ConnectTimeout > 0 {
			q.Set("connect_timeout", fmt.Sprintf("%d", int(cfg.ConnectTimeout.Seconds())))
		}
		u.RawQuery = q.Encode()
		return u.String(), nil

	case config.DriverMySQL:
		if cfg.DSN != "" {
			return ensureParseTime(cfg.DSN), nil
		}
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
		mc.DBName = cfg.Name
		mc.ParseTime = true
		if cfg.ConnectTimeout > 0 {
			mc.Timeout = cfg.ConnectTimeout
		}
		return mc.FormatDSN(), nil

	case config.DriverSQLite:
		if cfg.DSN != "" {
			return cfg.DSN, nil
		}
		return cfg.Name, nil
	}

	return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Pool wraps a sql.DB limited to a single session, with query statistics
// for the run summary.
type Pool struct {
	db     *sql.DB
	config config.DatabaseConfig

	// Metrics
	totalQueries   atomic.Int64
	failedQueries  atomic.Int64
	totalLatencyNs atomic.Int64
}

// Open creates a database handle with the given configuration. No network
// round-trip happens until Connect.
func Open(cfg config.DatabaseConfig) (*Pool, error) {
	name, ok := driverNames[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return NewPool(db, cfg), nil
}

// NewPool wraps an existing handle. Reports run strictly one after another
// over one session, so the handle is capped at a single connection.
func NewPool(db *sql.DB, cfg config.DatabaseConfig) *Pool {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return &Pool{
		db:     db,
		config: cfg,
	}
}

// Connect verifies the database connection is working
func (p *Pool) Connect(ctx context.Context) error {
	if p.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.ConnectTimeout)
		defer cancel()
	}
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close releases the database session
func (p *Pool) Close() error {
	return p.db.Close()
}

// DB returns the underlying sql.DB for direct access when needed
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Driver returns the configured driver name
func (p *Pool) Driver() string {
	return p.config.Driver
}

// QueryContext executes a query and returns rows
func (p *Pool) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := p.db.QueryContext(ctx, query, args...)
	p.recordQuery(time.Since(start), err)
	return rows, err
}

// recordQuery updates internal metrics
func (p *Pool) recordQuery(duration time.Duration, err error) {
	p.totalQueries.Add(1)
	p.totalLatencyNs.Add(duration.Nanoseconds())
	if err != nil {
		p.failedQueries.Add(1)
	}
}

// Stats returns current pool statistics
func (p *Pool) Stats() PoolStats {
	dbStats := p.db.Stats()
	return PoolStats{
		OpenConnections: dbStats.OpenConnections,
		InUse:           dbStats.InUse,
		Idle:            dbStats.Idle,
		TotalQueries:    p.totalQueries.Load(),
		FailedQueries:   p.failedQueries.Load(),
		AvgLatency:      p.averageLatency(),
	}
}

func (p *Pool) averageLatency() time.Duration {
	total := p.totalQueries.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(p.totalLatencyNs.Load() / total)
}

// PoolStats contains connection and query statistics
type PoolStats struct {
	// Connection stats
	OpenConnections int
	InUse           int
	Idle            int

	// Query stats
	TotalQueries  int64
	FailedQueries int64
	AvgLatency    time.Duration
}
