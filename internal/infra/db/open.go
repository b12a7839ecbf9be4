package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Nike1016/selfoss/pkg/config"
)

// Dialect selects the SQL flavour and the database/sql driver.
type Dialect string

const (
	DialectPostgres Dialect = "pgx"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect maps a DB_DRIVER value to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "pgx", "postgres", "postgresql":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", s)
	}
}

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// Config describes which database to open and how to pool connections.
type Config struct {
	Dialect Dialect
	// DSN is a Postgres connection URL or a SQLite file path.
	DSN  string
	Pool ConnectionConfig
}

// LoadConfig reads DB_DRIVER, DATABASE_URL, SQLITE_PATH and the pool
// variables from the environment.
func LoadConfig() (Config, error) {
	dialect, err := ParseDialect(config.GetEnvString("DB_DRIVER", string(DialectPostgres)))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{Dialect: dialect, Pool: getConnectionConfigFromEnv()}
	switch dialect {
	case DialectPostgres:
		cfg.DSN = config.GetEnvString("DATABASE_URL", "")
		if cfg.DSN == "" {
			return Config{}, fmt.Errorf("DATABASE_URL not set")
		}
	case DialectSQLite:
		cfg.DSN = config.GetEnvString("SQLITE_PATH", "data/selfoss.db")
	}
	return cfg, nil
}

// sqlitePragmas are applied by the driver to every new connection.
var sqlitePragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

// sqliteDSN appends the connection PRAGMAs to a SQLite path or URI.
func sqliteDSN(path string) string {
	var b strings.Builder
	b.WriteString(path)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// Open creates and configures a connection pool and verifies it with a ping.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	dsn := cfg.DSN
	if cfg.Dialect == DialectSQLite {
		dsn = sqliteDSN(dsn)
	}
	db, err := sql.Open(string(cfg.Dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Dialect, err)
	}

	pool := cfg.Pool
	if cfg.Dialect == DialectSQLite {
		// SQLite allows one writer.
		pool.MaxOpenConns = 1
		pool.MaxIdleConns = 1
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.String("driver", string(cfg.Dialect)),
		slog.Int("max_open_conns", pool.MaxOpenConns),
		slog.Int("max_idle_conns", pool.MaxIdleConns),
		slog.Duration("conn_max_lifetime", pool.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", pool.ConnMaxIdleTime))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connection established successfully")
	return db, nil
}

// OpenX is Open with the pool wrapped for sqlx struct scanning.
func OpenX(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	db, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return WrapX(db, cfg.Dialect), nil
}

// WrapX wraps an open pool for sqlx struct scanning.
func WrapX(db *sql.DB, dialect Dialect) *sqlx.DB {
	return sqlx.NewDb(db, string(dialect))
}

// getConnectionConfigFromEnv reads connection pool configuration from environment variables.
// Non-positive values fall back to the defaults.
func getConnectionConfigFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()

	if v := config.GetEnvInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns); v > 0 {
		cfg.MaxOpenConns = v
	}
	if v := config.GetEnvInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns); v > 0 {
		cfg.MaxIdleConns = v
	}
	if v := config.GetEnvDuration("DB_CONN_MAX_LIFETIME", cfg.ConnMaxLifetime); v > 0 {
		cfg.ConnMaxLifetime = v
	}
	if v := config.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.ConnMaxIdleTime); v > 0 {
		cfg.ConnMaxIdleTime = v
	}

	return cfg
}
