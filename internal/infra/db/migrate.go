package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the DDL for one dialect in execution order.
type schema struct {
	up   []string
	down []string
}

var schemas = map[Dialect]schema{
	DialectPostgres: {
		up: []string{
			`
CREATE TABLE IF NOT EXISTS sources (
    id     SERIAL PRIMARY KEY,
    title  TEXT NOT NULL,
    spout  TEXT NOT NULL,
    params TEXT NOT NULL DEFAULT '',
    error  TEXT NOT NULL DEFAULT ''
)`,
			`
CREATE TABLE IF NOT EXISTS items (
    id       SERIAL PRIMARY KEY,
    source   INTEGER NOT NULL REFERENCES sources(id),
    title    TEXT NOT NULL,
    link     TEXT NOT NULL,
    content  TEXT NOT NULL DEFAULT '',
    datetime TIMESTAMPTZ NOT NULL DEFAULT now(),
    unread   BOOLEAN NOT NULL DEFAULT TRUE,
    starred  BOOLEAN NOT NULL DEFAULT FALSE
)`,
			// Delete cascades by source id.
			`CREATE INDEX IF NOT EXISTS idx_items_source ON items(source)`,
			// List orders by title.
			`CREATE INDEX IF NOT EXISTS idx_sources_title ON sources(title)`,
		},
		down: []string{
			`DROP INDEX IF EXISTS idx_sources_title`,
			`DROP INDEX IF EXISTS idx_items_source`,
			`DROP TABLE IF EXISTS items`,
			`DROP TABLE IF EXISTS sources`,
		},
	},
	DialectSQLite: {
		up: []string{
			`
CREATE TABLE IF NOT EXISTS sources (
    id     INTEGER PRIMARY KEY AUTOINCREMENT,
    title  TEXT NOT NULL,
    spout  TEXT NOT NULL,
    params TEXT NOT NULL DEFAULT '',
    error  TEXT NOT NULL DEFAULT ''
)`,
			`
CREATE TABLE IF NOT EXISTS items (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    source   INTEGER NOT NULL REFERENCES sources(id),
    title    TEXT NOT NULL,
    link     TEXT NOT NULL,
    content  TEXT NOT NULL DEFAULT '',
    datetime TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
    unread   INTEGER NOT NULL DEFAULT 1,
    starred  INTEGER NOT NULL DEFAULT 0
)`,
			`CREATE INDEX IF NOT EXISTS idx_items_source ON items(source)`,
			`CREATE INDEX IF NOT EXISTS idx_sources_title ON sources(title)`,
		},
		down: []string{
			`DROP INDEX IF EXISTS idx_sources_title`,
			`DROP INDEX IF EXISTS idx_items_source`,
			`DROP TABLE IF EXISTS items`,
			`DROP TABLE IF EXISTS sources`,
		},
	},
}

// MigrateUp creates the sources and items tables and their indexes.
// Every statement is idempotent so it is safe to run on each start.
func MigrateUp(ctx context.Context, db *sql.DB, dialect Dialect) error {
	s, ok := schemas[dialect]
	if !ok {
		return fmt.Errorf("MigrateUp: unsupported dialect %q", dialect)
	}
	for _, stmt := range s.up {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("MigrateUp: %w", err)
		}
	}
	return nil
}

// MigrateDown drops everything MigrateUp created, items first.
// Use with caution: this will delete all data in the affected tables.
func MigrateDown(ctx context.Context, db *sql.DB, dialect Dialect) error {
	s, ok := schemas[dialect]
	if !ok {
		return fmt.Errorf("MigrateDown: unsupported dialect %q", dialect)
	}
	for _, stmt := range s.down {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("MigrateDown: %w", err)
		}
	}
	return nil
}
