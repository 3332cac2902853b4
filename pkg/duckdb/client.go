package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2" // registers the "duckdb" database/sql driver
)

// AccessMode selects how a handle opens the database file.
type AccessMode string

const (
	// ReadOnly opens the file without the ability to issue mutating statements.
	ReadOnly AccessMode = "read_only"
	// ReadWrite opens the file for mutation. On some platforms the engine
	// grants this exclusively, blocking every other process.
	ReadWrite AccessMode = "read_write"
)

// OpenFunc opens a Handle on the database file in the given mode.
type OpenFunc func(ctx context.Context, path string, mode AccessMode) (Handle, error)

// client wraps a *sql.DB session on the DuckDB file.
type client struct {
	db *sql.DB
}

// Ensure client implements Handle.
var _ Handle = (*client)(nil)

// OpenHandle opens a database/sql session on the DuckDB file in the given
// access mode. The engine acquires its file lock per connection, so the
// pool is capped at a single connection.
func OpenHandle(ctx context.Context, path string, mode AccessMode) (Handle, error) {
	dsn := path
	if mode == ReadOnly {
		dsn = fmt.Sprintf("%s?access_mode=%s", path, mode)
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb at %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	// the driver connects lazily; ping so mode conflicts surface here
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open duckdb at %s: %w", path, err)
	}

	return &client{db: db}, nil
}

// Exec executes a statement without returning any rows.
func (c *client) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := c.db.ExecContext(ctx, sql, args...)
	return err
}

// Query executes a query that returns rows.
func (c *client) Query(ctx context.Context, sql string, args ...any) (RowsInterface, error) {
	return c.db.QueryContext(ctx, sql, args...)
}

// QueryRow executes a query that is expected to return at most one row.
func (c *client) QueryRow(ctx context.Context, sql string, args ...any) RowInterface {
	return c.db.QueryRowContext(ctx, sql, args...)
}

// Close closes the session and releases the engine's file lock.
func (c *client) Close() error {
	return c.db.Close()
}

// IsLockConflict reports whether err is the engine refusing a handle because
// another process holds a conflicting lock on the file.
func IsLockConflict(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "lock")
}
