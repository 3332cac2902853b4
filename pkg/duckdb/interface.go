package duckdb

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// RowsInterface wraps *sql.Rows for mocking.
type RowsInterface interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// RowInterface wraps *sql.Row for mocking.
type RowInterface interface {
	Scan(dest ...any) error
}

// Handle is one open session against the database file. A handle is bound
// to the access mode it was opened with and never changes mode.
type Handle interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (RowsInterface, error)
	QueryRow(ctx context.Context, sql string, args ...any) RowInterface

	Close() error
}

// AccessManager is the per-process coordination surface repositories go
// through. Reads run on the retained read-only handle; every mutation runs
// inside a WithWriteAccess scope.
type AccessManager interface {
	Reader() Handle
	WithWriteAccess(ctx context.Context, fn func(Handle) error) error
	Role() Role
	Close() error
}
