package duckdb

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/kenyon01/vnpy-duckdb/pkg/errors"
	"github.com/kenyon01/vnpy-duckdb/pkg/logger"
)

// Role identifies the process responsibility decided at connection-open time.
type Role string

const (
	// RolePrimary initializes the schema, then holds a read-only handle.
	RolePrimary Role = "primary"
	// RoleWorker holds a read-only handle and never creates tables.
	RoleWorker Role = "worker"
)

// Config is the DuckDB access configuration.
type Config struct {
	Path string `env:"PATH" envDefault:"vnpy.duckdb"`

	// SchemaMarker is the table whose presence marks an initialized schema.
	SchemaMarker string `env:"SCHEMA_MARKER" envDefault:"bar_overview"`

	// Write-escalation retry settings. Retries are bounded, never infinite.
	OpenRetries      int           `env:"OPEN_RETRIES" envDefault:"3"`
	OpenRetryBackoff time.Duration `env:"OPEN_RETRY_BACKOFF" envDefault:"200ms"`
}

// InitFunc initializes the schema on a freshly opened read-write handle.
type InitFunc func(ctx context.Context, h Handle) error

// Manager owns the process's single long-lived read-only handle and creates
// short-lived read-write handles on demand. At most one read-write handle
// exists at a time, and it is always closed before control returns to the
// caller. The retained read-only handle is never used for mutation.
//
// Worker processes can read while an importer opens brief write windows, but
// overlap between a write window and a reader is not made safe here: on
// platforms where the engine enforces single-writer-exclusive semantics the
// escalation simply fails with a write-conflict error. Callers must not run
// two writers against one file.
type Manager struct {
	cfg    Config
	logger logger.Interface
	open   OpenFunc

	read    Handle
	role    Role
	writing atomic.Bool
}

// Ensure Manager implements AccessManager.
var _ AccessManager = (*Manager)(nil)

// Option configures a Manager.
type Option func(*Manager)

// WithOpenFunc overrides how handles are opened. Used by tests to simulate
// a second process holding a conflicting lock.
func WithOpenFunc(open OpenFunc) Option {
	return func(m *Manager) {
		m.open = open
	}
}

// NewManager creates a Manager for the database file named in cfg. No handle
// is opened until OpenPrimary or OpenWorker is called.
func NewManager(cfg Config, log logger.Interface, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		logger: log,
		open:   OpenHandle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open detects the process role and opens accordingly, running init on the
// schema when this process turns out to be the primary.
func (m *Manager) Open(ctx context.Context, init InitFunc) (Role, error) {
	role, err := m.DetectRole(ctx)
	if err != nil {
		return "", err
	}

	if role == RolePrimary {
		return role, m.OpenPrimary(ctx, init)
	}
	return role, m.OpenWorker(ctx)
}

// OpenPrimary opens a read-write handle, runs the schema init callback,
// closes it, then opens and retains the read-only handle. The database
// directory is created if absent.
func (m *Manager) OpenPrimary(ctx context.Context, init InitFunc) error {
	if m.read != nil {
		return nil
	}

	if dir := filepath.Dir(m.cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewStoreError(errors.ConnectError, "create database directory", err)
		}
	}

	w, err := m.openWrite(ctx)
	if err != nil {
		return err
	}

	if init != nil {
		if initErr := init(ctx, w); initErr != nil {
			closeErr := w.Close()
			return errors.NewStoreError(errors.SchemaInitError, "create tables", stderrors.Join(initErr, closeErr))
		}
	}

	if err := w.Close(); err != nil {
		return errors.NewStoreError(errors.ConnectError, "close schema handle", err)
	}

	r, err := m.open(ctx, m.cfg.Path, ReadOnly)
	if err != nil {
		return errors.NewStoreError(errors.ConnectError, "open read-only handle", err)
	}

	m.read = r
	m.role = RolePrimary
	m.logger.Info("database opened",
		logger.NewField("path", m.cfg.Path),
		logger.NewField("role", RolePrimary),
	)
	return nil
}

// OpenWorker opens and retains a read-only handle directly, never attempting
// table creation. It fails when the file or the schema is missing: workers
// assume a primary has already initialized the database.
func (m *Manager) OpenWorker(ctx context.Context) error {
	if m.read != nil {
		return nil
	}

	r, err := m.open(ctx, m.cfg.Path, ReadOnly)
	if err != nil {
		return errors.NewStoreError(errors.ConnectError, "open read-only handle", err)
	}

	present, err := schemaPresent(ctx, r, m.cfg.SchemaMarker)
	if err != nil {
		closeErr := r.Close()
		return errors.NewStoreError(errors.ConnectError, "probe schema", stderrors.Join(err, closeErr))
	}
	if !present {
		closeErr := r.Close()
		return errors.NewStoreError(errors.ConnectError, "open worker",
			stderrors.Join(stderrors.New("schema not initialized"), closeErr)).WithTable(m.cfg.SchemaMarker)
	}

	m.read = r
	m.role = RoleWorker
	m.logger.Info("database opened",
		logger.NewField("path", m.cfg.Path),
		logger.NewField("role", RoleWorker),
	)
	return nil
}

// Reader returns the retained read-only handle. Mutating statements must
// never be issued through it.
func (m *Manager) Reader() Handle {
	return m.read
}

// Role returns the role decided when the manager was opened.
func (m *Manager) Role() Role {
	return m.role
}

// WithWriteAccess opens a transient read-write handle, invokes fn with it
// and unconditionally closes the handle before returning, on the failure
// path included. Only one write scope may be active at a time per process.
func (m *Manager) WithWriteAccess(ctx context.Context, fn func(Handle) error) error {
	if !m.writing.CompareAndSwap(false, true) {
		return errors.NewStoreError(errors.ReentrantWriteError, "with write access", nil)
	}
	defer m.writing.Store(false)

	w, err := m.openWrite(ctx)
	if err != nil {
		return err
	}

	fnErr := fn(w)
	if closeErr := w.Close(); closeErr != nil && fnErr == nil {
		fnErr = errors.NewStoreError(errors.WriteError, "close write handle", closeErr)
	}
	return fnErr
}

// Close releases the retained read-only handle. Idempotent.
func (m *Manager) Close() error {
	if m.read == nil {
		return nil
	}
	err := m.read.Close()
	m.read = nil
	return err
}

// openWrite opens a read-write handle with a small bounded retry on lock
// conflicts held by other processes.
func (m *Manager) openWrite(ctx context.Context) (Handle, error) {
	attempts := m.cfg.OpenRetries
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			m.logger.Warn("write handle blocked, retrying",
				logger.NewField("path", m.cfg.Path),
				logger.NewField("attempt", attempt),
			)
			select {
			case <-ctx.Done():
				return nil, errors.NewStoreError(errors.WriteConflictError, "open write handle", ctx.Err())
			case <-time.After(m.cfg.OpenRetryBackoff):
			}
		}

		var h Handle
		h, err = m.open(ctx, m.cfg.Path, ReadWrite)
		if err == nil {
			return h, nil
		}
		if !IsLockConflict(err) {
			return nil, errors.NewStoreError(errors.ConnectError, "open write handle", err)
		}
	}

	return nil, errors.NewStoreError(errors.WriteConflictError, "open write handle", err)
}
