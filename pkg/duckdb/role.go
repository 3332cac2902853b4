package duckdb

import (
	"context"
	"os"

	"github.com/kenyon01/vnpy-duckdb/pkg/errors"
)

// DetectRole decides whether this process is the primary (must create the
// schema) or a worker (schema already initialized by someone else). The
// check uses a read-only probe so it never conflicts with running workers.
//
// A missing file is a Primary verdict without touching the engine. When the
// file exists but the probe is refused because another process holds a
// conflicting lock, the outcome is indistinguishable from a half-initialized
// database, so DetectRole refuses to guess.
func (m *Manager) DetectRole(ctx context.Context) (Role, error) {
	if _, err := os.Stat(m.cfg.Path); err != nil {
		if os.IsNotExist(err) {
			return RolePrimary, nil
		}
		return "", errors.NewStoreError(errors.AmbiguousRoleError, "stat database file", err)
	}

	probe, err := m.open(ctx, m.cfg.Path, ReadOnly)
	if err != nil {
		if IsLockConflict(err) {
			return "", errors.NewStoreError(errors.AmbiguousRoleError, "probe database file", err)
		}
		return "", errors.NewStoreError(errors.ConnectError, "probe database file", err)
	}
	defer probe.Close()

	present, err := schemaPresent(ctx, probe, m.cfg.SchemaMarker)
	if err != nil {
		return "", errors.NewStoreError(errors.AmbiguousRoleError, "probe schema", err)
	}

	if present {
		return RoleWorker, nil
	}
	return RolePrimary, nil
}

// schemaPresent reports whether the marker table exists in the database.
func schemaPresent(ctx context.Context, h Handle, marker string) (bool, error) {
	var n int64
	err := h.QueryRow(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name = ?`,
		marker,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
