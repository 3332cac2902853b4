// Package schema holds the fixed table definitions of the market-data store.
//
// Four tables: bar_data and tick_data keyed by composite primary key, plus
// one overview table per data table caching row count and time range per
// instrument. Overview columns are named start_dt/end_dt because start and
// end are reserved words in the engine's SQL dialect.
package schema

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/kenyon01/vnpy-duckdb/pkg/duckdb"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MarkerTable is the table whose presence marks an initialized schema.
const MarkerTable = "bar_overview"

// Create applies all table definitions in order. Every statement uses
// CREATE TABLE IF NOT EXISTS, so re-running on an initialized file is a
// no-op.
func Create(ctx context.Context, h duckdb.Handle) error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := migrations.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if err := h.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}

	return nil
}
