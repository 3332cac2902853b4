package bar

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/kenyon01/vnpy-duckdb/internal/domain/market"
	"github.com/kenyon01/vnpy-duckdb/pkg/duckdb"
	"github.com/kenyon01/vnpy-duckdb/pkg/errors"
)

const (
	table         = "bar_data"
	overviewTable = "bar_overview"
)

const upsertSQL = `INSERT INTO bar_data VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (symbol, exchange, interval, datetime) DO UPDATE SET
    volume        = excluded.volume,
    turnover      = excluded.turnover,
    open_interest = excluded.open_interest,
    open_price    = excluded.open_price,
    high_price    = excluded.high_price,
    low_price     = excluded.low_price,
    close_price   = excluded.close_price`

// Repository persists bar rows and their overview rows. Reads go through
// the manager's retained read-only handle; every mutation runs inside one
// write-access scope.
type Repository struct {
	db duckdb.AccessManager
}

// NewRepository creates a new bar repository.
func NewRepository(db duckdb.AccessManager) *Repository {
	return &Repository{
		db: db,
	}
}

// Ensure Repository implements BarRepository.
var _ BarRepository = (*Repository)(nil)

// Save upserts the batch and reconciles the instrument's overview row in a
// single write-access scope. All bars in one batch must share
// (symbol, exchange, interval). Returns the number of rows written; on a
// mid-batch failure the overview is still reconciled against the rows that
// committed before the failure.
//
// With stream=true the overview takes the streaming fast path: end moves to
// the batch maximum and the count grows by the batch size without a recount.
// Callers use it only for strictly-appending feeds.
func (r *Repository) Save(ctx context.Context, bars []*Bar, stream bool) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}
	first := bars[0]

	written := 0
	err := r.db.WithWriteAccess(ctx, func(h duckdb.Handle) error {
		for _, b := range bars {
			execErr := h.Exec(ctx, upsertSQL,
				b.Symbol,
				string(b.Exchange),
				b.Datetime.UTC(),
				string(b.Interval),
				b.Volume,
				b.Turnover,
				b.OpenInterest,
				b.OpenPrice,
				b.HighPrice,
				b.LowPrice,
				b.ClosePrice,
			)
			if execErr != nil {
				// reconcile whatever committed before surfacing the failure
				var reconcileErr error
				if written > 0 {
					reconcileErr = r.reconcile(ctx, h, bars[:written], stream)
				}
				return errors.NewStoreError(errors.WriteError, "upsert", stderrors.Join(execErr, reconcileErr)).
					WithTable(table).
					WithKey(barKey(first.Symbol, first.Exchange, first.Interval))
			}
			written++
		}

		return r.reconcile(ctx, h, bars, stream)
	})

	return written, err
}

// reconcile brings the overview row in line with the batch that just
// committed. The time extent is merged with the stored extent without a
// scan; the count is re-derived with a key-scoped count(*) because an
// upsert may overwrite rows instead of adding them.
func (r *Repository) reconcile(ctx context.Context, h duckdb.Handle, bars []*Bar, stream bool) error {
	first := bars[0]
	key := barKey(first.Symbol, first.Exchange, first.Interval)
	batchStart, batchEnd := extent(bars)

	var (
		count      int64
		start, end time.Time
	)
	err := h.QueryRow(ctx,
		`SELECT count, start_dt, end_dt FROM bar_overview
         WHERE symbol = ? AND exchange = ? AND interval = ?`,
		first.Symbol, string(first.Exchange), string(first.Interval),
	).Scan(&count, &start, &end)

	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		total, countErr := r.recount(ctx, h, first)
		if countErr != nil {
			return countErr
		}
		if execErr := h.Exec(ctx,
			`INSERT INTO bar_overview VALUES (?, ?, ?, ?, ?, ?)`,
			first.Symbol, string(first.Exchange), string(first.Interval),
			total, batchStart, batchEnd,
		); execErr != nil {
			return errors.NewStoreError(errors.WriteError, "insert overview", execErr).
				WithTable(overviewTable).WithKey(key)
		}

	case err != nil:
		return errors.NewStoreError(errors.WriteError, "load overview", err).
			WithTable(overviewTable).WithKey(key)

	case stream:
		if execErr := h.Exec(ctx,
			`UPDATE bar_overview SET end_dt = ?, count = count + ?
             WHERE symbol = ? AND exchange = ? AND interval = ?`,
			batchEnd, len(bars),
			first.Symbol, string(first.Exchange), string(first.Interval),
		); execErr != nil {
			return errors.NewStoreError(errors.WriteError, "update overview", execErr).
				WithTable(overviewTable).WithKey(key)
		}

	default:
		total, countErr := r.recount(ctx, h, first)
		if countErr != nil {
			return countErr
		}
		if execErr := h.Exec(ctx,
			`UPDATE bar_overview SET start_dt = ?, end_dt = ?, count = ?
             WHERE symbol = ? AND exchange = ? AND interval = ?`,
			minTime(start, batchStart), maxTime(end, batchEnd), total,
			first.Symbol, string(first.Exchange), string(first.Interval),
		); execErr != nil {
			return errors.NewStoreError(errors.WriteError, "update overview", execErr).
				WithTable(overviewTable).WithKey(key)
		}
	}

	return nil
}

// recount re-derives the row count for the batch's instrument key.
func (r *Repository) recount(ctx context.Context, h duckdb.Handle, first *Bar) (int64, error) {
	var n int64
	err := h.QueryRow(ctx,
		`SELECT count(*) FROM bar_data
         WHERE symbol = ? AND exchange = ? AND interval = ?`,
		first.Symbol, string(first.Exchange), string(first.Interval),
	).Scan(&n)
	if err != nil {
		return 0, errors.NewStoreError(errors.WriteError, "recount", err).
			WithTable(table).
			WithKey(barKey(first.Symbol, first.Exchange, first.Interval))
	}
	return n, nil
}

// Load reads bars for the key within [start, end], ordered by datetime.
func (r *Repository) Load(ctx context.Context, symbol string, exchange market.Exchange, interval market.Interval, start, end time.Time) ([]*Bar, error) {
	rows, err := r.db.Reader().Query(ctx,
		`SELECT symbol, exchange, datetime, interval,
                volume, turnover, open_interest,
                open_price, high_price, low_price, close_price
         FROM bar_data
         WHERE symbol = ? AND exchange = ? AND interval = ?
           AND datetime >= ? AND datetime <= ?
         ORDER BY datetime`,
		symbol, string(exchange), string(interval), start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	var bars []*Bar
	for rows.Next() {
		b := &Bar{}
		var exch, intv string
		err := rows.Scan(&b.Symbol, &exch, &b.Datetime, &intv,
			&b.Volume, &b.Turnover, &b.OpenInterest,
			&b.OpenPrice, &b.HighPrice, &b.LowPrice, &b.ClosePrice)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		b.Exchange = market.Exchange(exch)
		b.Interval = market.Interval(intv)
		b.Datetime = b.Datetime.UTC()
		bars = append(bars, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return bars, nil
}

// Delete removes all bars for the key together with its overview row, and
// returns the number of data rows removed. Arbitrary removal cannot be
// merged incrementally, and since every row for the key is gone the
// overview row goes with it.
func (r *Repository) Delete(ctx context.Context, symbol string, exchange market.Exchange, interval market.Interval) (int, error) {
	key := barKey(symbol, exchange, interval)

	var deleted int64
	err := r.db.WithWriteAccess(ctx, func(h duckdb.Handle) error {
		if err := h.QueryRow(ctx,
			`SELECT count(*) FROM bar_data
             WHERE symbol = ? AND exchange = ? AND interval = ?`,
			symbol, string(exchange), string(interval),
		).Scan(&deleted); err != nil {
			return errors.NewStoreError(errors.WriteError, "count before delete", err).
				WithTable(table).WithKey(key)
		}

		if err := h.Exec(ctx,
			`DELETE FROM bar_data
             WHERE symbol = ? AND exchange = ? AND interval = ?`,
			symbol, string(exchange), string(interval),
		); err != nil {
			return errors.NewStoreError(errors.WriteError, "delete", err).
				WithTable(table).WithKey(key)
		}

		if err := h.Exec(ctx,
			`DELETE FROM bar_overview
             WHERE symbol = ? AND exchange = ? AND interval = ?`,
			symbol, string(exchange), string(interval),
		); err != nil {
			return errors.NewStoreError(errors.WriteError, "delete overview", err).
				WithTable(overviewTable).WithKey(key)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(deleted), nil
}

// Overviews returns the overview row of every instrument with bar data.
// When data exists but the overview table is empty (a file produced before
// overviews were tracked, or a lost overview table), the overviews are
// rebuilt from the data first.
func (r *Repository) Overviews(ctx context.Context) ([]*Overview, error) {
	read := r.db.Reader()

	var dataCount, overviewCount int64
	if err := read.QueryRow(ctx, `SELECT count(*) FROM bar_data`).Scan(&dataCount); err != nil {
		return nil, fmt.Errorf("failed to count bar data: %w", err)
	}
	if err := read.QueryRow(ctx, `SELECT count(*) FROM bar_overview`).Scan(&overviewCount); err != nil {
		return nil, fmt.Errorf("failed to count bar overviews: %w", err)
	}
	if dataCount > 0 && overviewCount == 0 {
		if err := r.rebuild(ctx); err != nil {
			return nil, err
		}
	}

	rows, err := read.Query(ctx,
		`SELECT symbol, exchange, interval, count, start_dt, end_dt FROM bar_overview`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bar overviews: %w", err)
	}
	defer rows.Close()

	var overviews []*Overview
	for rows.Next() {
		o := &Overview{}
		var exch, intv string
		if err := rows.Scan(&o.Symbol, &exch, &intv, &o.Count, &o.Start, &o.End); err != nil {
			return nil, fmt.Errorf("failed to scan bar overview: %w", err)
		}
		o.Exchange = market.Exchange(exch)
		o.Interval = market.Interval(intv)
		o.Start = o.Start.UTC()
		o.End = o.End.UTC()
		overviews = append(overviews, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return overviews, nil
}

// rebuild recomputes every bar overview row from a single grouped scan.
func (r *Repository) rebuild(ctx context.Context) error {
	return r.db.WithWriteAccess(ctx, func(h duckdb.Handle) error {
		err := h.Exec(ctx,
			`INSERT INTO bar_overview
             SELECT symbol, exchange, interval,
                    count(*), min(datetime), max(datetime)
             FROM bar_data
             GROUP BY symbol, exchange, interval
             ON CONFLICT (symbol, exchange, interval) DO UPDATE SET
                 count    = excluded.count,
                 start_dt = excluded.start_dt,
                 end_dt   = excluded.end_dt`)
		if err != nil {
			return errors.NewStoreError(errors.WriteError, "rebuild overviews", err).
				WithTable(overviewTable)
		}
		return nil
	})
}

// barKey renders the instrument key for error context.
func barKey(symbol string, exchange market.Exchange, interval market.Interval) string {
	return fmt.Sprintf("%s.%s/%s", symbol, exchange, interval)
}

// extent returns the min and max datetime of the batch, UTC-normalized.
func extent(bars []*Bar) (time.Time, time.Time) {
	start := bars[0].Datetime.UTC()
	end := start
	for _, b := range bars[1:] {
		dt := b.Datetime.UTC()
		if dt.Before(start) {
			start = dt
		}
		if dt.After(end) {
			end = dt
		}
	}
	return start, end
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
