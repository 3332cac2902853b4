package tick

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
	table         = "tick_data"
	overviewTable = "tick_overview"
)

const upsertSQL = `INSERT INTO tick_data VALUES (
    ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
    ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (symbol, exchange, datetime) DO UPDATE SET
    name          = excluded.name,
    volume        = excluded.volume,
    turnover      = excluded.turnover,
    open_interest = excluded.open_interest,
    last_price    = excluded.last_price,
    last_volume   = excluded.last_volume,
    limit_up      = excluded.limit_up,
    limit_down    = excluded.limit_down,
    open_price    = excluded.open_price,
    high_price    = excluded.high_price,
    low_price     = excluded.low_price,
    pre_close     = excluded.pre_close,
    bid_price_1   = excluded.bid_price_1,
    bid_price_2   = excluded.bid_price_2,
    bid_price_3   = excluded.bid_price_3,
    bid_price_4   = excluded.bid_price_4,
    bid_price_5   = excluded.bid_price_5,
    ask_price_1   = excluded.ask_price_1,
    ask_price_2   = excluded.ask_price_2,
    ask_price_3   = excluded.ask_price_3,
    ask_price_4   = excluded.ask_price_4,
    ask_price_5   = excluded.ask_price_5,
    bid_volume_1  = excluded.bid_volume_1,
    bid_volume_2  = excluded.bid_volume_2,
    bid_volume_3  = excluded.bid_volume_3,
    bid_volume_4  = excluded.bid_volume_4,
    bid_volume_5  = excluded.bid_volume_5,
    ask_volume_1  = excluded.ask_volume_1,
    ask_volume_2  = excluded.ask_volume_2,
    ask_volume_3  = excluded.ask_volume_3,
    ask_volume_4  = excluded.ask_volume_4,
    ask_volume_5  = excluded.ask_volume_5,
    localtime     = excluded.localtime`

// Repository persists tick rows and their overview rows. Reads go through
// the manager's retained read-only handle; every mutation runs inside one
// write-access scope.
type Repository struct {
	db duckdb.AccessManager
}

// NewRepository creates a new tick repository.
func NewRepository(db duckdb.AccessManager) *Repository {
	return &Repository{
		db: db,
	}
}

// Ensure Repository implements TickRepository.
var _ TickRepository = (*Repository)(nil)

// Save upserts the batch and reconciles the instrument's overview row in a
// single write-access scope. All ticks in one batch must share
// (symbol, exchange). Returns the number of rows written; on a mid-batch
// failure the overview is still reconciled against the rows that committed
// before the failure.
func (r *Repository) Save(ctx context.Context, ticks []*Tick, stream bool) (int, error) {
	if len(ticks) == 0 {
		return 0, nil
	}
	first := ticks[0]

	written := 0
	err := r.db.WithWriteAccess(ctx, func(h duckdb.Handle) error {
		for _, t := range ticks {
			execErr := h.Exec(ctx, upsertSQL, upsertArgs(t)...)
			if execErr != nil {
				var reconcileErr error
				if written > 0 {
					reconcileErr = r.reconcile(ctx, h, ticks[:written], stream)
				}
				return errors.NewStoreError(errors.WriteError, "upsert", stderrors.Join(execErr, reconcileErr)).
					WithTable(table).
					WithKey(tickKey(first.Symbol, first.Exchange))
			}
			written++
		}

		return r.reconcile(ctx, h, ticks, stream)
	})

	return written, err
}

// upsertArgs lays out a tick in tick_data column order.
func upsertArgs(t *Tick) []any {
	return []any{
		t.Symbol,
		string(t.Exchange),
		t.Datetime.UTC(),
		t.Name,
		t.Volume,
		t.Turnover,
		t.OpenInterest,
		t.LastPrice,
		t.LastVolume,
		t.LimitUp,
		t.LimitDown,
		t.OpenPrice,
		t.HighPrice,
		t.LowPrice,
		t.PreClose,
		t.BidPrice1, t.BidPrice2, t.BidPrice3, t.BidPrice4, t.BidPrice5,
		t.AskPrice1, t.AskPrice2, t.AskPrice3, t.AskPrice4, t.AskPrice5,
		t.BidVolume1, t.BidVolume2, t.BidVolume3, t.BidVolume4, t.BidVolume5,
		t.AskVolume1, t.AskVolume2, t.AskVolume3, t.AskVolume4, t.AskVolume5,
		t.Localtime,
	}
}

// reconcile brings the overview row in line with the batch that just
// committed: merged time extent, recounted rows. The streaming fast path
// pushes end forward and grows the count by the batch size.
func (r *Repository) reconcile(ctx context.Context, h duckdb.Handle, ticks []*Tick, stream bool) error {
	first := ticks[0]
	key := tickKey(first.Symbol, first.Exchange)
	batchStart, batchEnd := extent(ticks)

	var (
		count      int64
		start, end time.Time
	)
	err := h.QueryRow(ctx,
		`SELECT count, start_dt, end_dt FROM tick_overview
         WHERE symbol = ? AND exchange = ?`,
		first.Symbol, string(first.Exchange),
	).Scan(&count, &start, &end)

	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		total, countErr := r.recount(ctx, h, first)
		if countErr != nil {
			return countErr
		}
		if execErr := h.Exec(ctx,
			`INSERT INTO tick_overview VALUES (?, ?, ?, ?, ?)`,
			first.Symbol, string(first.Exchange), total, batchStart, batchEnd,
		); execErr != nil {
			return errors.NewStoreError(errors.WriteError, "insert overview", execErr).
				WithTable(overviewTable).WithKey(key)
		}

	case err != nil:
		return errors.NewStoreError(errors.WriteError, "load overview", err).
			WithTable(overviewTable).WithKey(key)

	case stream:
		if execErr := h.Exec(ctx,
			`UPDATE tick_overview SET end_dt = ?, count = count + ?
             WHERE symbol = ? AND exchange = ?`,
			batchEnd, len(ticks), first.Symbol, string(first.Exchange),
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
			`UPDATE tick_overview SET start_dt = ?, end_dt = ?, count = ?
             WHERE symbol = ? AND exchange = ?`,
			minTime(start, batchStart), maxTime(end, batchEnd), total,
			first.Symbol, string(first.Exchange),
		); execErr != nil {
			return errors.NewStoreError(errors.WriteError, "update overview", execErr).
				WithTable(overviewTable).WithKey(key)
		}
	}

	return nil
}

// recount re-derives the row count for the batch's instrument key.
func (r *Repository) recount(ctx context.Context, h duckdb.Handle, first *Tick) (int64, error) {
	var n int64
	err := h.QueryRow(ctx,
		`SELECT count(*) FROM tick_data WHERE symbol = ? AND exchange = ?`,
		first.Symbol, string(first.Exchange),
	).Scan(&n)
	if err != nil {
		return 0, errors.NewStoreError(errors.WriteError, "recount", err).
			WithTable(table).
			WithKey(tickKey(first.Symbol, first.Exchange))
	}
	return n, nil
}

// Load reads ticks for the key within [start, end], ordered by datetime.
func (r *Repository) Load(ctx context.Context, symbol string, exchange market.Exchange, start, end time.Time) ([]*Tick, error) {
	rows, err := r.db.Reader().Query(ctx,
		`SELECT symbol, exchange, datetime, name,
                volume, turnover, open_interest,
                last_price, last_volume, limit_up, limit_down,
                open_price, high_price, low_price, pre_close,
                bid_price_1, bid_price_2, bid_price_3, bid_price_4, bid_price_5,
                ask_price_1, ask_price_2, ask_price_3, ask_price_4, ask_price_5,
                bid_volume_1, bid_volume_2, bid_volume_3, bid_volume_4, bid_volume_5,
                ask_volume_1, ask_volume_2, ask_volume_3, ask_volume_4, ask_volume_5,
                localtime
         FROM tick_data
         WHERE symbol = ? AND exchange = ?
           AND datetime >= ? AND datetime <= ?
         ORDER BY datetime`,
		symbol, string(exchange), start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticks: %w", err)
	}
	defer rows.Close()

	var ticks []*Tick
	for rows.Next() {
		t := &Tick{}
		var exch string
		err := rows.Scan(&t.Symbol, &exch, &t.Datetime, &t.Name,
			&t.Volume, &t.Turnover, &t.OpenInterest,
			&t.LastPrice, &t.LastVolume, &t.LimitUp, &t.LimitDown,
			&t.OpenPrice, &t.HighPrice, &t.LowPrice, &t.PreClose,
			&t.BidPrice1, &t.BidPrice2, &t.BidPrice3, &t.BidPrice4, &t.BidPrice5,
			&t.AskPrice1, &t.AskPrice2, &t.AskPrice3, &t.AskPrice4, &t.AskPrice5,
			&t.BidVolume1, &t.BidVolume2, &t.BidVolume3, &t.BidVolume4, &t.BidVolume5,
			&t.AskVolume1, &t.AskVolume2, &t.AskVolume3, &t.AskVolume4, &t.AskVolume5,
			&t.Localtime)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tick: %w", err)
		}
		t.Exchange = market.Exchange(exch)
		t.Datetime = t.Datetime.UTC()
		ticks = append(ticks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ticks, nil
}

// Delete removes all ticks for the key together with its overview row, and
// returns the number of data rows removed.
func (r *Repository) Delete(ctx context.Context, symbol string, exchange market.Exchange) (int, error) {
	key := tickKey(symbol, exchange)

	var deleted int64
	err := r.db.WithWriteAccess(ctx, func(h duckdb.Handle) error {
		if err := h.QueryRow(ctx,
			`SELECT count(*) FROM tick_data WHERE symbol = ? AND exchange = ?`,
			symbol, string(exchange),
		).Scan(&deleted); err != nil {
			return errors.NewStoreError(errors.WriteError, "count before delete", err).
				WithTable(table).WithKey(key)
		}

		if err := h.Exec(ctx,
			`DELETE FROM tick_data WHERE symbol = ? AND exchange = ?`,
			symbol, string(exchange),
		); err != nil {
			return errors.NewStoreError(errors.WriteError, "delete", err).
				WithTable(table).WithKey(key)
		}

		if err := h.Exec(ctx,
			`DELETE FROM tick_overview WHERE symbol = ? AND exchange = ?`,
			symbol, string(exchange),
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

// Overviews returns the overview row of every instrument with tick data.
func (r *Repository) Overviews(ctx context.Context) ([]*Overview, error) {
	rows, err := r.db.Reader().Query(ctx,
		`SELECT symbol, exchange, count, start_dt, end_dt FROM tick_overview`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tick overviews: %w", err)
	}
	defer rows.Close()

	var overviews []*Overview
	for rows.Next() {
		o := &Overview{}
		var exch string
		if err := rows.Scan(&o.Symbol, &exch, &o.Count, &o.Start, &o.End); err != nil {
			return nil, fmt.Errorf("failed to scan tick overview: %w", err)
		}
		o.Exchange = market.Exchange(exch)
		o.Start = o.Start.UTC()
		o.End = o.End.UTC()
		overviews = append(overviews, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return overviews, nil
}

// tickKey renders the instrument key for error context.
func tickKey(symbol string, exchange market.Exchange) string {
	return fmt.Sprintf("%s.%s", symbol, exchange)
}

// extent returns the min and max datetime of the batch, UTC-normalized.
func extent(ticks []*Tick) (time.Time, time.Time) {
	start := ticks[0].Datetime.UTC()
	end := start
	for _, t := range ticks[1:] {
		dt := t.Datetime.UTC()
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
