package bar

import (
	"context"
	"time"

	"github.com/kenyon01/vnpy-duckdb/internal/domain/market"
	"github.com/kenyon01/vnpy-duckdb/internal/infrastructure/duckdb/bar"
)

// Usecase is the interface for the bar data usecase.
type Usecase interface {
	SaveBars(ctx context.Context, bars []*bar.Bar, stream bool) (int, error)
	LoadBars(ctx context.Context, symbol string, exchange market.Exchange, interval market.Interval, start, end time.Time) ([]*bar.Bar, error)
	DeleteBars(ctx context.Context, symbol string, exchange market.Exchange, interval market.Interval) (int, error)
	GetBarOverviews(ctx context.Context) ([]*bar.Overview, error)
}
