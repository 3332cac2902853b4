package tick

import (
	"context"
	"time"

	"github.com/kenyon01/vnpy-duckdb/internal/domain/market"
	"github.com/kenyon01/vnpy-duckdb/internal/infrastructure/duckdb/tick"
)

// Usecase is the interface for the tick data usecase.
type Usecase interface {
	SaveTicks(ctx context.Context, ticks []*tick.Tick, stream bool) (int, error)
	LoadTicks(ctx context.Context, symbol string, exchange market.Exchange, start, end time.Time) ([]*tick.Tick, error)
	DeleteTicks(ctx context.Context, symbol string, exchange market.Exchange) (int, error)
	GetTickOverviews(ctx context.Context) ([]*tick.Overview, error)
}
