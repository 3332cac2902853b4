package tick

import (
	"context"
	"time"

	"github.com/kenyon01/vnpy-duckdb/internal/domain/market"
)

// TickRepository is the interface for the tick repository.
//
//go:generate mockgen -source=interface.go -destination=../mock/tick_mock.go -package=mock
type TickRepository interface {
	Save(ctx context.Context, ticks []*Tick, stream bool) (int, error)
	Load(ctx context.Context, symbol string, exchange market.Exchange, start, end time.Time) ([]*Tick, error)
	Delete(ctx context.Context, symbol string, exchange market.Exchange) (int, error)
	Overviews(ctx context.Context) ([]*Overview, error)
}
