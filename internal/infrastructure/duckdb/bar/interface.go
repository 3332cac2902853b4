package bar

import (
	"context"
	"time"

	"github.com/kenyon01/vnpy-duckdb/internal/domain/market"
)

// BarRepository is the interface for the bar repository.
//
//go:generate mockgen -source=interface.go -destination=../mock/bar_mock.go -package=mock
type BarRepository interface {
	Save(ctx context.Context, bars []*Bar, stream bool) (int, error)
	Load(ctx context.Context, symbol string, exchange market.Exchange, interval market.Interval, start, end time.Time) ([]*Bar, error)
	Delete(ctx context.Context, symbol string, exchange market.Exchange, interval market.Interval) (int, error)
	Overviews(ctx context.Context) ([]*Overview, error)
}
