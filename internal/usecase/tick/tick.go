package tick

import (
	"context"
	"time"

	"github.com/kenyon01/vnpy-duckdb/internal/domain/market"
	"github.com/kenyon01/vnpy-duckdb/internal/infrastructure/duckdb/tick"
	"github.com/kenyon01/vnpy-duckdb/pkg/errors"
	"github.com/kenyon01/vnpy-duckdb/pkg/logger"
)

// Usecase is the usecase for tick data.
type Usecase struct {
	tickRepository tick.TickRepository
	logger         logger.Interface
}

// NewUsecase creates a new tick usecase.
func NewUsecase(tickRepository tick.TickRepository, logger logger.Interface) *Usecase {
	return &Usecase{tickRepository: tickRepository, logger: logger}
}

// SaveTicks persists a batch of ticks for one instrument and keeps its
// overview consistent. Returns the number of rows written.
func (u *Usecase) SaveTicks(ctx context.Context, ticks []*tick.Tick, stream bool) (int, error) {
	written, err := u.tickRepository.Save(ctx, ticks, stream)
	if err != nil {
		return written, errors.TracerFromError(err)
	}
	u.logger.DebugContext(ctx, "ticks saved", logger.NewField("count", written))
	return written, nil
}

// LoadTicks reads ticks for the given key within [start, end].
func (u *Usecase) LoadTicks(ctx context.Context, symbol string, exchange market.Exchange, start, end time.Time) ([]*tick.Tick, error) {
	ticks, err := u.tickRepository.Load(ctx, symbol, exchange, start, end)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return ticks, nil
}

// DeleteTicks removes all ticks for the given key. Returns the number of
// rows removed.
func (u *Usecase) DeleteTicks(ctx context.Context, symbol string, exchange market.Exchange) (int, error) {
	deleted, err := u.tickRepository.Delete(ctx, symbol, exchange)
	if err != nil {
		return 0, errors.TracerFromError(err)
	}
	u.logger.InfoContext(ctx, "ticks deleted",
		logger.NewField("symbol", symbol),
		logger.NewField("exchange", exchange),
		logger.NewField("count", deleted),
	)
	return deleted, nil
}

// GetTickOverviews returns the overview of every instrument with tick data.
func (u *Usecase) GetTickOverviews(ctx context.Context) ([]*tick.Overview, error) {
	overviews, err := u.tickRepository.Overviews(ctx)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return overviews, nil
}
