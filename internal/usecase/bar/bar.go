package bar

import (
	"context"
	"time"

	"github.com/kenyon01/vnpy-duckdb/internal/domain/market"
	"github.com/kenyon01/vnpy-duckdb/internal/infrastructure/duckdb/bar"
	"github.com/kenyon01/vnpy-duckdb/pkg/errors"
	"github.com/kenyon01/vnpy-duckdb/pkg/logger"
)

// Usecase is the usecase for bar data.
type Usecase struct {
	barRepository bar.BarRepository
	logger        logger.Interface
}

// NewUsecase creates a new bar usecase.
func NewUsecase(barRepository bar.BarRepository, logger logger.Interface) *Usecase {
	return &Usecase{barRepository: barRepository, logger: logger}
}

// SaveBars persists a batch of bars for one instrument and keeps its
// overview consistent. Returns the number of rows written.
func (u *Usecase) SaveBars(ctx context.Context, bars []*bar.Bar, stream bool) (int, error) {
	written, err := u.barRepository.Save(ctx, bars, stream)
	if err != nil {
		return written, errors.TracerFromError(err)
	}
	u.logger.DebugContext(ctx, "bars saved", logger.NewField("count", written))
	return written, nil
}

// LoadBars reads bars for the given key within [start, end].
func (u *Usecase) LoadBars(ctx context.Context, symbol string, exchange market.Exchange, interval market.Interval, start, end time.Time) ([]*bar.Bar, error) {
	bars, err := u.barRepository.Load(ctx, symbol, exchange, interval, start, end)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return bars, nil
}

// DeleteBars removes all bars for the given key. Returns the number of
// rows removed.
func (u *Usecase) DeleteBars(ctx context.Context, symbol string, exchange market.Exchange, interval market.Interval) (int, error) {
	deleted, err := u.barRepository.Delete(ctx, symbol, exchange, interval)
	if err != nil {
		return 0, errors.TracerFromError(err)
	}
	u.logger.InfoContext(ctx, "bars deleted",
		logger.NewField("symbol", symbol),
		logger.NewField("exchange", exchange),
		logger.NewField("interval", interval),
		logger.NewField("count", deleted),
	)
	return deleted, nil
}

// GetBarOverviews returns the overview of every instrument with bar data.
func (u *Usecase) GetBarOverviews(ctx context.Context) ([]*bar.Overview, error) {
	overviews, err := u.barRepository.Overviews(ctx)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return overviews, nil
}
