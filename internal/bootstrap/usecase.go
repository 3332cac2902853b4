package bootstrap

import (
	barUc "github.com/kenyon01/vnpy-duckdb/internal/usecase/bar"
	tickUc "github.com/kenyon01/vnpy-duckdb/internal/usecase/tick"

	barDomain "github.com/kenyon01/vnpy-duckdb/internal/domain/bar"
	tickDomain "github.com/kenyon01/vnpy-duckdb/internal/domain/tick"
)

// Usecase is the usecase set of the market data store.
type Usecase struct {
	BarUsecase  barDomain.Usecase
	TickUsecase tickDomain.Usecase
}

// registerUsecase registers the usecases.
func (b *Bootstrap) registerUsecase() {
	b.Usecase.BarUsecase = barUc.NewUsecase(b.Repository.BarRepository, b.Logger)
	b.Usecase.TickUsecase = tickUc.NewUsecase(b.Repository.TickRepository, b.Logger)
}
