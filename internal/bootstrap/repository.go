package bootstrap

import (
	barInfra "github.com/kenyon01/vnpy-duckdb/internal/infrastructure/duckdb/bar"
	tickInfra "github.com/kenyon01/vnpy-duckdb/internal/infrastructure/duckdb/tick"
)

// Repository is the repository set of the market data store.
type Repository struct {
	BarRepository  barInfra.BarRepository
	TickRepository tickInfra.TickRepository
}

// registerRepository registers the repositories.
func (b *Bootstrap) registerRepository() {
	b.Repository.BarRepository = barInfra.NewRepository(b.DB)
	b.Repository.TickRepository = tickInfra.NewRepository(b.DB)
}
