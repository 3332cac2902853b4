package bootstrap

import (
	"context"

	"github.com/kenyon01/vnpy-duckdb/internal/infrastructure/duckdb/schema"
	"github.com/kenyon01/vnpy-duckdb/pkg/duckdb"
	"github.com/kenyon01/vnpy-duckdb/pkg/logger"
)

// Bootstrap is the bootstrap for the market data store.
type Bootstrap struct {
	Usecase    Usecase
	Repository Repository
	Logger     logger.Interface

	DB duckdb.AccessManager
}

// Config is the config for the bootstrap.
type Config struct {
	DB     duckdb.AccessManager
	Logger logger.Interface
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(config Config) Bootstrap {
	b.DB = config.DB
	b.Logger = config.Logger

	b.registerRepository()
	b.registerUsecase()

	return *b
}

// Open detects the process role, opens the database accordingly (the
// primary creates the schema, workers only attach read-only) and returns a
// fully wired Bootstrap. The caller owns the returned DB and must Close it.
func Open(ctx context.Context, cfg duckdb.Config, log logger.Interface) (*Bootstrap, error) {
	if cfg.SchemaMarker == "" {
		cfg.SchemaMarker = schema.MarkerTable
	}

	manager := duckdb.NewManager(cfg, log)
	if _, err := manager.Open(ctx, schema.Create); err != nil {
		return nil, err
	}

	b := &Bootstrap{}
	b.Init(Config{
		DB:     manager,
		Logger: log,
	})
	return b, nil
}
