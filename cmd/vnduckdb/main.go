package main

import (
	"context"
	"log"

	"github.com/kenyon01/vnpy-duckdb/internal/bootstrap"
	"github.com/kenyon01/vnpy-duckdb/pkg/config"
	"github.com/kenyon01/vnpy-duckdb/pkg/logger"
	"github.com/kenyon01/vnpy-duckdb/pkg/util"
)

// Prints the overview of every instrument stored in the database named by
// DUCKDB_PATH. Opens as primary or worker depending on whether the schema
// already exists.
func main() {
	ctx := util.WithRequestID(context.Background(), "")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	b, err := bootstrap.Open(ctx, cfg.DuckDB, lg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer b.DB.Close()

	barOverviews, err := b.Usecase.BarUsecase.GetBarOverviews(ctx)
	if err != nil {
		lg.ErrorContext(ctx, err)
		return
	}
	for _, o := range barOverviews {
		lg.InfoContext(ctx, "bar overview",
			logger.NewField("symbol", o.Symbol),
			logger.NewField("exchange", o.Exchange),
			logger.NewField("interval", o.Interval),
			logger.NewField("count", o.Count),
			logger.NewField("start", o.Start),
			logger.NewField("end", o.End),
		)
	}

	tickOverviews, err := b.Usecase.TickUsecase.GetTickOverviews(ctx)
	if err != nil {
		lg.ErrorContext(ctx, err)
		return
	}
	for _, o := range tickOverviews {
		lg.InfoContext(ctx, "tick overview",
			logger.NewField("symbol", o.Symbol),
			logger.NewField("exchange", o.Exchange),
			logger.NewField("count", o.Count),
			logger.NewField("start", o.Start),
			logger.NewField("end", o.End),
		)
	}
}
