// Command magsubs serves the magazine subscription API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/magsubs/pkg/api"
	"github.com/dmitrymomot/magsubs/pkg/catalog"
	"github.com/dmitrymomot/magsubs/pkg/clientip"
	"github.com/dmitrymomot/magsubs/pkg/config"
	"github.com/dmitrymomot/magsubs/pkg/httpserver"
	"github.com/dmitrymomot/magsubs/pkg/ledger"
	"github.com/dmitrymomot/magsubs/pkg/logger"
	"github.com/dmitrymomot/magsubs/pkg/requestid"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "magsubs:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg config.App
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	src := catalog.DefaultPlans()
	if cfg.PlansFile != "" {
		src = catalog.NewYAMLFileSource(cfg.PlansFile)
	}
	cat, err := catalog.New(ctx, src, catalog.WithLogger(log))
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	svc := ledger.NewService(cat, ledger.NewMemoryStore(),
		ledger.WithLogger(log.With(logger.Component("ledger"))),
	)

	router := api.NewRouter(cat, svc,
		api.WithConfig(cfg.API),
		api.WithLogger(log),
		api.WithReadinessChecks(func(ctx context.Context) error {
			if len(cat.ListPlans(ctx)) == 0 {
				return catalog.ErrNoPlans
			}
			return nil
		}),
	)

	log.InfoContext(ctx, "starting magsubs",
		slog.String("addr", cfg.HTTP.Addr),
		slog.Int("plans", len(cat.ListPlans(ctx))),
	)
	return httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, router)
}

func newLogger(cfg config.App) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		opts = append(opts, logger.WithLevel(level))
	}
	return logger.New(opts...), nil
}
