// Package app assembles the store, exporter and share sink from Config for
// the agenda binaries.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"example.com/agenda/internal/config"
	"example.com/agenda/internal/domain"
	"example.com/agenda/internal/export"
	"example.com/agenda/internal/persistence/jsonfile"
	"example.com/agenda/internal/persistence/postgres"
	"example.com/agenda/internal/share"
)

// App holds the wired components. Close releases them.
type App struct {
	Service  *domain.Service
	Exporter *export.Exporter

	closers []func() error
}

// New wires components according to cfg.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	repo, err := a.repository(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Service = domain.NewService(repo, domain.WithLogger(logger.Named("store")))

	var sharer share.Sharer = share.Noop{}
	if len(cfg.ShareBrokers) > 0 {
		kafkaSharer := share.NewKafkaSharer(share.NewKafkaWriter(cfg.ShareBrokers, cfg.ShareTopic))
		a.closers = append(a.closers, kafkaSharer.Close)
		sharer = kafkaSharer
	}

	a.Exporter, err = export.New(cfg.ExportDir,
		export.WithSharer(sharer),
		export.WithLocale(cfg.Locale),
		export.WithLogger(logger.Named("export")),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) repository(ctx context.Context, cfg config.Config, logger *zap.Logger) (domain.CollectionRepository, error) {
	switch cfg.Store {
	case config.StoreFile:
		opts := []jsonfile.Option{jsonfile.WithLogger(logger.Named("jsonfile"))}
		if cfg.LenientLoad {
			opts = append(opts, jsonfile.WithLenientDecode())
		}
		return jsonfile.NewRepository(cfg.DataDir, opts...)
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		repo := postgres.NewRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
}

// Close releases resources in reverse order and returns the first error.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
