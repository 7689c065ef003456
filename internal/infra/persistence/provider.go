// Package persistence wires the durable local store backend selected by configuration.
package persistence

import (
	"context"
	"log/slog"

	"tiffin/config"
	"tiffin/internal/domain/repository"
	"tiffin/internal/errors"
	"tiffin/internal/infra/persistence/memory"
	"tiffin/internal/infra/persistence/sqlite"

	"go.uber.org/fx"
)

// StoreParams holds dependencies for LocalStore, injected by Fx
type StoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewLocalStore creates the LocalStore backend named by store.driver
func NewLocalStore(params StoreParams) (repository.LocalStore, error) {
	cfg := params.Config.Store
	logger := params.Logger

	switch cfg.Driver {
	case config.StoreDriverMemory:
		logger.Info("Using in-memory local store, state will not survive restarts")

		return memory.NewLocalStore(), nil

	case config.StoreDriverSQLite:
		db, err := sqlite.Open(cfg.Path, logger, params.Config)
		if err != nil {
			return nil, err
		}
		logger.Info("Using SQLite local store", slog.String("path", cfg.Path))

		params.Lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				logger.Info("Closing local store")

				return sqlite.Close(ctx, db)
			},
		})

		return sqlite.NewLocalStore(db), nil

	default:
		return nil, errors.Errorf("unknown store driver: %s", cfg.Driver)
	}
}
