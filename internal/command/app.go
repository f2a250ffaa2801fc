package command

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log/slog"

	"authgate/internal/auth"
	"authgate/internal/config"
	"authgate/internal/db"
)

// app holds the wired auth service and whatever must be closed after it.
type app struct {
	svc *auth.Service
	db  *sql.DB
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}
	var store auth.Store
	switch cfg.StoreDriver {
	case config.StoreSQLite, config.StorePostgres:
		conn, err := db.Open(ctx, cfg.StoreDriver, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		a.db = conn
		if err := db.RunMigrations(ctx, conn, cfg.StoreDriver); err != nil {
			_ = conn.Close()
			return nil, err
		}
		store = auth.NewSQLStore(conn, cfg.StoreDriver)
	default:
		store = auth.NewMemoryStore()
	}

	codec, err := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	hasher := auth.NewHasher(cfg.BcryptCost, cfg.HashWorkers)
	a.svc = auth.NewService(store, hasher, codec, logger)
	return a, nil
}

// seed loads the users file at path. A missing file is not an error.
func (a *app) seed(ctx context.Context, path string, logger *slog.Logger) error {
	if path == "" {
		return nil
	}
	err := a.svc.SeedFromFile(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.InfoContext(ctx, "users file not found, skipping seed", "path", path)
		return nil
	}
	return err
}
