// Package store opens the metadata backend selected by configuration.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"tgdrive/internal/config"
	"tgdrive/internal/domain/repositories"
	"tgdrive/internal/repository/postgres"
	"tgdrive/internal/repository/sqlite"
)

// Store bundles the metadata repositories of one backend
type Store struct {
	Backend   string
	Users     repositories.UserRepository
	Folders   repositories.FolderRepository
	Files     repositories.FileRepository
	TxManager repositories.TransactionManager

	ping      func(ctx context.Context) error
	ensure    func(ctx context.Context) error
	drop      func(ctx context.Context) error
	clear     func(ctx context.Context) error
	closeFunc func()
}

// Open connects to PostgreSQL when DatabaseURL is a postgres URL and to a
// SQLite file otherwise. The schema is not touched; call EnsureSchema.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg.UsePostgres() {
		return openPostgres(ctx, cfg, logger)
	}
	return openSQLite(cfg, logger)
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	logger.Info("database connected", "backend", "postgres", "table_prefix", cfg.TablePrefix)

	return &Store{
		Backend:   "postgres",
		Users:     postgres.NewUserRepository(repoConfig),
		Folders:   postgres.NewFolderRepository(repoConfig),
		Files:     postgres.NewFileRepository(repoConfig),
		TxManager: postgres.NewTransactionManager(repoConfig),
		ping:      pool.Ping,
		ensure:    func(ctx context.Context) error { return postgres.EnsureSchema(ctx, pool, tables) },
		drop:      func(ctx context.Context) error { return postgres.DropSchema(ctx, pool, tables) },
		clear:     func(ctx context.Context) error { return postgres.ClearData(ctx, pool, tables) },
		closeFunc: pool.Close,
	}, nil
}

func openSQLite(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	db, err := sqlite.Open(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		_ = sqlite.Close(db)
		return nil, fmt.Errorf("get sql handle: %w", err)
	}

	tables := sqlite.NewTableNames(cfg.TablePrefix)
	repoConfig := &sqlite.RepositoryConfig{DB: db, Tables: tables, Logger: logger}
	logger.Info("database connected", "backend", "sqlite", "path", cfg.DatabaseURL, "table_prefix", cfg.TablePrefix)

	return &Store{
		Backend:   "sqlite",
		Users:     sqlite.NewUserRepository(repoConfig),
		Folders:   sqlite.NewFolderRepository(repoConfig),
		Files:     sqlite.NewFileRepository(repoConfig),
		TxManager: sqlite.NewTransactionManager(repoConfig),
		ping:      sqlDB.PingContext,
		ensure:    func(ctx context.Context) error { return sqlite.EnsureSchema(ctx, db, tables) },
		drop:      func(ctx context.Context) error { return sqlite.DropSchema(ctx, db, tables) },
		clear:     func(ctx context.Context) error { return sqlite.ClearData(ctx, db, tables) },
		closeFunc: func() {
			if err := sqlite.Close(db); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		},
	}, nil
}

// Ping checks that the backend answers
func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

// EnsureSchema creates missing tables and indexes
func (s *Store) EnsureSchema(ctx context.Context) error { return s.ensure(ctx) }

// DropSchema removes all tables
func (s *Store) DropSchema(ctx context.Context) error { return s.drop(ctx) }

// ClearData deletes all rows and keeps the tables
func (s *Store) ClearData(ctx context.Context) error { return s.clear(ctx) }

// Close releases the connection
func (s *Store) Close() { s.closeFunc() }
