package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Users   string
	Folders string
	Files   string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:   fmt.Sprintf("%susers", prefix),
		Folders: fmt.Sprintf("%sfolders", prefix),
		Files:   fmt.Sprintf("%sfiles", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Port 6543 is the conventional PgBouncer transaction pooler port, which does not support
// prepared statements. When it is detected and the connection string did not pick a mode
// explicitly (?default_query_exec_mode=...), QueryExecModeCacheDescribe is used instead of
// the default statement cache.
//
// Table prefixes are interpolated with fmt.Sprintf before the SQL reaches the server, so
// each prefix gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string, logger *slog.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		logger.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx := GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}

// EnsureSchema creates the three tables and their indexes if they are missing.
// users references folders, so folders and files are created first.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id               BIGSERIAL PRIMARY KEY,
			user_id          BIGINT NOT NULL,
			name             TEXT NOT NULL,
			parent_folder_id BIGINT REFERENCES %[1]s(id),
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_parent_idx ON %[1]s (parent_folder_id)`, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_user_name_idx ON %[1]s (user_id, name)`, tables.Folders),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id               BIGSERIAL PRIMARY KEY,
			actual_file_id   TEXT NOT NULL,
			name             TEXT NOT NULL,
			mime_type        TEXT NOT NULL DEFAULT '',
			size             BIGINT NOT NULL DEFAULT 0,
			user_id          BIGINT NOT NULL,
			message_id       BIGINT NOT NULL,
			parent_folder_id BIGINT NOT NULL REFERENCES %s(id),
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, tables.Files, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_parent_idx ON %[1]s (parent_folder_id)`, tables.Files),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id                    BIGINT PRIMARY KEY,
			last_opened_folder_id BIGINT REFERENCES %[2]s(id) ON DELETE SET NULL,
			root_folder_id        BIGINT REFERENCES %[2]s(id) ON DELETE SET NULL,
			created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, tables.Users, tables.Folders),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropSchema removes the three tables
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	_, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s, %s, %s CASCADE`,
		tables.Users, tables.Files, tables.Folders))
	if err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}

// ClearData deletes every row but keeps the tables
func ClearData(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	_, err := pool.Exec(ctx, fmt.Sprintf(`TRUNCATE %s, %s, %s`,
		tables.Users, tables.Files, tables.Folders))
	if err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	return nil
}
