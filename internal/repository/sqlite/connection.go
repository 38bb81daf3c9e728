package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// defaultPragmas turn on FK enforcement and let readers proceed while a writer holds the lock.
var defaultPragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_pragma=journal_mode(WAL)",
}

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	DB     *gorm.DB
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
		Users:   prefix + "users",
		Folders: prefix + "folders",
		Files:   prefix + "files",
	}
}

// Open opens (or creates) a SQLite database through gorm.
// path is a file name or ":memory:"; the default pragmas are appended unless
// the caller already passed query parameters.
//
// A single open connection serializes writers. Transactions are short, so
// readers wait at most for one of them.
func Open(path string, logger *slog.Logger) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn = dsn + "?" + strings.Join(defaultPragmas, "&")
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	logger.Debug("sqlite opened", "path", path)
	return db, nil
}

// Close releases the underlying connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureSchema creates the three tables and their indexes if they are missing.
// AUTOINCREMENT keeps ids from being reused, so stale buttons never address a new folder.
func EnsureSchema(ctx context.Context, db *gorm.DB, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id          INTEGER NOT NULL,
			name             TEXT NOT NULL,
			parent_folder_id INTEGER REFERENCES %[1]s(id),
			created_at       DATETIME
		)`, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_parent_idx ON %[1]s (parent_folder_id)`, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_user_name_idx ON %[1]s (user_id, name)`, tables.Folders),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			actual_file_id   TEXT NOT NULL,
			name             TEXT NOT NULL,
			mime_type        TEXT NOT NULL DEFAULT '',
			size             INTEGER NOT NULL DEFAULT 0,
			user_id          INTEGER NOT NULL,
			message_id       INTEGER NOT NULL,
			parent_folder_id INTEGER NOT NULL REFERENCES %s(id),
			created_at       DATETIME
		)`, tables.Files, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_parent_idx ON %[1]s (parent_folder_id)`, tables.Files),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id                    INTEGER PRIMARY KEY,
			last_opened_folder_id INTEGER REFERENCES %[2]s(id) ON DELETE SET NULL,
			root_folder_id        INTEGER REFERENCES %[2]s(id) ON DELETE SET NULL,
			created_at            DATETIME
		)`, tables.Users, tables.Folders),
	}

	for _, stmt := range statements {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropSchema removes the three tables. users goes first since it references folders.
func DropSchema(ctx context.Context, db *gorm.DB, tables *TableNames) error {
	for _, table := range []string{tables.Users, tables.Files, tables.Folders} {
		if err := db.WithContext(ctx).Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)).Error; err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

// ClearData deletes every row but keeps the tables
func ClearData(ctx context.Context, db *gorm.DB, tables *TableNames) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{tables.Users, tables.Files, tables.Folders} {
			if err := tx.Exec(fmt.Sprintf(`DELETE FROM %s`, table)).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
