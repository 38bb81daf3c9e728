package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/models"
	"tgdrive/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a user keyed by the platform user id
func (r *PostgresUserRepository) Create(ctx context.Context, userID int64) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s (id) VALUES ($1)`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID); err != nil {
		if isPgDuplicateError(err) {
			return 0, &domain.ConflictError{
				Message:      fmt.Sprintf("user %d already exists", userID),
				ResourceType: "user",
				ResourceID:   strconv.FormatInt(userID, 10),
			}
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	return userID, nil
}

// Get retrieves a user by id
func (r *PostgresUserRepository) Get(ctx context.Context, userID int64) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, last_opened_folder_id, root_folder_id, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.LastOpenedFolderID,
		&user.RootFolderID,
		&user.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// SetRootFolder overwrites root_folder_id
func (r *PostgresUserRepository) SetRootFolder(ctx context.Context, userID, folderID int64) error {
	return r.setFolderColumn(ctx, "root_folder_id", userID, folderID)
}

// SetLastOpenedFolder overwrites last_opened_folder_id
func (r *PostgresUserRepository) SetLastOpenedFolder(ctx context.Context, userID, folderID int64) error {
	return r.setFolderColumn(ctx, "last_opened_folder_id", userID, folderID)
}

func (r *PostgresUserRepository) setFolderColumn(ctx context.Context, column string, userID, folderID int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, r.tables.Users, column)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderID, userID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
		}
		return fmt.Errorf("update user %s: %w", column, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}

	return nil
}
