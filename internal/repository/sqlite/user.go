package sqlite

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/models"
	"tgdrive/internal/domain/repositories"
)

// SQLiteUserRepository implements the UserRepository interface
type SQLiteUserRepository struct {
	db     *gorm.DB
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &SQLiteUserRepository{
		db:     config.DB,
		tables: config.Tables,
	}
}

// Create inserts a user keyed by the platform user id
func (r *SQLiteUserRepository) Create(ctx context.Context, userID int64) (int64, error) {
	record := &userRecord{ID: userID}

	err := GetExecutor(ctx, r.db).Table(r.tables.Users).Create(record).Error
	if err != nil {
		if isDuplicateError(err) {
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
func (r *SQLiteUserRepository) Get(ctx context.Context, userID int64) (*models.User, error) {
	var record userRecord

	err := GetExecutor(ctx, r.db).Table(r.tables.Users).Where("id = ?", userID).Take(&record).Error
	if err != nil {
		if isNoRowsError(err) {
			return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return record.toModel(), nil
}

// SetRootFolder overwrites root_folder_id
func (r *SQLiteUserRepository) SetRootFolder(ctx context.Context, userID, folderID int64) error {
	return r.setFolderColumn(ctx, "root_folder_id", userID, folderID)
}

// SetLastOpenedFolder overwrites last_opened_folder_id
func (r *SQLiteUserRepository) SetLastOpenedFolder(ctx context.Context, userID, folderID int64) error {
	return r.setFolderColumn(ctx, "last_opened_folder_id", userID, folderID)
}

func (r *SQLiteUserRepository) setFolderColumn(ctx context.Context, column string, userID, folderID int64) error {
	result := GetExecutor(ctx, r.db).Table(r.tables.Users).Where("id = ?", userID).Update(column, folderID)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
		}
		return fmt.Errorf("update user %s: %w", column, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}

	return nil
}
