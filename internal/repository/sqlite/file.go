package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/models"
	"tgdrive/internal/domain/repositories"
)

// SQLiteFileRepository implements the FileRepository interface
type SQLiteFileRepository struct {
	db     *gorm.DB
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &SQLiteFileRepository{
		db:     config.DB,
		tables: config.Tables,
	}
}

// Create inserts file metadata
func (r *SQLiteFileRepository) Create(ctx context.Context, file *models.File) error {
	record := fileRecordFromModel(file)

	err := GetExecutor(ctx, r.db).Table(r.tables.Files).Create(record).Error
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("parent folder %d: %w", file.FolderID, domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	file.ID = record.ID
	file.CreatedAt = record.CreatedAt
	return nil
}

// Get retrieves file metadata by id
func (r *SQLiteFileRepository) Get(ctx context.Context, fileID int64) (*models.File, error) {
	var record fileRecord

	err := GetExecutor(ctx, r.db).Table(r.tables.Files).Where("id = ?", fileID).Take(&record).Error
	if err != nil {
		if isNoRowsError(err) {
			return nil, fmt.Errorf("file %d: %w", fileID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	file := record.toModel()
	return &file, nil
}

// Delete removes the metadata row; the stored payload is left alone
func (r *SQLiteFileRepository) Delete(ctx context.Context, fileID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.tables.Files)

	result := GetExecutor(ctx, r.db).Exec(query, fileID)
	if result.Error != nil {
		return fmt.Errorf("delete file: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("file %d: %w", fileID, domain.ErrNotFound)
	}

	return nil
}

// SetParent moves a file into another folder
func (r *SQLiteFileRepository) SetParent(ctx context.Context, fileID, folderID int64) error {
	result := GetExecutor(ctx, r.db).Table(r.tables.Files).Where("id = ?", fileID).Update("parent_folder_id", folderID)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
		}
		return fmt.Errorf("move file: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("file %d: %w", fileID, domain.ErrNotFound)
	}

	return nil
}

// ListByUser retrieves every file of a user
func (r *SQLiteFileRepository) ListByUser(ctx context.Context, userID int64) ([]models.File, error) {
	return r.list(ctx, "user_id = ?", userID)
}

// listByFolder retrieves the files directly inside a folder
func (r *SQLiteFileRepository) listByFolder(ctx context.Context, folderID int64) ([]models.File, error) {
	return r.list(ctx, "parent_folder_id = ?", folderID)
}

func (r *SQLiteFileRepository) list(ctx context.Context, where string, arg int64) ([]models.File, error) {
	var records []fileRecord

	err := GetExecutor(ctx, r.db).Table(r.tables.Files).Where(where, arg).Order("id ASC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	files := make([]models.File, 0, len(records))
	for i := range records {
		files = append(files, records[i].toModel())
	}
	return files, nil
}
