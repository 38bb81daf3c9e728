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

// SQLiteFolderRepository implements the FolderRepository interface
type SQLiteFolderRepository struct {
	db     *gorm.DB
	tables *TableNames
	files  *SQLiteFileRepository
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &SQLiteFolderRepository{
		db:     config.DB,
		tables: config.Tables,
		files:  &SQLiteFileRepository{db: config.DB, tables: config.Tables},
	}
}

// Create creates a new folder
func (r *SQLiteFolderRepository) Create(ctx context.Context, userID int64, name string, parentID *int64) (*models.Folder, error) {
	record := &folderRecord{
		UserID:         userID,
		Name:           name,
		ParentFolderID: parentID,
	}

	err := GetExecutor(ctx, r.db).Table(r.tables.Folders).Create(record).Error
	if err != nil {
		if isForeignKeyError(err) {
			return nil, fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("create folder: %w", err)
	}

	folder := record.toModel()
	return &folder, nil
}

// Get retrieves a folder by ID
func (r *SQLiteFolderRepository) Get(ctx context.Context, folderID int64) (*models.Folder, error) {
	var record folderRecord

	err := GetExecutor(ctx, r.db).Table(r.tables.Folders).Where("id = ?", folderID).Take(&record).Error
	if err != nil {
		if isNoRowsError(err) {
			return nil, fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	folder := record.toModel()
	return &folder, nil
}

// FindByName finds a user's folder by name; ambiguous names are a conflict
func (r *SQLiteFolderRepository) FindByName(ctx context.Context, userID int64, name string) (*models.Folder, error) {
	var records []folderRecord

	err := GetExecutor(ctx, r.db).Table(r.tables.Folders).
		Where("user_id = ? AND name = ?", userID, name).
		Order("id ASC").
		Limit(2).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("find folder: %w", err)
	}

	switch len(records) {
	case 0:
		return nil, fmt.Errorf("folder %q: %w", name, domain.ErrNotFound)
	case 1:
		folder := records[0].toModel()
		return &folder, nil
	default:
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("more than one folder is named %q", name),
			ResourceType: "folder",
			ResourceID:   strconv.FormatInt(records[0].ID, 10),
		}
	}
}

// GetChildren lists direct child folders then files
func (r *SQLiteFolderRepository) GetChildren(ctx context.Context, folderID int64) (*models.FolderContents, error) {
	folders, err := r.list(ctx, "parent_folder_id = ?", folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}

	files, err := r.files.listByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	return &models.FolderContents{Folders: folders, Files: files}, nil
}

// Rename sets a folder's name
func (r *SQLiteFolderRepository) Rename(ctx context.Context, folderID int64, name string) error {
	result := GetExecutor(ctx, r.db).Table(r.tables.Folders).Where("id = ?", folderID).Update("name", name)
	if result.Error != nil {
		return fmt.Errorf("rename folder: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
	}

	return nil
}

// SetParent re-parents a folder. Cycle checks belong to the caller.
func (r *SQLiteFolderRepository) SetParent(ctx context.Context, folderID, parentID int64) error {
	result := GetExecutor(ctx, r.db).Table(r.tables.Folders).Where("id = ?", folderID).Update("parent_folder_id", parentID)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return fmt.Errorf("folder %d: %w", parentID, domain.ErrNotFound)
		}
		return fmt.Errorf("move folder: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a folder depth-first: child folders, then files, then the row itself
func (r *SQLiteFolderRepository) Delete(ctx context.Context, folderID int64) error {
	children, err := r.GetChildren(ctx, folderID)
	if err != nil {
		return err
	}

	for _, child := range children.Folders {
		if err := r.Delete(ctx, child.ID); err != nil {
			return err
		}
	}

	for _, file := range children.Files {
		if err := r.files.Delete(ctx, file.ID); err != nil {
			return fmt.Errorf("delete file %d in folder %d: %w", file.ID, folderID, err)
		}
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.tables.Folders)

	result := GetExecutor(ctx, r.db).Exec(query, folderID)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return fmt.Errorf("folder %d still has children: %w", folderID, domain.ErrIntegrity)
		}
		return fmt.Errorf("delete folder: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
	}

	return nil
}

// ListByUser retrieves all folders of a user (flat list)
func (r *SQLiteFolderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Folder, error) {
	folders, err := r.list(ctx, "user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("get all folders: %w", err)
	}
	return folders, nil
}

func (r *SQLiteFolderRepository) list(ctx context.Context, where string, arg int64) ([]models.Folder, error) {
	var records []folderRecord

	err := GetExecutor(ctx, r.db).Table(r.tables.Folders).Where(where, arg).Order("id ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}

	folders := make([]models.Folder, 0, len(records))
	for i := range records {
		folders = append(folders, records[i].toModel())
	}
	return folders, nil
}
