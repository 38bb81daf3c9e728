package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/models"
	"tgdrive/internal/domain/repositories"
)

const folderColumns = `id, user_id, name, parent_folder_id, created_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	files  *PostgresFileRepository
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		files:  &PostgresFileRepository{pool: config.Pool, tables: config.Tables},
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, userID int64, name string, parentID *int64) (*models.Folder, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, parent_folder_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Folders)

	folder := &models.Folder{
		UserID:   userID,
		Name:     name,
		ParentID: parentID,
	}

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID, name, parentID).Scan(&folder.ID, &folder.CreatedAt)
	if err != nil {
		if isPgForeignKeyError(err) {
			return nil, fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("create folder: %w", err)
	}

	return folder, nil
}

// Get retrieves a folder by ID
func (r *PostgresFolderRepository) Get(ctx context.Context, folderID int64) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, folderID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// FindByName finds a user's folder by name; ambiguous names are a conflict
func (r *PostgresFolderRepository) FindByName(ctx context.Context, userID int64, name string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 AND name = $2
		ORDER BY id ASC
		LIMIT 2
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, name)
	if err != nil {
		return nil, fmt.Errorf("find folder: %w", err)
	}
	matches, err := collectFolders(rows)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("folder %q: %w", name, domain.ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("more than one folder is named %q", name),
			ResourceType: "folder",
			ResourceID:   strconv.FormatInt(matches[0].ID, 10),
		}
	}
}

// GetChildren lists direct child folders then files
func (r *PostgresFolderRepository) GetChildren(ctx context.Context, folderID int64) (*models.FolderContents, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE parent_folder_id = $1
		ORDER BY id ASC
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	folders, err := collectFolders(rows)
	if err != nil {
		return nil, err
	}

	files, err := r.files.listByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	return &models.FolderContents{Folders: folders, Files: files}, nil
}

// Rename sets a folder's name
func (r *PostgresFolderRepository) Rename(ctx context.Context, folderID int64, name string) error {
	query := fmt.Sprintf(`UPDATE %s SET name = $1 WHERE id = $2`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, name, folderID)
	if err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
	}

	return nil
}

// SetParent re-parents a folder. Cycle checks belong to the caller.
func (r *PostgresFolderRepository) SetParent(ctx context.Context, folderID, parentID int64) error {
	query := fmt.Sprintf(`UPDATE %s SET parent_folder_id = $1 WHERE id = $2`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, parentID, folderID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %d: %w", parentID, domain.ErrNotFound)
		}
		return fmt.Errorf("move folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a folder depth-first: child folders, then files, then the row itself
func (r *PostgresFolderRepository) Delete(ctx context.Context, folderID int64) error {
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

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %d still has children: %w", folderID, domain.ErrIntegrity)
		}
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
	}

	return nil
}

// ListByUser retrieves all folders of a user (flat list)
func (r *PostgresFolderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY id ASC`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get all folders: %w", err)
	}
	return collectFolders(rows)
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.ParentID,
		&folder.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}
