package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/models"
	"tgdrive/internal/domain/repositories"
)

const fileColumns = `id, actual_file_id, name, mime_type, size, user_id, message_id, parent_folder_id, created_at`

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts file metadata
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (actual_file_id, name, mime_type, size, user_id, message_id, parent_folder_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.ActualFileID,
		file.Name,
		file.MimeType,
		file.Size,
		file.UserID,
		file.MessageID,
		file.FolderID,
	).Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent folder %d: %w", file.FolderID, domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// Get retrieves file metadata by id
func (r *PostgresFileRepository) Get(ctx context.Context, fileID int64) (*models.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fileColumns, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, query, fileID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %d: %w", fileID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return file, nil
}

// Delete removes the metadata row; the stored payload is left alone
func (r *PostgresFileRepository) Delete(ctx context.Context, fileID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, fileID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %d: %w", fileID, domain.ErrNotFound)
	}

	return nil
}

// SetParent moves a file into another folder
func (r *PostgresFileRepository) SetParent(ctx context.Context, fileID, folderID int64) error {
	query := fmt.Sprintf(`UPDATE %s SET parent_folder_id = $1 WHERE id = $2`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderID, fileID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
		}
		return fmt.Errorf("move file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %d: %w", fileID, domain.ErrNotFound)
	}

	return nil
}

// ListByUser retrieves every file of a user
func (r *PostgresFileRepository) ListByUser(ctx context.Context, userID int64) ([]models.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY id ASC`, fileColumns, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return collectFiles(rows)
}

// listByFolder retrieves the files directly inside a folder
func (r *PostgresFileRepository) listByFolder(ctx context.Context, folderID int64) ([]models.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE parent_folder_id = $1 ORDER BY id ASC`, fileColumns, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder files: %w", err)
	}
	return collectFiles(rows)
}

func scanFile(row pgx.Row) (*models.File, error) {
	var file models.File
	err := row.Scan(
		&file.ID,
		&file.ActualFileID,
		&file.Name,
		&file.MimeType,
		&file.Size,
		&file.UserID,
		&file.MessageID,
		&file.FolderID,
		&file.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func collectFiles(rows pgx.Rows) ([]models.File, error) {
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}
