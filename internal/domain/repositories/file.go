package repositories

import (
	"context"

	"tgdrive/internal/domain/models"
)

// FileRepository defines data access operations for file metadata.
// None of these touch the stored payload.
type FileRepository interface {
	// Create inserts a file row and fills in ID and CreatedAt
	Create(ctx context.Context, file *models.File) error

	// Get retrieves a file by id
	Get(ctx context.Context, fileID int64) (*models.File, error)

	// Delete removes the metadata row
	Delete(ctx context.Context, fileID int64) error

	// SetParent moves a file into another folder
	SetParent(ctx context.Context, fileID, folderID int64) error

	// ListByUser retrieves all files of a user (flat list)
	ListByUser(ctx context.Context, userID int64) ([]models.File, error)
}
