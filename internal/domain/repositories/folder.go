package repositories

import (
	"context"

	"tgdrive/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create inserts a folder and returns it with its generated id.
	// The name is stored as given; sanitization happens in the service layer.
	Create(ctx context.Context, userID int64, name string, parentID *int64) (*models.Folder, error)

	// Get retrieves a folder by id
	Get(ctx context.Context, folderID int64) (*models.Folder, error)

	// FindByName looks a folder up by name among all folders of a user.
	// Returns domain.ErrNotFound on no match and a *domain.ConflictError when the name is ambiguous.
	FindByName(ctx context.Context, userID int64, name string) (*models.Folder, error)

	// GetChildren lists direct child folders and files, each kind in insertion order
	GetChildren(ctx context.Context, folderID int64) (*models.FolderContents, error)

	// Rename sets a new name
	Rename(ctx context.Context, folderID int64, name string) error

	// SetParent moves a folder under another folder
	SetParent(ctx context.Context, folderID, parentID int64) error

	// Delete removes the folder, every descendant folder and every contained file.
	// Run it inside TransactionManager.ExecTx to make the walk atomic.
	Delete(ctx context.Context, folderID int64) error

	// ListByUser retrieves all folders of a user (flat list)
	ListByUser(ctx context.Context, userID int64) ([]models.Folder, error)
}
