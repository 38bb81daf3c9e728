package repositories

import (
	"context"

	"tgdrive/internal/domain/models"
)

// UserRepository defines data access operations for users.
// Users are keyed by the platform's user id, not by a generated key.
type UserRepository interface {
	// Create inserts a user row; returns domain.ErrConflict if it already exists
	Create(ctx context.Context, userID int64) (int64, error)

	// Get retrieves a user; returns domain.ErrNotFound if it was never created
	Get(ctx context.Context, userID int64) (*models.User, error)

	// SetRootFolder overwrites the user's root folder reference
	SetRootFolder(ctx context.Context, userID, folderID int64) error

	// SetLastOpenedFolder overwrites the user's current folder reference
	SetLastOpenedFolder(ctx context.Context, userID, folderID int64) error
}
