package auth

import (
	"context"
	"fmt"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/repositories"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can access a folder or file only if its user_id is theirs.
type OwnerBasedAuthorizer struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
	}
}

// CanAccessFolder checks if user owns the folder
func (a *OwnerBasedAuthorizer) CanAccessFolder(ctx context.Context, userID, folderID int64) error {
	folder, err := a.folderRepo.Get(ctx, folderID)
	if err != nil {
		return fmt.Errorf("get folder for auth: %w", err)
	}
	if folder.UserID != userID {
		return fmt.Errorf("access denied to folder %d: %w", folderID, domain.ErrForbidden)
	}
	return nil
}

// CanAccessFile checks if user owns the file
func (a *OwnerBasedAuthorizer) CanAccessFile(ctx context.Context, userID, fileID int64) error {
	file, err := a.fileRepo.Get(ctx, fileID)
	if err != nil {
		return fmt.Errorf("get file for auth: %w", err)
	}
	if file.UserID != userID {
		return fmt.Errorf("access denied to file %d: %w", fileID, domain.ErrForbidden)
	}
	return nil
}
