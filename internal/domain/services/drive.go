package services

import (
	"context"

	"tgdrive/internal/domain/models"
)

// AccountService handles first contact with a user
type AccountService interface {
	// Start creates the user and its "Home" root when missing, then returns the root.
	// A root that was deleted is recreated.
	Start(ctx context.Context, userID int64) (*StartResult, error)
}

// StartResult describes what Start did
type StartResult struct {
	User        *models.User
	Root        *models.Folder
	NewUser     bool
	RootCreated bool
}

// FolderService handles folder business logic
type FolderService interface {
	// GetFolder returns an owned folder
	GetFolder(ctx context.Context, userID, folderID int64) (*models.Folder, error)

	// Explore opens a folder: path, parent, children. It becomes the user's current folder.
	Explore(ctx context.Context, userID, folderID int64) (*ExploreResult, error)

	// ViewFolder is Explore without recording the current folder
	ViewFolder(ctx context.Context, userID, folderID int64) (*ExploreResult, error)

	// SetCurrentFolder records an owned folder as the user's current folder
	SetCurrentFolder(ctx context.Context, userID, folderID int64) error

	// CreateFolder creates a folder named rawName (after sanitizing) in the current folder.
	// Returns domain.ErrNoCurrentFolder when the user has not opened any folder yet.
	CreateFolder(ctx context.Context, userID int64, rawName string) (*models.Folder, error)

	// DeleteFolder is two-phase: without confirmation it only returns the target.
	// A target that no longer exists yields domain.ErrAlreadyDeleted.
	DeleteFolder(ctx context.Context, userID, folderID int64, confirmed bool) (*models.Folder, error)

	// RenameFolder sanitizes newName and renames the folder
	RenameFolder(ctx context.Context, userID, folderID int64, newName string) (*models.Folder, error)

	// MoveFolder moves a folder under the user's folder named targetName
	MoveFolder(ctx context.Context, userID, folderID int64, targetName string) (*models.Folder, error)
}

// FileService handles file metadata business logic
type FileService interface {
	// Upload stores the payload in the storage chat and records it in the current folder.
	// Returns domain.ErrNoCurrentFolder (and stores nothing) when there is no current folder.
	Upload(ctx context.Context, userID int64, req *UploadRequest) (*UploadResult, error)

	// PreviewFile returns an owned file
	PreviewFile(ctx context.Context, userID, fileID int64) (*models.File, error)

	// DeleteFile is two-phase, like DeleteFolder
	DeleteFile(ctx context.Context, userID, fileID int64, confirmed bool) (*models.File, error)

	// MoveFile moves a file into the user's folder named targetName
	MoveFile(ctx context.Context, userID, fileID int64, targetName string) (*models.File, error)
}

// ExploreResult is a folder as shown in the explorer
type ExploreResult struct {
	Folder   *models.Folder
	Parent   *models.Folder // nil for a root
	Path     string         // "Home/Projects/2024"
	Contents *models.FolderContents
}

// UploadRequest describes a document the user sent
type UploadRequest struct {
	ActualFileID string
	Name         string
	MimeType     string
	Size         int64
}

// UploadResult is the stored file and the folder it landed in
type UploadResult struct {
	File   *models.File
	Folder *models.Folder
}

// PayloadStore keeps file bytes outside the metadata store
type PayloadStore interface {
	// Store copies the payload into the storage chat and returns the id of
	// the message holding it. A copy is never removed.
	Store(ctx context.Context, actualFileID string) (messageID int64, err error)
}
