package services

import "context"

// ResourceAuthorizer checks if a chat user can act on a tree node.
// Every folder and file has exactly one owner; there is no sharing.
type ResourceAuthorizer interface {
	// CanAccessFolder returns domain.ErrForbidden when the folder belongs to someone else
	CanAccessFolder(ctx context.Context, userID, folderID int64) error

	// CanAccessFile returns domain.ErrForbidden when the file belongs to someone else
	CanAccessFile(ctx context.Context, userID, fileID int64) error
}
