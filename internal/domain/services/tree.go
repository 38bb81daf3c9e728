package services

import (
	"context"

	"tgdrive/internal/domain/models"
)

// TreeService defines operations for building folder trees
type TreeService interface {
	// GetUserTree builds the nested folder/file tree of one user
	GetUserTree(ctx context.Context, userID int64) (*models.TreeNode, error)
}
