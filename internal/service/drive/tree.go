package drive

import (
	"context"
	"log/slog"

	"tgdrive/internal/domain/models"
	"tgdrive/internal/domain/repositories"
	"tgdrive/internal/domain/services"
)

// treeService implements the TreeService interface
type treeService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		logger:     logger,
	}
}

// GetUserTree builds the nested folder/file tree of a user from two flat lists
func (s *treeService) GetUserTree(ctx context.Context, userID int64) (*models.TreeNode, error) {
	allFolders, err := s.folderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	allFiles, err := s.fileRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	nodes := make(map[int64]*models.FolderTreeNode, len(allFolders))
	for _, folder := range allFolders {
		nodes[folder.ID] = &models.FolderTreeNode{
			ID:        folder.ID,
			Name:      folder.Name,
			ParentID:  folder.ParentID,
			CreatedAt: folder.CreatedAt,
			Folders:   []*models.FolderTreeNode{},
			Files:     []models.FileTreeNode{},
		}
	}

	// Nest folders; lists are id-ordered so children keep insertion order
	roots := make([]*models.FolderTreeNode, 0, 1)
	for _, folder := range allFolders {
		node := nodes[folder.ID]
		if folder.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*folder.ParentID]; ok {
			parent.Folders = append(parent.Folders, node)
		}
	}

	for _, file := range allFiles {
		if parent, ok := nodes[file.FolderID]; ok {
			parent.Files = append(parent.Files, models.FileTreeNode{
				ID:       file.ID,
				Name:     file.Name,
				MimeType: file.MimeType,
				Size:     file.Size,
			})
		}
	}

	s.logger.Info("user tree built",
		"user_id", userID,
		"folder_count", len(allFolders),
		"file_count", len(allFiles),
	)

	return &models.TreeNode{UserID: userID, Folders: roots}, nil
}
