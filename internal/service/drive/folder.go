package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/models"
	"tgdrive/internal/domain/repositories"
	"tgdrive/internal/domain/services"
	"tgdrive/internal/events"
)

type folderService struct {
	userRepo   repositories.UserRepository
	folderRepo repositories.FolderRepository
	txManager  repositories.TransactionManager
	authorizer services.ResourceAuthorizer
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	userRepo repositories.UserRepository,
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	publisher events.Publisher,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		userRepo:   userRepo,
		folderRepo: folderRepo,
		txManager:  txManager,
		authorizer: authorizer,
		publisher:  publisher,
		logger:     logger,
	}
}

// GetFolder retrieves a folder the user owns
// Authorization is checked first via the injected authorizer
func (s *folderService) GetFolder(ctx context.Context, userID, folderID int64) (*models.Folder, error) {
	if err := s.authorizer.CanAccessFolder(ctx, userID, folderID); err != nil {
		return nil, err
	}
	return s.folderRepo.Get(ctx, folderID)
}

// Explore opens a folder and records it as the user's current folder
func (s *folderService) Explore(ctx context.Context, userID, folderID int64) (*services.ExploreResult, error) {
	res, err := s.ViewFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetLastOpenedFolder(ctx, userID, folderID); err != nil {
		return nil, err
	}
	return res, nil
}

// SetCurrentFolder makes an owned folder the target of uploads and new folders
func (s *folderService) SetCurrentFolder(ctx context.Context, userID, folderID int64) error {
	if err := s.authorizer.CanAccessFolder(ctx, userID, folderID); err != nil {
		return err
	}
	return s.userRepo.SetLastOpenedFolder(ctx, userID, folderID)
}

// ViewFolder resolves a folder's path, parent and children without touching
// the user's current folder
func (s *folderService) ViewFolder(ctx context.Context, userID, folderID int64) (*services.ExploreResult, error) {
	folder, err := s.GetFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	chain, err := s.ancestors(ctx, folder)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(chain))
	for _, f := range chain {
		names = append(names, f.Name)
	}
	folder.Path = strings.Join(names, "/")

	var parent *models.Folder
	if len(chain) > 1 {
		parent = chain[len(chain)-2]
	}

	contents, err := s.folderRepo.GetChildren(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}

	s.logger.Debug("folder viewed",
		"user_id", userID,
		"folder_id", folderID,
		"path", folder.Path,
		"children", contents.Len(),
	)

	return &services.ExploreResult{
		Folder:   folder,
		Parent:   parent,
		Path:     folder.Path,
		Contents: contents,
	}, nil
}

// ancestors walks parent links up to the root and returns the chain
// root-first, ending with folder itself. A repeated id means the stored
// tree is corrupt.
func (s *folderService) ancestors(ctx context.Context, folder *models.Folder) ([]*models.Folder, error) {
	chain := []*models.Folder{folder}
	visited := map[int64]bool{folder.ID: true}

	current := folder
	for current.ParentID != nil {
		parentID := *current.ParentID
		if visited[parentID] {
			return nil, fmt.Errorf("folder %d: cycle at %d: %w", folder.ID, parentID, domain.ErrIntegrity)
		}
		visited[parentID] = true

		parent, err := s.folderRepo.Get(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("walk path of folder %d: %w", folder.ID, err)
		}
		chain = append(chain, parent)
		current = parent
	}

	slices.Reverse(chain)
	return chain, nil
}

// CreateFolder creates a folder in the user's current folder
func (s *folderService) CreateFolder(ctx context.Context, userID int64, rawName string) (*models.Folder, error) {
	name, err := SanitizeFolderName(rawName)
	if err != nil {
		return nil, err
	}

	current, err := currentFolder(ctx, s.userRepo, s.folderRepo, userID)
	if err != nil {
		return nil, err
	}

	folder, err := s.folderRepo.Create(ctx, userID, name, &current.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", userID,
		"parent_folder_id", current.ID,
	)
	publish(ctx, s.publisher, s.logger,
		events.NewFolderEvent(events.FolderCreated, userID, folder.ID, folder.Name, folder.ParentID))

	return folder, nil
}

// currentFolder resolves the user's last opened folder.
// A user that never navigated, or whose folder is gone, has none.
func currentFolder(ctx context.Context, users repositories.UserRepository, folders repositories.FolderRepository, userID int64) (*models.Folder, error) {
	user, err := users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoCurrentFolder
	}
	if err != nil {
		return nil, err
	}
	if user.LastOpenedFolderID == nil {
		return nil, domain.ErrNoCurrentFolder
	}

	folder, err := folders.Get(ctx, *user.LastOpenedFolderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoCurrentFolder
	}
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// DeleteFolder deletes a folder and its whole subtree once confirmed.
// The subtree walk runs in one transaction.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID int64, confirmed bool) (*models.Folder, error) {
	folder, err := s.folderRepo.Get(ctx, folderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAlreadyDeleted
		}
		return nil, err
	}
	if folder.UserID != userID {
		return nil, fmt.Errorf("access denied to folder %d: %w", folderID, domain.ErrForbidden)
	}

	if !confirmed {
		return folder, nil
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		return s.folderRepo.Delete(ctx, folderID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAlreadyDeleted
		}
		return nil, fmt.Errorf("delete folder %d: %w", folderID, err)
	}

	s.logger.Info("folder deleted",
		"id", folderID,
		"name", folder.Name,
		"user_id", userID,
	)
	publish(ctx, s.publisher, s.logger,
		events.NewFolderEvent(events.FolderDeleted, userID, folder.ID, folder.Name, folder.ParentID))

	return folder, nil
}

// RenameFolder renames an owned folder
func (s *folderService) RenameFolder(ctx context.Context, userID, folderID int64, newName string) (*models.Folder, error) {
	folder, err := s.GetFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	name, err := SanitizeFolderName(newName)
	if err != nil {
		return nil, err
	}

	if err := s.folderRepo.Rename(ctx, folderID, name); err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed",
		"id", folderID,
		"old_name", folder.Name,
		"new_name", name,
		"user_id", userID,
	)
	folder.Name = name
	publish(ctx, s.publisher, s.logger,
		events.NewFolderEvent(events.FolderRenamed, userID, folder.ID, folder.Name, folder.ParentID))

	return folder, nil
}

// MoveFolder moves an owned folder under the user's folder named targetName.
// Roots cannot move, and a folder cannot move into itself or its own subtree.
func (s *folderService) MoveFolder(ctx context.Context, userID, folderID int64, targetName string) (*models.Folder, error) {
	folder, err := s.GetFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}
	if folder.IsRoot() {
		return nil, &domain.ValidationError{Message: "a root folder cannot be moved"}
	}

	name, err := SanitizeFolderName(targetName)
	if err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		target, err := s.folderRepo.FindByName(ctx, userID, name)
		if err != nil {
			return err
		}

		if err := s.validateNoCircularReference(ctx, folderID, target.ID); err != nil {
			return err
		}

		if err := s.folderRepo.SetParent(ctx, folderID, target.ID); err != nil {
			return err
		}
		folder.ParentID = &target.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder moved",
		"id", folderID,
		"name", folder.Name,
		"user_id", userID,
		"parent_folder_id", *folder.ParentID,
	)
	publish(ctx, s.publisher, s.logger,
		events.NewFolderEvent(events.FolderMoved, userID, folder.ID, folder.Name, folder.ParentID))

	return folder, nil
}

// validateNoCircularReference ensures moving a folder won't create circular references
func (s *folderService) validateNoCircularReference(ctx context.Context, folderID, newParentID int64) error {
	if folderID == newParentID {
		return &domain.ValidationError{Message: "cannot move a folder into itself"}
	}

	visited := map[int64]bool{}
	currentID := newParentID
	for {
		if visited[currentID] {
			return fmt.Errorf("folder %d: cycle in stored tree: %w", currentID, domain.ErrIntegrity)
		}
		visited[currentID] = true

		parent, err := s.folderRepo.Get(ctx, currentID)
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		if *parent.ParentID == folderID {
			return &domain.ValidationError{Message: "cannot move a folder into its own subfolder"}
		}
		currentID = *parent.ParentID
	}
}
