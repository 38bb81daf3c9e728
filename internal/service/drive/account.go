package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/repositories"
	"tgdrive/internal/domain/services"
	"tgdrive/internal/events"
)

// RootFolderName is the name given to every user's root folder
const RootFolderName = "Home"

type accountService struct {
	userRepo   repositories.UserRepository
	folderRepo repositories.FolderRepository
	txManager  repositories.TransactionManager
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	userRepo repositories.UserRepository,
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	publisher events.Publisher,
	logger *slog.Logger,
) services.AccountService {
	return &accountService{
		userRepo:   userRepo,
		folderRepo: folderRepo,
		txManager:  txManager,
		publisher:  publisher,
		logger:     logger,
	}
}

// Start ensures the user and its root folder exist
func (s *accountService) Start(ctx context.Context, userID int64) (*services.StartResult, error) {
	result := &services.StartResult{}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.Get(ctx, userID)
		if errors.Is(err, domain.ErrNotFound) {
			if _, err := s.userRepo.Create(ctx, userID); err != nil {
				return err
			}
			result.NewUser = true
			user, err = s.userRepo.Get(ctx, userID)
		}
		if err != nil {
			return err
		}

		// root_folder_id is nulled by the store when the root is deleted
		if user.RootFolderID != nil {
			root, err := s.folderRepo.Get(ctx, *user.RootFolderID)
			if err == nil {
				result.User, result.Root = user, root
				return nil
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}

		root, err := s.folderRepo.Create(ctx, userID, RootFolderName, nil)
		if err != nil {
			return fmt.Errorf("create root folder: %w", err)
		}
		if err := s.userRepo.SetRootFolder(ctx, userID, root.ID); err != nil {
			return err
		}
		user.RootFolderID = &root.ID

		result.User, result.Root, result.RootCreated = user, root, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.NewUser {
		s.logger.Info("new user", "user_id", userID)
	}
	if result.RootCreated {
		s.logger.Info("root folder created", "user_id", userID, "folder_id", result.Root.ID)
		publish(ctx, s.publisher, s.logger,
			events.NewFolderEvent(events.FolderCreated, userID, result.Root.ID, result.Root.Name, nil))
	}

	result.Root.Path = result.Root.Name
	return result, nil
}

// publish sends an event; failures only get logged
func publish(ctx context.Context, p events.Publisher, logger *slog.Logger, e *events.Event) {
	if err := p.Publish(ctx, e); err != nil {
		logger.Warn("failed to publish event",
			"event_id", e.ID,
			"type", e.EventType,
			"user_id", e.UserID,
			"error", err,
		)
	}
}
