package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/models"
	"tgdrive/internal/domain/repositories"
	"tgdrive/internal/domain/services"
	"tgdrive/internal/events"
)

type fileService struct {
	userRepo   repositories.UserRepository
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	payloads   services.PayloadStore
	authorizer services.ResourceAuthorizer
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	userRepo repositories.UserRepository,
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	payloads services.PayloadStore,
	authorizer services.ResourceAuthorizer,
	publisher events.Publisher,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		userRepo:   userRepo,
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		payloads:   payloads,
		authorizer: authorizer,
		publisher:  publisher,
		logger:     logger,
	}
}

// Upload copies the payload to the storage chat, then records it in the
// user's current folder. If recording fails the stored copy stays behind;
// nothing reconciles it.
func (s *fileService) Upload(ctx context.Context, userID int64, req *services.UploadRequest) (*services.UploadResult, error) {
	folder, err := currentFolder(ctx, s.userRepo, s.folderRepo, userID)
	if err != nil {
		return nil, err
	}

	messageID, err := s.payloads.Store(ctx, req.ActualFileID)
	if err != nil {
		return nil, fmt.Errorf("store payload %q: %w: %v", req.Name, domain.ErrUpstream, err)
	}

	file := &models.File{
		ActualFileID: req.ActualFileID,
		Name:         req.Name,
		MimeType:     req.MimeType,
		Size:         req.Size,
		UserID:       userID,
		MessageID:    messageID,
		FolderID:     folder.ID,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		s.logger.Error("payload stored without metadata",
			"user_id", userID,
			"message_id", messageID,
			"name", req.Name,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("file uploaded",
		"id", file.ID,
		"name", file.Name,
		"mime_type", file.MimeType,
		"size", file.Size,
		"user_id", userID,
		"folder_id", folder.ID,
	)
	publish(ctx, s.publisher, s.logger,
		events.NewFileEvent(events.FileUploaded, userID, file.ID, file.Name, file.FolderID))

	return &services.UploadResult{File: file, Folder: folder}, nil
}

// PreviewFile retrieves a file the user owns
func (s *fileService) PreviewFile(ctx context.Context, userID, fileID int64) (*models.File, error) {
	if err := s.authorizer.CanAccessFile(ctx, userID, fileID); err != nil {
		return nil, err
	}
	return s.fileRepo.Get(ctx, fileID)
}

// DeleteFile removes the metadata row once confirmed. The stored payload is kept.
func (s *fileService) DeleteFile(ctx context.Context, userID, fileID int64, confirmed bool) (*models.File, error) {
	file, err := s.fileRepo.Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAlreadyDeleted
		}
		return nil, err
	}
	if file.UserID != userID {
		return nil, fmt.Errorf("access denied to file %d: %w", fileID, domain.ErrForbidden)
	}

	if !confirmed {
		return file, nil
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAlreadyDeleted
		}
		return nil, err
	}

	s.logger.Info("file deleted",
		"id", fileID,
		"name", file.Name,
		"user_id", userID,
	)
	publish(ctx, s.publisher, s.logger,
		events.NewFileEvent(events.FileDeleted, userID, file.ID, file.Name, file.FolderID))

	return file, nil
}

// MoveFile moves an owned file into the user's folder named targetName
func (s *fileService) MoveFile(ctx context.Context, userID, fileID int64, targetName string) (*models.File, error) {
	file, err := s.PreviewFile(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}

	name, err := SanitizeFolderName(targetName)
	if err != nil {
		return nil, err
	}

	target, err := s.folderRepo.FindByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	if err := s.fileRepo.SetParent(ctx, fileID, target.ID); err != nil {
		return nil, err
	}
	file.FolderID = target.ID

	s.logger.Info("file moved",
		"id", fileID,
		"name", file.Name,
		"user_id", userID,
		"folder_id", target.ID,
	)
	publish(ctx, s.publisher, s.logger,
		events.NewFileEvent(events.FileMoved, userID, file.ID, file.Name, file.FolderID))

	return file, nil
}
