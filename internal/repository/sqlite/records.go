package sqlite

import (
	"time"

	"tgdrive/internal/domain/models"
)

// Row shapes for gorm. Table names are chosen per query because of the prefix.

type userRecord struct {
	ID                 int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	LastOpenedFolderID *int64    `gorm:"column:last_opened_folder_id"`
	RootFolderID       *int64    `gorm:"column:root_folder_id"`
	CreatedAt          time.Time `gorm:"column:created_at"`
}

type folderRecord struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID         int64     `gorm:"column:user_id"`
	Name           string    `gorm:"column:name"`
	ParentFolderID *int64    `gorm:"column:parent_folder_id"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

type fileRecord struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ActualFileID   string    `gorm:"column:actual_file_id"`
	Name           string    `gorm:"column:name"`
	MimeType       string    `gorm:"column:mime_type"`
	Size           int64     `gorm:"column:size"`
	UserID         int64     `gorm:"column:user_id"`
	MessageID      int64     `gorm:"column:message_id"`
	ParentFolderID int64     `gorm:"column:parent_folder_id"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (r *userRecord) toModel() *models.User {
	return &models.User{
		ID:                 r.ID,
		LastOpenedFolderID: r.LastOpenedFolderID,
		RootFolderID:       r.RootFolderID,
		CreatedAt:          r.CreatedAt,
	}
}

func (r *folderRecord) toModel() models.Folder {
	return models.Folder{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		ParentID:  r.ParentFolderID,
		CreatedAt: r.CreatedAt,
	}
}

func (r *fileRecord) toModel() models.File {
	return models.File{
		ID:           r.ID,
		ActualFileID: r.ActualFileID,
		Name:         r.Name,
		MimeType:     r.MimeType,
		Size:         r.Size,
		UserID:       r.UserID,
		MessageID:    r.MessageID,
		FolderID:     r.ParentFolderID,
		CreatedAt:    r.CreatedAt,
	}
}

func fileRecordFromModel(f *models.File) *fileRecord {
	return &fileRecord{
		ActualFileID:   f.ActualFileID,
		Name:           f.Name,
		MimeType:       f.MimeType,
		Size:           f.Size,
		UserID:         f.UserID,
		MessageID:      f.MessageID,
		ParentFolderID: f.FolderID,
	}
}
