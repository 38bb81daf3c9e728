package models

import "time"

// File is the metadata of a payload stored in the storage channel.
// ActualFileID and MessageID point back to the platform; the bytes never pass through here.
type File struct {
	ID           int64     `json:"id" db:"id"`
	ActualFileID string    `json:"actual_file_id" db:"actual_file_id"`
	Name         string    `json:"name" db:"name"`
	MimeType     string    `json:"mime_type" db:"mime_type"`
	Size         int64     `json:"size" db:"size"`
	UserID       int64     `json:"user_id" db:"user_id"`
	MessageID    int64     `json:"message_id" db:"message_id"`
	FolderID     int64     `json:"parent_folder_id" db:"parent_folder_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
