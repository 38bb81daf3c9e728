package models

import "time"

// User is keyed by the chat platform's user id.
type User struct {
	ID                 int64     `json:"id" db:"id"`
	LastOpenedFolderID *int64    `json:"last_opened_folder_id" db:"last_opened_folder_id"`
	RootFolderID       *int64    `json:"root_folder_id" db:"root_folder_id"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}
