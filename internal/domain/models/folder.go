package models

import (
	"time"
)

type Folder struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	ParentID  *int64    `json:"parent_folder_id" db:"parent_folder_id"` // NULL = root
	Name      string    `json:"name" db:"name"`
	Path      string    `json:"path,omitempty"` // Computed display path, not stored in DB
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsRoot reports whether the folder has no parent.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// FolderContents holds the direct children of a folder.
type FolderContents struct {
	Folders []Folder `json:"folders"`
	Files   []File   `json:"files"`
}

// Entries returns the children folders first, then files.
func (c *FolderContents) Entries() []Entry {
	if c == nil {
		return nil
	}
	entries := make([]Entry, 0, len(c.Folders)+len(c.Files))
	for _, f := range c.Folders {
		entries = append(entries, f)
	}
	for _, f := range c.Files {
		entries = append(entries, f)
	}
	return entries
}

// Len returns the total number of children.
func (c *FolderContents) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Folders) + len(c.Files)
}
