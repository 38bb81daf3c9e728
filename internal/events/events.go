// Package events publishes tree mutations for downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	FolderCreated = "folder.created"
	FolderRenamed = "folder.renamed"
	FolderMoved   = "folder.moved"
	FolderDeleted = "folder.deleted"
	FileUploaded  = "file.uploaded"
	FileMoved     = "file.moved"
	FileDeleted   = "file.deleted"
)

// Resource types
const (
	ResourceFolder = "folder"
	ResourceFile   = "file"
)

// Event describes one change to a user's tree
type Event struct {
	ID           string    `json:"id"`
	EventType    string    `json:"eventType"`
	ResourceType string    `json:"resourceType"`
	ResourceID   int64     `json:"resourceId"`
	UserID       int64     `json:"userId"`
	Name         string    `json:"name,omitempty"`
	ParentID     *int64    `json:"parentFolderId,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewFolderEvent creates an event about a folder
func NewFolderEvent(eventType string, userID, folderID int64, name string, parentID *int64) *Event {
	return newEvent(eventType, ResourceFolder, userID, folderID, name, parentID)
}

// NewFileEvent creates an event about a file
func NewFileEvent(eventType string, userID, fileID int64, name string, folderID int64) *Event {
	return newEvent(eventType, ResourceFile, userID, fileID, name, &folderID)
}

func newEvent(eventType, resourceType string, userID, resourceID int64, name string, parentID *int64) *Event {
	return &Event{
		ID:           uuid.NewString(),
		EventType:    eventType,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		UserID:       userID,
		Name:         name,
		ParentID:     parentID,
		Timestamp:    time.Now().UTC(),
	}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
