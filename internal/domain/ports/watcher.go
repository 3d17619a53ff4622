package ports

import (
	"context"
	"time"
)

// DirectoryWatcher reports changes to the markdown files in a directory
type DirectoryWatcher interface {
	// Watch scans dir and then reports every later change until ctx ends
	Watch(ctx context.Context, dir string) (<-chan FileChangeEvent, error)
	// Stop stops the watcher and closes the event channel
	Stop() error
}

// FileChangeEvent represents a file change event
type FileChangeEvent struct {
	Path      string
	Type      ChangeType
	Timestamp time.Time
}

// ChangeType represents the type of file change
type ChangeType int

const (
	// Modified indicates the file content changed
	Modified ChangeType = iota
	// Created indicates the file appeared
	Created
	// Deleted indicates the file was removed
	Deleted
)

func (c ChangeType) String() string {
	switch c {
	case Modified:
		return "modified"
	case Created:
		return "created"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}
