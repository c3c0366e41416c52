// Package repository provides document-oriented persistence: JSON documents
// addressed by collection and id, with per-document versions for optimistic
// concurrency. The SQL backing is an implementation detail; callers only see
// fetch/store-by-collection+id semantics.
package repository

import (
	"context"
	"errors"
)

const (
	CollectionUsers      = "users"
	CollectionExercises  = "exercises"
	CollectionActivities = "activities"
	CollectionItems      = "items"
)

var (
	// ErrNotFound is returned when no document exists under the given id.
	ErrNotFound = errors.New("document not found")
	// ErrVersionConflict is returned by Replace when the document changed
	// since it was read. Callers re-read and retry.
	ErrVersionConflict = errors.New("document version conflict")
)

// Doc is a stored document plus the version observed at read time.
type Doc struct {
	ID      string
	Data    []byte
	Version int64
}

// DocStore is the minimal document-database surface the service relies on.
type DocStore interface {
	// Get fetches one document. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (Doc, error)
	// Insert stores a new document at version 1.
	Insert(ctx context.Context, collection, id string, data []byte) error
	// Replace overwrites the document if its stored version still equals
	// version; otherwise returns ErrVersionConflict.
	Replace(ctx context.Context, collection, id string, data []byte, version int64) error
	// Delete removes the document. Returns ErrNotFound when absent.
	Delete(ctx context.Context, collection, id string) error
	// Find returns documents whose top-level fields equal the given string
	// values (zero filters means all), in insertion order, sliced by
	// offset/limit. The second result is the total matching count.
	Find(ctx context.Context, collection string, filters map[string]string, offset, limit int) ([]Doc, int, error)
	// Collections lists the known collection names, for backups.
	Collections(ctx context.Context) ([]string, error)
}
