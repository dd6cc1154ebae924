// Package store wraps the document database behind a small collection API.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Collection names used by the entity services.
const (
	CollectionArtworks      = "artworks"
	CollectionProjects      = "projects"
	CollectionProfile       = "profile"
	CollectionGalleryConfig = "gallery_config"
	CollectionTheme         = "theme"
	CollectionUsers         = "users"

	// SingletonID addresses the one document of a configuration collection.
	SingletonID = "main"
)

var (
	// ErrNotFound is returned when get/update/delete target a missing id.
	ErrNotFound = errors.New("record not found")
	// ErrPermissionDenied is returned when the backend refuses the operation.
	ErrPermissionDenied = errors.New("permission denied")
)

// Fields is the opaque field map of one document.
type Fields map[string]any

// Record is a stored document with its identifier.
type Record struct {
	ID     string
	Fields Fields
}

// Order requests a sorted listing on a single top-level field.
type Order struct {
	Field string
	Desc  bool
}

// Store is the record store contract shared by every backend.
type Store interface {
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	Get(ctx context.Context, collection, id string) (Record, error)
	List(ctx context.Context, collection string, order ...Order) ([]Record, error)
	// Update merges the top-level keys of partial into the stored document.
	Update(ctx context.Context, collection, id string, partial Fields) error
	// Set replaces the document, creating it when absent.
	Set(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error
}

// Error describes a failed store operation.
type Error struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store %s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(op, collection, id string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Collection: collection, ID: id, Err: err}
}

// Clone returns a shallow copy so callers can mutate the result freely.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for key, value := range f {
		out[key] = value
	}
	return out
}
