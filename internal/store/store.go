// Package store persists portfolio content and answers catalog queries.
package store

import (
	"context"
	"errors"

	"folio.dev/internal/catalog"
	"folio.dev/internal/models"
)

// ErrNotFound is returned when a lookup by key matches no row
var ErrNotFound = errors.New("not found")

// Store is the read side of the content backend
type Store interface {
	// ListProjects returns the projects matching c in declared order
	// (see catalog.Compare). No match is an empty slice, not an error.
	ListProjects(ctx context.Context, c catalog.Criteria) ([]models.Project, error)
	// ProjectBySlug returns ErrNotFound when no project has slug.
	ProjectBySlug(ctx context.Context, slug string) (models.Project, error)
	// Sections returns a project's sections ordered by Order.
	Sections(ctx context.Context, projectID int64) ([]models.Section, error)
	// About returns ErrNotFound when no about page is stored.
	About(ctx context.Context) (models.About, error)
	// Experiences are ordered newest first.
	Experiences(ctx context.Context) ([]models.Experience, error)
	Close() error
}

// Writer is a Store whose whole content can be replaced from a dataset
type Writer interface {
	Store
	// Replace swaps the stored content for ds atomically.
	Replace(ctx context.Context, ds *Dataset) error
}
