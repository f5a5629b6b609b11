package repository

import (
	"context"

	"github.com/cobbinma/portfolio/internal/model"
)

// ListOptions pages through stored entries. An empty Kind lists every kind.
type ListOptions struct {
	Kind   string
	Limit  int
	Offset int
}

// EntryRepository stores raw content records keyed by (kind, id).
//
// Get and Delete return an error wrapping apperror.ErrNotFound when no record
// matches.
type EntryRepository interface {
	Put(ctx context.Context, entry *model.Entry) error
	Get(ctx context.Context, kind, id string) (*model.Entry, error)
	List(ctx context.Context, opts ListOptions) ([]model.Entry, error)
	Delete(ctx context.Context, kind, id string) error
}
