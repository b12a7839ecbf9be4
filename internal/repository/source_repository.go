package repository

import (
	"context"

	"github.com/Nike1016/selfoss/internal/domain/entity"
)

// SourceRepository persists feed sources and cascades deletes to their items.
type SourceRepository interface {
	// Get returns nil, nil when no source has the given id.
	Get(ctx context.Context, id int64) (*entity.Source, error)
	// List returns every source ordered by title.
	List(ctx context.Context) ([]*entity.Source, error)
	// Add stores a new source with an empty error and returns its id.
	Add(ctx context.Context, title, spout string, params entity.Params) (int64, error)
	// Edit returns an error wrapping entity.ErrNotFound when id does not exist.
	Edit(ctx context.Context, id int64, title, spout string, params entity.Params) error
	// Delete removes the source together with all of its items.
	Delete(ctx context.Context, id int64) error
	// SetError records the last fetch error; an empty message clears it.
	SetError(ctx context.Context, id int64, message string) error
}
