package shelf

import (
	"context"

	"pharmapos/internal/core/id"
)

// Repository defines persistence operations for shelves.
type Repository interface {
	Create(ctx context.Context, shelf *Shelf) error
	GetByID(ctx context.Context, shelfID id.ID) (*Shelf, error)
	FindByName(ctx context.Context, name string) (*Shelf, error)
	Update(ctx context.Context, shelf *Shelf) error
	Delete(ctx context.Context, shelfID id.ID) error
	List(ctx context.Context) ([]*Shelf, error)
}
