package category

import (
	"context"

	"pharmapos/internal/core/id"
)

// Repository defines persistence operations for categories.
type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, categoryID id.ID) (*Category, error)
	// FindByName retrieves a category by exact name, used for uniqueness checks.
	FindByName(ctx context.Context, name string) (*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, categoryID id.ID) error
	List(ctx context.Context) ([]*Category, error)
}
