package supplier

import (
	"context"

	"pharmapos/internal/core/id"
)

// Repository defines persistence operations for suppliers.
type Repository interface {
	Create(ctx context.Context, supplier *Supplier) error
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)
	FindByName(ctx context.Context, name string) (*Supplier, error)
	Update(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, supplierID id.ID) error
	List(ctx context.Context) ([]*Supplier, error)

	// ListWithSummary joins each supplier with the aggregate of its
	// purchases (count, total, paid, pending) in a single query.
	ListWithSummary(ctx context.Context) ([]*WithSummary, error)
}
