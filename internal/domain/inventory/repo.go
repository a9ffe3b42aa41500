package inventory

import (
	"context"

	"pharmapos/internal/core/id"
)

// ListFilter contains filtering options for product queries.
type ListFilter struct {
	// Search matches against product name (case-insensitive prefix).
	Search string

	// CategoryID filters by category.
	CategoryID *id.ID

	// ShelfID filters by shelf.
	ShelfID *id.ID

	// InStockOnly excludes products with zero stock.
	InStockOnly bool

	Limit  int
	Offset int
}

// Repository defines persistence operations for products.
type Repository interface {
	Create(ctx context.Context, product *Product) error

	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// GetForUpdate retrieves a product with a row lock for stock control.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	Update(ctx context.Context, product *Product) error

	Delete(ctx context.Context, productID id.ID) error

	List(ctx context.Context, filter ListFilter) ([]*Product, error)

	// DecrementStock applies a conditional atomic decrement:
	//
	//	UPDATE products SET stock = stock - qty WHERE id = $1 AND stock >= qty
	//
	// Returns false when the guard failed (insufficient stock), so a
	// concurrent debit can never push stock below zero.
	DecrementStock(ctx context.Context, productID id.ID, quantity int) (bool, error)

	// IncrementStock adds received quantity (supplier deliveries).
	IncrementStock(ctx context.Context, productID id.ID, quantity int) error
}
