// Package inventory provides the product catalog and the stock debit engine.
package inventory

import (
	"context"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
)

// Product is a catalog/inventory item.
// Stock is the only mutable shared field; all decrements go through the
// debit engine under a transaction.
type Product struct {
	ID            id.ID       `db:"id" json:"id"`
	Name          string      `db:"name" json:"name"`
	Stock         int         `db:"stock" json:"stock"`
	SellingPrice  types.Money `db:"selling_price" json:"sellingPrice"`
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`
	CategoryID    *id.ID      `db:"category_id" json:"categoryId,omitempty"`
	ShelfID       *id.ID      `db:"shelf_id" json:"shelfId,omitempty"`
	ExpiryDate    *time.Time  `db:"expiry_date" json:"expiryDate,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
}

// NewProduct creates a product with required fields.
func NewProduct(name string, stock int, sellingPrice, purchasePrice types.Money) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:            id.New(),
		Name:          name,
		Stock:         stock,
		SellingPrice:  sellingPrice,
		PurchasePrice: purchasePrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate checks product invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	if p.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").
			WithDetail("field", "stock")
	}
	if p.SellingPrice.Sign() < 0 || p.PurchasePrice.Sign() < 0 {
		return apperror.NewValidation("prices cannot be negative")
	}
	return nil
}

// DebitLine is one requested stock decrement.
type DebitLine struct {
	ProductID id.ID
	Quantity  int
}
