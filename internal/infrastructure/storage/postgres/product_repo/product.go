// Package product_repo provides the PostgreSQL implementation of the
// inventory repository.
package product_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/domain/inventory"
	"pharmapos/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productColumns = []string{
	"id", "name", "stock", "selling_price", "purchase_price",
	"category_id", "shelf_id", "expiry_date", "created_at", "updated_at",
}

// ProductRepo implements inventory.Repository.
type ProductRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a product.
func (r *ProductRepo) Create(ctx context.Context, product *inventory.Product) error {
	q := r.builder.Insert(productsTable).
		Columns(productColumns...).
		Values(
			product.ID, product.Name, product.Stock,
			product.SellingPrice, product.PurchasePrice,
			product.CategoryID, product.ShelfID, product.ExpiryDate,
			product.CreatedAt, product.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*inventory.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var product inventory.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &product, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

// GetForUpdate retrieves a product with a pessimistic row lock.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*inventory.Product, error) {
	sql := `
		SELECT id, name, stock, selling_price, purchase_price,
		       category_id, shelf_id, expiry_date, created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var product inventory.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &product, sql, productID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return &product, nil
}

// Update writes product attributes. Stock is excluded: stock changes go
// through DecrementStock / IncrementStock only.
func (r *ProductRepo) Update(ctx context.Context, product *inventory.Product) error {
	q := r.builder.Update(productsTable).
		Set("name", product.Name).
		Set("selling_price", product.SellingPrice).
		Set("purchase_price", product.PurchasePrice).
		Set("category_id", product.CategoryID).
		Set("shelf_id", product.ShelfID).
		Set("expiry_date", product.ExpiryDate).
		Set("updated_at", product.UpdatedAt).
		Where(squirrel.Eq{"id": product.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", product.ID.String())
	}
	return nil
}

// Delete removes a product.
func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	q := r.builder.Delete(productsTable).Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

// List retrieves products with filtering.
func (r *ProductRepo) List(ctx context.Context, filter inventory.ListFilter) ([]*inventory.Product, error) {
	q := r.builder.Select(productColumns...).From(productsTable)

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}
	if filter.CategoryID != nil {
		q = q.Where(squirrel.Eq{"category_id": *filter.CategoryID})
	}
	if filter.ShelfID != nil {
		q = q.Where(squirrel.Eq{"shelf_id": *filter.ShelfID})
	}
	if filter.InStockOnly {
		q = q.Where(squirrel.Gt{"stock": 0})
	}

	q = q.OrderBy("name")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []*inventory.Product
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &products, sql, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return products, nil
}

// DecrementStock applies a conditional stock decrement. The WHERE guard
// makes the decrement atomic: when another transaction has taken the stock
// first, no row matches and ok is false.
func (r *ProductRepo) DecrementStock(ctx context.Context, productID id.ID, quantity int) (bool, error) {
	sql := `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
	`

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, productID, quantity)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementStock adds delivered quantity.
func (r *ProductRepo) IncrementStock(ctx context.Context, productID id.ID, quantity int) error {
	sql := `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, productID, quantity)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

// Ensure interface compliance.
var _ inventory.Repository = (*ProductRepo)(nil)
