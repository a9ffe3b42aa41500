// Package sale_repo provides the PostgreSQL implementation of the sales
// repository.
package sale_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/sales"
	"pharmapos/internal/infrastructure/storage/postgres"
)

const (
	salesTable       = "sales"
	saleItemsTable   = "sale_items"
	duePaymentsTable = "due_payments"
	customersTable   = "customers"
)

var saleColumns = []string{
	"id", "total", "discount", "initial_paid_amount", "paid_amount",
	"status", "has_due", "customer_id", "user_id", "created_at", "updated_at",
}

// SaleRepo implements sales.Repository.
type SaleRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a sale row.
func (r *SaleRepo) Create(ctx context.Context, sale *sales.Sale) error {
	q := r.builder.Insert(salesTable).
		Columns(saleColumns...).
		Values(
			sale.ID, sale.Total, sale.Discount,
			sale.InitialPaidAmount, sale.PaidAmount,
			sale.Status, sale.HasDue, sale.CustomerID, sale.UserID,
			sale.CreatedAt, sale.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// SaveItems batch inserts the sale's line items.
func (r *SaleRepo) SaveItems(ctx context.Context, saleID id.ID, items []sales.SaleItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.builder.Insert(saleItemsTable).
		Columns("id", "sale_id", "product_id", "quantity", "price")

	for _, item := range items {
		q = q.Values(item.ID, saleID, item.ProductID, item.Quantity, item.Price)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

// GetByID retrieves a sale by ID.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	q := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"id": saleID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sale sales.Sale
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &sale, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &sale, nil
}

// GetForUpdate retrieves a sale with a pessimistic row lock.
func (r *SaleRepo) GetForUpdate(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	sql := `
		SELECT id, total, discount, initial_paid_amount, paid_amount,
		       status, has_due, customer_id, user_id, created_at, updated_at
		FROM sales
		WHERE id = $1
		FOR UPDATE
	`

	var sale sales.Sale
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &sale, sql, saleID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, fmt.Errorf("get sale for update: %w", err)
	}
	return &sale, nil
}

// UpdateBalance persists the reconciled balance fields.
func (r *SaleRepo) UpdateBalance(ctx context.Context, saleID id.ID, update sales.BalanceUpdate) error {
	q := r.builder.Update(salesTable).
		Set("paid_amount", update.PaidAmount).
		Set("status", update.Status).
		Set("has_due", update.HasDue).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", saleID.String())
	}
	return nil
}

// SetHasDue toggles due-tracking enrollment.
func (r *SaleRepo) SetHasDue(ctx context.Context, saleID id.ID, hasDue bool) error {
	q := r.builder.Update(salesTable).
		Set("has_due", hasDue).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set has_due: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", saleID.String())
	}
	return nil
}

// List retrieves sales with filtering.
func (r *SaleRepo) List(ctx context.Context, filter sales.ListFilter) ([]*sales.Sale, error) {
	q := r.builder.Select(saleColumns...).From(salesTable)

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}
	if filter.HasDue != nil {
		q = q.Where(squirrel.Eq{"has_due": *filter.HasDue})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	q = q.OrderBy("created_at DESC")

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

	var list []*sales.Sale
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales: %w", err)
	}
	return list, nil
}

// GetItems retrieves the line items of a sale.
func (r *SaleRepo) GetItems(ctx context.Context, saleID id.ID) ([]sales.SaleItem, error) {
	q := r.builder.Select("id", "sale_id", "product_id", "quantity", "price").
		From(saleItemsTable).
		Where(squirrel.Eq{"sale_id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []sales.SaleItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	return items, nil
}

// CreateCustomer inserts a walk-in customer.
func (r *SaleRepo) CreateCustomer(ctx context.Context, customer *sales.Customer) error {
	q := r.builder.Insert(customersTable).
		Columns("id", "name", "phone", "address", "created_at").
		Values(customer.ID, customer.Name, customer.Phone, customer.Address, customer.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// CreateDuePayment appends an immutable payment record.
func (r *SaleRepo) CreateDuePayment(ctx context.Context, payment *sales.DuePayment) error {
	q := r.builder.Insert(duePaymentsTable).
		Columns("id", "sale_id", "amount", "payment_date", "method", "reference", "notes", "created_at").
		Values(
			payment.ID, payment.SaleID, payment.Amount, payment.PaymentDate,
			payment.Method, payment.Reference, payment.Notes, payment.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert due payment: %w", err)
	}
	return nil
}

// SumDuePayments aggregates the payment history of a sale.
func (r *SaleRepo) SumDuePayments(ctx context.Context, saleID id.ID) (types.Money, error) {
	sql := `
		SELECT COALESCE(SUM(amount), 0)
		FROM due_payments
		WHERE sale_id = $1
	`

	var sum types.Money
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, saleID).Scan(&sum); err != nil {
		return types.Zero(), fmt.Errorf("sum due payments: %w", err)
	}
	return sum, nil
}

// ListDuePayments returns payment history, newest first.
func (r *SaleRepo) ListDuePayments(ctx context.Context, saleID id.ID) ([]sales.DuePayment, error) {
	q := r.builder.Select("id", "sale_id", "amount", "payment_date", "method", "reference", "notes", "created_at").
		From(duePaymentsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("payment_date DESC", "created_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var payments []sales.DuePayment
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("select due payments: %w", err)
	}
	return payments, nil
}

// Ensure interface compliance.
var _ sales.Repository = (*SaleRepo)(nil)
