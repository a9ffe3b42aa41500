// Package purchase_repo provides the PostgreSQL implementation of the
// purchases repository.
package purchase_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/purchases"
	"pharmapos/internal/infrastructure/storage/postgres"
)

const (
	purchasesTable = "purchases"
	paymentsTable  = "purchase_payments"
)

var purchaseColumns = []string{
	"id", "supplier_id", "invoice_number", "total_amount",
	"initial_paid_amount", "paid_amount", "status",
	"purchase_date", "due_date", "last_paid_date", "notes",
	"created_at", "updated_at",
}

// PurchaseRepo implements purchases.Repository.
type PurchaseRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txm *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a purchase row.
func (r *PurchaseRepo) Create(ctx context.Context, purchase *purchases.Purchase) error {
	q := r.builder.Insert(purchasesTable).
		Columns(purchaseColumns...).
		Values(
			purchase.ID, purchase.SupplierID, purchase.InvoiceNumber,
			purchase.TotalAmount, purchase.InitialPaidAmount, purchase.PaidAmount,
			purchase.Status, purchase.PurchaseDate, purchase.DueDate,
			purchase.LastPaidDate, purchase.Notes,
			purchase.CreatedAt, purchase.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// GetByID retrieves a purchase by ID.
func (r *PurchaseRepo) GetByID(ctx context.Context, purchaseID id.ID) (*purchases.Purchase, error) {
	q := r.builder.Select(purchaseColumns...).
		From(purchasesTable).
		Where(squirrel.Eq{"id": purchaseID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var purchase purchases.Purchase
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &purchase, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase", purchaseID.String())
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &purchase, nil
}

// GetForUpdate retrieves a purchase with a pessimistic row lock.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, purchaseID id.ID) (*purchases.Purchase, error) {
	sql := `
		SELECT id, supplier_id, invoice_number, total_amount,
		       initial_paid_amount, paid_amount, status,
		       purchase_date, due_date, last_paid_date, notes,
		       created_at, updated_at
		FROM purchases
		WHERE id = $1
		FOR UPDATE
	`

	var purchase purchases.Purchase
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &purchase, sql, purchaseID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase", purchaseID.String())
		}
		return nil, fmt.Errorf("get purchase for update: %w", err)
	}
	return &purchase, nil
}

// Update writes the editable fields of a purchase.
func (r *PurchaseRepo) Update(ctx context.Context, purchase *purchases.Purchase) error {
	q := r.builder.Update(purchasesTable).
		Set("supplier_id", purchase.SupplierID).
		Set("invoice_number", purchase.InvoiceNumber).
		Set("total_amount", purchase.TotalAmount).
		Set("initial_paid_amount", purchase.InitialPaidAmount).
		Set("paid_amount", purchase.PaidAmount).
		Set("status", purchase.Status).
		Set("purchase_date", purchase.PurchaseDate).
		Set("due_date", purchase.DueDate).
		Set("notes", purchase.Notes).
		Set("updated_at", purchase.UpdatedAt).
		Where(squirrel.Eq{"id": purchase.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase", purchase.ID.String())
	}
	return nil
}

// UpdateBalance persists the reconciled balance fields.
func (r *PurchaseRepo) UpdateBalance(ctx context.Context, purchaseID id.ID, update purchases.BalanceUpdate) error {
	q := r.builder.Update(purchasesTable).
		Set("paid_amount", update.PaidAmount).
		Set("status", update.Status).
		Set("last_paid_date", update.LastPaidDate).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": purchaseID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase", purchaseID.String())
	}
	return nil
}

// Delete removes a purchase. Payment history rows go with it via the
// foreign key cascade.
func (r *PurchaseRepo) Delete(ctx context.Context, purchaseID id.ID) error {
	q := r.builder.Delete(purchasesTable).Where(squirrel.Eq{"id": purchaseID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase", purchaseID.String())
	}
	return nil
}

// List retrieves purchases with filtering.
func (r *PurchaseRepo) List(ctx context.Context, filter purchases.ListFilter) ([]*purchases.Purchase, error) {
	q := r.builder.Select(purchaseColumns...).From(purchasesTable)

	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"purchase_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"purchase_date": *filter.ToDate})
	}

	q = q.OrderBy("purchase_date DESC", "created_at DESC")

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

	var list []*purchases.Purchase
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select purchases: %w", err)
	}
	return list, nil
}

// CreatePayment appends an immutable payment record.
func (r *PurchaseRepo) CreatePayment(ctx context.Context, payment *purchases.Payment) error {
	q := r.builder.Insert(paymentsTable).
		Columns("id", "purchase_id", "amount", "payment_date", "method", "reference", "notes", "created_at").
		Values(
			payment.ID, payment.PurchaseID, payment.Amount, payment.PaymentDate,
			payment.Method, payment.Reference, payment.Notes, payment.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// SumPayments aggregates the payment history of a purchase.
func (r *PurchaseRepo) SumPayments(ctx context.Context, purchaseID id.ID) (types.Money, error) {
	sql := `
		SELECT COALESCE(SUM(amount), 0)
		FROM purchase_payments
		WHERE purchase_id = $1
	`

	var sum types.Money
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, purchaseID).Scan(&sum); err != nil {
		return types.Zero(), fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}

// ListPayments returns payment history, newest first.
func (r *PurchaseRepo) ListPayments(ctx context.Context, purchaseID id.ID) ([]purchases.Payment, error) {
	q := r.builder.Select("id", "purchase_id", "amount", "payment_date", "method", "reference", "notes", "created_at").
		From(paymentsTable).
		Where(squirrel.Eq{"purchase_id": purchaseID}).
		OrderBy("payment_date DESC", "created_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var payments []purchases.Payment
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("select payments: %w", err)
	}
	return payments, nil
}

// Ensure interface compliance.
var _ purchases.Repository = (*PurchaseRepo)(nil)
