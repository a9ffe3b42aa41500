package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/domain/catalogs/supplier"
	"pharmapos/internal/infrastructure/storage/postgres"
)

const suppliersTable = "suppliers"

var supplierColumns = []string{
	"id", "name", "contact_person", "phone", "email", "address",
	"created_at", "updated_at",
}

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txm *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *SupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	q := r.builder.Insert(suppliersTable).
		Columns(supplierColumns...).
		Values(
			s.ID, s.Name, s.ContactPerson, s.Phone, s.Email, s.Address,
			s.CreatedAt, s.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	q := r.builder.Select(supplierColumns...).
		From(suppliersTable).
		Where(squirrel.Eq{"id": supplierID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s supplier.Supplier
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supplier", supplierID.String())
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) FindByName(ctx context.Context, name string) (*supplier.Supplier, error) {
	q := r.builder.Select(supplierColumns...).
		From(suppliersTable).
		Where(squirrel.Eq{"name": name}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s supplier.Supplier
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supplier", name)
		}
		return nil, fmt.Errorf("find supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	q := r.builder.Update(suppliersTable).
		Set("name", s.Name).
		Set("contact_person", s.ContactPerson).
		Set("phone", s.Phone).
		Set("email", s.Email).
		Set("address", s.Address).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", s.ID.String())
	}
	return nil
}

func (r *SupplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	q := r.builder.Delete(suppliersTable).Where(squirrel.Eq{"id": supplierID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", supplierID.String())
	}
	return nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]*supplier.Supplier, error) {
	q := r.builder.Select(supplierColumns...).
		From(suppliersTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []*supplier.Supplier
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select suppliers: %w", err)
	}
	return list, nil
}

// ListWithSummary joins each supplier with the aggregate of its purchases.
func (r *SupplierRepo) ListWithSummary(ctx context.Context) ([]*supplier.WithSummary, error) {
	sql := `
		SELECT s.id, s.name, s.contact_person, s.phone, s.email, s.address,
		       s.created_at, s.updated_at,
		       COUNT(p.id)                                           AS total_purchases,
		       COALESCE(SUM(p.total_amount), 0)                      AS total_amount,
		       COALESCE(SUM(p.paid_amount), 0)                       AS total_paid,
		       COALESCE(SUM(p.total_amount - p.paid_amount), 0)      AS total_pending
		FROM suppliers s
		LEFT JOIN purchases p ON p.supplier_id = s.id
		GROUP BY s.id
		ORDER BY s.name
	`

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("select suppliers with summary: %w", err)
	}
	defer rows.Close()

	var list []*supplier.WithSummary
	for rows.Next() {
		var ws supplier.WithSummary
		if err := rows.Scan(
			&ws.ID, &ws.Name, &ws.ContactPerson, &ws.Phone, &ws.Email, &ws.Address,
			&ws.CreatedAt, &ws.UpdatedAt,
			&ws.Summary.TotalPurchases, &ws.Summary.TotalAmount,
			&ws.Summary.TotalPaid, &ws.Summary.TotalPending,
		); err != nil {
			return nil, fmt.Errorf("scan supplier summary: %w", err)
		}
		list = append(list, &ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate supplier summaries: %w", err)
	}
	return list, nil
}

var _ supplier.Repository = (*SupplierRepo)(nil)
