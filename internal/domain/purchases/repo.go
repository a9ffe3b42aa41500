package purchases

import (
	"context"
	"time"

	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/ledger"
)

// ListFilter contains filtering options for purchase queries.
type ListFilter struct {
	SupplierID *id.ID
	Status     *ledger.Status
	FromDate   *time.Time
	ToDate     *time.Time

	Limit  int
	Offset int
}

// BalanceUpdate carries the reconciled fields written back to a purchase.
type BalanceUpdate struct {
	PaidAmount   types.Money
	Status       ledger.Status
	LastPaidDate *time.Time
}

// Repository defines persistence operations for purchases.
type Repository interface {
	Create(ctx context.Context, purchase *Purchase) error

	GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error)

	// GetForUpdate retrieves a purchase with a row lock for reconciliation.
	GetForUpdate(ctx context.Context, purchaseID id.ID) (*Purchase, error)

	// Update writes the editable fields (edit-in-place path).
	Update(ctx context.Context, purchase *Purchase) error

	// UpdateBalance persists the reconciled paid amount and status.
	UpdateBalance(ctx context.Context, purchaseID id.ID, update BalanceUpdate) error

	Delete(ctx context.Context, purchaseID id.ID) error

	List(ctx context.Context, filter ListFilter) ([]*Purchase, error)

	// CreatePayment appends an immutable payment record.
	CreatePayment(ctx context.Context, payment *Payment) error

	// SumPayments returns the aggregate of all payments for a purchase.
	SumPayments(ctx context.Context, purchaseID id.ID) (types.Money, error)

	// ListPayments returns payment history, newest first.
	ListPayments(ctx context.Context, purchaseID id.ID) ([]Payment, error)
}
