package sales

import (
	"context"
	"time"

	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/ledger"
)

// ListFilter contains filtering options for sale queries.
type ListFilter struct {
	// FromDate/ToDate bound CreatedAt (inclusive).
	FromDate *time.Time
	ToDate   *time.Time

	// HasDue filters sales enrolled (or not) in due tracking.
	HasDue *bool

	// Status filters by payment status.
	Status *ledger.Status

	Limit  int
	Offset int
}

// BalanceUpdate carries the reconciled fields written back to a sale.
type BalanceUpdate struct {
	PaidAmount types.Money
	Status     ledger.Status
	HasDue     bool
}

// Repository defines persistence operations for sales.
// All mutating methods are expected to run inside a transaction.
type Repository interface {
	Create(ctx context.Context, sale *Sale) error

	// SaveItems inserts the immutable line items for a sale.
	SaveItems(ctx context.Context, saleID id.ID, items []SaleItem) error

	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// GetForUpdate retrieves a sale with a row lock for reconciliation.
	GetForUpdate(ctx context.Context, saleID id.ID) (*Sale, error)

	// UpdateBalance persists the reconciled paid amount, status and due flag.
	// No other code path may write these fields.
	UpdateBalance(ctx context.Context, saleID id.ID, update BalanceUpdate) error

	// SetHasDue enrolls a sale in due tracking.
	SetHasDue(ctx context.Context, saleID id.ID, hasDue bool) error

	List(ctx context.Context, filter ListFilter) ([]*Sale, error)

	GetItems(ctx context.Context, saleID id.ID) ([]SaleItem, error)

	// CreateCustomer inserts a walk-in customer captured with the sale.
	CreateCustomer(ctx context.Context, customer *Customer) error

	// CreateDuePayment appends an immutable payment record.
	CreateDuePayment(ctx context.Context, payment *DuePayment) error

	// SumDuePayments returns the aggregate of all due payments for a sale.
	// This is the authoritative payment history total.
	SumDuePayments(ctx context.Context, saleID id.ID) (types.Money, error)

	// ListDuePayments returns payment history, newest first.
	ListDuePayments(ctx context.Context, saleID id.ID) ([]DuePayment, error)
}
