// Package sales provides the Sale aggregate: point-of-sale transactions,
// their line items, and the due-payment history used for accounts receivable.
package sales

import (
	"context"
	"strings"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/ledger"
)

// Sale represents one point-of-sale transaction.
//
// PaidAmount, Status and HasDue are mutated only through reconciliation;
// InitialPaidAmount is the amount taken at the counter and acts as the
// implicit payment #0 when aggregating the payment history.
type Sale struct {
	ID                id.ID         `db:"id" json:"id"`
	Total             types.Money   `db:"total" json:"total"`
	Discount          types.Money   `db:"discount" json:"discount"`
	InitialPaidAmount types.Money   `db:"initial_paid_amount" json:"-"`
	PaidAmount        types.Money   `db:"paid_amount" json:"paidAmount"`
	Status            ledger.Status `db:"status" json:"status"`
	HasDue            bool          `db:"has_due" json:"hasDue"`
	CustomerID        *id.ID        `db:"customer_id" json:"customerId,omitempty"`
	UserID            id.ID         `db:"user_id" json:"userId"`
	CreatedAt         time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updatedAt"`

	// Table part: sold items, immutable once created.
	Items []SaleItem `db:"-" json:"items"`

	// Append-only payment history against this sale.
	DuePayments []DuePayment `db:"-" json:"duePayments,omitempty"`
}

// SaleItem is one sold line. Never mutated after the sale is created.
type SaleItem struct {
	ID        id.ID       `db:"id" json:"id"`
	SaleID    id.ID       `db:"sale_id" json:"saleId"`
	ProductID id.ID       `db:"product_id" json:"productId"`
	Quantity  int         `db:"quantity" json:"quantity"`
	Price     types.Money `db:"price" json:"price"`
}

// DuePayment is an immutable payment record against a sale.
// Created once, never mutated or deleted.
type DuePayment struct {
	ID          id.ID       `db:"id" json:"id"`
	SaleID      id.ID       `db:"sale_id" json:"saleId"`
	Amount      types.Money `db:"amount" json:"amount"`
	PaymentDate time.Time   `db:"payment_date" json:"paymentDate"`
	Method      string      `db:"method" json:"method,omitempty"`
	Reference   string      `db:"reference" json:"reference,omitempty"`
	Notes       string      `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// Customer is a walk-in customer captured at the counter.
type Customer struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name,omitempty"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// PendingAmount returns the outstanding balance on the sale.
func (s *Sale) PendingAmount() types.Money {
	return ledger.PendingAmount(s.Total, s.PaidAmount)
}

// --- Inputs ---

// CreateItemInput is one requested line of a new sale.
type CreateItemInput struct {
	ProductID id.ID       `json:"productId"`
	Quantity  int         `json:"quantity"`
	Price     types.Money `json:"price"`
}

// CreateCustomerInput captures an optional walk-in customer.
type CreateCustomerInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateInput is the request to record a new sale.
type CreateInput struct {
	Items      []CreateItemInput    `json:"items"`
	Total      types.Money          `json:"total"`
	Discount   types.Money          `json:"discount"`
	PaidAmount types.Money          `json:"paidAmount"`
	Customer   *CreateCustomerInput `json:"customer"`
}

// Validate checks sale creation invariants before any mutation.
func (in *CreateInput) Validate(ctx context.Context) error {
	if len(in.Items) == 0 {
		return apperror.NewValidation("no items provided").
			WithDetail("field", "items")
	}

	for i, item := range in.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.Price.Sign() < 0 {
			return apperror.NewValidation("price cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	if in.Total.Sign() <= 0 {
		return apperror.NewValidation("invalid total amount").
			WithDetail("field", "total")
	}
	if in.Discount.Sign() < 0 {
		return apperror.NewValidation("discount cannot be negative").
			WithDetail("field", "discount")
	}
	if in.PaidAmount.Sign() < 0 {
		return apperror.NewValidation("invalid payment amount").
			WithDetail("field", "paidAmount")
	}
	if in.PaidAmount.GreaterThan(in.Total) {
		return apperror.NewValidation("payment amount cannot exceed total amount").
			WithDetail("field", "paidAmount")
	}

	if in.Customer != nil && strings.TrimSpace(in.Customer.Phone) == "" {
		return apperror.NewValidation("customer phone is required").
			WithDetail("field", "customer.phone")
	}

	return nil
}

// PaymentInput is the request to record a due payment against a sale.
type PaymentInput struct {
	SaleID      id.ID       `json:"saleId"`
	Amount      types.Money `json:"amount"`
	PaymentDate *time.Time  `json:"paymentDate"`
	Method      string      `json:"method"`
	Reference   string      `json:"reference"`
	Notes       string      `json:"notes"`
}

// Validate checks payment invariants.
func (in *PaymentInput) Validate(ctx context.Context) error {
	if id.IsNil(in.SaleID) {
		return apperror.NewValidation("sale ID is required").
			WithDetail("field", "saleId")
	}
	if in.Amount.Sign() <= 0 {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount")
	}
	return nil
}
