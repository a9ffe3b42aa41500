// Package purchases provides the Purchase aggregate: inbound supplier
// orders and the payment history used for accounts payable.
package purchases

import (
	"context"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/ledger"
)

// Purchase represents one inbound stock order from a supplier.
//
// PaidAmount and Status are mutated through reconciliation or through the
// explicit edit path (which re-derives status from the submitted totals).
type Purchase struct {
	ID                id.ID         `db:"id" json:"id"`
	SupplierID        id.ID         `db:"supplier_id" json:"supplierId"`
	InvoiceNumber     string        `db:"invoice_number" json:"invoiceNumber,omitempty"`
	TotalAmount       types.Money   `db:"total_amount" json:"totalAmount"`
	InitialPaidAmount types.Money   `db:"initial_paid_amount" json:"-"`
	PaidAmount        types.Money   `db:"paid_amount" json:"paidAmount"`
	Status            ledger.Status `db:"status" json:"status"`
	PurchaseDate      time.Time     `db:"purchase_date" json:"purchaseDate"`
	DueDate           *time.Time    `db:"due_date" json:"dueDate,omitempty"`
	LastPaidDate      *time.Time    `db:"last_paid_date" json:"lastPaidDate,omitempty"`
	Notes             string        `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updatedAt"`

	// Append-only payment history against this purchase.
	Payments []Payment `db:"-" json:"payments,omitempty"`
}

// Payment is an immutable payment record against a purchase.
type Payment struct {
	ID          id.ID       `db:"id" json:"id"`
	PurchaseID  id.ID       `db:"purchase_id" json:"purchaseId"`
	Amount      types.Money `db:"amount" json:"amount"`
	PaymentDate time.Time   `db:"payment_date" json:"paymentDate"`
	Method      string      `db:"method" json:"method,omitempty"`
	Reference   string      `db:"reference" json:"reference,omitempty"`
	Notes       string      `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// PendingAmount returns the outstanding balance on the purchase.
func (p *Purchase) PendingAmount() types.Money {
	return ledger.PendingAmount(p.TotalAmount, p.PaidAmount)
}

// --- Inputs ---

// CreateInput is the request to record a new purchase.
type CreateInput struct {
	SupplierID    id.ID       `json:"supplierId"`
	InvoiceNumber string      `json:"invoiceNumber"`
	PurchaseDate  *time.Time  `json:"purchaseDate"`
	TotalAmount   types.Money `json:"totalAmount"`
	PaidAmount    types.Money `json:"paidAmount"`
	DueDate       *time.Time  `json:"dueDate"`
	Notes         string      `json:"notes"`
}

// Validate checks purchase creation invariants.
func (in *CreateInput) Validate(ctx context.Context) error {
	if id.IsNil(in.SupplierID) {
		return apperror.NewValidation("supplier ID and total amount are required").
			WithDetail("field", "supplierId")
	}
	if in.TotalAmount.Sign() <= 0 {
		return apperror.NewValidation("supplier ID and total amount are required").
			WithDetail("field", "totalAmount")
	}
	if in.PaidAmount.Sign() < 0 {
		return apperror.NewValidation("amounts cannot be negative").
			WithDetail("field", "paidAmount")
	}
	if in.PaidAmount.GreaterThan(in.TotalAmount) {
		return apperror.NewValidation("paid amount cannot exceed total amount").
			WithDetail("field", "paidAmount")
	}
	return nil
}

// UpdateInput is the request to edit a purchase in place.
type UpdateInput struct {
	SupplierID    *id.ID      `json:"supplierId"`
	InvoiceNumber *string     `json:"invoiceNumber"`
	PurchaseDate  *time.Time  `json:"purchaseDate"`
	TotalAmount   types.Money `json:"totalAmount"`
	PaidAmount    types.Money `json:"paidAmount"`
	DueDate       *time.Time  `json:"dueDate"`
	Notes         *string     `json:"notes"`
}

// Validate checks purchase edit invariants.
func (in *UpdateInput) Validate(ctx context.Context) error {
	if in.TotalAmount.Sign() <= 0 {
		return apperror.NewValidation("total amount is required").
			WithDetail("field", "totalAmount")
	}
	if in.PaidAmount.Sign() < 0 {
		return apperror.NewValidation("amounts cannot be negative").
			WithDetail("field", "paidAmount")
	}
	if in.PaidAmount.GreaterThan(in.TotalAmount) {
		return apperror.NewValidation("paid amount cannot exceed total amount").
			WithDetail("field", "paidAmount")
	}
	return nil
}

// PaymentInput is the request to record a supplier payment.
type PaymentInput struct {
	PurchaseID  id.ID       `json:"purchaseId"`
	Amount      types.Money `json:"amount"`
	PaymentDate *time.Time  `json:"paymentDate"`
	Method      string      `json:"method"`
	Reference   string      `json:"reference"`
	Notes       string      `json:"notes"`
}

// Validate checks payment invariants.
func (in *PaymentInput) Validate(ctx context.Context) error {
	if id.IsNil(in.PurchaseID) {
		return apperror.NewValidation("purchase ID is required").
			WithDetail("field", "purchaseId")
	}
	if in.Amount.Sign() <= 0 {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount")
	}
	return nil
}
