// Package supplier provides the supplier catalog and the per-supplier
// purchase summary used on the accounts payable screens.
package supplier

import (
	"context"
	"strings"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
)

// Supplier is a vendor from whom stock is purchased.
type Supplier struct {
	ID            id.ID     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	ContactPerson string    `db:"contact_person" json:"contactPerson,omitempty"`
	Phone         string    `db:"phone" json:"phone,omitempty"`
	Email         string    `db:"email" json:"email,omitempty"`
	Address       string    `db:"address" json:"address,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Summary aggregates the supplier's purchase ledger.
type Summary struct {
	TotalPurchases int         `db:"total_purchases" json:"totalPurchases"`
	TotalAmount    types.Money `db:"total_amount" json:"totalAmount"`
	TotalPaid      types.Money `db:"total_paid" json:"totalPaid"`
	TotalPending   types.Money `db:"total_pending" json:"totalPending"`
}

// WithSummary is a supplier joined with its purchase summary.
type WithSummary struct {
	Supplier
	Summary Summary `json:"summary"`
}

// Input carries the editable fields of a supplier.
type Input struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// Validate checks supplier invariants.
func (in *Input) Validate(ctx context.Context) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperror.NewValidation("supplier name is required").
			WithDetail("field", "name")
	}
	return nil
}
