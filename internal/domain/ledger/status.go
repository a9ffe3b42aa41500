// Package ledger provides shared balance arithmetic for monetary entities.
//
// Every code path that mutates a paid/pending balance (sale creation, due
// payments, purchase creation, supplier payments, purchase edits) must route
// through DeriveStatus rather than re-deriving status inline.
package ledger

import (
	"pharmapos/internal/core/types"
)

// Status describes how much of an entity's total has been settled.
type Status string

const (
	// StatusPending means nothing has been paid.
	StatusPending Status = "pending"

	// StatusPartial means some but not all of the total has been paid.
	StatusPartial Status = "partial"

	// StatusPaid means the entity is fully settled.
	StatusPaid Status = "paid"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid:
		return true
	}
	return false
}

// DeriveStatus computes the payment status and the clamped paid amount for
// the given aggregate paid amount against a total. It is a pure function and
// the single point of truth for status derivation:
//
//	paid <= 0          -> (pending, 0)
//	0 < paid < total   -> (partial, paid)
//	paid >= total      -> (paid, total)
//
// Clamping the stored paid amount to exactly total prevents floating
// overpayment drift.
func DeriveStatus(paid, total types.Money) (Status, types.Money) {
	if paid.Sign() <= 0 {
		return StatusPending, types.Zero()
	}
	if paid.GreaterThanOrEqual(total) {
		return StatusPaid, total
	}
	return StatusPartial, paid
}

// PendingAmount returns the outstanding balance, never negative.
func PendingAmount(total, paid types.Money) types.Money {
	pending := total.Sub(paid)
	if pending.Sign() < 0 {
		return types.Zero()
	}
	return pending
}
