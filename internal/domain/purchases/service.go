package purchases

import (
	"context"
	"fmt"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/tx"
	"pharmapos/internal/domain/ledger"
	"pharmapos/pkg/logger"
)

// Service provides business operations for purchases and supplier payments.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new purchases service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Create records a new purchase. The initial payment status is derived from
// the submitted amounts; the amount paid at creation becomes the implicit
// payment #0 of the reconciliation history.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Purchase, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	status, paidAmount := ledger.DeriveStatus(in.PaidAmount, in.TotalAmount)

	now := time.Now().UTC()
	purchaseDate := now
	if in.PurchaseDate != nil {
		purchaseDate = *in.PurchaseDate
	}

	purchase := &Purchase{
		ID:                id.New(),
		SupplierID:        in.SupplierID,
		InvoiceNumber:     in.InvoiceNumber,
		TotalAmount:       in.TotalAmount,
		InitialPaidAmount: paidAmount,
		PaidAmount:        paidAmount,
		Status:            status,
		PurchaseDate:      purchaseDate,
		DueDate:           in.DueDate,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if paidAmount.Sign() > 0 {
		purchase.LastPaidDate = &purchaseDate
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase created",
		"id", purchase.ID,
		"supplier_id", purchase.SupplierID,
		"total", purchase.TotalAmount,
		"status", purchase.Status,
	)
	return purchase, nil
}

// RecordPayment appends an immutable supplier payment and reconciles the
// purchase's balance. The payment insert and the balance update are one
// all-or-nothing transaction.
//
// The aggregate paid amount is InitialPaidAmount + SUM(payments); the amount
// paid at creation acts as the implicit payment #0.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput) (*Payment, *Purchase, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	paymentDate := now
	if in.PaymentDate != nil {
		paymentDate = *in.PaymentDate
	}

	payment := &Payment{
		ID:          id.New(),
		PurchaseID:  in.PurchaseID,
		Amount:      in.Amount,
		PaymentDate: paymentDate,
		Method:      in.Method,
		Reference:   in.Reference,
		Notes:       in.Notes,
		CreatedAt:   now,
	}

	var purchase *Purchase
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		purchase, err = s.repo.GetForUpdate(ctx, in.PurchaseID)
		if err != nil {
			return err
		}

		// Fully settled purchases accept no further payments.
		if purchase.Status == ledger.StatusPaid {
			return apperror.NewValidation("purchase is already fully paid").
				WithDetail("purchaseId", purchase.ID.String())
		}

		if err := s.repo.CreatePayment(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		historyTotal, err := s.repo.SumPayments(ctx, in.PurchaseID)
		if err != nil {
			return fmt.Errorf("sum payments: %w", err)
		}

		aggregate := purchase.InitialPaidAmount.Add(historyTotal)
		status, paidAmount := ledger.DeriveStatus(aggregate, purchase.TotalAmount)

		update := BalanceUpdate{
			PaidAmount:   paidAmount,
			Status:       status,
			LastPaidDate: &paymentDate,
		}
		if err := s.repo.UpdateBalance(ctx, purchase.ID, update); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		purchase.PaidAmount = paidAmount
		purchase.Status = status
		purchase.LastPaidDate = &paymentDate
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "supplier payment recorded",
		"purchase_id", purchase.ID,
		"amount", payment.Amount,
		"status", purchase.Status,
	)
	return payment, purchase, nil
}

// Update edits a purchase in place. Status is re-derived from the submitted
// totals and overwrites whatever reconciliation produced before; the payment
// history itself is untouched. The submitted paid amount becomes the new
// baseline for future reconciliation.
func (s *Service) Update(ctx context.Context, purchaseID id.ID, in UpdateInput) (*Purchase, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	var purchase *Purchase
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		purchase, err = s.repo.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}

		if in.SupplierID != nil {
			purchase.SupplierID = *in.SupplierID
		}
		if in.InvoiceNumber != nil {
			purchase.InvoiceNumber = *in.InvoiceNumber
		}
		if in.PurchaseDate != nil {
			purchase.PurchaseDate = *in.PurchaseDate
		}
		if in.DueDate != nil {
			purchase.DueDate = in.DueDate
		}
		if in.Notes != nil {
			purchase.Notes = *in.Notes
		}

		status, paidAmount := ledger.DeriveStatus(in.PaidAmount, in.TotalAmount)
		purchase.TotalAmount = in.TotalAmount
		// Re-baseline: subsequent payment aggregation starts from the
		// edited amount, not the original counter amount.
		purchase.InitialPaidAmount = paidAmount
		purchase.PaidAmount = paidAmount
		purchase.Status = status
		purchase.UpdatedAt = time.Now().UTC()

		return s.repo.Update(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase updated",
		"id", purchase.ID,
		"total", purchase.TotalAmount,
		"status", purchase.Status,
	)
	return purchase, nil
}

// Delete removes a purchase and its payment history.
func (s *Service) Delete(ctx context.Context, purchaseID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, purchaseID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, purchaseID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase deleted", "id", purchaseID)
	return nil
}

// GetByID retrieves a purchase with its payment history.
func (s *Service) GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	purchase, err := s.repo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.ListPayments(ctx, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	purchase.Payments = payments

	return purchase, nil
}

// List retrieves purchases with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Purchase, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// ListPayments returns the payment history for a purchase, newest first.
func (s *Service) ListPayments(ctx context.Context, purchaseID id.ID) ([]Payment, error) {
	if _, err := s.repo.GetByID(ctx, purchaseID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, purchaseID)
}
