package sales

import (
	"context"
	"fmt"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/appctx"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/tx"
	"pharmapos/internal/domain/inventory"
	"pharmapos/internal/domain/ledger"
	"pharmapos/pkg/logger"
)

// StockDebiter validates and applies stock decrements within the caller's
// transaction. Implemented by the inventory service.
type StockDebiter interface {
	DebitStock(ctx context.Context, lines []inventory.DebitLine) error
}

// Service provides business operations for sales and due payments.
type Service struct {
	repo      Repository
	stock     StockDebiter
	txManager tx.Manager
}

// NewService creates a new sales service.
func NewService(repo Repository, stock StockDebiter, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		txManager: txManager,
	}
}

// Create records a new sale: optional walk-in customer, line items, stock
// debits and the initial balance — all inside one transaction. If any step
// fails, no sale row, item row or stock change survives.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Sale, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	userID, err := id.Parse(appctx.GetUserID(ctx))
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid session")
	}

	status, paidAmount := ledger.DeriveStatus(in.PaidAmount, in.Total)

	// A partially paid walk-in sale is automatically enrolled in due
	// tracking; fully paid or fully unpaid sales start without it.
	hasDue := status == ledger.StatusPartial

	now := time.Now().UTC()
	sale := &Sale{
		ID:                id.New(),
		Total:             in.Total,
		Discount:          in.Discount,
		InitialPaidAmount: paidAmount,
		PaidAmount:        paidAmount,
		Status:            status,
		HasDue:            hasDue,
		UserID:            userID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	lines := make([]inventory.DebitLine, 0, len(in.Items))
	for _, item := range in.Items {
		sale.Items = append(sale.Items, SaleItem{
			ID:        id.New(),
			SaleID:    sale.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
		lines = append(lines, inventory.DebitLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if in.Customer != nil {
			customer := &Customer{
				ID:        id.New(),
				Name:      in.Customer.Name,
				Phone:     in.Customer.Phone,
				Address:   in.Customer.Address,
				CreatedAt: now,
			}
			if err := s.repo.CreateCustomer(ctx, customer); err != nil {
				return fmt.Errorf("create customer: %w", err)
			}
			sale.CustomerID = &customer.ID
		}

		if err := s.stock.DebitStock(ctx, lines); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		if err := s.repo.SaveItems(ctx, sale.ID, sale.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale created",
		"id", sale.ID,
		"total", sale.Total,
		"status", sale.Status,
		"has_due", sale.HasDue,
	)
	return sale, nil
}

// RecordDuePayment appends an immutable due payment and reconciles the
// sale's balance. The payment insert and the balance update are one
// all-or-nothing transaction: a payment row is never visible without its
// corresponding balance update.
//
// The aggregate paid amount is InitialPaidAmount + SUM(due payments); the
// amount taken at the counter acts as the implicit payment #0.
func (s *Service) RecordDuePayment(ctx context.Context, in PaymentInput) (*DuePayment, *Sale, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, nil, err
	}

	paymentDate := time.Now().UTC()
	if in.PaymentDate != nil {
		paymentDate = *in.PaymentDate
	}

	payment := &DuePayment{
		ID:          id.New(),
		SaleID:      in.SaleID,
		Amount:      in.Amount,
		PaymentDate: paymentDate,
		Method:      in.Method,
		Reference:   in.Reference,
		Notes:       in.Notes,
		CreatedAt:   time.Now().UTC(),
	}

	var sale *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.repo.GetForUpdate(ctx, in.SaleID)
		if err != nil {
			return err
		}

		// Fully settled sales accept no further payments.
		if sale.Status == ledger.StatusPaid {
			return apperror.NewValidation("sale is already fully paid").
				WithDetail("saleId", sale.ID.String())
		}

		if err := s.repo.CreateDuePayment(ctx, payment); err != nil {
			return fmt.Errorf("create due payment: %w", err)
		}

		historyTotal, err := s.repo.SumDuePayments(ctx, in.SaleID)
		if err != nil {
			return fmt.Errorf("sum due payments: %w", err)
		}

		aggregate := sale.InitialPaidAmount.Add(historyTotal)
		status, paidAmount := ledger.DeriveStatus(aggregate, sale.Total)
		hasDue := status == ledger.StatusPartial

		update := BalanceUpdate{
			PaidAmount: paidAmount,
			Status:     status,
			HasDue:     hasDue,
		}
		if err := s.repo.UpdateBalance(ctx, sale.ID, update); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		sale.PaidAmount = paidAmount
		sale.Status = status
		sale.HasDue = hasDue
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "due payment recorded",
		"sale_id", sale.ID,
		"amount", payment.Amount,
		"status", sale.Status,
	)
	return payment, sale, nil
}

// FlagDue enrolls a sale in the due-payment collection workflow.
func (s *Service) FlagDue(ctx context.Context, saleID id.ID) (*Sale, error) {
	var sale *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.repo.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if err := s.repo.SetHasDue(ctx, saleID, true); err != nil {
			return fmt.Errorf("set has_due: %w", err)
		}
		sale.HasDue = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale flagged for due tracking", "sale_id", saleID)
	return sale, nil
}

// GetByID retrieves a sale with its items and payment history.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	sale, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	sale.Items = items

	payments, err := s.repo.ListDuePayments(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("list due payments: %w", err)
	}
	sale.DuePayments = payments

	return sale, nil
}

// List retrieves sales with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// ListDues retrieves sales enrolled in due tracking, optionally narrowed by
// status, with payment history attached.
func (s *Service) ListDues(ctx context.Context, status *ledger.Status) ([]*Sale, error) {
	hasDue := true
	filter := ListFilter{
		HasDue: &hasDue,
		Status: status,
		Limit:  500,
	}

	dues, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	for _, sale := range dues {
		payments, err := s.repo.ListDuePayments(ctx, sale.ID)
		if err != nil {
			return nil, fmt.Errorf("list due payments for %s: %w", sale.ID, err)
		}
		sale.DuePayments = payments
	}

	return dues, nil
}

// ListDuePayments returns the payment history for a sale, newest first.
func (s *Service) ListDuePayments(ctx context.Context, saleID id.ID) ([]DuePayment, error) {
	if _, err := s.repo.GetByID(ctx, saleID); err != nil {
		return nil, err
	}
	return s.repo.ListDuePayments(ctx, saleID)
}
