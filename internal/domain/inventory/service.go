package inventory

import (
	"context"
	"fmt"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/tx"
	"pharmapos/pkg/logger"
)

// Service provides business operations for products and stock.
// Debits are expected to run inside the caller's transaction (the sale
// posting path); CRUD operations manage their own transactions.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new inventory service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// DebitStock validates and applies stock decrements for the given lines.
// Must be called within a transaction.
//
// The pre-check pass covers ALL lines before any debit is applied, so a
// failure on line N never leaves lines 1..N-1 partially debited. The apply
// phase uses conditional decrements as a second guard: a concurrent debit
// that slips between check and apply fails the guard and aborts the whole
// transaction instead of overselling.
func (s *Service) DebitStock(ctx context.Context, lines []DebitLine) error {
	if len(lines) == 0 {
		return apperror.NewValidation("no items provided")
	}

	for i, line := range lines {
		if line.Quantity <= 0 {
			return apperror.NewValidation(fmt.Sprintf("line %d: quantity must be positive", i+1)).
				WithDetail("productId", line.ProductID.String())
		}
	}

	// Pre-check pass: every product must exist and hold enough stock.
	products := make(map[id.ID]*Product, len(lines))
	for _, line := range lines {
		product, err := s.repo.GetForUpdate(ctx, line.ProductID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return err
			}
			return fmt.Errorf("get product %s: %w", line.ProductID, err)
		}
		if product.Stock < line.Quantity {
			return apperror.NewInsufficientStock(product.Name, line.Quantity, product.Stock)
		}
		products[line.ProductID] = product
	}

	// Apply phase: conditional decrements, all-or-nothing with the caller's tx.
	for _, line := range lines {
		ok, err := s.repo.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock for %s: %w", line.ProductID, err)
		}
		if !ok {
			product := products[line.ProductID]
			return apperror.NewInsufficientStock(product.Name, line.Quantity, product.Stock)
		}
	}

	logger.Info(ctx, "stock debited", "lines", len(lines))
	return nil
}

// Create creates a new product.
func (s *Service) Create(ctx context.Context, product *Product) error {
	if err := product.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product created", "id", product.ID, "name", product.Name)
	return nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// Update updates product attributes. Stock changes must go through
// DebitStock / ReceiveStock, never through direct field writes.
func (s *Service) Update(ctx context.Context, product *Product) error {
	if err := product.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, product); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, productID)
	})
}

// List retrieves products with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// ReceiveStock adds quantity for a delivered purchase line.
func (s *Service) ReceiveStock(ctx context.Context, productID id.ID, quantity int) error {
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be positive")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetForUpdate(ctx, productID); err != nil {
			return err
		}
		if err := s.repo.IncrementStock(ctx, productID, quantity); err != nil {
			return fmt.Errorf("increment stock: %w", err)
		}
		return nil
	})
}
