package supplier

import (
	"context"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/tx"
	"pharmapos/pkg/logger"
)

// Service provides business logic for the supplier catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create adds a new supplier. Names are unique.
func (s *Service) Create(ctx context.Context, in Input) (*Supplier, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.checkNameUnique(ctx, in.Name, id.Nil()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	supplier := &Supplier{
		ID:            id.New(),
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "supplier created", "id", supplier.ID, "name", supplier.Name)
	return supplier, nil
}

// Update edits a supplier.
func (s *Service) Update(ctx context.Context, supplierID id.ID, in Input) (*Supplier, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.checkNameUnique(ctx, in.Name, supplierID); err != nil {
		return nil, err
	}

	var supplier *Supplier
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		supplier, err = s.repo.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		supplier.Name = in.Name
		supplier.ContactPerson = in.ContactPerson
		supplier.Phone = in.Phone
		supplier.Email = in.Email
		supplier.Address = in.Address
		supplier.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}

	return supplier, nil
}

// Delete removes a supplier.
func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, supplierID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, supplierID)
	})
}

// GetByID retrieves a supplier.
func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

// List retrieves all suppliers ordered by name.
func (s *Service) List(ctx context.Context) ([]*Supplier, error) {
	return s.repo.List(ctx)
}

// ListWithSummary retrieves suppliers joined with their purchase totals.
func (s *Service) ListWithSummary(ctx context.Context) ([]*WithSummary, error) {
	return s.repo.ListWithSummary(ctx)
}

func (s *Service) checkNameUnique(ctx context.Context, name string, excludeID id.ID) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return apperror.NewDuplicate("supplier", "name", name).
			WithDetail("name", name)
	}
	return nil
}
