package category

import (
	"context"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/tx"
	"pharmapos/pkg/logger"
)

// Service provides business logic for the category catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create adds a new category. Names are unique.
func (s *Service) Create(ctx context.Context, in Input) (*Category, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.checkNameUnique(ctx, in.Name, id.Nil()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &Category{
		ID:          id.New(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "category created", "id", category.ID, "name", category.Name)
	return category, nil
}

// Update edits a category.
func (s *Service) Update(ctx context.Context, categoryID id.ID, in Input) (*Category, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.checkNameUnique(ctx, in.Name, categoryID); err != nil {
		return nil, err
	}

	var category *Category
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		category, err = s.repo.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		category.Name = in.Name
		category.Description = in.Description
		category.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

// Delete removes a category.
func (s *Service) Delete(ctx context.Context, categoryID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, categoryID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, categoryID)
	})
}

// GetByID retrieves a category.
func (s *Service) GetByID(ctx context.Context, categoryID id.ID) (*Category, error) {
	return s.repo.GetByID(ctx, categoryID)
}

// List retrieves all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
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
		return apperror.NewDuplicate("category", "name", name).
			WithDetail("name", name)
	}
	return nil
}
