package shelf

import (
	"context"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/tx"
	"pharmapos/pkg/logger"
)

// Service provides business logic for the shelf catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new shelf service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create adds a new shelf. Names are unique.
func (s *Service) Create(ctx context.Context, in Input) (*Shelf, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.checkNameUnique(ctx, in.Name, id.Nil()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	shelf := &Shelf{
		ID:          id.New(),
		Name:        in.Name,
		Location:    in.Location,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, shelf)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "shelf created", "id", shelf.ID, "name", shelf.Name)
	return shelf, nil
}

// Update edits a shelf.
func (s *Service) Update(ctx context.Context, shelfID id.ID, in Input) (*Shelf, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.checkNameUnique(ctx, in.Name, shelfID); err != nil {
		return nil, err
	}

	var shelf *Shelf
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		shelf, err = s.repo.GetByID(ctx, shelfID)
		if err != nil {
			return err
		}
		shelf.Name = in.Name
		shelf.Location = in.Location
		shelf.Description = in.Description
		shelf.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, shelf)
	})
	if err != nil {
		return nil, err
	}

	return shelf, nil
}

// Delete removes a shelf.
func (s *Service) Delete(ctx context.Context, shelfID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, shelfID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, shelfID)
	})
}

// GetByID retrieves a shelf.
func (s *Service) GetByID(ctx context.Context, shelfID id.ID) (*Shelf, error) {
	return s.repo.GetByID(ctx, shelfID)
}

// List retrieves all shelves ordered by name.
func (s *Service) List(ctx context.Context) ([]*Shelf, error) {
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
		return apperror.NewDuplicate("shelf", "name", name).
			WithDetail("name", name)
	}
	return nil
}
