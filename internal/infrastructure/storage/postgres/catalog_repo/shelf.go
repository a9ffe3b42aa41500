package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/domain/catalogs/shelf"
	"pharmapos/internal/infrastructure/storage/postgres"
)

const shelvesTable = "shelves"

var shelfColumns = postgres.ExtractDBColumns[shelf.Shelf]()

// ShelfRepo implements shelf.Repository.
type ShelfRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewShelfRepo creates a new shelf repository.
func NewShelfRepo(txm *postgres.TxManager) *ShelfRepo {
	return &ShelfRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ShelfRepo) Create(ctx context.Context, s *shelf.Shelf) error {
	q := r.builder.Insert(shelvesTable).
		Columns("id", "name", "location", "description", "created_at", "updated_at").
		Values(s.ID, s.Name, s.Location, s.Description, s.CreatedAt, s.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert shelf: %w", err)
	}
	return nil
}

func (r *ShelfRepo) GetByID(ctx context.Context, shelfID id.ID) (*shelf.Shelf, error) {
	q := r.builder.Select(shelfColumns...).
		From(shelvesTable).
		Where(squirrel.Eq{"id": shelfID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s shelf.Shelf
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("shelf", shelfID.String())
		}
		return nil, fmt.Errorf("get shelf: %w", err)
	}
	return &s, nil
}

func (r *ShelfRepo) FindByName(ctx context.Context, name string) (*shelf.Shelf, error) {
	q := r.builder.Select(shelfColumns...).
		From(shelvesTable).
		Where(squirrel.Eq{"name": name}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s shelf.Shelf
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("shelf", name)
		}
		return nil, fmt.Errorf("find shelf: %w", err)
	}
	return &s, nil
}

func (r *ShelfRepo) Update(ctx context.Context, s *shelf.Shelf) error {
	q := r.builder.Update(shelvesTable).
		Set("name", s.Name).
		Set("location", s.Location).
		Set("description", s.Description).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update shelf: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("shelf", s.ID.String())
	}
	return nil
}

func (r *ShelfRepo) Delete(ctx context.Context, shelfID id.ID) error {
	q := r.builder.Delete(shelvesTable).Where(squirrel.Eq{"id": shelfID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete shelf: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("shelf", shelfID.String())
	}
	return nil
}

func (r *ShelfRepo) List(ctx context.Context) ([]*shelf.Shelf, error) {
	q := r.builder.Select(shelfColumns...).
		From(shelvesTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []*shelf.Shelf
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select shelves: %w", err)
	}
	return list, nil
}

var _ shelf.Repository = (*ShelfRepo)(nil)
