// Package category provides the product category catalog.
package category

import (
	"context"
	"strings"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
)

// Category groups products for browsing and reporting.
type Category struct {
	ID          id.ID     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Input carries the editable fields of a category.
type Input struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks category invariants.
func (in *Input) Validate(ctx context.Context) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperror.NewValidation("category name is required").
			WithDetail("field", "name")
	}
	return nil
}
