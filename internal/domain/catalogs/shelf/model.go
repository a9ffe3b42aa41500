// Package shelf provides the storage shelf catalog used to locate
// products in the store.
package shelf

import (
	"context"
	"strings"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
)

// Shelf is a physical storage location.
type Shelf struct {
	ID          id.ID     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Location    string    `db:"location" json:"location,omitempty"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Input carries the editable fields of a shelf.
type Input struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Validate checks shelf invariants.
func (in *Input) Validate(ctx context.Context) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperror.NewValidation("shelf name is required").
			WithDetail("field", "name")
	}
	return nil
}
