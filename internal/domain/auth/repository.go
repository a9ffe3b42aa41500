package auth

import (
	"context"

	"pharmapos/internal/core/id"
)

// Repository defines user storage operations.
type Repository interface {
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, userID id.ID) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update persists mutable user fields (last login, active flag).
	Update(ctx context.Context, user *User) error

	// Exists checks whether the email is already registered.
	Exists(ctx context.Context, email string) (bool, error)

	List(ctx context.Context) ([]*User, error)
}
