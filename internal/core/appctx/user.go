// Package appctx provides request-scoped values extraction.
package appctx

import (
	"context"
)

// Role names used by the authorization layer.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserContext contains authenticated user information.
// Caller identity is explicit per-request context, never process-wide state.
type UserContext struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// IsAdmin checks if the current caller has the admin role.
func IsAdmin(ctx context.Context) bool {
	u := GetUser(ctx)
	return u != nil && u.Role == RoleAdmin
}
