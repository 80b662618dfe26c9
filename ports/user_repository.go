package ports

import (
	"context"

	"phone8ez/domain/account"
	"phone8ez/domain/core"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// GetByEmail retrieves a user, returning core.ErrUserNotFound when absent
	GetByEmail(ctx context.Context, email core.Email) (*account.User, error)

	// Ensure creates the user with the given role if it does not exist yet and
	// returns the stored record. An existing user's role is left unchanged.
	Ensure(ctx context.Context, email core.Email, role account.Role) (*account.User, error)

	// SetRole changes a user's role
	SetRole(ctx context.Context, email core.Email, role account.Role) error

	// List returns all users, newest first
	List(ctx context.Context) ([]*account.User, error)
}
