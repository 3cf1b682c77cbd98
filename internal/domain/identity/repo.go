package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists staff accounts. Implementations return ErrNotFound
// for lookups that match no row.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ListByRole(ctx context.Context, role Role) ([]*User, error)
}
