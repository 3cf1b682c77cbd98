package identity

import (
	"time"

	"github.com/google/uuid"
)

// Role is a staff member's fixed role. Roles are assigned at registration and
// never change.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleReception Role = "RECEPTION"
	RoleClinician Role = "CLINICIAN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleReception, RoleClinician:
		return true
	}
	return false
}

// User is a staff account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRef is the compact user representation embedded in other entities.
type UserRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

// Ref returns the compact reference form of the user.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, Role: u.Role}
}
