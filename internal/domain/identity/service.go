package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

var (
	// ErrInvalid marks validation failures (400).
	ErrInvalid = errors.New("validation failed")
	// ErrNotFound marks lookups that matched no user (404).
	ErrNotFound = errors.New("user not found")
	// ErrConflict marks username/email collisions (409).
	ErrConflict = errors.New("already in use")
	// ErrCredentials marks failed logins (401).
	ErrCredentials = errors.New("invalid credentials")
)

const minPasswordLen = 6

// RegisterInput is the payload for creating a staff account.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Service implements registration, login, password reset and user lookups.
type Service struct {
	users  UserRepository
	issuer *auth.Issuer
}

func NewService(users UserRepository, issuer *auth.Issuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// Register creates a staff account and returns it with a fresh access token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, "", fmt.Errorf("%w: username, email, password and role are required", ErrInvalid)
	}
	if len(in.Password) < minPasswordLen {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, minPasswordLen)
	}
	if !in.Role.Valid() {
		return nil, "", fmt.Errorf("%w: unknown role %q", ErrInvalid, in.Role)
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, "", fmt.Errorf("username %w", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", err
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", fmt.Errorf("email %w", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	u := &User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(u.ID, u.Username, u.Email, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies the credentials and returns the user with a fresh access
// token. Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username and password are required", ErrInvalid)
	}

	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrCredentials
	}

	token, err := s.issuer.Issue(u.ID, u.Username, u.Email, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ResetPassword replaces the password of the account registered under email.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	if email == "" || newPassword == "" {
		return fmt.Errorf("%w: email and new password are required", ErrInvalid)
	}
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, minPasswordLen)
	}

	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, u.ID, hash)
}

// GetUser returns the user with the given id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// ListClinicians returns all clinician accounts in reference form, for
// populating appointment forms.
func (s *Service) ListClinicians(ctx context.Context) ([]UserRef, error) {
	users, err := s.users.ListByRole(ctx, RoleClinician)
	if err != nil {
		return nil, err
	}
	refs := make([]UserRef, 0, len(users))
	for _, u := range users {
		refs = append(refs, u.Ref())
	}
	return refs, nil
}
