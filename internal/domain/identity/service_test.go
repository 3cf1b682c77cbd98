package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

type memUserRepo struct {
	users map[uuid.UUID]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memUserRepo) ListByRole(ctx context.Context, role Role) ([]*User, error) {
	var out []*User
	for _, u := range r.users {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func newTestService() (*Service, *memUserRepo) {
	repo := newMemUserRepo()
	issuer := auth.NewIssuer("test-secret", time.Hour)
	return NewService(repo, issuer), repo
}

func validInput() RegisterInput {
	return RegisterInput{
		Username: "frontdesk",
		Email:    "frontdesk@clinic.test",
		Password: "s3cret-pass",
		Role:     RoleReception,
	}
}

func TestRegister_Success(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, token, err := svc.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if u.ID == uuid.Nil {
		t.Error("expected an assigned id")
	}
	if u.PasswordHash == "s3cret-pass" {
		t.Error("password must be hashed")
	}
	if u.Role != RoleReception {
		t.Errorf("expected role RECEPTION, got %s", u.Role)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "a@b.test", Password: "secret1", Role: RoleAdmin},
		{Username: "a", Password: "secret1", Role: RoleAdmin},
		{Username: "a", Email: "a@b.test", Role: RoleAdmin},
		{Username: "a", Email: "a@b.test", Password: "secret1"},
	}
	for i, in := range cases {
		if _, _, err := svc.Register(ctx, in); !errors.Is(err, ErrInvalid) {
			t.Errorf("case %d: expected ErrInvalid, got %v", i, err)
		}
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, _ := newTestService()
	in := validInput()
	in.Password = "abc"

	if _, _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestRegister_UnknownRole(t *testing.T) {
	svc, _ := newTestService()
	in := validInput()
	in.Role = Role("JANITOR")

	if _, _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	in := validInput()
	in.Email = "other@clinic.test"
	if _, _, err := svc.Register(ctx, in); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	in := validInput()
	in.Username = "otheruser"
	if _, _, err := svc.Register(ctx, in); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	u, token, err := svc.Login(ctx, "frontdesk", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if u.Username != "frontdesk" {
		t.Errorf("expected frontdesk, got %s", u.Username)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "frontdesk", "wrong-pass"); !errors.Is(err, ErrCredentials) {
		t.Errorf("expected ErrCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newTestService()

	if _, _, err := svc.Login(context.Background(), "nobody", "whatever"); !errors.Is(err, ErrCredentials) {
		t.Errorf("expected ErrCredentials, got %v", err)
	}
}

func TestResetPassword_Success(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ResetPassword(ctx, "frontdesk@clinic.test", "new-pass-123"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if _, _, err := svc.Login(ctx, "frontdesk", "s3cret-pass"); !errors.Is(err, ErrCredentials) {
		t.Error("old password should no longer work")
	}
	if _, _, err := svc.Login(ctx, "frontdesk", "new-pass-123"); err != nil {
		t.Errorf("new password should work: %v", err)
	}
}

func TestResetPassword_UnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	err := svc.ResetPassword(context.Background(), "ghost@clinic.test", "new-pass-123")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResetPassword_ShortPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := svc.ResetPassword(ctx, "frontdesk@clinic.test", "abc")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestListClinicians_FiltersByRole(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	inputs := []RegisterInput{
		{Username: "drsmith", Email: "drsmith@clinic.test", Password: "secret1", Role: RoleClinician},
		{Username: "drjones", Email: "drjones@clinic.test", Password: "secret1", Role: RoleClinician},
		{Username: "frontdesk", Email: "frontdesk@clinic.test", Password: "secret1", Role: RoleReception},
	}
	for _, in := range inputs {
		if _, _, err := svc.Register(ctx, in); err != nil {
			t.Fatalf("register %s: %v", in.Username, err)
		}
	}

	clinicians, err := svc.ListClinicians(ctx)
	if err != nil {
		t.Fatalf("list clinicians: %v", err)
	}
	if len(clinicians) != 2 {
		t.Fatalf("expected 2 clinicians, got %d", len(clinicians))
	}
	for _, ref := range clinicians {
		if ref.Role != RoleClinician {
			t.Errorf("expected CLINICIAN, got %s", ref.Role)
		}
	}
}
